package messages

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/scrollback/internal/source"
	"github.com/rzbill/scrollback/pkg/log"
)

func fixture() *source.Memory {
	return source.NewMemory(
		source.Record{ID: 1, Author: "Ada Lovelace", Body: "Notes on the engine."},
		source.Record{ID: 2, Author: "Alan Turing"},
		source.Record{ID: 3, Author: "Grace Hopper", Body: "First line\nsecond line"},
		source.Record{ID: 4, Author: "Edsger Dijkstra", Body: "Goto considered harmful."},
		source.Record{ID: 5, Author: "Barbara Liskov", Body: "Substitution.", AvatarRef: "//www.gravatar.com/avatar/bl"},
	)
}

func run(t *testing.T, store source.Store, args ...string) (string, error) {
	t.Helper()
	released := false
	open := func(context.Context) (source.Store, func() error, error) {
		return store, func() error { released = true; return nil }, nil
	}
	cmd := NewCommand(open, nil)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		assert.True(t, released, "store released")
	}
	return buf.String(), err
}

func TestListTextGolden(t *testing.T) {
	out, err := run(t, fixture(), "list", "--limit", "0")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "list_text", []byte(out))
}

func TestListReverseBoundedGolden(t *testing.T) {
	out, err := run(t, fixture(), "list", "--reverse", "--after", "1", "--before", "5")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "list_reverse_bounded", []byte(out))
}

func TestListJSON(t *testing.T) {
	out, err := run(t, fixture(), "list", "--format", "json", "--after", "3")
	require.NoError(t, err)

	var got []source.Record
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var rec source.Record
		require.NoError(t, dec.Decode(&rec))
		got = append(got, rec)
	}
	require.Len(t, got, 2)
	assert.Equal(t, uint64(4), got[0].ID)
	assert.Equal(t, "//www.gravatar.com/avatar/bl", got[1].AvatarRef)
}

func TestListLimitAndFilter(t *testing.T) {
	var buf bytes.Buffer
	n, err := List(context.Background(), fixture(), ListOptions{
		Limit:  1,
		Filter: `author.startsWith("A")`,
		Format: "text",
	}, &buf, log.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "#1 Ada Lovelace: Notes on the engine.\n", buf.String())

	buf.Reset()
	n, err = List(context.Background(), fixture(), ListOptions{
		Reverse: true,
		Filter:  `id % 2 == 0`,
		Format:  "text",
	}, &buf, log.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "#4 Edsger Dijkstra: Goto considered harmful.\n#2 Alan Turing\n", buf.String())
}

func TestListRejectsBadInput(t *testing.T) {
	_, err := run(t, fixture(), "list", "--format", "yaml")
	assert.ErrorContains(t, err, "invalid --format")

	_, err = run(t, fixture(), "list", "--filter", "author +")
	assert.Error(t, err)
}

func TestCount(t *testing.T) {
	out, err := run(t, fixture(), "count")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	out, err = run(t, fixture(), "count", "--filter", `body == ""`)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestOpenFailureIsReturned(t *testing.T) {
	boom := &source.StoreOpenError{Backend: "pebble", Path: "/nope", Err: errors.New("locked")}
	cmd := NewCommand(func(context.Context) (source.Store, func() error, error) {
		return nil, nil, boom
	}, nil)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"count"})
	err := cmd.Execute()
	assert.True(t, source.IsOpenError(err))
}
