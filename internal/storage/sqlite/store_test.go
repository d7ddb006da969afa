package sqlitestore

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/scrollback/internal/source"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func collect(t *testing.T, c source.Cursor) []uint64 {
	t.Helper()
	defer c.Close()
	var ids []uint64
	for {
		rec, ok, err := c.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			return ids
		}
		ids = append(ids, rec.ID)
	}
}

func TestOpenAppliesPragmasAndVersion(t *testing.T) {
	s := openTestStore(t)

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestOpenFailureIsStoreOpenError(t *testing.T) {
	// The parent directory does not exist.
	_, err := Open(filepath.Join(t.TempDir(), "missing", "x.db"))
	require.Error(t, err)
	assert.True(t, source.IsOpenError(err))
}

func TestAppendAndCursor(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ch := s.Channel("general")

	ids, err := ch.Append(ctx, []source.Draft{
		{Author: "Ada", Body: "one", AvatarRef: "//a/1"},
		{Author: "Bob", Body: "two"},
		{Author: "Cy", Body: "three"},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)

	more, err := ch.Append(ctx, []source.Draft{{Author: "Di", Body: "four"}})
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, more)

	n, err := ch.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	c, err := ch.OpenCursor(ctx, source.Range{}, source.Prev)
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 3, 2, 1}, collect(t, c))

	c, err = ch.OpenCursor(ctx, source.Range{After: 2}, source.Next)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 4}, collect(t, c))

	c, err = ch.OpenCursor(ctx, source.Range{After: 1, Before: 4}, source.Prev)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 2}, collect(t, c))

	c, err = ch.OpenCursor(ctx, source.Range{After: 2, Before: 3}, source.Next)
	require.NoError(t, err)
	assert.Empty(t, collect(t, c))

	// Ids past the signed range must not wrap into negative bounds.
	c, err = ch.OpenCursor(ctx, source.Range{After: math.MaxInt64 + 1}, source.Next)
	require.NoError(t, err)
	assert.Empty(t, collect(t, c))

	c, err = ch.OpenCursor(ctx, source.Range{After: 2, Before: math.MaxUint64}, source.Prev)
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 3}, collect(t, c))
}

func TestCursorFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ch := s.Channel("general")
	_, err := ch.Append(ctx, []source.Draft{{Author: "Ada", Body: "hello", AvatarRef: "//a/1"}})
	require.NoError(t, err)

	c, err := ch.OpenCursor(ctx, source.Range{}, source.Next)
	require.NoError(t, err)
	defer c.Close()
	rec, ok, err := c.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, source.Record{ID: 1, Author: "Ada", Body: "hello", AvatarRef: "//a/1"}, rec)

	_, ok, err = c.Next(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, _ = c.Next(ctx)
	assert.False(t, ok, "cursor is not restartable")
}

func TestChannelsAreIsolated(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureChannel(ctx, "b"))
	require.NoError(t, s.EnsureChannel(ctx, "a"))
	require.NoError(t, s.EnsureChannel(ctx, "a"))

	names, err := s.Channels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	_, err = s.Channel("a").Append(ctx, []source.Draft{{Author: "x", Body: "y"}})
	require.NoError(t, err)
	ids, err := s.Channel("b").Append(ctx, []source.Draft{{Author: "x", Body: "y"}})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, ids)

	n, err := s.Channel("b").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
