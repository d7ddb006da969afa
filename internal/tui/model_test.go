package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/scrollback/internal/feed"
	"github.com/rzbill/scrollback/internal/source"
	"github.com/rzbill/scrollback/internal/testutil"
	"github.com/rzbill/scrollback/internal/viewport"
)

func newTestModel(t *testing.T, n int) (*Model, *viewport.Window, *testutil.FakeClock) {
	t.Helper()
	recs := make([]source.Record, n)
	for i := range recs {
		recs[i] = source.Record{ID: uint64(i + 1), Author: "Ada Lovelace", Body: "hello"}
	}
	f, err := feed.New(source.NewMemory(recs...))
	require.NoError(t, err)

	clock := testutil.NewFakeClock()
	opts := viewport.DefaultOptions()
	opts.Clock = clock
	w := viewport.New(f, opts)
	m := New(context.Background(), w, Options{Title: "general"})
	return m, w, clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// size gives the window ten rows: one terminal row goes to the status bar.
func size(t *testing.T, m *Model) {
	t.Helper()
	_, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 11})
	assert.Nil(t, cmd)
}

func TestViewBeforeSize(t *testing.T) {
	m, w, _ := newTestModel(t, 10)
	assert.Nil(t, m.Init())
	assert.Equal(t, "loading...", m.View())
	assert.Zero(t, w.Len())
}

func TestFirstSizeStartsAtNewest(t *testing.T) {
	m, w, _ := newTestModel(t, 200)
	size(t, m)

	st := w.State()
	assert.Equal(t, 10, st.ContainerHeight)
	assert.Equal(t, uint64(196), st.FirstRenderedID)
	assert.Equal(t, uint64(200), st.LastRenderedID)
	assert.Equal(t, 0, st.ScrollTop)

	view := m.View()
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 11)
	assert.Contains(t, lines[0], "Ada Lovelace: hello")
	assert.Contains(t, lines[10], "general  #196-#200")
}

func TestLaterSizeDoesNotRestart(t *testing.T) {
	m, w, _ := newTestModel(t, 200)
	size(t, m)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 21})

	st := w.State()
	assert.Equal(t, 20, st.ContainerHeight)
	assert.Equal(t, uint64(200), st.LastRenderedID)
	assert.Less(t, st.FirstRenderedID, uint64(196))
}

func TestScrollUpLoadsOlder(t *testing.T) {
	m, w, _ := newTestModel(t, 200)
	size(t, m)

	m.Update(runes("k"))
	st := w.State()
	assert.Equal(t, uint64(191), st.FirstRenderedID)
	// The row that was on top stays on top.
	assert.Equal(t, 10, st.ScrollTop)

	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, 7, w.State().ScrollTop)

	m.Update(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, 7, w.State().ScrollTop)
}

func TestJumpKeys(t *testing.T) {
	m, w, _ := newTestModel(t, 200)
	size(t, m)

	m.Update(runes("g"))
	st := w.State()
	assert.Equal(t, uint64(1), st.FirstRenderedID)
	assert.Equal(t, 0, st.ScrollTop)
	assert.True(t, w.Exhausted(viewport.Top))

	m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	st = w.State()
	assert.Equal(t, uint64(200), st.LastRenderedID)
	assert.True(t, w.Exhausted(viewport.Bottom))
	assert.Equal(t, w.ContentHeight()-10, st.ScrollTop)
}

func TestTimersRunThroughProgram(t *testing.T) {
	m, w, clock := newTestModel(t, 200)
	var sent []tea.Msg
	m.Attach(func(msg tea.Msg) { sent = append(sent, msg) })
	size(t, m)

	m.Update(runes("k"))
	require.Empty(t, sent)

	clock.Advance(100 * time.Millisecond)
	require.Len(t, sent, 2, "throttle release and bottom prune")
	for _, msg := range sent {
		require.IsType(t, dispatchMsg{}, msg)
		_, cmd := m.Update(msg)
		assert.Nil(t, cmd)
	}
	// Every node still touches the viewport, so the prune keeps them all.
	assert.Equal(t, 10, w.Len())
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t, 20)
	size(t, m)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())

	ran := false
	m.Update(dispatchMsg{fn: func() { ran = true }})
	assert.False(t, ran)
}

func TestStatusShowsLoadErrors(t *testing.T) {
	m, _, _ := newTestModel(t, 20)
	size(t, m)

	m.opts.Status.Report(errors.New("boom"))
	view := m.View()
	assert.Contains(t, view, "load errors: 1 (boom)")
}

func TestScrollbarThumb(t *testing.T) {
	m, _, _ := newTestModel(t, 200)
	size(t, m)

	// Content equals the container, so the thumb fills the track.
	bar := m.scrollbar(10)
	for _, cell := range bar {
		assert.Contains(t, cell, "┃")
	}

	m.Update(runes("k"))
	bar = m.scrollbar(10)
	// Twenty rows of content scrolled to the end: the lower half is thumb.
	assert.Contains(t, bar[0], "│")
	assert.Contains(t, bar[9], "┃")
}
