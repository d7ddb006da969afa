// Package tui hosts a viewport.Window in a bubbletea program.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/rzbill/scrollback/internal/viewport"
	"github.com/rzbill/scrollback/pkg/log"
)

// wheelStep is the number of rows one mouse wheel notch scrolls.
const wheelStep = 3

// chromeRows is the number of terminal rows not given to the window.
const chromeRows = 1

// dispatchMsg carries a timer callback onto the program's event loop.
type dispatchMsg struct{ fn func() }

// Status collects load errors reported by the feed. It is safe for
// concurrent use and never calls back into the window.
type Status struct {
	mu   sync.Mutex
	last error
	n    int
}

// Report records err. It fits feed.WithErrorHandler.
func (s *Status) Report(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = err
	s.n++
}

// Last returns how many errors were reported and the most recent one.
func (s *Status) Last() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n, s.last
}

// Options configures a Model. Zero values get defaults in New.
type Options struct {
	// Title is shown at the left of the status bar.
	Title string
	// Styles defaults to DefaultStyles.
	Styles *Styles
	Status *Status
	Logger log.Logger
}

// Model is the bubbletea model around a window. The window must have been
// built with this model's Renderer, or any render func whose width matches
// the area the model reports through Remeasure.
type Model struct {
	ctx    context.Context
	win    *viewport.Window
	opts   Options
	logger log.Logger

	width   int
	height  int
	ready   bool
	started bool
	quit    bool
}

// New returns a model over win. ctx bounds every load the model triggers.
// The window is started by the first WindowSizeMsg.
func New(ctx context.Context, win *viewport.Window, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	if opts.Status == nil {
		opts.Status = &Status{}
	}
	if opts.Styles == nil {
		s := DefaultStyles()
		opts.Styles = &s
	}
	return &Model{ctx: ctx, win: win, opts: opts, logger: opts.Logger.WithComponent("tui")}
}

// Attach routes the window's timer callbacks through send, typically
// (*tea.Program).Send. send is only ever called from timer goroutines.
func (m *Model) Attach(send func(tea.Msg)) {
	m.win.SetDispatcher(func(fn func()) { send(dispatchMsg{fn: fn}) })
}

// Init implements tea.Model. Nothing loads until the terminal size is known.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchMsg:
		if !m.quit {
			msg.fn()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.win.Remeasure(m.bodyWidth())
		m.win.Resize(m.ctx, m.bodyHeight())
		if !m.started {
			m.started = true
			res := m.win.Start(m.ctx)
			m.logger.Debug("started",
				log.Int("inserted", res.Inserted),
				log.Int("width", m.width),
				log.Int("height", m.height))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.win.ScrollBy(m.ctx, -wheelStep)
		case tea.MouseButtonWheelDown:
			m.win.ScrollBy(m.ctx, wheelStep)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := max(1, m.bodyHeight()-1)
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quit = true
		m.win.Close()
		return m, tea.Quit
	case "j", "down":
		m.win.ScrollBy(m.ctx, 1)
	case "k", "up":
		m.win.ScrollBy(m.ctx, -1)
	case "f", " ", "pgdown":
		m.win.ScrollBy(m.ctx, page)
	case "b", "pgup":
		m.win.ScrollBy(m.ctx, -page)
	case "d", "ctrl+d":
		m.win.ScrollBy(m.ctx, max(1, page/2))
	case "u", "ctrl+u":
		m.win.ScrollBy(m.ctx, -max(1, page/2))
	case "g", "home":
		m.win.Jump(m.ctx, viewport.Top)
	case "G", "end":
		m.win.Jump(m.ctx, viewport.Bottom)
	}
	return m, nil
}

func (m *Model) bodyWidth() int  { return max(0, m.width-1) }
func (m *Model) bodyHeight() int { return max(0, m.height-chromeRows) }

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	if m.quit {
		return ""
	}
	rows := m.win.Rows()
	bar := m.scrollbar(len(rows))
	w := m.bodyWidth()

	var b strings.Builder
	for i, row := range rows {
		line := ansi.Truncate(row.Line, w, "")
		if pad := w - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		b.WriteString(line)
		b.WriteString(bar[i])
		b.WriteByte('\n')
	}
	b.WriteString(m.statusLine())
	return b.String()
}

// scrollbar returns one cell per row. The thumb covers the visible share of
// the content height.
func (m *Model) scrollbar(rows int) []string {
	out := make([]string, rows)
	content := m.win.ContentHeight()
	st := m.win.State().ScrollTop
	thumbTop, thumbLen := 0, rows
	if content > rows && rows > 0 {
		thumbLen = max(1, rows*rows/content)
		thumbTop = st * (rows - thumbLen) / (content - rows)
	}
	for i := range out {
		if i >= thumbTop && i < thumbTop+thumbLen {
			out[i] = m.opts.Styles.Thumb.Render("┃")
		} else {
			out[i] = m.opts.Styles.Track.Render("│")
		}
	}
	return out
}

func (m *Model) statusLine() string {
	st := m.win.State()
	content := m.win.ContentHeight()
	pct := 100
	if span := content - st.ContainerHeight; span > 0 {
		pct = st.ScrollTop * 100 / span
	}
	left := m.opts.Title
	if st.FirstRenderedID != 0 {
		left = fmt.Sprintf("%s  #%d-#%d", left, st.FirstRenderedID, st.LastRenderedID)
	}
	right := fmt.Sprintf("%d/%d %3d%%", st.ScrollTop, content, pct)

	style := m.opts.Styles.Status
	if n, err := m.opts.Status.Last(); err != nil {
		style = m.opts.Styles.StatusErr
		left = fmt.Sprintf("%s  load errors: %d (%v)", left, n, err)
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	line := left + strings.Repeat(" ", max(1, gap)) + right
	return style.Render(ansi.Truncate(line, max(0, m.width), ""))
}
