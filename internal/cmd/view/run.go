// Package view runs the interactive viewer: a bubbletea program hosting a
// viewport window over one channel.
package view

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	cfgpkg "github.com/rzbill/scrollback/internal/config"
	"github.com/rzbill/scrollback/internal/feed"
	"github.com/rzbill/scrollback/internal/source"
	"github.com/rzbill/scrollback/internal/tui"
	"github.com/rzbill/scrollback/internal/viewport"
	"github.com/rzbill/scrollback/pkg/log"
)

// Options configures a viewer. Source is required.
type Options struct {
	Source  source.Source
	Channel string
	Config  cfgpkg.Config
	// Filter overrides Config.Filter when set.
	Filter string
	Logger log.Logger

	// Input and Output default to the terminal.
	Input  io.Reader
	Output io.Writer
	// ProgramOptions are appended after the defaults.
	ProgramOptions []tea.ProgramOption
}

// Viewer is a prepared, not yet running, program.
type Viewer struct {
	Program *tea.Program
	Model   *tui.Model
	Window  *viewport.Window
	Status  *tui.Status

	logger log.Logger
}

// New builds the feed, window and program for opts.
func New(ctx context.Context, opts Options) (*Viewer, error) {
	if opts.Source == nil {
		return nil, errors.New("view: no source")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger = logger.WithComponent("view").With(log.Str("channel", opts.Channel))

	filter := opts.Filter
	if filter == "" {
		filter = opts.Config.Filter
	}
	status := &tui.Status{}
	f, err := feed.New(opts.Source,
		feed.WithFilter(filter),
		feed.WithLogger(logger),
		feed.WithErrorHandler(status.Report),
	)
	if err != nil {
		return nil, err
	}

	renderer := tui.NewRenderer(tui.DefaultStyles())
	wopts := viewport.DefaultOptions()
	wopts.Margin = opts.Config.Viewport.Margin
	wopts.ScrollInterval = opts.Config.Viewport.ScrollInterval()
	wopts.PruneDelay = opts.Config.Viewport.PruneDelay()
	wopts.Render = renderer.Render
	wopts.Measure = renderer.Measure
	wopts.Logger = logger
	win := viewport.New(f, wopts)

	title := opts.Channel
	if filter != "" {
		title += " [" + filter + "]"
	}
	model := tui.New(ctx, win, tui.Options{Title: title, Status: status, Logger: logger})

	popts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
	if opts.Input != nil {
		popts = append(popts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		popts = append(popts, tea.WithOutput(opts.Output))
	}
	popts = append(popts, opts.ProgramOptions...)
	p := tea.NewProgram(model, popts...)
	model.Attach(p.Send)

	return &Viewer{Program: p, Model: model, Window: win, Status: status, logger: logger}, nil
}

// Run blocks until the user quits or ctx is cancelled. Cancellation is not
// an error.
func (v *Viewer) Run() error {
	defer v.Window.Close()
	v.logger.Info("viewer started")
	_, err := v.Program.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
		err = nil
	}
	if n, last := v.Status.Last(); last != nil {
		v.logger.Warn("viewer saw load errors", log.Int("count", n), log.Err(last))
	}
	v.logger.Info("viewer stopped", log.Err(err))
	return err
}

// Run builds a viewer for opts and runs it.
func Run(ctx context.Context, opts Options) error {
	v, err := New(ctx, opts)
	if err != nil {
		return err
	}
	return v.Run()
}
