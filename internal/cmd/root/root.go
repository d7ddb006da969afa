// Package root assembles the scrollback command tree.
package root

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	messagescmd "github.com/rzbill/scrollback/internal/cmd/messages"
	cfgpkg "github.com/rzbill/scrollback/internal/config"
	"github.com/rzbill/scrollback/internal/runtime"
	"github.com/rzbill/scrollback/internal/source"
	pebblestore "github.com/rzbill/scrollback/internal/storage/pebble"
	logpkg "github.com/rzbill/scrollback/pkg/log"
)

// LogFileName is the viewer's log file inside the data dir.
const LogFileName = "scrollback.log"

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath      string
	dataDir         string
	backend         string
	channel         string
	logLevel        string
	logFormat       string
	fsync           string
	fsyncIntervalMs int

	logger logpkg.Logger
}

// NewRoot constructs the root command and registers every subcommand.
func NewRoot() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:   "scrollback",
		Short: "Scroll through very long message logs in the terminal",
		Long: "Scrollback keeps only the messages near the viewport rendered and streams\n" +
			"the rest from an on-disk store as you scroll.",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", os.Getenv("SCROLLBACK_CONFIG"), "Config file (.json, .yaml)")
	pf.StringVar(&g.dataDir, "data-dir", os.Getenv("SCROLLBACK_DATA_DIR"), "Data directory (if not specified, uses OS-specific application data directory)")
	pf.StringVar(&g.backend, "backend", "", "Storage backend: pebble|sqlite (overrides config)")
	pf.StringVar(&g.channel, "channel", "", "Channel name (overrides config)")
	pf.StringVar(&g.logLevel, "log-level", os.Getenv("SCROLLBACK_LOG_LEVEL"), "Log level: debug|info|warn|error")
	pf.StringVar(&g.logFormat, "log-format", os.Getenv("SCROLLBACK_LOG_FORMAT"), "Log format: text|json (default text)")
	pf.StringVar(&g.fsync, "fsync", "interval", "Pebble fsync mode: always|interval|never")
	pf.IntVar(&g.fsyncIntervalMs, "fsync-interval-ms", 5, "When --fsync=interval, group-commit window in ms")

	rootCmd.AddCommand(
		newInitCommand(g),
		newSeedCommand(g),
		newViewCommand(g),
		newHealthCommand(g),
		newChannelsCommand(g),
		messagescmd.NewCommand(g.openChannel, g.headlessLogger),
	)
	return rootCmd
}

// config resolves file, environment and flag settings, in that order.
func (g *globals) config() (cfgpkg.Config, error) {
	cfg, err := cfgpkg.Load(g.configPath)
	if err != nil {
		return cfgpkg.Config{}, err
	}
	cfgpkg.FromEnv(&cfg)
	if g.backend != "" {
		cfg.Backend = g.backend
	}
	if g.channel != "" {
		cfg.Channel = g.channel
	}
	if err := cfg.Validate(); err != nil {
		return cfgpkg.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (g *globals) resolveDataDir() string {
	if g.dataDir != "" {
		return g.dataDir
	}
	return cfgpkg.DefaultDataDir()
}

func (g *globals) logConfig() *logpkg.Config {
	level := g.logLevel
	if level == "" {
		level = "info"
	}
	return &logpkg.Config{Level: level, Format: g.logFormat}
}

// headlessLogger logs to stderr. Bad settings fall back to info text.
func (g *globals) headlessLogger() logpkg.Logger {
	if g.logger != nil {
		return g.logger
	}
	logger, err := logpkg.ApplyConfig(g.logConfig())
	if err != nil {
		logger = logpkg.NewLogger(
			logpkg.WithLevel(logpkg.InfoLevel),
			logpkg.WithFormatter(&logpkg.TextFormatter{}),
			logpkg.WithOutput(logpkg.NewConsoleOutput()),
		)
		logger.Warn("bad log settings; using defaults", logpkg.Err(err))
	}
	// Redirect standard library logs (used by Pebble) to our logger
	logpkg.RedirectStdLog(logger)
	g.logger = logger
	return logger
}

// fileLogger logs to the data dir, for commands that own the terminal.
func (g *globals) fileLogger() (logpkg.Logger, error) {
	cfg := g.logConfig()
	cfg.Output = "file"
	cfg.File = filepath.Join(g.resolveDataDir(), LogFileName)
	logger, err := logpkg.ApplyConfig(cfg)
	if err != nil {
		return nil, err
	}
	logpkg.RedirectStdLog(logger)
	g.logger = logger
	return logger, nil
}

func (g *globals) openRuntime(logger logpkg.Logger) (*runtime.Runtime, cfgpkg.Config, error) {
	cfg, err := g.config()
	if err != nil {
		return nil, cfgpkg.Config{}, err
	}
	mode, err := pebblestore.ParseFsyncMode(g.fsync)
	if err != nil {
		return nil, cfgpkg.Config{}, fmt.Errorf("invalid --fsync: %w", err)
	}
	rt, err := runtime.Open(runtime.Options{
		Backend:       cfg.Backend,
		DataDir:       g.resolveDataDir(),
		Fsync:         mode,
		FsyncInterval: time.Duration(g.fsyncIntervalMs) * time.Millisecond,
		Config:        cfg,
		Logger:        logger,
	})
	if err != nil {
		return nil, cfgpkg.Config{}, err
	}
	return rt, cfg, nil
}

// openChannel opens the configured channel's store. The returned func closes
// both the store and the runtime.
func (g *globals) openChannel(ctx context.Context) (source.Store, func() error, error) {
	return g.openChannelWith(ctx, g.headlessLogger())
}

func (g *globals) openChannelWith(ctx context.Context, logger logpkg.Logger) (source.Store, func() error, error) {
	rt, cfg, err := g.openRuntime(logger)
	if err != nil {
		return nil, nil, err
	}
	store, err := rt.OpenChannel(ctx, cfg.Channel)
	if err != nil {
		_ = rt.Close()
		return nil, nil, err
	}
	release := func() error { return errors.Join(store.Close(), rt.Close()) }
	return store, release, nil
}
