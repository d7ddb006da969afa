// Package log provides scrollback's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Records are routed through log/slog via
// a bridge handler so that formatting and outputs stay under our control
// while slog-aware code can still be plugged in.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("window"), log.Str("channel", "general"))
//	l.Info("loaded", log.Int("nodes", 42))
//
// # Configuration
//
// ApplyConfig builds a logger from a declarative Config (level, text or JSON
// format, console/file/null output, optional sampling). The interactive
// viewer owns the terminal, so it logs to a file; headless commands log to
// stderr.
//
// # Interop
//
// RedirectStdLog routes the standard library logger (used by Pebble) into a
// Logger.
package log
