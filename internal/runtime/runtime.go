package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rzbill/scrollback/internal/channel"
	cfgpkg "github.com/rzbill/scrollback/internal/config"
	"github.com/rzbill/scrollback/internal/messages"
	"github.com/rzbill/scrollback/internal/source"
	pebblestore "github.com/rzbill/scrollback/internal/storage/pebble"
	sqlitestore "github.com/rzbill/scrollback/internal/storage/sqlite"
	"github.com/rzbill/scrollback/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	// Backend overrides Config.Backend when set.
	Backend       string
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
	Logger        log.Logger
}

// Runtime wires the selected storage backend and config for one data dir.
type Runtime struct {
	backend string
	dataDir string
	db      *pebblestore.DB
	sql     *sqlitestore.Store
	names   *channel.Validator
	config  cfgpkg.Config
	logger  log.Logger
}

// Open initializes the underlying storage and returns a Runtime. Storage
// failures are returned as *source.StoreOpenError.
func Open(opts Options) (*Runtime, error) {
	backend := opts.Backend
	if backend == "" {
		backend = opts.Config.Backend
	}
	if backend == "" {
		backend = cfgpkg.BackendPebble
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	names, err := channel.NewValidator(opts.Config.ChannelNameRegex)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return nil, &source.StoreOpenError{Backend: backend, Path: opts.DataDir, Err: err}
	}

	rt := &Runtime{
		backend: backend,
		dataDir: opts.DataDir,
		names:   names,
		config:  opts.Config,
		logger:  logger.WithComponent("store"),
	}
	switch backend {
	case cfgpkg.BackendPebble:
		rt.db, err = pebblestore.Open(pebblestore.Options{
			DataDir:       filepath.Join(opts.DataDir, "store"),
			Fsync:         opts.Fsync,
			FsyncInterval: opts.FsyncInterval,
		})
	case cfgpkg.BackendSQLite:
		rt.sql, err = sqlitestore.Open(filepath.Join(opts.DataDir, "scrollback.db"))
	default:
		err = &source.StoreOpenError{Backend: backend, Path: opts.DataDir, Err: errors.New("unknown backend")}
	}
	if err != nil {
		rt.logger.Error("open failed", log.Str("backend", backend), log.Err(err))
		return nil, err
	}
	rt.logger.Debug("opened", log.Str("backend", backend), log.Str("dir", opts.DataDir))
	return rt, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	var err error
	if r.db != nil {
		err = r.db.Close()
		r.db = nil
	}
	if r.sql != nil {
		err = errors.Join(err, r.sql.Close())
		r.sql = nil
	}
	return err
}

// CheckHealth verifies the backend can serve reads.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	switch {
	case r.db != nil:
		it, err := r.db.NewIter(nil)
		if err != nil {
			return err
		}
		return it.Close()
	case r.sql != nil:
		return r.sql.Ping(ctx)
	default:
		return errors.New("store not open")
	}
}

// OpenChannel validates name, records the channel if new, and returns its
// message store.
func (r *Runtime) OpenChannel(ctx context.Context, name string) (source.Store, error) {
	if err := r.names.ValidName(name); err != nil {
		return nil, err
	}
	switch {
	case r.db != nil:
		if _, err := channel.Ensure(r.db, name, r.backend); err != nil {
			return nil, fmt.Errorf("ensure channel %s: %w", name, err)
		}
		return messages.OpenLog(r.db, name)
	case r.sql != nil:
		if err := r.sql.EnsureChannel(ctx, name); err != nil {
			return nil, err
		}
		return r.sql.Channel(name), nil
	default:
		return nil, errors.New("store not open")
	}
}

// Channels lists known channel names.
func (r *Runtime) Channels(ctx context.Context) ([]string, error) {
	if r.sql != nil {
		return r.sql.Channels(ctx)
	}
	if r.db == nil {
		return nil, errors.New("store not open")
	}
	metas, err := channel.List(r.db)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(metas))
	for i, m := range metas {
		names[i] = m.Name
	}
	return names, nil
}

// Backend returns the active backend name.
func (r *Runtime) Backend() string { return r.backend }

// DataDir returns the data directory.
func (r *Runtime) DataDir() string { return r.dataDir }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
