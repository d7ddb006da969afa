package sqlitestore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rzbill/scrollback/internal/source"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - channels and messages tables
const currentSchemaVersion = 1

// Store owns the SQLite database shared by every channel.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path and applies pragmas and schema.
// Failures are reported as *source.StoreOpenError.
func Open(path string) (*Store, error) {
	wrap := func(err error) error {
		return &source.StoreOpenError{Backend: "sqlite", Path: path, Err: err}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, wrap(err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, wrap(fmt.Errorf("connect: %w", err))
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, wrap(err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, wrap(err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Ping verifies the connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureChannel records name in the channels table. Existing rows are kept.
func (s *Store) EnsureChannel(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO channels (name, created_at_ms) VALUES (?, ?)`,
		name, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("ensure channel %s: %w", name, err)
	}
	return nil
}

// Channels lists channel names in ascending order.
func (s *Store) Channels(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM channels ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query channels: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channels: %w", err)
	}
	return names, nil
}

// Channel returns the message store scoped to name.
func (s *Store) Channel(name string) *Channel {
	return &Channel{db: s.db, name: name}
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema v%d is newer than supported v%d", version, currentSchemaVersion)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
