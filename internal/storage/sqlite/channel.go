package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/rzbill/scrollback/internal/source"
)

// Channel is the message log of one channel. It implements source.Store.
type Channel struct {
	db   *sql.DB
	name string
}

var _ source.Store = (*Channel)(nil)

// Name returns the channel name.
func (c *Channel) Name() string { return c.name }

// Append inserts drafts in one transaction, numbering them after the current
// maximum id of the channel.
func (c *Channel) Append(ctx context.Context, drafts []source.Draft) ([]uint64, error) {
	if len(drafts) == 0 {
		return nil, nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	var last int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(id), 0) FROM messages WHERE channel = ?`, c.name).Scan(&last); err != nil {
		return nil, fmt.Errorf("read last id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO messages (channel, id, author, body, avatar) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]uint64, len(drafts))
	for i, d := range drafts {
		last++
		if _, err := stmt.ExecContext(ctx, c.name, last, d.Author, d.Body, d.AvatarRef); err != nil {
			return nil, fmt.Errorf("insert message %d: %w", last, err)
		}
		ids[i] = uint64(last)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}
	return ids, nil
}

// Count returns the number of messages in the channel.
func (c *Channel) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE channel = ?`, c.name).Scan(&n); err != nil {
		return 0, source.ReadError("count", err)
	}
	return n, nil
}

// Close is a no-op; the database belongs to Store.
func (c *Channel) Close() error { return nil }

// OpenCursor runs a range query and returns a cursor that scans one row per
// Next. The rows hold the store's only connection until the cursor is closed.
func (c *Channel) OpenCursor(ctx context.Context, r source.Range, dir source.Direction) (source.Cursor, error) {
	// Stored ids are signed 64-bit; nothing lies above MaxInt64.
	if r.Empty() || r.After >= math.MaxInt64 {
		return &cursor{}, nil
	}
	if r.Before > math.MaxInt64 {
		r.Before = 0
	}
	var q strings.Builder
	args := []any{c.name}
	q.WriteString(`SELECT id, author, body, avatar FROM messages WHERE channel = ?`)
	if r.After != 0 {
		q.WriteString(` AND id > ?`)
		args = append(args, int64(r.After))
	}
	if r.Before != 0 {
		q.WriteString(` AND id < ?`)
		args = append(args, int64(r.Before))
	}
	if dir == source.Prev {
		q.WriteString(` ORDER BY id DESC`)
	} else {
		q.WriteString(` ORDER BY id ASC`)
	}

	rows, err := c.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, source.ReadError("query messages", err)
	}
	return &cursor{rows: rows}, nil
}

type cursor struct {
	rows *sql.Rows
}

func (c *cursor) Next(ctx context.Context) (source.Record, bool, error) {
	if c.rows == nil {
		return source.Record{}, false, nil
	}
	if err := ctx.Err(); err != nil {
		c.Close()
		return source.Record{}, false, err
	}
	if !c.rows.Next() {
		err := c.rows.Err()
		c.Close()
		if err != nil {
			return source.Record{}, false, source.ReadError("iterate messages", err)
		}
		return source.Record{}, false, nil
	}
	var (
		rec source.Record
		id  int64
	)
	if err := c.rows.Scan(&id, &rec.Author, &rec.Body, &rec.AvatarRef); err != nil {
		c.Close()
		return source.Record{}, false, source.ReadError("scan message", err)
	}
	rec.ID = uint64(id)
	return rec, true, nil
}

func (c *cursor) Close() error {
	if c.rows == nil {
		return nil
	}
	err := c.rows.Close()
	c.rows = nil
	return err
}
