package messages

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"

	pebblestore "github.com/rzbill/scrollback/internal/storage/pebble"
	"github.com/rzbill/scrollback/internal/source"
)

// Log is the append-only message log of one channel. It implements
// source.Store.
type Log struct {
	db      *pebblestore.DB
	channel string

	mu     sync.Mutex
	lastID uint64
}

var _ source.Store = (*Log)(nil)

// OpenLog initializes a Log and loads the last id from metadata (if any).
func OpenLog(db *pebblestore.DB, channel string) (*Log, error) {
	l := &Log{db: db, channel: channel}
	meta, err := db.Get(KeyMeta(channel))
	switch {
	case err == nil && len(meta) >= 8:
		l.lastID = binary.BigEndian.Uint64(meta[:8])
	case err != nil && !errors.Is(err, pebblestore.ErrNotFound):
		return nil, source.ReadError("load channel meta", err)
	}
	return l, nil
}

// Channel returns the channel name.
func (l *Log) Channel() string { return l.channel }

// LastID returns the highest id assigned so far, 0 for an empty channel.
func (l *Log) LastID() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastID
}

// Append stores drafts as a single atomic batch and returns their ids.
func (l *Log) Append(ctx context.Context, drafts []source.Draft) ([]uint64, error) {
	if len(drafts) == 0 {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.db.NewBatch()
	defer b.Close()

	ids := make([]uint64, len(drafts))
	next := l.lastID
	for i, d := range drafts {
		next++
		val, err := encodeDraft(d)
		if err != nil {
			return nil, err
		}
		if err := b.Set(KeyEntry(l.channel, next), val, nil); err != nil {
			return nil, err
		}
		ids[i] = next
	}

	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], next)
	if err := b.Set(KeyMeta(l.channel), meta[:], nil); err != nil {
		return nil, err
	}
	if err := l.db.CommitBatch(ctx, b); err != nil {
		return nil, err
	}
	l.lastID = next
	return ids, nil
}

// Count walks the channel keyspace and counts stored messages.
func (l *Log) Count(ctx context.Context) (int, error) {
	it, err := l.db.NewPrefixIter(KeyEntryPrefix(l.channel))
	if err != nil {
		return 0, source.ReadError("count", err)
	}
	defer it.Close()
	n := 0
	for ok := it.First(); ok; ok = it.Next() {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
		n++
	}
	if err := it.Error(); err != nil {
		return n, source.ReadError("count", err)
	}
	return n, nil
}

// Close releases nothing; the database belongs to the runtime.
func (l *Log) Close() error { return nil }
