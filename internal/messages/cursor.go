package messages

import (
	"context"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/rzbill/scrollback/internal/storage/pebble"
	"github.com/rzbill/scrollback/internal/source"
)

// OpenCursor returns a lazy cursor over the messages strictly inside r. The
// underlying iterator is positioned on the first Next call and advanced one
// key per call after that.
func (l *Log) OpenCursor(ctx context.Context, r source.Range, dir source.Direction) (source.Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Empty() {
		return &cursor{done: true}, nil
	}
	prefix := KeyEntryPrefix(l.channel)
	opts := &pebble.IterOptions{LowerBound: prefix, UpperBound: pebblestore.PrefixEnd(prefix)}
	if r.After != 0 {
		opts.LowerBound = KeyEntry(l.channel, r.After+1)
	}
	if r.Before != 0 {
		opts.UpperBound = KeyEntry(l.channel, r.Before)
	}
	it, err := l.db.NewIter(opts)
	if err != nil {
		return nil, source.ReadError("open iterator", err)
	}
	return &cursor{it: it, dir: dir, channel: l.channel, rng: r}, nil
}

type cursor struct {
	it      *pebble.Iterator
	dir     source.Direction
	channel string
	rng     source.Range
	started bool
	done    bool
}

func (c *cursor) Next(ctx context.Context) (source.Record, bool, error) {
	if c.done {
		return source.Record{}, false, nil
	}
	if err := ctx.Err(); err != nil {
		c.finish()
		return source.Record{}, false, err
	}
	if !c.step() {
		err := c.it.Error()
		c.finish()
		if err != nil {
			return source.Record{}, false, source.ReadError("iterate", err)
		}
		return source.Record{}, false, nil
	}
	id, ok := idFromKey(c.it.Key())
	if !ok {
		c.finish()
		return source.Record{}, false, source.ReadError("malformed key", nil)
	}
	rec, err := decodeRecord(id, c.it.Value())
	if err != nil {
		c.finish()
		return source.Record{}, false, source.ReadError("decode message", err)
	}
	return rec, true, nil
}

func (c *cursor) step() bool {
	if c.started {
		if c.dir == source.Prev {
			return c.it.Prev()
		}
		return c.it.Next()
	}
	c.started = true
	if c.dir == source.Prev {
		if c.rng.Before != 0 {
			return c.it.SeekLT(KeyEntry(c.channel, c.rng.Before))
		}
		return c.it.Last()
	}
	if c.rng.After != 0 {
		return c.it.SeekGE(KeyEntry(c.channel, c.rng.After+1))
	}
	return c.it.First()
}

func (c *cursor) finish() {
	c.done = true
	if c.it != nil {
		_ = c.it.Close()
		c.it = nil
	}
}

func (c *cursor) Close() error {
	if c.it == nil {
		c.done = true
		return nil
	}
	err := c.it.Close()
	c.it = nil
	c.done = true
	return err
}
