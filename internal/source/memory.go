package source

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Store backed by a sorted slice. It serves tests
// and headless tooling that do not need durability.
type Memory struct {
	mu      sync.RWMutex
	records []Record
	lastID  uint64
	closed  bool
}

// NewMemory returns a Memory seeded with recs. Records are sorted by id.
func NewMemory(recs ...Record) *Memory {
	m := &Memory{records: append([]Record(nil), recs...)}
	sort.Slice(m.records, func(i, j int) bool { return m.records[i].ID < m.records[j].ID })
	if n := len(m.records); n > 0 {
		m.lastID = m.records[n-1].ID
	}
	return m
}

// Append implements Appender.
func (m *Memory) Append(_ context.Context, drafts []Draft) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uint64, len(drafts))
	for i, d := range drafts {
		m.lastID++
		m.records = append(m.records, Record{ID: m.lastID, Author: d.Author, Body: d.Body, AvatarRef: d.AvatarRef})
		ids[i] = m.lastID
	}
	return ids, nil
}

// Count implements Store.
func (m *Memory) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// OpenCursor implements Source. The cursor holds only its current position
// and reads one element per step.
func (m *Memory) OpenCursor(_ context.Context, r Range, dir Direction) (Cursor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, &StoreReadError{Detail: "memory store closed"}
	}
	c := &memoryCursor{m: m, r: r, dir: dir}
	if dir == Prev {
		c.pos = len(m.records) - 1
		if r.Before != 0 {
			c.pos = sort.Search(len(m.records), func(i int) bool { return m.records[i].ID >= r.Before }) - 1
		}
	} else {
		c.pos = sort.Search(len(m.records), func(i int) bool { return m.records[i].ID > r.After })
	}
	return c, nil
}

type memoryCursor struct {
	m      *Memory
	r      Range
	dir    Direction
	pos    int
	closed bool
}

func (c *memoryCursor) Next(ctx context.Context) (Record, bool, error) {
	if c.closed {
		return Record{}, false, nil
	}
	if err := ctx.Err(); err != nil {
		return Record{}, false, err
	}
	c.m.mu.RLock()
	defer c.m.mu.RUnlock()
	if c.pos >= 0 && c.pos < len(c.m.records) {
		rec := c.m.records[c.pos]
		if c.r.Contains(rec.ID) {
			if c.dir == Prev {
				c.pos--
			} else {
				c.pos++
			}
			return rec, true, nil
		}
	}
	c.pos = -1
	return Record{}, false, nil
}

func (c *memoryCursor) Close() error {
	c.closed = true
	return nil
}
