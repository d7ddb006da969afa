package source

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Record is one stored chat message. Immutable once stored.
type Record struct {
	ID        uint64 `json:"id"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	AvatarRef string `json:"avatar"`
}

// Draft is a record that has not been assigned an id yet.
type Draft struct {
	Author    string `json:"author"`
	Body      string `json:"body"`
	AvatarRef string `json:"avatar"`
}

// Direction is the iteration order of a cursor.
type Direction int

const (
	// Next iterates ids in ascending order.
	Next Direction = iota
	// Prev iterates ids in descending order.
	Prev
)

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// ParseDirection accepts "next" or "prev".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "next", "":
		return Next, nil
	case "prev":
		return Prev, nil
	default:
		return Next, fmt.Errorf("invalid direction %q; use next|prev", s)
	}
}

// Range bounds a cursor. Both bounds are exclusive; zero means unbounded.
type Range struct {
	After  uint64
	Before uint64
}

// Contains reports whether id lies strictly inside r.
func (r Range) Contains(id uint64) bool {
	if r.After != 0 && id <= r.After {
		return false
	}
	if r.Before != 0 && id >= r.Before {
		return false
	}
	return true
}

// Empty reports whether no id can satisfy r.
func (r Range) Empty() bool {
	if r.After == math.MaxUint64 {
		return true
	}
	return r.Before != 0 && r.Before-1 <= r.After
}

// Bounded returns the range that lies strictly beyond boundary when
// iterating toward dir. A zero boundary yields the unbounded range.
func Bounded(boundary uint64, dir Direction) Range {
	if dir == Prev {
		return Range{Before: boundary}
	}
	return Range{After: boundary}
}

// Cursor is a forward-only, single-pass pull iterator. Each Next performs at
// most one store step; nothing is fetched ahead of the consumer.
type Cursor interface {
	// Next returns the next record. ok is false once the cursor is exhausted.
	Next(ctx context.Context) (rec Record, ok bool, err error)
	Close() error
}

// Source opens cursors over an id-ordered record space.
type Source interface {
	OpenCursor(ctx context.Context, r Range, dir Direction) (Cursor, error)
}

// Appender adds records, assigning strictly increasing ids.
type Appender interface {
	Append(ctx context.Context, drafts []Draft) ([]uint64, error)
}

// Store is a full channel-scoped backend.
type Store interface {
	Source
	Appender
	Count(ctx context.Context) (int, error)
	Close() error
}
