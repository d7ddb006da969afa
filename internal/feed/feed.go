// Package feed turns a source.Source into lazy, direction-aware record
// streams. A stream opens its cursor on the first pull and reads exactly one
// record per pull, so a consumer that stops early never costs a read beyond
// its last accepted record.
package feed

import (
	"context"
	"sync"

	"github.com/rzbill/scrollback/internal/source"
	"github.com/rzbill/scrollback/pkg/log"
)

// Feed opens streams over a source.
type Feed struct {
	src     source.Source
	logger  log.Logger
	onError func(error)
	filter  string
}

// Option configures a Feed.
type Option func(*Feed)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l log.Logger) Option {
	return func(f *Feed) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithErrorHandler registers fn to receive each stream's read error once.
func WithErrorHandler(fn func(error)) Option {
	return func(f *Feed) { f.onError = fn }
}

// WithFilter restricts streams to records matching the CEL expression.
func WithFilter(expr string) Option {
	return func(f *Feed) { f.filter = expr }
}

// New returns a Feed over src. It fails only when the filter does not compile.
func New(src source.Source, opts ...Option) (*Feed, error) {
	f := &Feed{src: src, logger: log.NewNopLogger()}
	for _, o := range opts {
		o(f)
	}
	f.logger = f.logger.WithComponent("feed")
	filtered, err := source.Filtered(src, f.filter)
	if err != nil {
		return nil, err
	}
	f.src = filtered
	return f, nil
}

// Open returns a stream of records strictly beyond boundary in direction dir.
// A zero boundary starts at the newest record for Prev and the oldest for
// Next. Open does no I/O.
func (f *Feed) Open(ctx context.Context, boundary uint64, dir source.Direction) *Stream {
	return &Stream{
		feed:     f,
		ctx:      ctx,
		boundary: boundary,
		dir:      dir,
	}
}

// Each streams records to fn until fn returns false or the stream ends. It
// returns the number of records delivered and the stream's read error.
func (f *Feed) Each(ctx context.Context, boundary uint64, dir source.Direction, fn func(source.Record) bool) (int, error) {
	s := f.Open(ctx, boundary, dir)
	defer s.Close()
	n := 0
	for {
		rec, ok := s.Next()
		if !ok {
			return n, s.Err()
		}
		n++
		if !fn(rec) {
			return n, nil
		}
	}
}

// Stream is a single-pass pull iterator. It is not safe for concurrent use.
type Stream struct {
	feed     *Feed
	ctx      context.Context
	boundary uint64
	dir      source.Direction

	cursor source.Cursor
	last   uint64
	pulled int
	done   bool
	err    error
	once   sync.Once
}

// Next pulls one record. It returns false once the stream is exhausted or a
// read failed; after that it always returns false.
func (s *Stream) Next() (source.Record, bool) {
	if s.done {
		return source.Record{}, false
	}
	if s.cursor == nil {
		c, err := s.feed.src.OpenCursor(s.ctx, source.Bounded(s.boundary, s.dir), s.dir)
		if err != nil {
			s.fail(err)
			return source.Record{}, false
		}
		s.cursor = c
	}
	rec, ok, err := s.cursor.Next(s.ctx)
	if err != nil {
		s.fail(err)
		return source.Record{}, false
	}
	if !ok {
		s.finish()
		return source.Record{}, false
	}
	if !s.ordered(rec.ID) {
		s.fail(source.ReadError("out of order id", nil))
		return source.Record{}, false
	}
	s.last = rec.ID
	s.pulled++
	return rec, true
}

// ordered checks that id lies beyond the boundary and the previous record.
func (s *Stream) ordered(id uint64) bool {
	prev := s.last
	if s.pulled == 0 {
		prev = s.boundary
	}
	if prev == 0 {
		return true
	}
	if s.dir == source.Prev {
		return id < prev
	}
	return id > prev
}

func (s *Stream) fail(err error) {
	s.finish()
	if s.ctx.Err() != nil {
		// Cancelled by the caller; nothing to report.
		s.err = err
		return
	}
	err = source.ReadError(s.dir.String(), err)
	s.err = err
	s.once.Do(func() {
		s.feed.logger.Warn("stream ended on error",
			log.Str("dir", s.dir.String()),
			log.Uint64("boundary", s.boundary),
			log.Int("pulled", s.pulled),
			log.Err(err))
		if s.feed.onError != nil {
			s.feed.onError(err)
		}
	})
}

func (s *Stream) finish() {
	s.done = true
	if s.cursor != nil {
		_ = s.cursor.Close()
		s.cursor = nil
	}
}

// Err returns the error that ended the stream, if any. Read failures are
// *source.StoreReadError; a cancelled context is returned as is.
func (s *Stream) Err() error { return s.err }

// Pulled returns the number of records delivered.
func (s *Stream) Pulled() int { return s.pulled }

// Close releases the cursor. It is idempotent.
func (s *Stream) Close() {
	s.finish()
}
