package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// Filter is a compiled CEL predicate over a Record. Expressions see the
// variables id (int), author, body and avatar (strings), e.g.
//
//	author.startsWith("A") && size(body) > 40
type Filter struct {
	expr string
	prog cel.Program
}

// CompileFilter compiles expr. An empty expression yields a nil Filter that
// matches everything.
func CompileFilter(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("id", cel.IntType),
		cel.Variable("author", cel.StringType),
		cel.Variable("body", cel.StringType),
		cel.Variable("avatar", cel.StringType),
	)
	if err != nil {
		return nil, err
	}
	parsed, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("filter %q: %w", expr, iss.Err())
	}
	checked, iss := env.Check(parsed)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("filter %q: %w", expr, iss.Err())
	}
	prog, err := env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", expr, err)
	}
	return &Filter{expr: expr, prog: prog}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// Match evaluates the predicate. Evaluation errors and non-bool results do
// not match.
func (f *Filter) Match(rec Record) bool {
	if f == nil {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"id":     int64(rec.ID),
		"author": rec.Author,
		"body":   rec.Body,
		"avatar": rec.AvatarRef,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// Filtered returns a Source whose cursors only yield records matching expr.
// The filtered sequence is itself id-ordered, so windowing over it keeps the
// same contiguity guarantees relative to that sequence.
func Filtered(src Source, expr string) (Source, error) {
	f, err := CompileFilter(expr)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return src, nil
	}
	return &filteredSource{inner: src, filter: f}, nil
}

type filteredSource struct {
	inner  Source
	filter *Filter
}

func (s *filteredSource) OpenCursor(ctx context.Context, r Range, dir Direction) (Cursor, error) {
	cur, err := s.inner.OpenCursor(ctx, r, dir)
	if err != nil {
		return nil, err
	}
	return &filteredCursor{inner: cur, filter: s.filter}, nil
}

type filteredCursor struct {
	inner  Cursor
	filter *Filter
}

func (c *filteredCursor) Next(ctx context.Context) (Record, bool, error) {
	for {
		rec, ok, err := c.inner.Next(ctx)
		if err != nil || !ok {
			return Record{}, false, err
		}
		if c.filter.Match(rec) {
			return rec, true, nil
		}
	}
}

func (c *filteredCursor) Close() error { return c.inner.Close() }
