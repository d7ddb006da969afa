package viewport

import (
	"strings"

	"github.com/rzbill/scrollback/internal/source"
)

// Edge names a side of the rendered window.
type Edge int

const (
	// Top borders older records.
	Top Edge = iota
	// Bottom borders newer records.
	Bottom
)

func (e Edge) String() string {
	if e == Bottom {
		return "bottom"
	}
	return "top"
}

func edgeOf(dir source.Direction) Edge {
	if dir == source.Prev {
		return Top
	}
	return Bottom
}

// Node is one rendered record.
type Node struct {
	ID     uint64
	Record source.Record
	View   string
	Height int

	lines []string
}

// line returns row i of the node's view, blank past the rendered text.
func (n *Node) line(i int) string {
	if i < 0 || i >= len(n.lines) {
		return ""
	}
	return n.lines[i]
}

// Spacer stands in for the rows of evicted records beyond one edge.
type Spacer struct {
	Height int
}

// Grow returns h rows to the spacer.
func (s *Spacer) Grow(h int) {
	if h > 0 {
		s.Height += h
	}
}

// Shrink borrows h rows. When the spacer holds fewer than h rows it is set to
// zero and Shrink reports true.
func (s *Spacer) Shrink(h int) (clamped bool) {
	if h <= s.Height {
		s.Height -= h
		return false
	}
	s.Height = 0
	return true
}

// RenderFunc draws a record at the given width.
type RenderFunc func(rec source.Record, width int) string

// MeasureFunc reports the height in rows of a rendered record.
type MeasureFunc func(rec source.Record, view string) int

// PlainRender writes "author: body".
func PlainRender(rec source.Record, _ int) string {
	return rec.Author + ": " + rec.Body
}

// LineCount measures a view by its newline-separated lines.
func LineCount(_ source.Record, view string) int {
	return strings.Count(view, "\n") + 1
}

// ViewportState is derived from the window on demand.
type ViewportState struct {
	ScrollTop       int
	ContainerHeight int
	FirstRenderedID uint64
	LastRenderedID  uint64
}

// Row is one visible row of the container. ID is zero for spacer and margin rows.
type Row struct {
	Line string
	ID   uint64
}

// LoadResult describes one LoadMore call.
type LoadResult struct {
	Inserted        int
	HeightLoaded    int
	ScrollCorrected bool
	// Exhausted is set when the feed ended before the height budget was met.
	Exhausted bool
	Err       error
}
