// Package viewport implements a windowed renderer for an unbounded,
// id-ordered list of records shown in a fixed-height container.
//
// Only a contiguous slice of records is rendered at any time. Two spacers
// stand in for the rows of everything evicted above and below that slice, so
// scroll offsets and scrollbar geometry stay meaningful:
//
//	row 0                       ┐
//	  top spacer                │ evicted older records
//	  node (id n)   height+margin
//	  node (id n+1) height+margin
//	  ...                        │ rendered window
//	  bottom spacer             │ evicted newer records
//	row ContentHeight()         ┘
//
// Scrolling near either edge of the window loads more records from a feed on
// that side. A debounced prune later evicts nodes that left the viewport on
// the opposite side and returns their height to that side's spacer.
//
// A Window is safe for use from multiple goroutines, but hosts that render
// its state should route timer callbacks through Options.Dispatcher so that
// mutations and drawing happen on one event loop.
package viewport
