package viewport

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rzbill/scrollback/internal/feed"
	"github.com/rzbill/scrollback/internal/source"
	"github.com/rzbill/scrollback/internal/timing"
	"github.com/rzbill/scrollback/pkg/log"
)

// Stock settings returned by DefaultOptions.
const (
	DefaultMargin         = 1
	DefaultScrollInterval = 50 * time.Millisecond
	DefaultPruneDelay     = 100 * time.Millisecond
)

// Options configures a Window. Start from DefaultOptions; zero durations and
// nil funcs fall back to defaults, a zero Margin means no spacing.
type Options struct {
	ContainerHeight int
	Width           int
	// Margin is the number of blank rows after each node.
	Margin         int
	ScrollInterval time.Duration
	PruneDelay     time.Duration
	Render         RenderFunc
	Measure        MeasureFunc
	Clock          timing.Clock
	Dispatcher     timing.Dispatcher
	Logger         log.Logger
}

// DefaultOptions returns the stock timing and margin settings.
func DefaultOptions() Options {
	return Options{
		Margin:         DefaultMargin,
		ScrollInterval: DefaultScrollInterval,
		PruneDelay:     DefaultPruneDelay,
	}
}

// Window is the windowed renderer over a feed. Loads run under the window
// lock, so at most one cursor is open at a time. Render, Measure and the
// feed's error handler run under that lock and must not call back into the
// Window.
type Window struct {
	feed   *feed.Feed
	opts   Options
	logger log.Logger

	scroll *timing.Throttler
	prune  [2]*timing.Debouncer

	mu        sync.Mutex
	nodes     []*Node
	top       Spacer
	bottom    Spacer
	scrollTop int
	exhausted [2]bool
	started   bool
	closed    bool
}

// New returns an empty window over f. Call Start to render.
func New(f *feed.Feed, opts Options) *Window {
	if opts.ScrollInterval <= 0 {
		opts.ScrollInterval = DefaultScrollInterval
	}
	if opts.PruneDelay <= 0 {
		opts.PruneDelay = DefaultPruneDelay
	}
	if opts.Margin < 0 {
		opts.Margin = 0
	}
	if opts.ContainerHeight < 0 {
		opts.ContainerHeight = 0
	}
	if opts.Render == nil {
		opts.Render = PlainRender
	}
	if opts.Measure == nil {
		opts.Measure = LineCount
	}
	if opts.Clock == nil {
		opts.Clock = timing.RealClock{}
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = timing.Inline
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}

	w := &Window{feed: f, opts: opts, logger: opts.Logger.WithComponent("window")}
	// The dispatcher is read at fire time so hosts may swap it after New.
	dispatch := timing.WithDispatcher(func(fn func()) { w.dispatcher()(fn) })
	clock := timing.WithClock(opts.Clock)
	w.scroll = timing.NewThrottler(opts.ScrollInterval, clock, dispatch)
	w.prune[Top] = timing.NewDebouncer(opts.PruneDelay, clock, dispatch)
	w.prune[Bottom] = timing.NewDebouncer(opts.PruneDelay, clock, dispatch)
	return w
}

func (w *Window) dispatcher() timing.Dispatcher {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.opts.Dispatcher
}

// SetDispatcher replaces the dispatcher used by fired timers.
func (w *Window) SetDispatcher(d timing.Dispatcher) {
	if d == nil {
		d = timing.Inline
	}
	w.mu.Lock()
	w.opts.Dispatcher = d
	w.mu.Unlock()
}

// Start performs the initial render: the newest records, bottom anchored.
// Later calls do nothing.
func (w *Window) Start(ctx context.Context) LoadResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.closed {
		return LoadResult{}
	}
	w.started = true
	return w.jumpLocked(ctx, Bottom)
}

// Jump discards the window and renders from the oldest (Top) or newest
// (Bottom) record. The current content height is kept in the spacer on the
// far side.
func (w *Window) Jump(ctx context.Context, edge Edge) LoadResult {
	w.prune[Top].CancelPending()
	w.prune[Bottom].CancelPending()
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return LoadResult{}
	}
	w.started = true
	return w.jumpLocked(ctx, edge)
}

func (w *Window) jumpLocked(ctx context.Context, edge Edge) LoadResult {
	total := w.contentLocked()
	w.nodes = nil
	w.exhausted = [2]bool{}
	var res LoadResult
	if edge == Top {
		w.top.Height, w.bottom.Height = 0, total
		w.scrollTop = 0
		res = w.loadLocked(ctx, source.Next, 0)
	} else {
		w.top.Height, w.bottom.Height = total, 0
		w.scrollTop = 0
		res = w.loadLocked(ctx, source.Prev, 0)
	}
	// Nothing lies beyond the record the load started from.
	if res.Err == nil {
		w.exhausted[edge] = true
	}
	w.clampLocked()
	return res
}

// Scroll moves the viewport to row y and runs the edge checks through the
// scroll throttle.
func (w *Window) Scroll(ctx context.Context, y int) {
	w.mu.Lock()
	w.scrollTop = y
	w.clampLocked()
	w.mu.Unlock()
	w.scroll.Schedule(func() { w.OnScroll(ctx) })
}

// ScrollBy moves the viewport by dy rows.
func (w *Window) ScrollBy(ctx context.Context, dy int) {
	w.mu.Lock()
	y := w.scrollTop + dy
	w.mu.Unlock()
	w.Scroll(ctx, y)
}

// OnScroll runs the edge checks immediately: top first, then bottom.
func (w *Window) OnScroll(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.checkLocked(ctx)
}

func (w *Window) checkLocked(ctx context.Context) {
	if w.closed || len(w.nodes) == 0 {
		return
	}
	first := w.nodes[0]
	if !w.exhausted[Top] && w.top.Height+first.Height >= w.scrollTop {
		if res := w.loadLocked(ctx, source.Prev, first.ID); res.Inserted > 0 {
			w.schedulePruneLocked(Bottom)
		}
	}
	last := w.nodes[len(w.nodes)-1]
	if !w.exhausted[Bottom] && w.nodeTopLocked(len(w.nodes)-1) <= w.scrollTop+w.opts.ContainerHeight {
		if res := w.loadLocked(ctx, source.Next, last.ID); res.Inserted > 0 {
			w.schedulePruneLocked(Top)
		}
	}
}

// LoadMore renders records strictly beyond boundary in direction dir until
// they cover one container height or the feed ends. A zero boundary starts
// from the newest (Prev) or oldest (Next) record.
func (w *Window) LoadMore(ctx context.Context, dir source.Direction, boundary uint64) LoadResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return LoadResult{}
	}
	return w.loadLocked(ctx, dir, boundary)
}

func (w *Window) loadLocked(ctx context.Context, dir source.Direction, boundary uint64) LoadResult {
	edge := edgeOf(dir)
	anchorID, anchorOffset, hasAnchor := w.anchorLocked()
	budget := w.opts.ContainerHeight

	var (
		res    LoadResult
		fresh  []*Node
		filled bool
	)
	stream := w.feed.Open(ctx, boundary, dir)
	defer stream.Close()
	for !filled {
		rec, ok := stream.Next()
		if !ok {
			break
		}
		n := w.buildLocked(rec)
		step := n.Height + w.opts.Margin
		if dir == source.Prev {
			w.top.Shrink(step)
		} else {
			w.bottom.Shrink(step)
		}
		fresh = append(fresh, n)
		res.HeightLoaded += step
		filled = res.HeightLoaded >= budget
	}
	res.Inserted = len(fresh)

	if dir == source.Prev {
		// fresh is in descending id order; the oldest goes first.
		merged := make([]*Node, 0, len(fresh)+len(w.nodes))
		for i := len(fresh) - 1; i >= 0; i-- {
			merged = append(merged, fresh[i])
		}
		w.nodes = append(merged, w.nodes...)
	} else {
		w.nodes = append(w.nodes, fresh...)
	}

	switch err := stream.Err(); {
	case err != nil:
		// Ends this load only. The next edge check opens a fresh cursor.
		res.Err = err
	case !filled:
		res.Exhausted = true
		w.exhausted[edge] = true
		// Nothing is left beyond this edge, so its spacer holds only drift.
		if edge == Top {
			w.top.Height = 0
		} else {
			w.bottom.Height = 0
		}
	}

	if dir == source.Prev && res.Inserted > 0 {
		prev := w.scrollTop
		if hasAnchor {
			w.scrollTop = w.nodeTopByIDLocked(anchorID) - anchorOffset
		} else if res.HeightLoaded >= budget {
			w.scrollTop = res.HeightLoaded + w.top.Height - budget
		}
		w.clampLocked()
		res.ScrollCorrected = w.scrollTop != prev
	} else {
		w.clampLocked()
	}

	w.logger.Debug("load",
		log.Str("dir", dir.String()),
		log.Uint64("boundary", boundary),
		log.Int("inserted", res.Inserted),
		log.Int("height", res.HeightLoaded),
		log.Bool("exhausted", res.Exhausted),
		log.Int("top", w.top.Height),
		log.Int("bottom", w.bottom.Height))
	if res.Err != nil {
		w.logger.Warn("load ended early", log.Str("dir", dir.String()), log.Err(res.Err))
	}
	return res
}

func (w *Window) buildLocked(rec source.Record) *Node {
	view := w.opts.Render(rec, w.opts.Width)
	return &Node{
		ID:     rec.ID,
		Record: rec,
		View:   view,
		Height: max(0, w.opts.Measure(rec, view)),
		lines:  strings.Split(view, "\n"),
	}
}

// anchorLocked returns the first node whose bottom edge is inside or below
// the viewport, and its offset from the viewport top.
func (w *Window) anchorLocked() (id uint64, offset int, ok bool) {
	if len(w.nodes) == 0 {
		return 0, 0, false
	}
	y := w.top.Height
	for _, n := range w.nodes {
		if y+n.Height > w.scrollTop {
			return n.ID, y - w.scrollTop, true
		}
		y += n.Height + w.opts.Margin
	}
	last := w.nodes[len(w.nodes)-1]
	return last.ID, w.nodeTopLocked(len(w.nodes)-1) - w.scrollTop, true
}

// SchedulePrune debounces a prune of edge.
func (w *Window) SchedulePrune(edge Edge) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.schedulePruneLocked(edge)
}

func (w *Window) schedulePruneLocked(edge Edge) {
	if w.closed {
		return
	}
	w.prune[edge].Schedule(func() { w.Prune(edge) })
}

// Prune evicts nodes that lie entirely beyond the viewport on edge and
// returns their rows to that edge's spacer. The node nearest the viewport is
// always kept. It returns the number of nodes removed.
func (w *Window) Prune(edge Edge) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || len(w.nodes) <= 1 {
		return 0
	}
	m := w.opts.Margin
	var removed, rows int
	if edge == Top {
		y := w.top.Height
		for removed < len(w.nodes)-1 {
			n := w.nodes[removed]
			if y+n.Height >= w.scrollTop {
				break
			}
			rows += n.Height + m
			y += n.Height + m
			removed++
		}
		w.nodes = append([]*Node(nil), w.nodes[removed:]...)
		w.top.Grow(rows)
	} else {
		limit := w.scrollTop + w.opts.ContainerHeight
		cut := len(w.nodes)
		y := w.top.Height
		for i, n := range w.nodes {
			if i > 0 && y > limit {
				cut = i
				break
			}
			y += n.Height + m
		}
		for _, n := range w.nodes[cut:] {
			rows += n.Height + m
		}
		removed = len(w.nodes) - cut
		w.nodes = append([]*Node(nil), w.nodes[:cut]...)
		w.bottom.Grow(rows)
	}
	if removed > 0 {
		// Records exist beyond this edge again.
		w.exhausted[edge] = false
		w.logger.Debug("prune",
			log.Str("edge", edge.String()),
			log.Int("removed", removed),
			log.Int("rows", rows),
			log.Int("nodes", len(w.nodes)))
	}
	return removed
}

// Resize changes the container height and re-runs the edge checks.
func (w *Window) Resize(ctx context.Context, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.opts.ContainerHeight = max(0, height)
	w.clampLocked()
	w.checkLocked(ctx)
}

// Remeasure re-renders every node at width, keeping the first visible node
// at the same viewport offset. Spacers keep their rows.
func (w *Window) Remeasure(width int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.opts.Width = width
	anchorID, anchorOffset, hasAnchor := w.anchorLocked()
	for i, n := range w.nodes {
		w.nodes[i] = w.buildLocked(n.Record)
	}
	if hasAnchor {
		w.scrollTop = w.nodeTopByIDLocked(anchorID) - anchorOffset
	}
	w.clampLocked()
}

// Close cancels pending timers. The window stops reacting afterwards.
func (w *Window) Close() {
	w.scroll.CancelPending()
	w.prune[Top].CancelPending()
	w.prune[Bottom].CancelPending()
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

func (w *Window) clampLocked() {
	maxTop := max(0, w.contentLocked()-w.opts.ContainerHeight)
	w.scrollTop = min(max(w.scrollTop, 0), maxTop)
}

func (w *Window) contentLocked() int {
	total := w.top.Height + w.bottom.Height
	for _, n := range w.nodes {
		total += n.Height + w.opts.Margin
	}
	return total
}

func (w *Window) nodeTopLocked(i int) int {
	y := w.top.Height
	for _, n := range w.nodes[:i] {
		y += n.Height + w.opts.Margin
	}
	return y
}

func (w *Window) nodeTopByIDLocked(id uint64) int {
	y := w.top.Height
	for _, n := range w.nodes {
		if n.ID == id {
			return y
		}
		y += n.Height + w.opts.Margin
	}
	return y
}
