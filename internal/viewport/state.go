package viewport

// State derives the viewport state from the current window.
func (w *Window) State() ViewportState {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := ViewportState{ScrollTop: w.scrollTop, ContainerHeight: w.opts.ContainerHeight}
	if n := len(w.nodes); n > 0 {
		s.FirstRenderedID = w.nodes[0].ID
		s.LastRenderedID = w.nodes[n-1].ID
	}
	return s
}

// Nodes returns a copy of the rendered nodes in id order.
func (w *Window) Nodes() []Node {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Node, len(w.nodes))
	for i, n := range w.nodes {
		out[i] = *n
	}
	return out
}

// Len returns the number of rendered nodes.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.nodes)
}

// TopSpacer returns the rows standing in for evicted records above the nodes.
func (w *Window) TopSpacer() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.top.Height
}

// BottomSpacer returns the rows standing in for records below the nodes.
func (w *Window) BottomSpacer() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bottom.Height
}

// ContentHeight is the total scrollable height: both spacers plus every
// node with its margin.
func (w *Window) ContentHeight() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.contentLocked()
}

// NodeTop returns the row offset of node i from the content top.
func (w *Window) NodeTop(i int) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < 0 {
		i = 0
	}
	if i > len(w.nodes) {
		i = len(w.nodes)
	}
	return w.nodeTopLocked(i)
}

// Exhausted reports whether the last load at edge found no further records.
func (w *Window) Exhausted(edge Edge) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exhausted[edge]
}

// Rows returns the container's visible rows, top to bottom.
func (w *Window) Rows() []Row {
	w.mu.Lock()
	defer w.mu.Unlock()
	h := w.opts.ContainerHeight
	rows := make([]Row, h)
	end := w.scrollTop + h
	y := w.top.Height
	for _, n := range w.nodes {
		if y >= end {
			break
		}
		for i := 0; i < n.Height; i++ {
			r := y + i - w.scrollTop
			if r >= 0 && r < h {
				rows[r] = Row{Line: n.line(i), ID: n.ID}
			}
		}
		y += n.Height + w.opts.Margin
	}
	return rows
}
