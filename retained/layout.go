package retained

import (
	"log/slog"
	"slices"
)

// layoutEnv carries screen-wide settings into a layout pass.
type layoutEnv struct {
	scrollBarSize float32
	logger        *slog.Logger
}

func defaultLayoutEnv() layoutEnv {
	return layoutEnv{scrollBarSize: DefaultScrollBarSize, logger: slog.Default()}
}

// layoutPass walks dirty containers top-down and recomputes them.
type layoutPass struct {
	env        layoutEnv
	recomputed int
}

func newLayoutPass(env layoutEnv) *layoutPass {
	return &layoutPass{env: env}
}

// ComputeLayout recomputes every dirty container under root and returns how
// many containers were recomputed. Clean subtrees are skipped.
func ComputeLayout(root *Widget) int {
	if root == nil {
		return 0
	}
	p := newLayoutPass(root.layoutEnv())
	p.visit(root)
	return p.recomputed
}

func (p *layoutPass) visit(w *Widget) {
	if !w.kind.IsContainer() {
		return
	}
	if w.layoutState == LayoutDirty {
		p.recompute(w)
		return
	}
	if !w.descendantDirty {
		return
	}
	w.descendantDirty = false
	children := acquireWidgetSlice(len(w.children))
	copy(children, w.children)
	for _, c := range children {
		p.visit(c)
	}
	releaseWidgetSlice(children)
}

// recompute arranges w's children, then descends into child containers that
// became dirty. Mutations made while w is recomputing leave it dirty for the
// next pass.
func (p *layoutPass) recompute(w *Widget) {
	w.layoutState = LayoutRecomputing
	w.pendingDirty = false
	w.descendantDirty = false

	content := w.contentBox()
	origin := content
	if w.viewport != nil {
		origin.X -= w.viewport.ScrollPosition(Horizontal)
		origin.Y -= w.viewport.ScrollPosition(Vertical)
	}
	p.arrange(w, origin)

	if w.viewport != nil {
		before := w.viewport.pos
		w.measureContent(origin, content, p.env.scrollBarSize)
		if w.viewport.pos != before {
			origin = content
			origin.X -= w.viewport.ScrollPosition(Horizontal)
			origin.Y -= w.viewport.ScrollPosition(Vertical)
			p.arrange(w, origin)
		}
	}

	children := acquireWidgetSlice(len(w.children))
	copy(children, w.children)
	for _, c := range children {
		p.visit(c)
	}
	releaseWidgetSlice(children)

	if w.onLayout != nil {
		w.onLayout(w)
	}

	w.layoutCount++
	p.recomputed++
	if w.pendingDirty {
		w.pendingDirty = false
		w.layoutState = LayoutClean
		w.markLayoutDirty()
	} else {
		w.layoutState = LayoutClean
	}
	p.env.logger.Debug("layout recomputed",
		slog.String("widget", w.id.String()),
		slog.String("layout", w.layoutKind.String()),
		slog.Int("children", len(w.children)),
		slog.Bool("requeued", w.layoutState == LayoutDirty))
}

// contentBox is the container's own box inset by its margins.
func (w *Widget) contentBox() Rect {
	return w.ActualBounds().Inset(w.margin)
}

func (p *layoutPass) arrange(w *Widget, content Rect) {
	switch w.layoutKind {
	case LayoutHorizontal, LayoutVertical:
		arrangeStack(w, content, w.layoutKind.mainAxis())
	case LayoutOverlay:
		arrangeOverlay(w, content)
	default:
		arrangeFree(w, content)
	}
}

// place stores a child's computed geometry. Containers whose geometry
// changed are marked dirty so the pass descends into them.
func place(child *Widget, r Rect) {
	if child.setActual(r) && child.kind.IsContainer() {
		child.layoutState = LayoutDirty
	}
}

// placeAnchored positions child inside frame by its anchor and offsets,
// keeping its configured size.
func placeAnchored(child *Widget, frame Rect) {
	width, height := child.clampedSize()
	x, y := Resolve(child.anchor, float32(child.x), float32(child.y), frame.Width, frame.Height)
	place(child, Rect{X: frame.X + x, Y: frame.Y + y, Width: width, Height: height})
}

func arrangeFree(w *Widget, content Rect) {
	for _, c := range w.children {
		frame := content
		if w.kind == KindScreen && c.anchor == AnchorScale {
			frame = Rect{Width: DesignWidth, Height: DesignHeight}
		}
		placeAnchored(c, frame)
	}
}

// flowOrder returns the visible children in arrangement order.
func (w *Widget) flowOrder() []*Widget {
	out := make([]*Widget, 0, len(w.children))
	for _, c := range w.children {
		if c.visible {
			out = append(out, c)
		}
	}
	if w.reverse {
		slices.Reverse(out)
	}
	return out
}

func arrangeStack(w *Widget, content Rect, main Axis) {
	cross := main.Other()
	children := w.flowOrder()

	var share float32
	if w.autoFill {
		var used float32
		count := 0
		for _, c := range children {
			used += c.margin.leading(main) + c.margin.trailing(main)
			if c.fixed {
				width, height := c.clampedSize()
				used += axisValue(main, width, height)
			} else {
				count++
			}
		}
		if count > 0 {
			share = nonNegative(content.size(main)-used) / float32(count)
		}
	}

	cursor := content.start(main)
	for _, c := range children {
		lead, trail := c.margin.leading(main), c.margin.trailing(main)
		width, height := c.clampedSize()

		if c.fixed {
			placeAnchored(c, content)
			cursor += axisValue(main, width, height) + lead + trail
			continue
		}

		mainSize, crossSize := axisValue(main, width, height), axisValue(cross, width, height)
		if w.autoFill {
			mainSize = c.clampAxis(main, share)
			crossSize = c.clampAxis(cross, content.size(cross)-c.margin.leading(cross)-c.margin.trailing(cross))
		}

		mainPos := cursor + lead
		crossPos := alignOnAxis(w.align, cross, content, crossSize, c.margin)
		place(c, rectFromAxes(main, mainPos, crossPos, mainSize, crossSize))
		cursor += mainSize + lead + trail
	}
}

func arrangeOverlay(w *Widget, content Rect) {
	for _, c := range w.flowOrder() {
		if c.fixed {
			placeAnchored(c, content)
			continue
		}
		width, height := c.clampedSize()
		if w.autoFill {
			width = c.clampWidth(content.Width - float32(c.margin.Horizontal()))
			height = c.clampHeight(content.Height - float32(c.margin.Vertical()))
		}
		x := alignOnAxis(w.align, Horizontal, content, width, c.margin)
		y := alignOnAxis(w.align, Vertical, content, height, c.margin)
		place(c, Rect{X: x, Y: y, Width: width, Height: height})
	}
}

// alignOnAxis positions a box of the given size inside content along axis,
// honoring the box's margins and the alignment anchor's component on that
// axis.
func alignOnAxis(align Anchor, axis Axis, content Rect, size float32, margin Edges) float32 {
	lead, trail := margin.leading(axis), margin.trailing(axis)
	start := content.start(axis)
	avail := content.size(axis)

	component := align.vertical()
	if axis == Horizontal {
		component = align.horizontal()
	}
	switch component {
	case 0:
		return start + lead + (avail-lead-trail-size)/2
	case 1:
		return start + avail - trail - size
	}
	return start + lead
}

func axisValue(axis Axis, width, height float32) float32 {
	if axis == Horizontal {
		return width
	}
	return height
}

func rectFromAxes(main Axis, mainPos, crossPos, mainSize, crossSize float32) Rect {
	if main == Horizontal {
		return Rect{X: mainPos, Y: crossPos, Width: mainSize, Height: crossSize}
	}
	return Rect{X: crossPos, Y: mainPos, Width: crossSize, Height: mainSize}
}

// InvalidateTreeLayout marks every container under root dirty.
func InvalidateTreeLayout(root *Widget) {
	if root == nil {
		return
	}
	root.markLayoutDirty()
	for _, c := range root.children {
		InvalidateTreeLayout(c)
	}
}
