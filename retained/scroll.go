package retained

import "fmt"

// Axis is one of the two layout directions.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == Horizontal {
		return Vertical
	}
	return Horizontal
}

// AxisFromID looks up an axis by its serialized id.
func AxisFromID(id int) (Axis, bool) {
	switch id {
	case 0:
		return Horizontal, true
	case 1:
		return Vertical, true
	}
	return 0, false
}

// ScrollBarPolicy decides when a scrollbar is shown for an axis.
type ScrollBarPolicy uint8

const (
	// ScrollBarIfNeeded shows the bar when the content overflows.
	ScrollBarIfNeeded ScrollBarPolicy = iota
	// ScrollBarNever hides the bar. Scrolling still works.
	ScrollBarNever
	// ScrollBarAlways shows the bar.
	ScrollBarAlways
)

func (p ScrollBarPolicy) String() string {
	switch p {
	case ScrollBarIfNeeded:
		return "if_needed"
	case ScrollBarNever:
		return "never"
	case ScrollBarAlways:
		return "always"
	}
	return "unknown"
}

// ScrollBarPolicyFromID looks up a policy by its serialized id.
func ScrollBarPolicyFromID(id int) (ScrollBarPolicy, bool) {
	if id < 0 || id > int(ScrollBarAlways) {
		return 0, false
	}
	return ScrollBarPolicy(id), true
}

// DefaultScrollBarSize is the thickness reserved for a visible scrollbar.
const DefaultScrollBarSize = 16

// Viewport tracks the scroll state of a scrollable widget. Offsets are kept
// within [0, MaxScrollPosition] on both axes.
type Viewport struct {
	pos      [2]float32
	content  [2]float32
	viewport [2]float32
	policy   [2]ScrollBarPolicy
}

// NewViewport creates an empty viewport with if-needed scrollbars.
func NewViewport() *Viewport {
	return &Viewport{}
}

// ContentSize returns the scrollable content extent along axis.
func (v *Viewport) ContentSize(axis Axis) float32 { return v.content[axis] }

// ViewportSize returns the visible extent along axis.
func (v *Viewport) ViewportSize(axis Axis) float32 { return v.viewport[axis] }

// SetContentSize sets the content extent and re-clamps the offset.
func (v *Viewport) SetContentSize(axis Axis, size float32) {
	v.content[axis] = nonNegative(size)
	v.clamp(axis)
}

// SetViewportSize sets the visible extent and re-clamps the offset.
func (v *Viewport) SetViewportSize(axis Axis, size float32) {
	v.viewport[axis] = nonNegative(size)
	v.clamp(axis)
}

// MaxScrollPosition returns the largest allowed offset: 0 when the content
// fits.
func (v *Viewport) MaxScrollPosition(axis Axis) float32 {
	return max(0, v.content[axis]-v.viewport[axis])
}

// ScrollPosition returns the current offset along axis.
func (v *Viewport) ScrollPosition(axis Axis) float32 { return v.pos[axis] }

// SetScrollPosition moves to pos, clamped to the valid range. Reports
// whether the offset changed.
func (v *Viewport) SetScrollPosition(axis Axis, pos float32) bool {
	next := clamp(pos, 0, v.MaxScrollPosition(axis))
	if next == v.pos[axis] {
		return false
	}
	v.pos[axis] = next
	return true
}

// Scroll adds delta to the offset along axis, clamped.
func (v *Viewport) Scroll(axis Axis, delta float32) bool {
	return v.SetScrollPosition(axis, v.pos[axis]+delta)
}

// ScrollBy scrolls both axes.
func (v *Viewport) ScrollBy(dx, dy float32) bool {
	h := v.Scroll(Horizontal, dx)
	vert := v.Scroll(Vertical, dy)
	return h || vert
}

// EnsureVisible applies the smallest scroll that brings r (in content
// coordinates) fully into view, independently per axis. A rect larger than
// the viewport is aligned to its start. Reports whether anything moved.
func (v *Viewport) EnsureVisible(r Rect) bool {
	h := v.ensureVisible(Horizontal, r.start(Horizontal), r.size(Horizontal))
	vert := v.ensureVisible(Vertical, r.start(Vertical), r.size(Vertical))
	return h || vert
}

func (v *Viewport) ensureVisible(axis Axis, start, size float32) bool {
	pos, view := v.pos[axis], v.viewport[axis]
	end := start + size
	switch {
	case start < pos:
		pos = start
	case end > pos+view:
		pos = end - view
		if size > view {
			pos = start
		}
	default:
		return false
	}
	return v.SetScrollPosition(axis, pos)
}

// NeedsScrollBar reports whether the policy shows a scrollbar on axis.
func (v *Viewport) NeedsScrollBar(axis Axis) bool {
	switch v.policy[axis] {
	case ScrollBarAlways:
		return true
	case ScrollBarNever:
		return false
	}
	return v.MaxScrollPosition(axis) > 0
}

// ScrollBarPolicy returns the policy for axis.
func (v *Viewport) ScrollBarPolicy(axis Axis) ScrollBarPolicy { return v.policy[axis] }

// SetScrollBarPolicy sets the policy for axis.
func (v *Viewport) SetScrollBarPolicy(axis Axis, p ScrollBarPolicy) {
	v.policy[axis] = p
}

func (v *Viewport) clamp(axis Axis) {
	v.pos[axis] = clamp(v.pos[axis], 0, v.MaxScrollPosition(axis))
}

// ============================================================================
// Scrollable Widgets
// ============================================================================

// NewScrollArea creates a scrollable container arranging children with
// the given layout kind.
func NewScrollArea(kind LayoutKind, children ...*Widget) *Widget {
	w := NewWidget(KindScrollArea)
	w.layoutKind = kind
	w.AddChildren(children...)
	return w
}

// NewList creates a vertically stacked scrollable container.
func NewList(children ...*Widget) *Widget {
	w := NewWidget(KindList)
	w.layoutKind = LayoutVertical
	w.AddChildren(children...)
	return w
}

// Viewport returns the scroll state, or nil for non-scrollable widgets.
func (w *Widget) Viewport() *Viewport { return w.viewport }

// ScrollPosition returns the scroll offset along axis, 0 when not scrollable.
func (w *Widget) ScrollPosition(axis Axis) float32 {
	if w.viewport == nil {
		return 0
	}
	return w.viewport.ScrollPosition(axis)
}

// SetScrollPosition scrolls to pos on axis. Children move on the next layout.
func (w *Widget) SetScrollPosition(axis Axis, pos float32) *Widget {
	if w.viewport != nil && w.viewport.SetScrollPosition(axis, pos) {
		w.markLayoutDirty()
	}
	return w
}

// Scroll scrolls by dx, dy.
func (w *Widget) Scroll(dx, dy float32) *Widget {
	if w.viewport != nil && w.viewport.ScrollBy(dx, dy) {
		w.markLayoutDirty()
	}
	return w
}

// SetScrollBarPolicy sets the scrollbar policy for axis.
func (w *Widget) SetScrollBarPolicy(axis Axis, p ScrollBarPolicy) *Widget {
	if w.viewport != nil && w.viewport.policy[axis] != p {
		w.viewport.SetScrollBarPolicy(axis, p)
		w.markLayoutDirty()
	}
	return w
}

// EnsureVisible scrolls minimally so r (content coordinates) is in view.
func (w *Widget) EnsureVisible(r Rect) *Widget {
	if w.viewport != nil && w.viewport.EnsureVisible(r) {
		w.markLayoutDirty()
	}
	return w
}

// ScrollIntoView scrolls minimally so a laid-out descendant is fully
// visible. Does nothing if target is not a descendant.
func (w *Widget) ScrollIntoView(target *Widget) *Widget {
	if w.viewport == nil || target == nil || target == w || !target.isDescendantOf(w) {
		return w
	}
	content := w.contentBox()
	r := target.ActualBounds()
	r.X = r.X - content.X + w.viewport.ScrollPosition(Horizontal)
	r.Y = r.Y - content.Y + w.viewport.ScrollPosition(Vertical)
	return w.EnsureVisible(r)
}

func (w *Widget) isDescendantOf(ancestor *Widget) bool {
	for p := w.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// measureContent records the children's extent relative to origin and the
// visible size of content after reserving space for visible scrollbars.
func (w *Widget) measureContent(origin, content Rect, barSize float32) {
	var extentX, extentY float32
	for _, c := range w.children {
		if !c.visible || !c.laidOut {
			continue
		}
		r := c.actual
		extentX = max(extentX, r.X+r.Width+float32(c.margin.Right)-origin.X)
		extentY = max(extentY, r.Y+r.Height+float32(c.margin.Bottom)-origin.Y)
	}

	vp := w.viewport
	vp.content = [2]float32{extentX, extentY}
	vp.viewport = [2]float32{content.Width, content.Height}
	showV, showH := vp.NeedsScrollBar(Vertical), vp.NeedsScrollBar(Horizontal)
	if showV {
		vp.viewport[Horizontal] = nonNegative(content.Width - barSize)
	}
	if showH {
		vp.viewport[Vertical] = nonNegative(content.Height - barSize)
	}
	vp.clamp(Horizontal)
	vp.clamp(Vertical)
}

// viewportClip returns the visible content rectangle of a scrollable widget.
func (w *Widget) viewportClip() Rect {
	content := w.contentBox()
	return Rect{
		X:      content.X,
		Y:      content.Y,
		Width:  w.viewport.ViewportSize(Horizontal),
		Height: w.viewport.ViewportSize(Vertical),
	}
}

// MarshalText encodes the axis by name.
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes "horizontal" or "vertical".
func (a *Axis) UnmarshalText(text []byte) error {
	switch string(text) {
	case "horizontal":
		*a = Horizontal
	case "vertical":
		*a = Vertical
	default:
		return fmt.Errorf("unknown axis %q", text)
	}
	return nil
}

// MarshalText encodes the policy by name.
func (p ScrollBarPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes "if_needed", "never" or "always".
func (p *ScrollBarPolicy) UnmarshalText(text []byte) error {
	for _, v := range []ScrollBarPolicy{ScrollBarIfNeeded, ScrollBarNever, ScrollBarAlways} {
		if v.String() == string(text) {
			*p = v
			return nil
		}
	}
	return fmt.Errorf("unknown scrollbar policy %q", text)
}
