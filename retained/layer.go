package retained

import (
	"fmt"
	"slices"
)

// Priority is the draw tier of a widget. Highest is submitted first and
// renders as background; Lowest is submitted last and renders on top.
type Priority uint8

const (
	PriorityHighest Priority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow
	PriorityLowest
)

var priorityNames = [...]string{"highest", "high", "normal", "low", "lowest"}

// ID returns the stable numeric id used in serialized widgets.
func (p Priority) ID() int { return int(p) }

func (p Priority) String() string {
	if int(p) < len(priorityNames) {
		return priorityNames[p]
	}
	return "unknown"
}

// PriorityFromID looks up a priority by its serialized id.
func PriorityFromID(id int) (Priority, bool) {
	if id < 0 || id > int(PriorityLowest) {
		return 0, false
	}
	return Priority(id), true
}

// PriorityFromName looks up a priority by its String form.
func PriorityFromName(name string) (Priority, bool) {
	for i, n := range priorityNames {
		if n == name {
			return Priority(i), true
		}
	}
	return 0, false
}

// DrawItem is one widget submitted to the host for drawing.
type DrawItem struct {
	Widget *Widget
	// Bounds is the widget's geometry in screen pixels.
	Bounds Rect
	// Clip is the visible area of the nearest enclosing scroll viewport in
	// screen pixels. Only meaningful when Clipped is set.
	Clip     Rect
	Clipped  bool
	Priority Priority
}

// visibleBounds returns the part of the item not hidden by its clip.
func (d DrawItem) visibleBounds() Rect {
	if !d.Clipped {
		return d.Bounds
	}
	if !d.Bounds.Intersects(d.Clip) {
		return Rect{}
	}
	return d.Bounds.Intersect(d.Clip)
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// RenderOrder returns the visible widgets under s in draw order: tree order
// stable-sorted by priority tier, Highest first. Invisible widgets hide
// their whole subtree. The result also becomes the screen's hit-test order.
func RenderOrder(s *Screen) []DrawItem {
	items := make([]DrawItem, 0, len(s.drawOrder))
	children := acquireWidgetSlice(len(s.root.children))
	copy(children, s.root.children)
	for _, c := range children {
		items = collectDrawItems(items, s, c, Rect{}, false)
	}
	releaseWidgetSlice(children)

	slices.SortStableFunc(items, func(a, b DrawItem) int {
		return int(a.Priority) - int(b.Priority)
	})
	s.drawOrder = items
	return slices.Clone(items)
}

func collectDrawItems(items []DrawItem, s *Screen, w *Widget, clip Rect, clipped bool) []DrawItem {
	if !w.visible {
		return items
	}
	items = append(items, DrawItem{
		Widget:   w,
		Bounds:   s.transformFor(w).Apply(w.ActualBounds()),
		Clip:     clip,
		Clipped:  clipped,
		Priority: w.priority,
	})
	if len(w.children) == 0 {
		return items
	}

	if w.viewport != nil {
		vc := s.transformFor(w).Apply(w.viewportClip())
		if clipped {
			vc = vc.Intersect(clip)
		}
		clip, clipped = vc, true
	}
	for _, c := range w.children {
		items = collectDrawItems(items, s, c, clip, clipped)
	}
	return items
}

// Tiers splits a draw order into one slice per priority, Highest first.
func Tiers(items []DrawItem) [PriorityLowest + 1][]DrawItem {
	var tiers [PriorityLowest + 1][]DrawItem
	for _, it := range items {
		p := min(it.Priority, PriorityLowest)
		tiers[p] = append(tiers[p], it)
	}
	return tiers
}

// MarshalText encodes the priority by name.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a priority name.
func (p *Priority) UnmarshalText(text []byte) error {
	v, ok := PriorityFromName(string(text))
	if !ok {
		return fmt.Errorf("unknown priority %q", text)
	}
	*p = v
	return nil
}
