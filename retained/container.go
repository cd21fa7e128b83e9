package retained

import "fmt"

// LayoutKind selects how a container arranges its children.
type LayoutKind uint8

const (
	// LayoutNone never arranges children; each child keeps its
	// anchor-resolved position inside the container's content box.
	LayoutNone LayoutKind = iota
	// LayoutHorizontal stacks children left to right.
	LayoutHorizontal
	// LayoutVertical stacks children top to bottom.
	LayoutVertical
	// LayoutOverlay places every child at the content origin, aligned on
	// both axes.
	LayoutOverlay
)

var layoutKindNames = [...]string{"none", "horizontal", "vertical", "overlay"}

func (k LayoutKind) String() string {
	if int(k) < len(layoutKindNames) {
		return layoutKindNames[k]
	}
	return "unknown"
}

// LayoutKindFromID looks up a layout kind by its serialized id.
func LayoutKindFromID(id int) (LayoutKind, bool) {
	if id < 0 || id >= len(layoutKindNames) {
		return 0, false
	}
	return LayoutKind(id), true
}

// LayoutKindFromName looks up a layout kind by its String form.
func LayoutKindFromName(name string) (LayoutKind, bool) {
	for i, n := range layoutKindNames {
		if n == name {
			return LayoutKind(i), true
		}
	}
	return 0, false
}

// mainAxis returns the stacking axis for stack layouts.
func (k LayoutKind) mainAxis() Axis {
	if k == LayoutVertical {
		return Vertical
	}
	return Horizontal
}

// LayoutState is a container's position in the re-layout cycle.
type LayoutState uint8

const (
	LayoutClean LayoutState = iota
	LayoutDirty
	LayoutRecomputing
)

func (s LayoutState) String() string {
	switch s {
	case LayoutClean:
		return "clean"
	case LayoutDirty:
		return "dirty"
	case LayoutRecomputing:
		return "recomputing"
	}
	return "unknown"
}

// NewContainer creates a container with the given layout kind and children.
func NewContainer(kind LayoutKind, children ...*Widget) *Widget {
	w := NewWidget(KindContainer)
	w.layoutKind = kind
	w.AddChildren(children...)
	return w
}

// HStack creates a horizontal stack container.
func HStack(children ...*Widget) *Widget {
	return NewContainer(LayoutHorizontal, children...)
}

// VStack creates a vertical stack container.
func VStack(children ...*Widget) *Widget {
	return NewContainer(LayoutVertical, children...)
}

// ============================================================================
// Children
// ============================================================================

// AddChild appends a child. A child owned by another container is moved;
// adding an existing child again moves it to the end. Adding to a
// non-container, adding the widget to itself, or adding one of its
// ancestors is ignored.
func (w *Widget) AddChild(child *Widget) *Widget {
	return w.InsertChild(-1, child)
}

// AddChildren appends several children in order.
func (w *Widget) AddChildren(children ...*Widget) *Widget {
	for _, c := range children {
		w.AddChild(c)
	}
	return w
}

// InsertChild inserts a child at index; -1 or an out-of-range index appends.
func (w *Widget) InsertChild(index int, child *Widget) *Widget {
	if child == nil || !w.kind.IsContainer() || child.kind == KindScreen || w.isSelfOrAncestor(child) {
		return w
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}

	child.parent = w
	if index < 0 || index >= len(w.children) {
		w.children = append(w.children, child)
	} else {
		w.children = append(w.children[:index+1], w.children[index:]...)
		w.children[index] = child
	}
	child.setScreen(w.screen)
	w.markLayoutDirty()
	if child.kind.IsContainer() {
		child.markLayoutDirty()
	}
	return w
}

// RemoveChild removes a child and clears its back-references. Reports
// whether the child was found.
func (w *Widget) RemoveChild(child *Widget) bool {
	for i, c := range w.children {
		if c == child {
			w.removeChildAt(i)
			return true
		}
	}
	return false
}

// RemoveFromParent detaches the widget from its container.
func (w *Widget) RemoveFromParent() {
	if w.parent != nil {
		w.parent.RemoveChild(w)
	}
}

func (w *Widget) removeChildAt(i int) {
	child := w.children[i]
	w.children = append(w.children[:i], w.children[i+1:]...)
	if w.kind == KindScreen && w.screen != nil {
		w.screen.dropEntry(child)
	}
	child.parent = nil
	child.setScreen(nil)
	child.laidOut = false
	w.markLayoutDirty()
}

func (w *Widget) isSelfOrAncestor(other *Widget) bool {
	for p := w; p != nil; p = p.parent {
		if p == other {
			return true
		}
	}
	return false
}

func (w *Widget) setScreen(s *Screen) {
	w.screen = s
	for _, c := range w.children {
		c.setScreen(s)
	}
}

// ============================================================================
// Container Properties
// ============================================================================

// Layout returns the container's layout kind.
func (w *Widget) Layout() LayoutKind { return w.layoutKind }

// SetLayout sets how children are arranged.
func (w *Widget) SetLayout(kind LayoutKind) *Widget {
	if w.layoutKind != kind {
		w.layoutKind = kind
		w.markLayoutDirty()
	}
	return w
}

// Align returns the content alignment anchor.
func (w *Widget) Align() Anchor { return w.align }

// SetAlign sets the content alignment used on the cross axis of stacks and
// on both axes of overlays.
func (w *Widget) SetAlign(a Anchor) *Widget {
	if w.align != a {
		w.align = a
		w.markLayoutDirty()
	}
	return w
}

// Reverse reports whether children are arranged in reverse order.
func (w *Widget) Reverse() bool { return w.reverse }

// SetReverse arranges children last to first.
func (w *Widget) SetReverse(reverse bool) *Widget {
	if w.reverse != reverse {
		w.reverse = reverse
		w.markLayoutDirty()
	}
	return w
}

// AutoFill reports whether non-fixed children expand to fill the container.
func (w *Widget) AutoFill() bool { return w.autoFill }

// SetAutoFill makes non-fixed children expand to fill the container.
func (w *Widget) SetAutoFill(auto bool) *Widget {
	if w.autoFill != auto {
		w.autoFill = auto
		w.markLayoutDirty()
	}
	return w
}

// ============================================================================
// Dirty Tracking
// ============================================================================

// LayoutState returns where the container is in the re-layout cycle.
func (w *Widget) LayoutState() LayoutState { return w.layoutState }

// LayoutCount returns the number of completed layout passes.
func (w *Widget) LayoutCount() uint64 { return w.layoutCount }

// OnLayout registers a callback run at the end of each layout pass, while
// the container is still recomputing. Mutations made from the callback are
// picked up on the next tick.
func (w *Widget) OnLayout(fn func(*Widget)) *Widget {
	w.onLayout = fn
	return w
}

// DeferLayout schedules a re-layout for the next tick. Repeated calls
// within a tick coalesce into one pass.
func (w *Widget) DeferLayout() *Widget {
	w.markLayoutDirty()
	return w
}

// UpdateLayout recomputes the layout immediately instead of waiting for the
// next tick. Called during the container's own recomputation it only defers.
func (w *Widget) UpdateLayout() *Widget {
	if !w.kind.IsContainer() {
		return w
	}
	if w.layoutState == LayoutRecomputing {
		w.pendingDirty = true
		return w
	}
	w.layoutState = LayoutDirty
	newLayoutPass(w.layoutEnv()).visit(w)
	return w
}

func (w *Widget) markLayoutDirty() {
	if !w.kind.IsContainer() {
		return
	}
	if w.layoutState == LayoutRecomputing {
		w.pendingDirty = true
	} else {
		w.layoutState = LayoutDirty
	}
	for p := w.parent; p != nil; p = p.parent {
		p.descendantDirty = true
	}
}

// NeedsLayout reports whether the container or any descendant is dirty.
func (w *Widget) NeedsLayout() bool {
	return w.layoutState == LayoutDirty || w.descendantDirty
}

func (w *Widget) layoutEnv() layoutEnv {
	if w.screen != nil {
		return w.screen.env
	}
	return defaultLayoutEnv()
}

// MarshalText encodes the layout kind by name.
func (k LayoutKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a layout kind name.
func (k *LayoutKind) UnmarshalText(text []byte) error {
	v, ok := LayoutKindFromName(string(text))
	if !ok {
		return fmt.Errorf("unknown layout %q", text)
	}
	*k = v
	return nil
}
