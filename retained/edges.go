package retained

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

// Edges holds values for the four sides of a box, in CSS order.
type Edges struct {
	Top    int `toml:"top,omitempty" yaml:"top,omitempty"`
	Right  int `toml:"right,omitempty" yaml:"right,omitempty"`
	Bottom int `toml:"bottom,omitempty" yaml:"bottom,omitempty"`
	Left   int `toml:"left,omitempty" yaml:"left,omitempty"`
}

// EdgesShorthand expands CSS margin shorthand:
//
//	1 value:  all sides
//	2 values: top/bottom, left/right
//	3 values: top, left/right, bottom
//	4 values: top, right, bottom, left
//
// Any other count reports false.
func EdgesShorthand(values ...int) (Edges, bool) {
	switch len(values) {
	case 1:
		v := values[0]
		return Edges{Top: v, Right: v, Bottom: v, Left: v}, true
	case 2:
		return Edges{Top: values[0], Right: values[1], Bottom: values[0], Left: values[1]}, true
	case 3:
		return Edges{Top: values[0], Right: values[1], Bottom: values[2], Left: values[1]}, true
	case 4:
		return Edges{Top: values[0], Right: values[1], Bottom: values[2], Left: values[3]}, true
	}
	return Edges{}, false
}

// Horizontal returns Left + Right.
func (e Edges) Horizontal() int { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e Edges) Vertical() int { return e.Top + e.Bottom }

// leading returns the margin before the box along axis.
func (e Edges) leading(axis Axis) float32 {
	if axis == Horizontal {
		return float32(e.Left)
	}
	return float32(e.Top)
}

// trailing returns the margin after the box along axis.
func (e Edges) trailing(axis Axis) float32 {
	if axis == Horizontal {
		return float32(e.Right)
	}
	return float32(e.Bottom)
}

// Rect is an axis-aligned rectangle in actual or screen space.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Inset shrinks the rectangle by the given edges. Sizes never go negative.
func (r Rect) Inset(e Edges) Rect {
	out := Rect{
		X:      r.X + float32(e.Left),
		Y:      r.Y + float32(e.Top),
		Width:  r.Width - float32(e.Horizontal()),
		Height: r.Height - float32(e.Vertical()),
	}
	out.Width = max(out.Width, 0)
	out.Height = max(out.Height, 0)
	return out
}

// Snap grows the rectangle outward to whole pixels.
func (r Rect) Snap() Rect {
	x0, y0 := math32.Floor(r.X), math32.Floor(r.Y)
	x1, y1 := math32.Ceil(r.X+r.Width), math32.Ceil(r.Y+r.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Intersect returns the overlap of two rectangles, empty if they don't meet.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.Width, o.X+o.Width), min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// start returns the rectangle's origin along axis.
func (r Rect) start(axis Axis) float32 {
	if axis == Horizontal {
		return r.X
	}
	return r.Y
}

// size returns the rectangle's extent along axis.
func (r Rect) size(axis Axis) float32 {
	if axis == Horizontal {
		return r.Width
	}
	return r.Height
}

// clamp restricts v to [lo, hi]. Conflicting bounds (lo > hi) yield lo.
func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo || hi < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// nonNegative saturates negative values at zero.
func nonNegative[T constraints.Integer | constraints.Float](v T) T {
	if v < 0 {
		return 0
	}
	return v
}
