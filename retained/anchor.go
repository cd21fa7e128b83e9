package retained

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Anchor selects the reference point a widget's x/y offset is measured from.
// Coordinates always describe the widget's top left corner; the anchor only
// moves the origin. Right and bottom anchors with a zero or positive offset
// place the widget partially or fully outside its frame, which is expected.
type Anchor uint8

const (
	AnchorTopLeft Anchor = iota
	AnchorTopCenter
	AnchorTopRight
	AnchorCenterLeft
	AnchorCenterCenter
	AnchorCenterRight
	AnchorBottomLeft
	AnchorBottomCenter
	AnchorBottomRight

	// AnchorScale treats the frame as a fixed DesignWidth x DesignHeight
	// surface and scales the widget (and its subtree) uniformly to fit the
	// real screen.
	AnchorScale
)

// DesignWidth and DesignHeight are the logical resolution scaled widgets are
// authored against.
const (
	DesignWidth  = 427
	DesignHeight = 240
)

var anchorNames = [...]string{
	"top_left", "top_center", "top_right",
	"center_left", "center_center", "center_right",
	"bottom_left", "bottom_center", "bottom_right",
	"scale",
}

// ID returns the stable numeric id used in serialized widgets.
func (a Anchor) ID() int { return int(a) }

func (a Anchor) String() string {
	if int(a) < len(anchorNames) {
		return anchorNames[a]
	}
	return "unknown"
}

// AnchorFromID looks up an anchor by its serialized id.
func AnchorFromID(id int) (Anchor, bool) {
	if id < 0 || id > int(AnchorScale) {
		return 0, false
	}
	return Anchor(id), true
}

// AnchorFromName looks up an anchor by its String form.
func AnchorFromName(name string) (Anchor, bool) {
	for i, n := range anchorNames {
		if n == name {
			return Anchor(i), true
		}
	}
	return 0, false
}

// horizontal returns -1, 0 or 1 for left, center and right anchors.
func (a Anchor) horizontal() int {
	switch a {
	case AnchorTopLeft, AnchorCenterLeft, AnchorBottomLeft, AnchorScale:
		return -1
	case AnchorTopCenter, AnchorCenterCenter, AnchorBottomCenter:
		return 0
	default:
		return 1
	}
}

// vertical returns -1, 0 or 1 for top, center and bottom anchors.
func (a Anchor) vertical() int {
	switch a {
	case AnchorTopLeft, AnchorTopCenter, AnchorTopRight, AnchorScale:
		return -1
	case AnchorCenterLeft, AnchorCenterCenter, AnchorCenterRight:
		return 0
	default:
		return 1
	}
}

// Resolve maps an anchor and offset to a position inside a parent frame of
// the given size. The result is relative to the frame's origin.
//
// AnchorScale returns the offset unchanged: scaled widgets live in the
// design frame and are mapped to the screen by a ScaleTransform.
func Resolve(anchor Anchor, offsetX, offsetY, parentWidth, parentHeight float32) (x, y float32) {
	if anchor == AnchorScale {
		return offsetX, offsetY
	}

	x = offsetX
	switch anchor.horizontal() {
	case 0:
		x += parentWidth / 2
	case 1:
		x += parentWidth
	}

	y = offsetY
	switch anchor.vertical() {
	case 0:
		y += parentHeight / 2
	case 1:
		y += parentHeight
	}
	return x, y
}

// ScaleTransform maps actual (unscaled) geometry to screen geometry.
type ScaleTransform struct {
	Factor  float32
	OffsetX float32
	OffsetY float32
}

// IdentityTransform leaves geometry untouched.
var IdentityTransform = ScaleTransform{Factor: 1}

// UniformTransform scales by factor without letterboxing.
func UniformTransform(factor float32) ScaleTransform {
	if factor <= 0 {
		factor = 1
	}
	return ScaleTransform{Factor: factor}
}

// ComputeScaleTransform fits the design resolution into a screen of the given
// pixel size. The scaled frame is centered on the axis with leftover space.
func ComputeScaleTransform(screenWidth, screenHeight float32) ScaleTransform {
	if screenWidth <= 0 || screenHeight <= 0 {
		return ScaleTransform{}
	}
	s := math32.Min(screenWidth/DesignWidth, screenHeight/DesignHeight)
	return ScaleTransform{
		Factor:  s,
		OffsetX: math32.Floor((screenWidth - DesignWidth*s) / 2),
		OffsetY: math32.Floor((screenHeight - DesignHeight*s) / 2),
	}
}

// Apply maps an actual rectangle to screen space.
func (t ScaleTransform) Apply(r Rect) Rect {
	return Rect{
		X:      r.X*t.Factor + t.OffsetX,
		Y:      r.Y*t.Factor + t.OffsetY,
		Width:  r.Width * t.Factor,
		Height: r.Height * t.Factor,
	}
}

// MarshalText encodes the anchor by name.
func (a Anchor) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an anchor name.
func (a *Anchor) UnmarshalText(text []byte) error {
	v, ok := AnchorFromName(string(text))
	if !ok {
		return fmt.Errorf("unknown anchor %q", text)
	}
	*a = v
	return nil
}
