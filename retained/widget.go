// Package retained implements a retained-mode widget tree with anchor based
// positioning, container auto-layout and dirty-flag coalesced re-layout.
//
// All mutation and layout happens on the tick goroutine. Widgets carry no
// locks; hosts that touch the tree from several goroutines must serialize
// access themselves (Loop.Post is the supported way in).
package retained

import (
	"math"

	"github.com/google/uuid"
)

// WidgetID uniquely identifies a widget. IDs survive serialization.
type WidgetID uuid.UUID

func newWidgetID() WidgetID {
	return WidgetID(uuid.New())
}

// ParseWidgetID parses the canonical string form of an id.
func ParseWidgetID(s string) (WidgetID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return WidgetID{}, err
	}
	return WidgetID(id), nil
}

func (id WidgetID) String() string {
	return uuid.UUID(id).String()
}

// WidgetKind identifies the variant of a widget.
type WidgetKind string

const (
	KindScreen      WidgetKind = "screen"
	KindContainer   WidgetKind = "container"
	KindScrollArea  WidgetKind = "scroll_area"
	KindList        WidgetKind = "list"
	KindLabel       WidgetKind = "label"
	KindButton      WidgetKind = "button"
	KindTextField   WidgetKind = "text_field"
	KindMaskedField WidgetKind = "masked_field"
	KindComboBox    WidgetKind = "combo_box"
	KindRadioButton WidgetKind = "radio_button"
	KindCheckBox    WidgetKind = "check_box"
	KindGradient    WidgetKind = "gradient"
	KindTexture     WidgetKind = "texture"
)

var knownKinds = map[WidgetKind]bool{
	KindScreen: true, KindContainer: true, KindScrollArea: true, KindList: true,
	KindLabel: true, KindButton: true, KindTextField: true, KindMaskedField: true,
	KindComboBox: true, KindRadioButton: true, KindCheckBox: true,
	KindGradient: true, KindTexture: true,
}

// Valid reports whether k is one of the known kinds.
func (k WidgetKind) Valid() bool { return knownKinds[k] }

// IsContainer reports whether widgets of this kind hold children.
func (k WidgetKind) IsContainer() bool {
	switch k {
	case KindScreen, KindContainer, KindScrollArea, KindList:
		return true
	}
	return false
}

// IsScrollable reports whether widgets of this kind own a Viewport.
func (k WidgetKind) IsScrollable() bool {
	return k == KindScrollArea || k == KindList
}

// IsControl reports whether widgets of this kind carry control state
// (enabled, colors, focus).
func (k WidgetKind) IsControl() bool {
	switch k {
	case KindButton, KindTextField, KindMaskedField, KindComboBox,
		KindRadioButton, KindCheckBox, KindScrollArea, KindList:
		return true
	}
	return false
}

// IsLabel reports whether widgets of this kind carry label state.
func (k WidgetKind) IsLabel() bool {
	switch k {
	case KindLabel, KindButton, KindComboBox, KindRadioButton, KindCheckBox:
		return true
	}
	return false
}

// MaxDimension is the default maximum width and height: effectively
// unbounded while still fitting a 32-bit tag.
const MaxDimension = math.MaxInt32

// Widget is a node of the retained tree. Container, scrollable, control and
// label capabilities are enabled by the widget's kind.
type Widget struct {
	id   WidgetID
	kind WidgetKind

	// Tree links. parent and screen are back-references only; ownership runs
	// from container to child.
	parent   *Widget
	screen   *Screen
	children []*Widget

	// Configured geometry
	x, y          int
	width, height int
	anchor        Anchor
	margin        Edges
	minWidth      int
	maxWidth      int
	minHeight     int
	maxHeight     int
	fixed         bool
	visible       bool
	priority      Priority

	savedX, savedY int
	hasSaved       bool

	// Computed by layout
	actual  Rect
	laidOut bool

	// Container state
	layoutKind      LayoutKind
	align           Anchor
	reverse         bool
	autoFill        bool
	layoutState     LayoutState
	pendingDirty    bool
	descendantDirty bool
	layoutCount     uint64
	onLayout        func(*Widget)

	viewport *Viewport

	onTick  func(*Widget)
	tooltip string

	control  *controlState
	label    *labelState
	variant  any
	userData any
}

// NewWidget creates a detached widget of the given kind with default values.
func NewWidget(kind WidgetKind) *Widget {
	w := &Widget{
		id:        newWidgetID(),
		kind:      kind,
		anchor:    AnchorCenterCenter,
		maxWidth:  MaxDimension,
		maxHeight: MaxDimension,
		visible:   true,
		priority:  PriorityNormal,
		align:     AnchorTopLeft,
	}
	if kind.IsScrollable() {
		w.viewport = NewViewport()
	}
	if kind.IsControl() {
		w.control = newControlState()
	}
	if kind.IsLabel() {
		w.label = newLabelState()
	}
	w.variant = newVariantState(kind)
	return w
}

// ID returns the widget's unique identifier.
func (w *Widget) ID() WidgetID { return w.id }

// Kind returns the widget variant.
func (w *Widget) Kind() WidgetKind { return w.kind }

// ============================================================================
// Tree Structure
// ============================================================================

// Parent returns the owning container, or nil when unattached.
func (w *Widget) Parent() *Widget { return w.parent }

// Screen returns the screen the widget is attached to, or nil.
func (w *Widget) Screen() *Screen { return w.screen }

// Attached reports whether the widget is under a screen.
func (w *Widget) Attached() bool { return w.screen != nil }

// Children returns a copy of the widget's children.
func (w *Widget) Children() []*Widget {
	result := make([]*Widget, len(w.children))
	copy(result, w.children)
	return result
}

// ChildCount returns the number of children.
func (w *Widget) ChildCount() int { return len(w.children) }

// ============================================================================
// Configured Geometry
// ============================================================================

// invalidate marks the layouts affected by a geometry change on w.
func (w *Widget) invalidate() {
	if w.parent != nil {
		w.parent.markLayoutDirty()
	}
	if w.kind.IsContainer() {
		w.markLayoutDirty()
	}
}

// X returns the configured x offset.
func (w *Widget) X() int { return w.x }

// Y returns the configured y offset.
func (w *Widget) Y() int { return w.y }

// Width returns the configured width.
func (w *Widget) Width() int { return w.width }

// Height returns the configured height.
func (w *Widget) Height() int { return w.height }

// SetX sets the x offset relative to the anchor.
func (w *Widget) SetX(x int) *Widget {
	return w.SetPosition(x, w.y)
}

// SetY sets the y offset relative to the anchor.
func (w *Widget) SetY(y int) *Widget {
	return w.SetPosition(w.x, y)
}

// SetPosition sets both offsets.
func (w *Widget) SetPosition(x, y int) *Widget {
	if w.x != x || w.y != y {
		w.x, w.y = x, y
		w.invalidate()
	}
	return w
}

// ShiftX moves the widget dx pixels horizontally.
func (w *Widget) ShiftX(dx int) *Widget { return w.SetPosition(w.x+dx, w.y) }

// ShiftY moves the widget dy pixels vertically.
func (w *Widget) ShiftY(dy int) *Widget { return w.SetPosition(w.x, w.y+dy) }

// SetWidth sets the configured width. Negative values saturate at 0.
func (w *Widget) SetWidth(width int) *Widget {
	return w.SetSize(width, w.height)
}

// SetHeight sets the configured height. Negative values saturate at 0.
func (w *Widget) SetHeight(height int) *Widget {
	return w.SetSize(w.width, height)
}

// SetSize sets width and height.
func (w *Widget) SetSize(width, height int) *Widget {
	width, height = nonNegative(width), nonNegative(height)
	if w.width != width || w.height != height {
		w.width, w.height = width, height
		w.invalidate()
	}
	return w
}

// SetBounds sets position and size in one call.
func (w *Widget) SetBounds(x, y, width, height int) *Widget {
	return w.SetPosition(x, y).SetSize(width, height)
}

// Bounds returns the configured position and size.
func (w *Widget) Bounds() (x, y, width, height int) {
	return w.x, w.y, w.width, w.height
}

// Anchor returns the widget's anchor. Defaults to AnchorCenterCenter.
func (w *Widget) Anchor() Anchor { return w.anchor }

// SetAnchor sets the anchor the offsets are measured from.
func (w *Widget) SetAnchor(a Anchor) *Widget {
	if w.anchor != a {
		w.anchor = a
		w.invalidate()
	}
	return w
}

// Margin returns the widget's margins.
func (w *Widget) Margin() Edges { return w.margin }

// SetMargin sets margins using CSS shorthand (1 to 4 values). Other value
// counts leave the margins unchanged.
func (w *Widget) SetMargin(values ...int) *Widget {
	e, ok := EdgesShorthand(values...)
	if !ok {
		return w
	}
	return w.SetMargins(e)
}

// SetMargins replaces all four margins.
func (w *Widget) SetMargins(e Edges) *Widget {
	if w.margin != e {
		w.margin = e
		w.invalidate()
	}
	return w
}

// SetMarginTop sets the top margin.
func (w *Widget) SetMarginTop(v int) *Widget {
	e := w.margin
	e.Top = v
	return w.SetMargins(e)
}

// SetMarginRight sets the right margin.
func (w *Widget) SetMarginRight(v int) *Widget {
	e := w.margin
	e.Right = v
	return w.SetMargins(e)
}

// SetMarginBottom sets the bottom margin.
func (w *Widget) SetMarginBottom(v int) *Widget {
	e := w.margin
	e.Bottom = v
	return w.SetMargins(e)
}

// SetMarginLeft sets the left margin.
func (w *Widget) SetMarginLeft(v int) *Widget {
	e := w.margin
	e.Left = v
	return w.SetMargins(e)
}

// MarginTop returns the top margin.
func (w *Widget) MarginTop() int { return w.margin.Top }

// MarginRight returns the right margin.
func (w *Widget) MarginRight() int { return w.margin.Right }

// MarginBottom returns the bottom margin.
func (w *Widget) MarginBottom() int { return w.margin.Bottom }

// MarginLeft returns the left margin.
func (w *Widget) MarginLeft() int { return w.margin.Left }

// MinWidth returns the minimum width applied during layout.
func (w *Widget) MinWidth() int { return w.minWidth }

// MaxWidth returns the maximum width applied during layout.
func (w *Widget) MaxWidth() int { return w.maxWidth }

// MinHeight returns the minimum height applied during layout.
func (w *Widget) MinHeight() int { return w.minHeight }

// MaxHeight returns the maximum height applied during layout.
func (w *Widget) MaxHeight() int { return w.maxHeight }

// SetMinWidth sets the minimum width. Negative values saturate at 0.
func (w *Widget) SetMinWidth(v int) *Widget {
	return w.setConstraint(&w.minWidth, v)
}

// SetMaxWidth sets the maximum width. Negative values saturate at 0.
func (w *Widget) SetMaxWidth(v int) *Widget {
	return w.setConstraint(&w.maxWidth, v)
}

// SetMinHeight sets the minimum height. Negative values saturate at 0.
func (w *Widget) SetMinHeight(v int) *Widget {
	return w.setConstraint(&w.minHeight, v)
}

// SetMaxHeight sets the maximum height. Negative values saturate at 0.
func (w *Widget) SetMaxHeight(v int) *Widget {
	return w.setConstraint(&w.maxHeight, v)
}

func (w *Widget) setConstraint(field *int, v int) *Widget {
	v = nonNegative(v)
	if *field != v {
		*field = v
		w.invalidate()
	}
	return w
}

// Fixed reports whether the widget is exempt from container auto-sizing.
func (w *Widget) Fixed() bool { return w.fixed }

// SetFixed exempts the widget from container auto-sizing and arrangement.
func (w *Widget) SetFixed(fixed bool) *Widget {
	if w.fixed != fixed {
		w.fixed = fixed
		w.invalidate()
	}
	return w
}

// Visible reports whether the widget is rendered.
func (w *Widget) Visible() bool { return w.visible }

// SetVisible shows or hides the widget. Hidden widgets drop out of stack flow.
func (w *Widget) SetVisible(visible bool) *Widget {
	if w.visible != visible {
		w.visible = visible
		if w.parent != nil {
			w.parent.markLayoutDirty()
		}
	}
	return w
}

// Priority returns the render priority.
func (w *Widget) Priority() Priority { return w.priority }

// SetPriority sets the render priority. Highest renders first (background).
func (w *Widget) SetPriority(p Priority) *Widget {
	w.priority = p
	return w
}

// SavePosition stores the current x/y offsets, replacing any earlier save.
func (w *Widget) SavePosition() *Widget {
	w.savedX, w.savedY = w.x, w.y
	w.hasSaved = true
	return w
}

// RestorePosition restores the offsets stored by SavePosition. Without a
// prior save this does nothing.
func (w *Widget) RestorePosition() *Widget {
	if !w.hasSaved {
		return w
	}
	return w.SetPosition(w.savedX, w.savedY)
}

// clampedSize returns the configured size clamped by min/max.
func (w *Widget) clampedSize() (width, height float32) {
	return w.clampWidth(float32(w.width)), w.clampHeight(float32(w.height))
}

func (w *Widget) clampWidth(v float32) float32 {
	return clamp(v, float32(w.minWidth), float32(w.maxWidth))
}

func (w *Widget) clampHeight(v float32) float32 {
	return clamp(v, float32(w.minHeight), float32(w.maxHeight))
}

func (w *Widget) clampAxis(axis Axis, v float32) float32 {
	if axis == Horizontal {
		return w.clampWidth(v)
	}
	return w.clampHeight(v)
}

// ============================================================================
// Computed Geometry
// ============================================================================

// ActualBounds returns the unscaled geometry computed by layout. Widgets that
// have not been laid out report their configured values.
func (w *Widget) ActualBounds() Rect {
	if !w.laidOut {
		return Rect{
			X:      float32(w.x),
			Y:      float32(w.y),
			Width:  float32(w.width),
			Height: float32(w.height),
		}
	}
	return w.actual
}

// ActualX returns the unscaled x coordinate.
func (w *Widget) ActualX() float32 { return w.ActualBounds().X }

// ActualY returns the unscaled y coordinate.
func (w *Widget) ActualY() float32 { return w.ActualBounds().Y }

// ActualWidth returns the unscaled width.
func (w *Widget) ActualWidth() float32 { return w.ActualBounds().Width }

// ActualHeight returns the unscaled height.
func (w *Widget) ActualHeight() float32 { return w.ActualBounds().Height }

// ScreenBounds returns the geometry in screen pixels. Detached widgets
// report their configured values.
func (w *Widget) ScreenBounds() Rect {
	if w.screen == nil {
		return w.ActualBounds()
	}
	return w.screen.transformFor(w).Apply(w.ActualBounds())
}

// ScreenX returns the scaled x coordinate.
func (w *Widget) ScreenX() float32 { return w.ScreenBounds().X }

// ScreenY returns the scaled y coordinate.
func (w *Widget) ScreenY() float32 { return w.ScreenBounds().Y }

// ScreenWidth returns the scaled width.
func (w *Widget) ScreenWidth() float32 { return w.ScreenBounds().Width }

// ScreenHeight returns the scaled height.
func (w *Widget) ScreenHeight() float32 { return w.ScreenBounds().Height }

// setActual stores computed geometry and reports whether it changed.
func (w *Widget) setActual(r Rect) bool {
	if w.laidOut && w.actual == r {
		return false
	}
	w.actual = r
	w.laidOut = true
	return true
}

// scaled reports whether the widget's top-level ancestor uses AnchorScale.
// Nested AnchorScale widgets behave like AnchorTopLeft.
func (w *Widget) scaled() bool {
	top := w
	for top.parent != nil && top.parent.kind != KindScreen {
		top = top.parent
	}
	return top.parent != nil && top.anchor == AnchorScale
}

// ============================================================================
// Hooks and Data
// ============================================================================

// OnTick registers a callback run once per tick before layout.
func (w *Widget) OnTick(fn func(*Widget)) *Widget {
	w.onTick = fn
	return w
}

// Tooltip returns the text shown while the pointer rests on the widget.
func (w *Widget) Tooltip() string { return w.tooltip }

// SetTooltip sets the hover text. An empty string removes it.
func (w *Widget) SetTooltip(text string) *Widget {
	w.tooltip = text
	return w
}

// SetData attaches arbitrary application data.
func (w *Widget) SetData(data any) *Widget {
	w.userData = data
	return w
}

// Data returns the application data set with SetData.
func (w *Widget) Data() any { return w.userData }

// Owner returns the owner tag of the widget's top-level attachment, or ""
// when unattached.
func (w *Widget) Owner() string {
	if w.screen == nil {
		return ""
	}
	return w.screen.Owner(w)
}
