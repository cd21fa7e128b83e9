package retained

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ============================================================================
// Color
// ============================================================================

// ErrInvalidColor is returned when a color string cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// Color is a non-premultiplied RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	White       = Color{255, 255, 255, 255}
	Black       = Color{0, 0, 0, 255}
	Transparent = Color{}
)

// RGBA creates a color from components.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// ColorFromPacked unpacks a 0xRRGGBBAA value.
func ColorFromPacked(v uint32) Color {
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

// Packed returns the color as 0xRRGGBBAA.
func (c Color) Packed() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// ColorFromHex parses "#RRGGBB" or "#RRGGBBAA". The leading '#' is optional.
func ColorFromHex(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		hex += "ff"
	case 8:
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return ColorFromPacked(uint32(v)), nil
}

// Hex returns the color as "#rrggbbaa".
func (c Color) Hex() string {
	return fmt.Sprintf("#%08x", c.Packed())
}

// NRGBA converts to the standard library color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// ============================================================================
// Capability State
// ============================================================================

// controlState backs interactive widgets.
type controlState struct {
	enabled       bool
	color         Color
	disabledColor Color
	focus         bool
}

func newControlState() *controlState {
	return &controlState{
		enabled:       true,
		color:         White,
		disabledColor: RGBA(160, 160, 160, 255),
	}
}

// labelState backs widgets that display a line of text.
type labelState struct {
	text      string
	textColor Color
	align     Anchor
	scale     float32
	shadow    bool
	auto      bool
}

func newLabelState() *labelState {
	return &labelState{
		textColor: White,
		align:     AnchorTopLeft,
		scale:     1,
		shadow:    true,
		auto:      true,
	}
}

type buttonState struct {
	disabledText string
	hoverColor   Color
	onClick      func(*Widget)
}

type checkBoxState struct {
	checked  bool
	onChange func(*Widget, bool)
}

type textFieldState struct {
	text        string
	cursor      int
	maxChars    int
	maxLines    int
	placeholder string
	tabIndex    int
	fieldColor  Color
	borderColor Color
	mask        rune
	onChange    func(*Widget, string)
	onFinished  func(*Widget)
}

type comboBoxState struct {
	items    []string
	selected int
	open     bool
	format   string
	onSelect func(*Widget, int, string)
}

type radioState struct {
	selected bool
	group    int
}

type gradientState struct {
	top, bottom Color
	orientation Axis
}

type textureState struct {
	url            string
	top, left      int
	drawAlpha      bool
	originalWidth  int
	originalHeight int
	loading        bool
	err            error
	onFinish       func(*Widget)
}

// DefaultMaskRune is the character masked fields display in place of text.
const DefaultMaskRune = '*'

// DefaultTextureOffset as a texture's top or left scales the whole image to
// the widget. Any offset of 0 or more draws a 1:1 slice starting there.
const DefaultTextureOffset = -1

func textureOffset(v int) int { return max(v, DefaultTextureOffset) }

func newVariantState(kind WidgetKind) any {
	switch kind {
	case KindButton:
		return &buttonState{hoverColor: RGBA(255, 255, 160, 255)}
	case KindCheckBox:
		return &checkBoxState{}
	case KindTextField, KindMaskedField:
		st := &textFieldState{
			maxChars:    16,
			maxLines:    1,
			fieldColor:  Black,
			borderColor: RGBA(160, 160, 160, 255),
		}
		if kind == KindMaskedField {
			st.mask = DefaultMaskRune
		}
		return st
	case KindComboBox:
		return &comboBoxState{selected: -1, format: "%s"}
	case KindRadioButton:
		return &radioState{}
	case KindGradient:
		return &gradientState{top: White, bottom: White, orientation: Vertical}
	case KindTexture:
		return &textureState{drawAlpha: true, top: DefaultTextureOffset, left: DefaultTextureOffset}
	}
	return nil
}

// variantAs returns w's kind-specific state if it has type *T.
func variantAs[T any](w *Widget) *T {
	s, _ := w.variant.(*T)
	return s
}

func (w *Widget) button() *buttonState       { return variantAs[buttonState](w) }
func (w *Widget) checkBox() *checkBoxState   { return variantAs[checkBoxState](w) }
func (w *Widget) textField() *textFieldState { return variantAs[textFieldState](w) }
func (w *Widget) comboBox() *comboBoxState   { return variantAs[comboBoxState](w) }
func (w *Widget) radio() *radioState         { return variantAs[radioState](w) }
func (w *Widget) gradient() *gradientState   { return variantAs[gradientState](w) }
func (w *Widget) texture() *textureState     { return variantAs[textureState](w) }

// ============================================================================
// Control
// ============================================================================

// Enabled reports whether a control accepts input. Non-controls report
// false.
func (w *Widget) Enabled() bool {
	return w.control != nil && w.control.enabled
}

// SetEnabled enables or disables a control. Disabling drops focus.
func (w *Widget) SetEnabled(enabled bool) *Widget {
	if w.control != nil {
		w.control.enabled = enabled
		if !enabled {
			w.control.focus = false
		}
	}
	return w
}

// Color returns the control's color.
func (w *Widget) Color() Color {
	if w.control == nil {
		return Transparent
	}
	return w.control.color
}

// SetColor sets the control's color. On gradients it sets both stops.
func (w *Widget) SetColor(c Color) *Widget {
	if g := w.gradient(); g != nil {
		g.top, g.bottom = c, c
	}
	if w.control != nil {
		w.control.color = c
	}
	return w
}

// DisabledColor returns the color used while disabled.
func (w *Widget) DisabledColor() Color {
	if w.control == nil {
		return Transparent
	}
	return w.control.disabledColor
}

// SetDisabledColor sets the color used while disabled.
func (w *Widget) SetDisabledColor(c Color) *Widget {
	if w.control != nil {
		w.control.disabledColor = c
	}
	return w
}

// ============================================================================
// Label
// ============================================================================

// Text returns the widget's text: the label text, or a text field's value.
func (w *Widget) Text() string {
	if tf := w.textField(); tf != nil {
		return tf.text
	}
	if w.label != nil {
		return w.label.text
	}
	return ""
}

// SetText sets the label text, or a text field's value truncated to its
// maximum length. The cursor is kept within the new text.
func (w *Widget) SetText(text string) *Widget {
	if tf := w.textField(); tf != nil {
		if tf.maxChars > 0 && utf8.RuneCountInString(text) > tf.maxChars {
			text = string([]rune(text)[:tf.maxChars])
		}
		if tf.text == text {
			return w
		}
		tf.text = text
		tf.cursor = clamp(tf.cursor, 0, utf8.RuneCountInString(text))
		if tf.onChange != nil {
			tf.onChange(w, text)
		}
		return w
	}
	if w.label != nil {
		w.label.text = text
	}
	return w
}

// DisplayText returns the text as drawn: masked fields replace every rune
// with the mask, disabled buttons show their disabled text if set, and
// combo boxes show the formatted selection.
func (w *Widget) DisplayText() string {
	switch {
	case w.kind == KindMaskedField:
		tf := w.textField()
		return strings.Repeat(string(tf.mask), utf8.RuneCountInString(tf.text))
	case w.kind == KindButton && !w.Enabled() && w.button().disabledText != "":
		return w.button().disabledText
	case w.kind == KindComboBox:
		cb := w.comboBox()
		if cb.selected < 0 {
			return w.label.text
		}
		return fmt.Sprintf(cb.format, cb.items[cb.selected])
	}
	return w.Text()
}

// TextColor returns the label text color.
func (w *Widget) TextColor() Color {
	if w.label == nil {
		return Transparent
	}
	return w.label.textColor
}

// SetTextColor sets the label text color.
func (w *Widget) SetTextColor(c Color) *Widget {
	if w.label != nil {
		w.label.textColor = c
	}
	return w
}

// TextAlign returns the anchor text is aligned to inside the label.
func (w *Widget) TextAlign() Anchor {
	if w.label == nil {
		return AnchorTopLeft
	}
	return w.label.align
}

// SetTextAlign aligns text inside the label.
func (w *Widget) SetTextAlign(a Anchor) *Widget {
	if w.label != nil {
		w.label.align = a
	}
	return w
}

// TextScale returns the label text scale.
func (w *Widget) TextScale() float32 {
	if w.label == nil {
		return 1
	}
	return w.label.scale
}

// SetTextScale sets the label text scale. Non-positive values are ignored.
func (w *Widget) SetTextScale(scale float32) *Widget {
	if w.label != nil && scale > 0 {
		w.label.scale = scale
	}
	return w
}

// Shadow reports whether label text is drawn with a shadow.
func (w *Widget) Shadow() bool { return w.label != nil && w.label.shadow }

// SetShadow toggles the label text shadow.
func (w *Widget) SetShadow(shadow bool) *Widget {
	if w.label != nil {
		w.label.shadow = shadow
	}
	return w
}

// AutoSize reports whether the host should size the label to its text.
func (w *Widget) AutoSize() bool { return w.label != nil && w.label.auto }

// SetAutoSize asks the host to size the label to its text.
func (w *Widget) SetAutoSize(auto bool) *Widget {
	if w.label != nil {
		w.label.auto = auto
	}
	return w
}

// ============================================================================
// Button and CheckBox
// ============================================================================

// DisabledText returns the text a disabled button shows.
func (w *Widget) DisabledText() string {
	if b := w.button(); b != nil {
		return b.disabledText
	}
	return ""
}

// SetDisabledText sets the text a disabled button shows.
func (w *Widget) SetDisabledText(text string) *Widget {
	if b := w.button(); b != nil {
		b.disabledText = text
	}
	return w
}

// HoverColor returns the button text color under the pointer.
func (w *Widget) HoverColor() Color {
	if b := w.button(); b != nil {
		return b.hoverColor
	}
	return Transparent
}

// SetHoverColor sets the button text color under the pointer.
func (w *Widget) SetHoverColor(c Color) *Widget {
	if b := w.button(); b != nil {
		b.hoverColor = c
	}
	return w
}

// OnClick sets the handler run when an enabled button is clicked.
func (w *Widget) OnClick(fn func(*Widget)) *Widget {
	if b := w.button(); b != nil {
		b.onClick = fn
	}
	return w
}

// Checked reports whether a check box is checked.
func (w *Widget) Checked() bool {
	cb := w.checkBox()
	return cb != nil && cb.checked
}

// SetChecked sets the check box state.
func (w *Widget) SetChecked(checked bool) *Widget {
	if cb := w.checkBox(); cb != nil && cb.checked != checked {
		cb.checked = checked
		if cb.onChange != nil {
			cb.onChange(w, checked)
		}
	}
	return w
}

// OnCheckedChange sets the handler run when a check box changes.
func (w *Widget) OnCheckedChange(fn func(*Widget, bool)) *Widget {
	if cb := w.checkBox(); cb != nil {
		cb.onChange = fn
	}
	return w
}

// ============================================================================
// Text Field
// ============================================================================

// CursorPosition returns the text field cursor as a rune index.
func (w *Widget) CursorPosition() int {
	if tf := w.textField(); tf != nil {
		return tf.cursor
	}
	return 0
}

// SetCursorPosition moves the cursor, clamped to the text.
func (w *Widget) SetCursorPosition(pos int) *Widget {
	if tf := w.textField(); tf != nil {
		tf.cursor = clamp(pos, 0, utf8.RuneCountInString(tf.text))
	}
	return w
}

// MaxChars returns the maximum text length in runes; 0 is unlimited.
func (w *Widget) MaxChars() int {
	if tf := w.textField(); tf != nil {
		return tf.maxChars
	}
	return 0
}

// SetMaxChars sets the maximum text length and truncates the current text.
func (w *Widget) SetMaxChars(n int) *Widget {
	if tf := w.textField(); tf != nil {
		tf.maxChars = nonNegative(n)
		w.SetText(tf.text)
	}
	return w
}

// MaxLines returns the maximum number of lines.
func (w *Widget) MaxLines() int {
	if tf := w.textField(); tf != nil {
		return tf.maxLines
	}
	return 0
}

// SetMaxLines sets the maximum number of lines, at least 1.
func (w *Widget) SetMaxLines(n int) *Widget {
	if tf := w.textField(); tf != nil {
		tf.maxLines = max(n, 1)
	}
	return w
}

// Placeholder returns the text shown while a field is empty.
func (w *Widget) Placeholder() string {
	if tf := w.textField(); tf != nil {
		return tf.placeholder
	}
	return ""
}

// SetPlaceholder sets the text shown while a field is empty.
func (w *Widget) SetPlaceholder(text string) *Widget {
	if tf := w.textField(); tf != nil {
		tf.placeholder = text
	}
	return w
}

// TabIndex returns the field's position in the focus order.
func (w *Widget) TabIndex() int {
	if tf := w.textField(); tf != nil {
		return tf.tabIndex
	}
	return 0
}

// SetTabIndex sets the field's position in the focus order.
func (w *Widget) SetTabIndex(i int) *Widget {
	if tf := w.textField(); tf != nil {
		tf.tabIndex = i
	}
	return w
}

// FieldColor returns the field background color.
func (w *Widget) FieldColor() Color {
	if tf := w.textField(); tf != nil {
		return tf.fieldColor
	}
	return Transparent
}

// SetFieldColor sets the field background color.
func (w *Widget) SetFieldColor(c Color) *Widget {
	if tf := w.textField(); tf != nil {
		tf.fieldColor = c
	}
	return w
}

// BorderColor returns the field border color.
func (w *Widget) BorderColor() Color {
	if tf := w.textField(); tf != nil {
		return tf.borderColor
	}
	return Transparent
}

// SetBorderColor sets the field border color.
func (w *Widget) SetBorderColor(c Color) *Widget {
	if tf := w.textField(); tf != nil {
		tf.borderColor = c
	}
	return w
}

// MaskRune returns the rune a masked field shows, or 0.
func (w *Widget) MaskRune() rune {
	if tf := w.textField(); tf != nil {
		return tf.mask
	}
	return 0
}

// SetMaskRune sets the rune a masked field shows.
func (w *Widget) SetMaskRune(r rune) *Widget {
	if tf := w.textField(); tf != nil && w.kind == KindMaskedField && r != 0 {
		tf.mask = r
	}
	return w
}

// OnTextChange sets the handler run when a field's text changes.
func (w *Widget) OnTextChange(fn func(*Widget, string)) *Widget {
	if tf := w.textField(); tf != nil {
		tf.onChange = fn
	}
	return w
}

// OnTypingFinished sets the handler run when Enter is pressed in the field.
func (w *Widget) OnTypingFinished(fn func(*Widget)) *Widget {
	if tf := w.textField(); tf != nil {
		tf.onFinished = fn
	}
	return w
}

// ============================================================================
// Combo Box
// ============================================================================

// Items returns a copy of the combo box entries.
func (w *Widget) Items() []string {
	if cb := w.comboBox(); cb != nil {
		return append([]string(nil), cb.items...)
	}
	return nil
}

// SetItems replaces the entries. A selection past the end is cleared.
func (w *Widget) SetItems(items ...string) *Widget {
	if cb := w.comboBox(); cb != nil {
		cb.items = append([]string(nil), items...)
		if cb.selected >= len(cb.items) {
			cb.selected = -1
		}
	}
	return w
}

// SelectedRow returns the selected index, or -1.
func (w *Widget) SelectedRow() int {
	if cb := w.comboBox(); cb != nil {
		return cb.selected
	}
	return -1
}

// SelectedItem returns the selected entry, or "".
func (w *Widget) SelectedItem() string {
	cb := w.comboBox()
	if cb == nil || cb.selected < 0 {
		return ""
	}
	return cb.items[cb.selected]
}

// SetSelection selects row, clamped to [-1, len(items)-1].
func (w *Widget) SetSelection(row int) *Widget {
	cb := w.comboBox()
	if cb == nil {
		return w
	}
	row = clamp(row, -1, len(cb.items)-1)
	if row == cb.selected {
		return w
	}
	cb.selected = row
	if cb.onSelect != nil {
		cb.onSelect(w, row, w.SelectedItem())
	}
	return w
}

// OnSelectionChange sets the handler run when the selection changes.
func (w *Widget) OnSelectionChange(fn func(w *Widget, row int, item string)) *Widget {
	if cb := w.comboBox(); cb != nil {
		cb.onSelect = fn
	}
	return w
}

// IsOpen reports whether the combo box list is open.
func (w *Widget) IsOpen() bool {
	cb := w.comboBox()
	return cb != nil && cb.open
}

// OpenList opens the combo box list.
func (w *Widget) OpenList() *Widget {
	if cb := w.comboBox(); cb != nil && w.Enabled() {
		cb.open = true
	}
	return w
}

// CloseList closes the combo box list.
func (w *Widget) CloseList() *Widget {
	if cb := w.comboBox(); cb != nil {
		cb.open = false
	}
	return w
}

// Format returns the fmt verb string used to display the selection.
func (w *Widget) Format() string {
	if cb := w.comboBox(); cb != nil {
		return cb.format
	}
	return ""
}

// SetFormat sets the fmt string used to display the selection. It must
// contain one %s verb.
func (w *Widget) SetFormat(format string) *Widget {
	if cb := w.comboBox(); cb != nil && strings.Contains(format, "%s") {
		cb.format = format
	}
	return w
}

// ============================================================================
// Radio Button
// ============================================================================

// Selected reports whether a radio button is selected.
func (w *Widget) Selected() bool {
	r := w.radio()
	return r != nil && r.selected
}

// SetSelected selects or clears a radio button. Selecting clears every
// other radio button of the same group on the screen, or among siblings
// when detached.
func (w *Widget) SetSelected(selected bool) *Widget {
	r := w.radio()
	if r == nil {
		return w
	}
	r.selected = selected
	if !selected {
		return w
	}

	scope := w.parent
	if w.screen != nil {
		scope = w.screen.root
	}
	if scope == nil {
		return w
	}
	walk(scope, func(o *Widget) bool {
		if or := o.radio(); or != nil && o != w && or.group == r.group {
			or.selected = false
		}
		return true
	})
	return w
}

// Group returns the radio group.
func (w *Widget) Group() int {
	if r := w.radio(); r != nil {
		return r.group
	}
	return 0
}

// SetGroup sets the radio group.
func (w *Widget) SetGroup(group int) *Widget {
	if r := w.radio(); r != nil {
		r.group = group
	}
	return w
}

// ============================================================================
// Gradient
// ============================================================================

// TopColor returns the gradient start color.
func (w *Widget) TopColor() Color {
	if g := w.gradient(); g != nil {
		return g.top
	}
	return Transparent
}

// SetTopColor sets the gradient start color.
func (w *Widget) SetTopColor(c Color) *Widget {
	if g := w.gradient(); g != nil {
		g.top = c
	}
	return w
}

// BottomColor returns the gradient end color.
func (w *Widget) BottomColor() Color {
	if g := w.gradient(); g != nil {
		return g.bottom
	}
	return Transparent
}

// SetBottomColor sets the gradient end color.
func (w *Widget) SetBottomColor(c Color) *Widget {
	if g := w.gradient(); g != nil {
		g.bottom = c
	}
	return w
}

// Orientation returns the axis the gradient runs along.
func (w *Widget) Orientation() Axis {
	if g := w.gradient(); g != nil {
		return g.orientation
	}
	return Vertical
}

// SetOrientation sets the axis the gradient runs along.
func (w *Widget) SetOrientation(axis Axis) *Widget {
	if g := w.gradient(); g != nil {
		g.orientation = axis
	}
	return w
}

// ============================================================================
// Texture
// ============================================================================

// URL returns the texture source.
func (w *Widget) URL() string {
	if t := w.texture(); t != nil {
		return t.url
	}
	return ""
}

// SetURL sets the texture source and forgets the loaded size.
func (w *Widget) SetURL(url string) *Widget {
	if t := w.texture(); t != nil && t.url != url {
		t.url = url
		t.originalWidth, t.originalHeight = 0, 0
		t.err = nil
	}
	return w
}

// TextureTop returns the top of the texture region drawn, or -1 when the
// texture is scaled to fit.
func (w *Widget) TextureTop() int {
	if t := w.texture(); t != nil {
		return t.top
	}
	return 0
}

// SetTextureTop sets the top of the texture region drawn. Values below -1
// saturate at -1.
func (w *Widget) SetTextureTop(top int) *Widget {
	if t := w.texture(); t != nil {
		t.top = textureOffset(top)
	}
	return w
}

// TextureLeft returns the left of the texture region drawn, or -1.
func (w *Widget) TextureLeft() int {
	if t := w.texture(); t != nil {
		return t.left
	}
	return 0
}

// SetTextureLeft sets the left of the texture region drawn.
func (w *Widget) SetTextureLeft(left int) *Widget {
	if t := w.texture(); t != nil {
		t.left = textureOffset(left)
	}
	return w
}

// DrawAlpha reports whether the texture alpha channel is drawn.
func (w *Widget) DrawAlpha() bool {
	t := w.texture()
	return t != nil && t.drawAlpha
}

// SetDrawAlpha toggles drawing the texture alpha channel.
func (w *Widget) SetDrawAlpha(draw bool) *Widget {
	if t := w.texture(); t != nil {
		t.drawAlpha = draw
	}
	return w
}

// OriginalSize returns the loaded texture's pixel size, 0x0 until loaded.
func (w *Widget) OriginalSize() (width, height int) {
	if t := w.texture(); t != nil {
		return t.originalWidth, t.originalHeight
	}
	return 0, 0
}

// TextureLoading reports whether a load is in flight.
func (w *Widget) TextureLoading() bool {
	t := w.texture()
	return t != nil && t.loading
}

// TextureErr returns the last load error.
func (w *Widget) TextureErr() error {
	if t := w.texture(); t != nil {
		return t.err
	}
	return nil
}

// OnTextureLoaded sets the handler run on the tick goroutine once the
// texture finished loading.
func (w *Widget) OnTextureLoaded(fn func(*Widget)) *Widget {
	if t := w.texture(); t != nil {
		t.onFinish = fn
	}
	return w
}

// MarshalText encodes the color as "#rrggbbaa".
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText decodes a hex color.
func (c *Color) UnmarshalText(text []byte) error {
	v, err := ColorFromHex(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
