package retained

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Tnze/go-mc/nbt"
)

// ErrSerialization is wrapped by every tag-tree decoding failure.
var ErrSerialization = errors.New("widget serialization")

// Tag names of the widget compound. Kind-specific values live in the "data"
// compound; container children in the "children" list.
const (
	tagID        = "id"
	tagType      = "type"
	tagX         = "x"
	tagY         = "y"
	tagWidth     = "width"
	tagHeight    = "height"
	tagAnchor    = "anchor"
	tagPriority  = "priority"
	tagMarginT   = "margin_top"
	tagMarginR   = "margin_right"
	tagMarginB   = "margin_bottom"
	tagMarginL   = "margin_left"
	tagMinWidth  = "min_width"
	tagMaxWidth  = "max_width"
	tagMinHeight = "min_height"
	tagMaxHeight = "max_height"
	tagFixed     = "fixed"
	tagVisible   = "visible"
	tagTooltip   = "tooltip"
	tagData      = "data"
	tagChildren  = "children"
)

// EncodeWidget writes w and its subtree as a tag-tree compound. It only
// fails when the writer does.
func EncodeWidget(w io.Writer, widget *Widget) error {
	if err := nbt.NewEncoder(w).Encode(widgetCompound(BlueprintOf(widget)), ""); err != nil {
		return fmt.Errorf("failed to encode widget %s: %w", widget.id, err)
	}
	return nil
}

// MarshalWidget returns the tag-tree encoding of w.
func MarshalWidget(w *Widget) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeWidget(&buf, w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeWidget reads a widget written by EncodeWidget. The result is
// detached. Missing or mistyped required tags fail with an error wrapping
// ErrSerialization.
func DecodeWidget(r io.Reader) (*Widget, error) {
	var root map[string]any
	if _, err := nbt.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	b, err := readBlueprint(compound(root))
	if err != nil {
		return nil, err
	}
	w, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return w, nil
}

// UnmarshalWidget decodes a widget from bytes.
func UnmarshalWidget(data []byte) (*Widget, error) {
	return DecodeWidget(bytes.NewReader(data))
}

// ============================================================================
// Encoding
// ============================================================================

func boolTag(v bool) int8 {
	if v {
		return 1
	}
	return 0
}

func intTag(v int) int32 {
	return int32(clamp(v, math.MinInt32, math.MaxInt32))
}

func widgetCompound(b Blueprint) map[string]any {
	m := map[string]any{
		tagID:        b.ID,
		tagType:      string(b.Kind),
		tagX:         intTag(b.X),
		tagY:         intTag(b.Y),
		tagWidth:     intTag(b.Width),
		tagHeight:    intTag(b.Height),
		tagAnchor:    int8(deref(b.Anchor, AnchorCenterCenter)),
		tagPriority:  int8(deref(b.Priority, PriorityNormal)),
		tagMarginT:   intTag(b.Margin.Top),
		tagMarginR:   intTag(b.Margin.Right),
		tagMarginB:   intTag(b.Margin.Bottom),
		tagMarginL:   intTag(b.Margin.Left),
		tagMinWidth:  intTag(b.MinWidth),
		tagMaxWidth:  intTag(deref(b.MaxWidth, MaxDimension)),
		tagMinHeight: intTag(b.MinHeight),
		tagMaxHeight: intTag(deref(b.MaxHeight, MaxDimension)),
		tagFixed:     boolTag(b.Fixed),
		tagVisible:   boolTag(!b.Hidden),
	}
	if b.Tooltip != "" {
		m[tagTooltip] = b.Tooltip
	}

	data := map[string]any{}
	if b.Kind.IsContainer() {
		data["layout"] = int8(b.Layout)
		data["align"] = int8(b.Align)
		data["reverse"] = boolTag(b.Reverse)
		data["auto_fill"] = boolTag(b.AutoFill)

		children := make([]map[string]any, 0, len(b.Children))
		for _, c := range b.Children {
			children = append(children, widgetCompound(c))
		}
		m[tagChildren] = children
	}
	if b.Kind.IsScrollable() {
		data["scroll_x"] = b.ScrollX
		data["scroll_y"] = b.ScrollY
		putOpt(data, "scrollbar_h", b.ScrollBarH, func(p ScrollBarPolicy) any { return int8(p) })
		putOpt(data, "scrollbar_v", b.ScrollBarV, func(p ScrollBarPolicy) any { return int8(p) })
	}
	if b.Kind.IsControl() {
		data["enabled"] = boolTag(!b.Disabled)
		putOpt(data, "color", b.Color, colorTag)
		putOpt(data, "disabled_color", b.DisabledColor, colorTag)
	}
	if b.Kind.IsLabel() || b.Kind == KindTextField || b.Kind == KindMaskedField {
		data["text"] = b.Text
	}
	if b.Kind.IsLabel() {
		putOpt(data, "text_color", b.TextColor, colorTag)
		putOpt(data, "text_align", b.TextAlign, func(a Anchor) any { return int8(a) })
		putOpt(data, "text_scale", b.TextScale, func(f float32) any { return f })
		putOpt(data, "shadow", b.Shadow, func(v bool) any { return boolTag(v) })
		putOpt(data, "auto", b.AutoSize, func(v bool) any { return boolTag(v) })
	}

	switch b.Kind {
	case KindButton:
		data["disabled_text"] = b.DisabledText
		putOpt(data, "hover_color", b.HoverColor, colorTag)
	case KindCheckBox:
		data["checked"] = boolTag(b.Checked)
	case KindTextField, KindMaskedField:
		data["cursor"] = intTag(b.Cursor)
		putOpt(data, "max_chars", b.MaxChars, func(v int) any { return intTag(v) })
		data["max_lines"] = intTag(b.MaxLines)
		data["placeholder"] = b.Placeholder
		data["tab_index"] = intTag(b.TabIndex)
		putOpt(data, "field_color", b.FieldColor, colorTag)
		putOpt(data, "border_color", b.BorderColor, colorTag)
		if b.Mask != "" {
			data["mask"] = b.Mask
		}
	case KindComboBox:
		data["items"] = append([]string{}, b.Items...)
		putOpt(data, "selected", b.Selected, func(v int) any { return intTag(v) })
		data["format"] = b.Format
	case KindRadioButton:
		data["selected"] = boolTag(b.Checked)
		data["group"] = intTag(b.Group)
	case KindGradient:
		putOpt(data, "top_color", b.TopColor, colorTag)
		putOpt(data, "bottom_color", b.BottomColor, colorTag)
		putOpt(data, "orientation", b.Orientation, func(a Axis) any { return int8(a) })
	case KindTexture:
		data["url"] = b.URL
		data["top"] = intTag(deref(b.TextureTop, DefaultTextureOffset))
		data["left"] = intTag(deref(b.TextureLeft, DefaultTextureOffset))
		data["draw_alpha"] = boolTag(!b.NoAlpha)
	}
	m[tagData] = data
	return m
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func colorTag(c Color) any { return int32(c.Packed()) }

func putOpt[T any](m map[string]any, key string, v *T, conv func(T) any) {
	if v != nil {
		m[key] = conv(*v)
	}
}

// ============================================================================
// Decoding
// ============================================================================

// compound is a decoded tag compound. Integer tags of any width are accepted
// where an int is expected.
type compound map[string]any

// tagReader reads typed values out of compounds and keeps the first error,
// so a record can be read field by field and checked once.
type tagReader struct {
	err error
}

func (r *tagReader) fail(name, format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: tag %q: %s", ErrSerialization, name, fmt.Sprintf(format, args...))
	}
}

func (r *tagReader) has(c compound, name string) bool {
	_, ok := c[name]
	return ok
}

func (r *tagReader) getInt(c compound, name string) int {
	v, ok := c[name]
	if !ok {
		r.fail(name, "missing")
		return 0
	}
	switch n := v.(type) {
	case int8:
		return int(n)
	case uint8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(clamp(n, math.MinInt32, math.MaxInt32))
	}
	r.fail(name, "want integer, got %T", v)
	return 0
}

func (r *tagReader) optInt(c compound, name string, def int) int {
	if !r.has(c, name) {
		return def
	}
	return r.getInt(c, name)
}

func (r *tagReader) optIntPtr(c compound, name string) *int {
	if !r.has(c, name) {
		return nil
	}
	return ptr(r.getInt(c, name))
}

func (r *tagReader) getBool(c compound, name string) bool {
	return r.getInt(c, name) != 0
}

func (r *tagReader) optBool(c compound, name string, def bool) bool {
	if !r.has(c, name) {
		return def
	}
	return r.getBool(c, name)
}

func (r *tagReader) optBoolPtr(c compound, name string) *bool {
	if !r.has(c, name) {
		return nil
	}
	return ptr(r.getBool(c, name))
}

func (r *tagReader) getString(c compound, name string) string {
	v, ok := c[name]
	if !ok {
		r.fail(name, "missing")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(name, "want string, got %T", v)
	}
	return s
}

func (r *tagReader) optString(c compound, name string) string {
	if !r.has(c, name) {
		return ""
	}
	return r.getString(c, name)
}

func (r *tagReader) optFloat(c compound, name string) *float32 {
	v, ok := c[name]
	if !ok {
		return nil
	}
	switch f := v.(type) {
	case float32:
		return &f
	case float64:
		return ptr(float32(f))
	}
	r.fail(name, "want float, got %T", v)
	return nil
}

func (r *tagReader) optColor(c compound, name string) *Color {
	if !r.has(c, name) {
		return nil
	}
	return ptr(ColorFromPacked(uint32(int32(r.getInt(c, name)))))
}

func (r *tagReader) optCompound(c compound, name string) compound {
	v, ok := c[name]
	if !ok {
		return compound{}
	}
	m, ok := v.(map[string]any)
	if !ok {
		r.fail(name, "want compound, got %T", v)
		return compound{}
	}
	return compound(m)
}

func (r *tagReader) list(c compound, name string) []any {
	v, ok := c[name]
	if !ok {
		return nil
	}
	switch l := v.(type) {
	case []any:
		return l
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out
	}
	r.fail(name, "want list, got %T", v)
	return nil
}

// enumTag reads a required enum id and resolves it with lookup.
func enumTag[T any](r *tagReader, c compound, name string, lookup func(int) (T, bool)) *T {
	id := r.getInt(c, name)
	if r.err != nil {
		return nil
	}
	v, ok := lookup(id)
	if !ok {
		r.fail(name, "unknown id %d", id)
		return nil
	}
	return &v
}

func optEnumTag[T any](r *tagReader, c compound, name string, lookup func(int) (T, bool)) *T {
	if !r.has(c, name) {
		return nil
	}
	return enumTag(r, c, name, lookup)
}

func readBlueprint(c compound) (Blueprint, error) {
	r := &tagReader{}
	b := Blueprint{
		ID:       r.getString(c, tagID),
		Kind:     WidgetKind(r.getString(c, tagType)),
		X:        r.getInt(c, tagX),
		Y:        r.getInt(c, tagY),
		Width:    r.getInt(c, tagWidth),
		Height:   r.getInt(c, tagHeight),
		Anchor:   enumTag(r, c, tagAnchor, AnchorFromID),
		Priority: enumTag(r, c, tagPriority, PriorityFromID),
		Margin: Edges{
			Top:    r.getInt(c, tagMarginT),
			Right:  r.getInt(c, tagMarginR),
			Bottom: r.getInt(c, tagMarginB),
			Left:   r.getInt(c, tagMarginL),
		},
		MinWidth:  r.optInt(c, tagMinWidth, 0),
		MaxWidth:  r.optIntPtr(c, tagMaxWidth),
		MinHeight: r.optInt(c, tagMinHeight, 0),
		MaxHeight: r.optIntPtr(c, tagMaxHeight),
		Fixed:     r.getBool(c, tagFixed),
		Hidden:    !r.optBool(c, tagVisible, true),
		Tooltip:   r.optString(c, tagTooltip),
	}
	if r.err != nil {
		return Blueprint{}, r.err
	}
	if !b.Kind.Valid() || b.Kind == KindScreen {
		r.fail(tagType, "unsupported widget kind %q", b.Kind)
		return Blueprint{}, r.err
	}

	data := r.optCompound(c, tagData)
	if b.Kind.IsContainer() {
		b.Layout = deref(optEnumTag(r, data, "layout", LayoutKindFromID), LayoutNone)
		b.Align = deref(optEnumTag(r, data, "align", AnchorFromID), AnchorTopLeft)
		b.Reverse = r.optBool(data, "reverse", false)
		b.AutoFill = r.optBool(data, "auto_fill", false)

		for i, item := range r.list(c, tagChildren) {
			m, ok := item.(map[string]any)
			if !ok {
				r.fail(tagChildren, "element %d is %T", i, item)
				break
			}
			child, err := readBlueprint(compound(m))
			if err != nil {
				return Blueprint{}, fmt.Errorf("child %d: %w", i, err)
			}
			b.Children = append(b.Children, child)
		}
	}
	if b.Kind.IsScrollable() {
		b.ScrollX = deref(r.optFloat(data, "scroll_x"), 0)
		b.ScrollY = deref(r.optFloat(data, "scroll_y"), 0)
		b.ScrollBarH = optEnumTag(r, data, "scrollbar_h", ScrollBarPolicyFromID)
		b.ScrollBarV = optEnumTag(r, data, "scrollbar_v", ScrollBarPolicyFromID)
	}
	if b.Kind.IsControl() {
		b.Disabled = !r.optBool(data, "enabled", true)
		b.Color = r.optColor(data, "color")
		b.DisabledColor = r.optColor(data, "disabled_color")
	}
	b.Text = r.optString(data, "text")
	if b.Kind.IsLabel() {
		b.TextColor = r.optColor(data, "text_color")
		b.TextAlign = optEnumTag(r, data, "text_align", AnchorFromID)
		b.TextScale = r.optFloat(data, "text_scale")
		b.Shadow = r.optBoolPtr(data, "shadow")
		b.AutoSize = r.optBoolPtr(data, "auto")
	}

	switch b.Kind {
	case KindButton:
		b.DisabledText = r.optString(data, "disabled_text")
		b.HoverColor = r.optColor(data, "hover_color")
	case KindCheckBox:
		b.Checked = r.optBool(data, "checked", false)
	case KindTextField, KindMaskedField:
		b.Cursor = r.optInt(data, "cursor", 0)
		b.MaxChars = r.optIntPtr(data, "max_chars")
		b.MaxLines = r.optInt(data, "max_lines", 0)
		b.Placeholder = r.optString(data, "placeholder")
		b.TabIndex = r.optInt(data, "tab_index", 0)
		b.FieldColor = r.optColor(data, "field_color")
		b.BorderColor = r.optColor(data, "border_color")
		b.Mask = r.optString(data, "mask")
	case KindComboBox:
		for i, item := range r.list(data, "items") {
			s, ok := item.(string)
			if !ok {
				r.fail("items", "element %d is %T", i, item)
				break
			}
			b.Items = append(b.Items, s)
		}
		b.Selected = r.optIntPtr(data, "selected")
		b.Format = r.optString(data, "format")
	case KindRadioButton:
		b.Checked = r.optBool(data, "selected", false)
		b.Group = r.optInt(data, "group", 0)
	case KindGradient:
		b.TopColor = r.optColor(data, "top_color")
		b.BottomColor = r.optColor(data, "bottom_color")
		b.Orientation = optEnumTag(r, data, "orientation", AxisFromID)
	case KindTexture:
		b.URL = r.optString(data, "url")
		b.TextureTop = r.optIntPtr(data, "top")
		b.TextureLeft = r.optIntPtr(data, "left")
		b.NoAlpha = !r.optBool(data, "draw_alpha", true)
	}
	if r.err != nil {
		return Blueprint{}, r.err
	}
	return b, nil
}
