package retained

import (
	"fmt"
	"unicode/utf8"
)

// Blueprint is the configured state of a widget tree as plain data. Scene
// files and the tag-tree codec go through it, and two widgets are equal by
// value when their blueprints are.
//
// A nil MaxWidth or MaxHeight means unbounded; an explicit 0 is kept. Other
// optional fields left nil keep the kind's defaults.
type Blueprint struct {
	ID       string     `toml:"id,omitempty" yaml:"id,omitempty"`
	Kind     WidgetKind `toml:"kind" yaml:"kind"`
	X        int        `toml:"x,omitempty" yaml:"x,omitempty"`
	Y        int        `toml:"y,omitempty" yaml:"y,omitempty"`
	Width    int        `toml:"width,omitempty" yaml:"width,omitempty"`
	Height   int        `toml:"height,omitempty" yaml:"height,omitempty"`
	Anchor   *Anchor    `toml:"anchor,omitempty" yaml:"anchor,omitempty"`
	Priority *Priority  `toml:"priority,omitempty" yaml:"priority,omitempty"`
	Margin   Edges      `toml:"margin,omitempty" yaml:"margin,omitempty"`

	MinWidth  int    `toml:"min_width,omitempty" yaml:"min_width,omitempty"`
	MaxWidth  *int   `toml:"max_width,omitempty" yaml:"max_width,omitempty"`
	MinHeight int    `toml:"min_height,omitempty" yaml:"min_height,omitempty"`
	MaxHeight *int   `toml:"max_height,omitempty" yaml:"max_height,omitempty"`
	Fixed     bool   `toml:"fixed,omitempty" yaml:"fixed,omitempty"`
	Hidden    bool   `toml:"hidden,omitempty" yaml:"hidden,omitempty"`
	Tooltip   string `toml:"tooltip,omitempty" yaml:"tooltip,omitempty"`

	// Containers
	Layout   LayoutKind  `toml:"layout,omitempty" yaml:"layout,omitempty"`
	Align    Anchor      `toml:"align,omitempty" yaml:"align,omitempty"`
	Reverse  bool        `toml:"reverse,omitempty" yaml:"reverse,omitempty"`
	AutoFill bool        `toml:"auto_fill,omitempty" yaml:"auto_fill,omitempty"`
	Children []Blueprint `toml:"children,omitempty" yaml:"children,omitempty"`

	// Scroll areas and lists
	ScrollX    float32          `toml:"scroll_x,omitempty" yaml:"scroll_x,omitempty"`
	ScrollY    float32          `toml:"scroll_y,omitempty" yaml:"scroll_y,omitempty"`
	ScrollBarH *ScrollBarPolicy `toml:"scrollbar_h,omitempty" yaml:"scrollbar_h,omitempty"`
	ScrollBarV *ScrollBarPolicy `toml:"scrollbar_v,omitempty" yaml:"scrollbar_v,omitempty"`

	// Controls
	Disabled      bool   `toml:"disabled,omitempty" yaml:"disabled,omitempty"`
	Color         *Color `toml:"color,omitempty" yaml:"color,omitempty"`
	DisabledColor *Color `toml:"disabled_color,omitempty" yaml:"disabled_color,omitempty"`

	// Labels
	Text      string   `toml:"text,omitempty" yaml:"text,omitempty"`
	TextColor *Color   `toml:"text_color,omitempty" yaml:"text_color,omitempty"`
	TextAlign *Anchor  `toml:"text_align,omitempty" yaml:"text_align,omitempty"`
	TextScale *float32 `toml:"text_scale,omitempty" yaml:"text_scale,omitempty"`
	Shadow    *bool    `toml:"shadow,omitempty" yaml:"shadow,omitempty"`
	AutoSize  *bool    `toml:"auto_size,omitempty" yaml:"auto_size,omitempty"`

	// Buttons and check boxes
	DisabledText string `toml:"disabled_text,omitempty" yaml:"disabled_text,omitempty"`
	HoverColor   *Color `toml:"hover_color,omitempty" yaml:"hover_color,omitempty"`
	Checked      bool   `toml:"checked,omitempty" yaml:"checked,omitempty"`

	// Text fields
	Cursor      int    `toml:"cursor,omitempty" yaml:"cursor,omitempty"`
	MaxChars    *int   `toml:"max_chars,omitempty" yaml:"max_chars,omitempty"`
	MaxLines    int    `toml:"max_lines,omitempty" yaml:"max_lines,omitempty"`
	Placeholder string `toml:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	TabIndex    int    `toml:"tab_index,omitempty" yaml:"tab_index,omitempty"`
	FieldColor  *Color `toml:"field_color,omitempty" yaml:"field_color,omitempty"`
	BorderColor *Color `toml:"border_color,omitempty" yaml:"border_color,omitempty"`
	Mask        string `toml:"mask,omitempty" yaml:"mask,omitempty"`

	// Combo boxes
	Items    []string `toml:"items,omitempty" yaml:"items,omitempty"`
	Selected *int     `toml:"selected,omitempty" yaml:"selected,omitempty"`
	Format   string   `toml:"format,omitempty" yaml:"format,omitempty"`

	// Radio buttons
	Group int `toml:"group,omitempty" yaml:"group,omitempty"`

	// Gradients
	TopColor    *Color `toml:"top_color,omitempty" yaml:"top_color,omitempty"`
	BottomColor *Color `toml:"bottom_color,omitempty" yaml:"bottom_color,omitempty"`
	Orientation *Axis  `toml:"orientation,omitempty" yaml:"orientation,omitempty"`

	// Textures. A nil offset keeps the default of -1 (scale to fit).
	URL         string `toml:"url,omitempty" yaml:"url,omitempty"`
	TextureTop  *int   `toml:"texture_top,omitempty" yaml:"texture_top,omitempty"`
	TextureLeft *int   `toml:"texture_left,omitempty" yaml:"texture_left,omitempty"`
	NoAlpha     bool   `toml:"no_alpha,omitempty" yaml:"no_alpha,omitempty"`
}

func ptr[T any](v T) *T { return &v }

// BlueprintOf captures w and its subtree.
func BlueprintOf(w *Widget) Blueprint {
	b := Blueprint{
		ID:        w.id.String(),
		Kind:      w.kind,
		X:         w.x,
		Y:         w.y,
		Width:     w.width,
		Height:    w.height,
		Anchor:    ptr(w.anchor),
		Priority:  ptr(w.priority),
		Margin:    w.margin,
		MinWidth:  w.minWidth,
		MaxWidth:  boundOrNil(w.maxWidth),
		MinHeight: w.minHeight,
		MaxHeight: boundOrNil(w.maxHeight),
		Fixed:     w.fixed,
		Hidden:    !w.visible,
		Tooltip:   w.tooltip,
	}

	if w.kind.IsContainer() {
		b.Layout = w.layoutKind
		b.Align = w.align
		b.Reverse = w.reverse
		b.AutoFill = w.autoFill
		for _, c := range w.children {
			b.Children = append(b.Children, BlueprintOf(c))
		}
	}
	if vp := w.viewport; vp != nil {
		b.ScrollX = vp.ScrollPosition(Horizontal)
		b.ScrollY = vp.ScrollPosition(Vertical)
		b.ScrollBarH = ptr(vp.ScrollBarPolicy(Horizontal))
		b.ScrollBarV = ptr(vp.ScrollBarPolicy(Vertical))
	}
	if c := w.control; c != nil {
		b.Disabled = !c.enabled
		b.Color = ptr(c.color)
		b.DisabledColor = ptr(c.disabledColor)
	}
	if l := w.label; l != nil {
		b.Text = l.text
		b.TextColor = ptr(l.textColor)
		b.TextAlign = ptr(l.align)
		b.TextScale = ptr(l.scale)
		b.Shadow = ptr(l.shadow)
		b.AutoSize = ptr(l.auto)
	}

	switch st := w.variant.(type) {
	case *buttonState:
		b.DisabledText = st.disabledText
		b.HoverColor = ptr(st.hoverColor)
	case *checkBoxState:
		b.Checked = st.checked
	case *textFieldState:
		b.Text = st.text
		b.Cursor = st.cursor
		b.MaxChars = ptr(st.maxChars)
		b.MaxLines = st.maxLines
		b.Placeholder = st.placeholder
		b.TabIndex = st.tabIndex
		b.FieldColor = ptr(st.fieldColor)
		b.BorderColor = ptr(st.borderColor)
		if st.mask != 0 {
			b.Mask = string(st.mask)
		}
	case *comboBoxState:
		b.Items = append([]string(nil), st.items...)
		b.Selected = ptr(st.selected)
		b.Format = st.format
	case *radioState:
		b.Checked = st.selected
		b.Group = st.group
	case *gradientState:
		b.TopColor = ptr(st.top)
		b.BottomColor = ptr(st.bottom)
		b.Orientation = ptr(st.orientation)
	case *textureState:
		b.URL = st.url
		b.TextureTop = ptr(st.top)
		b.TextureLeft = ptr(st.left)
		b.NoAlpha = !st.drawAlpha
	}
	return b
}

// boundOrNil returns nil for an unbounded maximum.
func boundOrNil(v int) *int {
	if v == MaxDimension {
		return nil
	}
	return &v
}

func boundOrUnbounded(p *int) int {
	if p == nil {
		return MaxDimension
	}
	return nonNegative(*p)
}

// Build creates a detached widget tree from the blueprint. An empty ID gets
// a fresh one.
func (b Blueprint) Build() (*Widget, error) {
	if !b.Kind.Valid() {
		return nil, fmt.Errorf("unknown widget kind %q", b.Kind)
	}
	if b.Kind == KindScreen {
		return nil, fmt.Errorf("screen roots cannot be built from a blueprint")
	}

	w := NewWidget(b.Kind)
	if b.ID != "" {
		id, err := ParseWidgetID(b.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid widget id %q: %w", b.ID, err)
		}
		w.id = id
	}

	w.x, w.y = b.X, b.Y
	w.width, w.height = nonNegative(b.Width), nonNegative(b.Height)
	setIf(&w.anchor, b.Anchor)
	setIf(&w.priority, b.Priority)
	w.margin = b.Margin
	w.minWidth = nonNegative(b.MinWidth)
	w.maxWidth = boundOrUnbounded(b.MaxWidth)
	w.minHeight = nonNegative(b.MinHeight)
	w.maxHeight = boundOrUnbounded(b.MaxHeight)
	w.fixed = b.Fixed
	w.visible = !b.Hidden
	w.tooltip = b.Tooltip

	if w.kind.IsContainer() {
		w.layoutKind = b.Layout
		w.align = b.Align
		w.reverse = b.Reverse
		w.autoFill = b.AutoFill
		for i, cb := range b.Children {
			child, err := cb.Build()
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			w.AddChild(child)
		}
		w.layoutState = LayoutDirty
	}
	if vp := w.viewport; vp != nil {
		// Offsets are re-clamped once layout measures the content.
		vp.pos = [2]float32{nonNegative(b.ScrollX), nonNegative(b.ScrollY)}
		if b.ScrollBarH != nil {
			vp.policy[Horizontal] = *b.ScrollBarH
		}
		if b.ScrollBarV != nil {
			vp.policy[Vertical] = *b.ScrollBarV
		}
	}
	if c := w.control; c != nil {
		c.enabled = !b.Disabled
		setIf(&c.color, b.Color)
		setIf(&c.disabledColor, b.DisabledColor)
	}
	if l := w.label; l != nil {
		l.text = b.Text
		setIf(&l.textColor, b.TextColor)
		setIf(&l.align, b.TextAlign)
		if b.TextScale != nil && *b.TextScale > 0 {
			l.scale = *b.TextScale
		}
		setIf(&l.shadow, b.Shadow)
		setIf(&l.auto, b.AutoSize)
	}

	switch st := w.variant.(type) {
	case *buttonState:
		st.disabledText = b.DisabledText
		setIf(&st.hoverColor, b.HoverColor)
	case *checkBoxState:
		st.checked = b.Checked
	case *textFieldState:
		if b.MaxChars != nil {
			st.maxChars = nonNegative(*b.MaxChars)
		}
		if b.MaxLines > 0 {
			st.maxLines = b.MaxLines
		}
		st.placeholder = b.Placeholder
		st.tabIndex = b.TabIndex
		setIf(&st.fieldColor, b.FieldColor)
		setIf(&st.borderColor, b.BorderColor)
		if r, _ := utf8.DecodeRuneInString(b.Mask); b.Mask != "" && w.kind == KindMaskedField {
			st.mask = r
		}
		w.SetText(b.Text)
		st.cursor = clamp(b.Cursor, 0, utf8.RuneCountInString(st.text))
	case *comboBoxState:
		st.items = append([]string(nil), b.Items...)
		if b.Selected != nil {
			st.selected = clamp(*b.Selected, -1, len(st.items)-1)
		}
		if b.Format != "" {
			st.format = b.Format
		}
	case *radioState:
		st.selected = b.Checked
		st.group = b.Group
	case *gradientState:
		setIf(&st.top, b.TopColor)
		setIf(&st.bottom, b.BottomColor)
		setIf(&st.orientation, b.Orientation)
	case *textureState:
		st.url = b.URL
		if b.TextureTop != nil {
			st.top = textureOffset(*b.TextureTop)
		}
		if b.TextureLeft != nil {
			st.left = textureOffset(*b.TextureLeft)
		}
		st.drawAlpha = !b.NoAlpha
	}
	return w, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
