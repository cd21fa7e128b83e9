package retained

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Tnze/go-mc/nbt"
	"github.com/google/go-cmp/cmp"
)

func sampleTree() *Widget {
	field := TextField("name").SetText("steve").SetTabIndex(2).SetMaxChars(32)
	field.SetCursorPosition(3)
	masked := MaskedField("password").SetText("hunter2")
	combo := ComboBox("north", "south", "east").SetSelection(1).SetFormat("Dir: %s")
	radio := RadioButton("Fancy", 4).SetSelected(true)
	grad := Gradient(RGBA(10, 20, 30, 255), Black, Horizontal).SetSize(40, 40)
	tex := Texture("https://example.com/steve.png").SetTextureTop(2).SetDrawAlpha(false)

	list := NewList(field, masked, combo).SetSize(120, 60)
	list.SetScrollBarPolicy(Horizontal, ScrollBarNever)

	root := VStack(
		Label("Title").SetTextColor(RGBA(255, 0, 0, 255)).SetTextScale(2).SetShadow(false),
		Button("OK", nil).SetEnabled(false).SetDisabledText("wait"),
		CheckBox("Sound", true),
		radio,
		grad,
		tex,
		list,
	)
	root.SetAnchor(AnchorTopRight).
		SetBounds(-10, 5, 200, 150).
		SetMargin(1, 2, 3, 4).
		SetMinWidth(20).
		SetMaxHeight(300).
		SetPriority(PriorityHigh).
		SetAutoFill(true).
		SetReverse(true)
	return root
}

func TestWidgetRoundTrip(t *testing.T) {
	type tc struct {
		build func() *Widget
	}

	tests := map[string]tc{
		"full tree":        {build: sampleTree},
		"bare label":       {build: func() *Widget { return Label("") }},
		"empty combo box":  {build: func() *Widget { return ComboBox() }},
		"hidden container": {build: func() *Widget { return Free().SetVisible(false).SetFixed(true) }},
		"scroll area": {build: func() *Widget {
			return NewScrollArea(LayoutOverlay, box(5, 5)).SetScrollBarPolicy(Vertical, ScrollBarAlways)
		}},
		"explicit zero max": {build: func() *Widget {
			return NewWidget(KindLabel).SetSize(40, 10).SetMaxWidth(0).SetMaxHeight(0)
		}},
		"negative margins": {build: func() *Widget {
			return box(10, 10).SetMargin(-3, 4, -5, -6).SetAnchor(AnchorBottomLeft)
		}},
		"tooltip": {build: func() *Widget { return Button("go", nil).SetTooltip("Start") }},
		"scaled texture": {build: func() *Widget {
			return Texture("a.png").SetTextureTop(-1).SetTextureLeft(6)
		}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			w := tc.build()
			data, err := MarshalWidget(w)
			if err != nil {
				t.Fatalf("MarshalWidget() error = %v", err)
			}
			got, err := UnmarshalWidget(data)
			if err != nil {
				t.Fatalf("UnmarshalWidget() error = %v", err)
			}

			if got.Attached() || got.Parent() != nil {
				t.Error("decoded widget should be detached")
			}
			if got.ID() != w.ID() {
				t.Errorf("ID() = %s, want %s", got.ID(), w.ID())
			}
			if diff := cmp.Diff(BlueprintOf(w), BlueprintOf(got)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(layoutFieldsOf(w), layoutFieldsOf(got)); diff != "" {
				t.Errorf("decoded getters mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// layoutFields reads a widget back through its getters, so a codec bug
// that BlueprintOf would mirror on both sides still shows.
type layoutFields struct {
	MinWidth, MaxWidth   int
	MinHeight, MaxHeight int
	Margin               Edges
	Anchor               Anchor
	Priority             Priority
	Fixed, Visible       bool
	Tooltip              string
	TextureTop           int
	TextureLeft          int
}

func layoutFieldsOf(w *Widget) layoutFields {
	return layoutFields{
		MinWidth:    w.MinWidth(),
		MaxWidth:    w.MaxWidth(),
		MinHeight:   w.MinHeight(),
		MaxHeight:   w.MaxHeight(),
		Margin:      w.Margin(),
		Anchor:      w.Anchor(),
		Priority:    w.Priority(),
		Fixed:       w.Fixed(),
		Visible:     w.Visible(),
		Tooltip:     w.Tooltip(),
		TextureTop:  w.TextureTop(),
		TextureLeft: w.TextureLeft(),
	}
}

func TestZeroMaxSurvivesRoundTrip(t *testing.T) {
	w := NewWidget(KindLabel).SetSize(40, 10).SetMaxWidth(0)
	data, err := MarshalWidget(w)
	if err != nil {
		t.Fatalf("MarshalWidget() error = %v", err)
	}
	got, err := UnmarshalWidget(data)
	if err != nil {
		t.Fatalf("UnmarshalWidget() error = %v", err)
	}
	if got.MaxWidth() != 0 {
		t.Fatalf("MaxWidth() = %d, want 0", got.MaxWidth())
	}

	row := HStack(got)
	row.SetAnchor(AnchorTopLeft).SetSize(200, 50)
	s := newTestScreen().Attach("ui", row)
	ComputeLayout(s.Root())
	if width := got.ActualBounds().Width; width != 0 {
		t.Errorf("laid out width = %v, want 0", width)
	}
}

func TestDecodeWidgetErrors(t *testing.T) {
	valid := func() map[string]any {
		return widgetCompound(BlueprintOf(Label("x")))
	}

	type tc struct {
		mutate func(m map[string]any)
	}

	tests := map[string]tc{
		"missing x":           {mutate: func(m map[string]any) { delete(m, tagX) }},
		"missing anchor":      {mutate: func(m map[string]any) { delete(m, tagAnchor) }},
		"missing margin":      {mutate: func(m map[string]any) { delete(m, tagMarginL) }},
		"mistyped type":       {mutate: func(m map[string]any) { m[tagType] = int32(3) }},
		"mistyped width":      {mutate: func(m map[string]any) { m[tagWidth] = "wide" }},
		"unknown kind":        {mutate: func(m map[string]any) { m[tagType] = "slider" }},
		"screen kind":         {mutate: func(m map[string]any) { m[tagType] = string(KindScreen) }},
		"anchor out of range": {mutate: func(m map[string]any) { m[tagAnchor] = int8(42) }},
		"bad id":              {mutate: func(m map[string]any) { m[tagID] = "not-a-uuid" }},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			m := valid()
			tc.mutate(m)

			var buf bytes.Buffer
			if err := nbt.NewEncoder(&buf).Encode(m, ""); err != nil {
				t.Fatalf("encode: %v", err)
			}
			_, err := DecodeWidget(&buf)
			if !errors.Is(err, ErrSerialization) {
				t.Errorf("DecodeWidget() error = %v, want ErrSerialization", err)
			}
		})
	}
}

func TestDecodeWidgetGarbage(t *testing.T) {
	_, err := UnmarshalWidget([]byte{0xff, 0x00, 0x13})
	if !errors.Is(err, ErrSerialization) {
		t.Errorf("UnmarshalWidget() error = %v, want ErrSerialization", err)
	}
}

func TestDecodeWidgetDefaults(t *testing.T) {
	m := widgetCompound(BlueprintOf(Label("x")))
	delete(m, tagData)
	delete(m, tagVisible)
	delete(m, tagMaxWidth)

	var buf bytes.Buffer
	if err := nbt.NewEncoder(&buf).Encode(m, ""); err != nil {
		t.Fatalf("encode: %v", err)
	}
	w, err := DecodeWidget(&buf)
	if err != nil {
		t.Fatalf("DecodeWidget() error = %v", err)
	}
	if !w.Visible() || w.MaxWidth() != MaxDimension || w.TextScale() != 1 {
		t.Errorf("optional tags should fall back to defaults: visible=%v maxWidth=%d scale=%v",
			w.Visible(), w.MaxWidth(), w.TextScale())
	}
}

func TestBlueprintBuild(t *testing.T) {
	b := Blueprint{
		Kind:   KindContainer,
		Layout: LayoutHorizontal,
		Children: []Blueprint{
			{Kind: KindButton, Width: 10, Height: -5, Text: "go"},
			{Kind: KindTextField, Text: "abcdefghijklmnopqrstuvwxyz", MaxChars: ptr(4), Cursor: 99},
		},
	}
	w, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if w.Layout() != LayoutHorizontal || w.ChildCount() != 2 || !w.NeedsLayout() {
		t.Fatalf("unexpected container %+v", BlueprintOf(w))
	}
	btn, field := w.Children()[0], w.Children()[1]
	if btn.Height() != 0 || btn.Anchor() != AnchorCenterCenter || btn.Text() != "go" {
		t.Errorf("button built as %+v", BlueprintOf(btn))
	}
	if field.Text() != "abcd" || field.CursorPosition() != 4 {
		t.Errorf("field text %q cursor %d, want abcd 4", field.Text(), field.CursorPosition())
	}

	bounded, err := Blueprint{Kind: KindLabel, MaxWidth: ptr(0)}.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if bounded.MaxWidth() != 0 || bounded.MaxHeight() != MaxDimension {
		t.Errorf("max %d x %d, want 0 x unbounded", bounded.MaxWidth(), bounded.MaxHeight())
	}
	tex, err := Blueprint{Kind: KindTexture, URL: "a.png"}.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if tex.TextureTop() != DefaultTextureOffset || tex.TextureLeft() != DefaultTextureOffset {
		t.Errorf("texture offsets %d,%d, want scale to fit", tex.TextureTop(), tex.TextureLeft())
	}

	if _, err := (Blueprint{Kind: "slider"}).Build(); err == nil {
		t.Error("Build() of an unknown kind should fail")
	}
	if _, err := (Blueprint{Kind: KindScreen}).Build(); err == nil {
		t.Error("Build() of a screen should fail")
	}
}
