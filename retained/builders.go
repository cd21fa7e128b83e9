package retained

// Builder helpers for common widget patterns.
// These provide a fluent API for constructing UI trees.

// Overlay creates a container that stacks its children on top of each other.
func Overlay(children ...*Widget) *Widget {
	return NewContainer(LayoutOverlay, children...)
}

// Free creates a container that leaves every child at its anchored offset.
func Free(children ...*Widget) *Widget {
	return NewContainer(LayoutNone, children...)
}

// ScrollView creates a vertically stacked scroll area.
func ScrollView(children ...*Widget) *Widget {
	return NewScrollArea(LayoutVertical, children...)
}

// Label creates a text label.
func Label(text string) *Widget {
	return NewWidget(KindLabel).SetText(text)
}

// Button creates a push button with an optional click handler.
func Button(text string, onClick func(*Widget)) *Widget {
	w := NewWidget(KindButton).SetText(text)
	if onClick != nil {
		w.OnClick(onClick)
	}
	return w
}

// TextField creates a single-line text input.
func TextField(placeholder string) *Widget {
	return NewWidget(KindTextField).SetPlaceholder(placeholder)
}

// MaskedField creates a text input whose display text is masked.
func MaskedField(placeholder string) *Widget {
	return NewWidget(KindMaskedField).SetPlaceholder(placeholder)
}

// ComboBox creates a drop-down selector over items.
func ComboBox(items ...string) *Widget {
	return NewWidget(KindComboBox).SetItems(items...)
}

// CheckBox creates a labelled check box.
func CheckBox(text string, checked bool) *Widget {
	return NewWidget(KindCheckBox).SetText(text).SetChecked(checked)
}

// RadioButton creates a labelled radio button in the given exclusion group.
func RadioButton(text string, group int) *Widget {
	return NewWidget(KindRadioButton).SetText(text).SetGroup(group)
}

// Gradient creates a two-color gradient fill.
func Gradient(top, bottom Color, orientation Axis) *Widget {
	return NewWidget(KindGradient).
		SetTopColor(top).
		SetBottomColor(bottom).
		SetOrientation(orientation)
}

// Texture creates an image widget. Its size is adopted from the source
// once loaded if none is set.
func Texture(url string) *Widget {
	return NewWidget(KindTexture).SetURL(url)
}

// ============================================================================
// Fluent Builder Pattern
// ============================================================================

// With calls fn on the widget and returns it for chaining.
func (w *Widget) With(fn func(*Widget)) *Widget {
	fn(w)
	return w
}

// WithChildren adds children to the widget.
func (w *Widget) WithChildren(children ...*Widget) *Widget {
	return w.AddChildren(children...)
}

// WithFrame sets anchor, offsets and size.
func (w *Widget) WithFrame(anchor Anchor, x, y, width, height int) *Widget {
	return w.SetAnchor(anchor).SetBounds(x, y, width, height)
}

// WithData sets custom application data.
func (w *Widget) WithData(data any) *Widget {
	return w.SetData(data)
}
