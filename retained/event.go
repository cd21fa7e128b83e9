package retained

import "unicode/utf8"

// ============================================================================
// Event Types
// ============================================================================

// MouseButton identifies which mouse button was pressed.
type MouseButton uint8

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }
func (m Modifiers) Super() bool { return m&ModSuper != 0 }

// Key identifies a non-character key. Printable input arrives as
// KeyEvent.Char with Key set to KeyNone.
type Key uint8

const (
	KeyNone Key = iota
	KeyTab
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
)

// MouseEvent is a pointer press at a screen pixel position.
type MouseEvent struct {
	X, Y   float32
	Button MouseButton
	Mods   Modifiers
}

// KeyEvent is a key press delivered to the focused widget.
type KeyEvent struct {
	Key  Key
	Char rune
	Mods Modifiers
}

// ScrollEvent is wheel input at a screen pixel position.
type ScrollEvent struct {
	X, Y   float32
	DX, DY float32
}

// ============================================================================
// Dispatch
// ============================================================================
//
// Hit testing uses the draw order of the latest frame, so events delivered
// between ticks see the geometry that was last presented.

// DispatchClick delivers a left click. The topmost enabled control under the
// pointer (or its nearest enabled control ancestor) receives it and gains
// focus; clicking elsewhere clears focus. Returns the control that handled
// the click, or nil.
func (s *Screen) DispatchClick(e MouseEvent) *Widget {
	s.SetPointer(e.X, e.Y)
	if e.Button != MouseButtonLeft {
		return nil
	}

	target := s.WidgetAt(e.X, e.Y)
	for target != nil && !target.Enabled() {
		target = target.parent
	}
	if target == nil || target == s.root {
		s.ClearFocus()
		return nil
	}

	target.SetFocus(true)
	switch target.kind {
	case KindButton:
		if b := target.button(); b.onClick != nil {
			b.onClick(target)
		}
	case KindCheckBox:
		target.SetChecked(!target.Checked())
	case KindRadioButton:
		target.SetSelected(true)
	case KindComboBox:
		if target.IsOpen() {
			target.CloseList()
		} else {
			target.OpenList()
		}
	case KindTextField, KindMaskedField:
		target.SetCursorPosition(utf8.RuneCountInString(target.Text()))
	}
	return target
}

// DispatchKey delivers a key press. Tab cycles focus through text fields;
// other keys go to the focused control. Reports whether the key was used.
func (s *Screen) DispatchKey(e KeyEvent) bool {
	if e.Key == KeyTab {
		if e.Mods.Shift() {
			return s.FocusPrev() != nil
		}
		return s.FocusNext() != nil
	}

	focused := s.Focused()
	if focused == nil {
		return false
	}
	switch focused.kind {
	case KindTextField, KindMaskedField:
		return editText(focused, e)
	case KindComboBox:
		switch e.Key {
		case KeyUp:
			focused.SetSelection(max(focused.SelectedRow()-1, 0))
		case KeyDown:
			focused.SetSelection(focused.SelectedRow() + 1)
		case KeyEnter, KeyEscape:
			focused.CloseList()
		default:
			return false
		}
		return true
	case KindButton, KindCheckBox, KindRadioButton:
		if e.Key != KeyEnter && e.Char != ' ' {
			return false
		}
		switch focused.kind {
		case KindButton:
			if b := focused.button(); b.onClick != nil {
				b.onClick(focused)
			}
		case KindCheckBox:
			focused.SetChecked(!focused.Checked())
		case KindRadioButton:
			focused.SetSelected(true)
		}
		return true
	}
	return false
}

// editText applies a key press to a text field.
func editText(w *Widget, e KeyEvent) bool {
	tf := w.textField()
	text := []rune(tf.text)
	cursor := tf.cursor
	finished := false

	switch e.Key {
	case KeyNone:
		if e.Char == 0 || (tf.maxChars > 0 && len(text) >= tf.maxChars) {
			return e.Char != 0
		}
		text = append(text[:cursor], append([]rune{e.Char}, text[cursor:]...)...)
		cursor++
	case KeyEnter:
		// Enter finishes typing, and adds a line while there is room for one.
		room := countLines(text) < tf.maxLines && (tf.maxChars == 0 || len(text) < tf.maxChars)
		if !room {
			if tf.onFinished == nil {
				return false
			}
			tf.onFinished(w)
			return true
		}
		text = append(text[:cursor], append([]rune{'\n'}, text[cursor:]...)...)
		cursor++
		finished = true
	case KeyBackspace:
		if cursor == 0 {
			return true
		}
		text = append(text[:cursor-1], text[cursor:]...)
		cursor--
	case KeyDelete:
		if cursor < len(text) {
			text = append(text[:cursor], text[cursor+1:]...)
		}
	case KeyLeft:
		cursor--
	case KeyRight:
		cursor++
	case KeyHome:
		cursor = 0
	case KeyEnd:
		cursor = len(text)
	default:
		return false
	}

	tf.cursor = clamp(cursor, 0, len(text))
	w.SetText(string(text))
	if finished && tf.onFinished != nil {
		tf.onFinished(w)
	}
	return true
}

func countLines(text []rune) int {
	n := 1
	for _, r := range text {
		if r == '\n' {
			n++
		}
	}
	return n
}

// DispatchScroll scrolls the innermost scroll area under the pointer.
// Reports whether a scroll area was found.
func (s *Screen) DispatchScroll(e ScrollEvent) bool {
	s.SetPointer(e.X, e.Y)
	for w := s.WidgetAt(e.X, e.Y); w != nil; w = w.parent {
		if w.viewport != nil {
			w.Scroll(e.DX, e.DY)
			return true
		}
	}
	return false
}
