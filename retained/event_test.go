package retained

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// laidOut computes layout and draw order so hit testing sees the tree.
func laidOut(s *Screen) *Screen {
	ComputeLayout(s.Root())
	RenderOrder(s)
	return s
}

func click(s *Screen, x, y float32) *Widget {
	return s.DispatchClick(MouseEvent{X: x, Y: y, Button: MouseButtonLeft})
}

func TestDispatchClick(t *testing.T) {
	clicks := 0
	btn := Button("go", func(*Widget) { clicks++ }).WithFrame(AnchorTopLeft, 10, 10, 100, 20)
	check := CheckBox("sound", false).WithFrame(AnchorTopLeft, 10, 40, 100, 20)
	combo := ComboBox("a", "b").WithFrame(AnchorTopLeft, 10, 70, 100, 20)
	field := TextField("").WithFrame(AnchorTopLeft, 10, 100, 100, 20).SetText("hello")
	off := Button("off", func(*Widget) { clicks += 100 }).
		WithFrame(AnchorTopLeft, 10, 130, 100, 20).
		SetEnabled(false)

	s := laidOut(newTestScreen().Attach("ui", btn, check, combo, field, off))

	if got := click(s, 20, 15); got != btn || clicks != 1 || !btn.Focused() {
		t.Errorf("button click: target=%v clicks=%d focused=%v", got, clicks, btn.Focused())
	}
	if got := s.DispatchClick(MouseEvent{X: 20, Y: 15, Button: MouseButtonRight}); got != nil || clicks != 1 {
		t.Error("right clicks should be ignored")
	}

	click(s, 20, 45)
	if !check.Checked() || !check.Focused() || btn.Focused() {
		t.Errorf("check box click: checked=%v focused=%v", check.Checked(), check.Focused())
	}

	click(s, 20, 75)
	if !combo.IsOpen() {
		t.Error("clicking a combo box should open it")
	}
	click(s, 20, 75)
	if combo.IsOpen() {
		t.Error("clicking an open combo box should close it")
	}

	field.SetCursorPosition(0)
	click(s, 20, 105)
	if field.CursorPosition() != 5 {
		t.Errorf("CursorPosition() = %d, want 5", field.CursorPosition())
	}

	if got := click(s, 20, 135); got != nil || clicks != 1 {
		t.Error("disabled buttons should not receive clicks")
	}
	if s.Focused() != nil {
		t.Error("clicking nothing should clear focus")
	}
}

func TestDispatchKeyActivates(t *testing.T) {
	clicks := 0
	btn := Button("go", func(*Widget) { clicks++ })
	check := CheckBox("c", false)
	radio := RadioButton("r", 1)
	s := newTestScreen().Attach("ui", btn, check, radio)

	btn.SetFocus(true)
	s.DispatchKey(KeyEvent{Key: KeyEnter})
	s.DispatchKey(KeyEvent{Char: ' '})
	if clicks != 2 {
		t.Errorf("clicks = %d, want 2", clicks)
	}
	if s.DispatchKey(KeyEvent{Char: 'x'}) {
		t.Error("buttons should ignore other keys")
	}

	check.SetFocus(true)
	s.DispatchKey(KeyEvent{Char: ' '})
	if !check.Checked() {
		t.Error("space should toggle a check box")
	}

	radio.SetFocus(true)
	s.DispatchKey(KeyEvent{Key: KeyEnter})
	if !radio.Selected() {
		t.Error("enter should select a radio button")
	}

	s.ClearFocus()
	if s.DispatchKey(KeyEvent{Key: KeyEnter}) {
		t.Error("keys without focus should not be used")
	}
}

func TestDispatchKeyComboBox(t *testing.T) {
	combo := ComboBox("a", "b", "c")
	s := newTestScreen().Attach("ui", combo)
	combo.SetFocus(true)
	combo.OpenList()

	steps := []struct {
		key  Key
		want int
	}{
		{KeyDown, 0},
		{KeyDown, 1},
		{KeyDown, 2},
		{KeyDown, 2},
		{KeyUp, 1},
		{KeyUp, 0},
		{KeyUp, 0},
	}
	for _, step := range steps {
		s.DispatchKey(KeyEvent{Key: step.key})
		if got := combo.SelectedRow(); got != step.want {
			t.Fatalf("after %v SelectedRow() = %d, want %d", step.key, got, step.want)
		}
	}

	s.DispatchKey(KeyEvent{Key: KeyEscape})
	if combo.IsOpen() {
		t.Error("escape should close the list")
	}
}

func TestEditText(t *testing.T) {
	type tc struct {
		text     string
		cursor   int
		maxChars int
		maxLines int
		keys     []KeyEvent
		want     string
		wantPos  int
		handled  bool
	}

	chars := func(s string) []KeyEvent {
		var out []KeyEvent
		for _, r := range s {
			out = append(out, KeyEvent{Char: r})
		}
		return out
	}
	keys := func(ks ...Key) []KeyEvent {
		out := make([]KeyEvent, len(ks))
		for i, k := range ks {
			out[i] = KeyEvent{Key: k}
		}
		return out
	}

	tests := map[string]tc{
		"type into empty":    {keys: chars("abc"), want: "abc", wantPos: 3, handled: true},
		"insert at cursor":   {text: "ac", cursor: 1, keys: chars("b"), want: "abc", wantPos: 2, handled: true},
		"unicode":            {text: "né", cursor: 2, keys: chars("é"), want: "néé", wantPos: 3, handled: true},
		"backspace":          {text: "abc", cursor: 3, keys: keys(KeyBackspace), want: "ab", wantPos: 2, handled: true},
		"backspace at start": {text: "abc", keys: keys(KeyBackspace), want: "abc", handled: true},
		"delete":             {text: "abc", keys: keys(KeyDelete), want: "bc", handled: true},
		"delete at end":      {text: "abc", cursor: 3, keys: keys(KeyDelete), want: "abc", wantPos: 3, handled: true},
		"max chars":          {text: "abc", cursor: 3, maxChars: 3, keys: chars("d"), want: "abc", wantPos: 3, handled: true},
		"enter single line":  {text: "ab", cursor: 2, keys: keys(KeyEnter), want: "ab", wantPos: 2},
		"enter multi line":   {text: "ab", cursor: 1, maxLines: 2, keys: keys(KeyEnter), want: "a\nb", wantPos: 2, handled: true},
		"line limit":         {text: "a\nb", cursor: 3, maxLines: 2, keys: keys(KeyEnter), want: "a\nb", wantPos: 3},
		"home":               {text: "abc", cursor: 2, keys: keys(KeyHome), want: "abc", handled: true},
		"end":                {text: "abc", keys: keys(KeyEnd), want: "abc", wantPos: 3, handled: true},
		"arrows clamp":       {text: "ab", keys: keys(KeyLeft, KeyRight, KeyRight, KeyRight), want: "ab", wantPos: 2, handled: true},
		"unused key":         {text: "ab", keys: keys(KeyUp), want: "ab"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			field := TextField("")
			if tc.maxChars > 0 {
				field.SetMaxChars(tc.maxChars)
			}
			if tc.maxLines > 0 {
				field.SetMaxLines(tc.maxLines)
			}
			field.SetText(tc.text).SetCursorPosition(tc.cursor)
			s := newTestScreen().Attach("ui", field)
			field.SetFocus(true)

			var handled bool
			for _, k := range tc.keys {
				handled = s.DispatchKey(k)
			}
			if handled != tc.handled {
				t.Errorf("DispatchKey() = %v, want %v", handled, tc.handled)
			}
			if field.Text() != tc.want {
				t.Errorf("Text() = %q, want %q", field.Text(), tc.want)
			}
			if field.CursorPosition() != tc.wantPos {
				t.Errorf("CursorPosition() = %d, want %d", field.CursorPosition(), tc.wantPos)
			}
		})
	}
}

func TestTypingFinished(t *testing.T) {
	type tc struct {
		text     string
		maxLines int
		want     string
	}

	tests := map[string]tc{
		"single line keeps text": {text: "name", want: "name"},
		"multi line adds a line": {text: "a", maxLines: 3, want: "a\n"},
		"full multi line":        {text: "a\nb", maxLines: 2, want: "a\nb"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var finished []string
			field := TextField("").OnTypingFinished(func(w *Widget) {
				finished = append(finished, w.Text())
			})
			if tc.maxLines > 0 {
				field.SetMaxLines(tc.maxLines)
			}
			field.SetText(tc.text).SetCursorPosition(len(tc.text))
			s := newTestScreen().Attach("ui", field)
			field.SetFocus(true)

			s.DispatchKey(KeyEvent{Char: 'x'})
			if len(finished) != 0 {
				t.Fatal("typing a character should not finish typing")
			}
			s.DispatchKey(KeyEvent{Key: KeyBackspace})
			if !s.DispatchKey(KeyEvent{Key: KeyEnter}) {
				t.Error("Enter with a typing finished handler should be used")
			}
			if diff := cmp.Diff([]string{tc.want}, finished); diff != "" {
				t.Errorf("typing finished mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatchKeyTab(t *testing.T) {
	a, b := TextField("a"), TextField("b")
	s := newTestScreen().Attach("form", a, b)

	s.DispatchKey(KeyEvent{Key: KeyTab})
	if !a.Focused() {
		t.Fatal("tab should focus the first field")
	}
	s.DispatchKey(KeyEvent{Key: KeyTab})
	if !b.Focused() {
		t.Fatal("tab should move to the next field")
	}
	s.DispatchKey(KeyEvent{Key: KeyTab, Mods: ModShift})
	if !a.Focused() || b.Focused() {
		t.Error("shift-tab should move back")
	}
}

func TestDispatchScroll(t *testing.T) {
	s, area, _ := newScrollFixture()
	RenderOrder(s)

	if !s.DispatchScroll(ScrollEvent{X: 10, Y: 10, DY: 30}) {
		t.Fatal("DispatchScroll() over the area should be used")
	}
	if got := area.ScrollPosition(Vertical); got != 30 {
		t.Errorf("ScrollPosition() = %v, want 30", got)
	}
	if s.DispatchScroll(ScrollEvent{X: 500, Y: 400, DY: 30}) {
		t.Error("DispatchScroll() over empty space should not be used")
	}
}
