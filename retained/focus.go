package retained

import "slices"

// Focused reports whether the control has keyboard focus.
func (w *Widget) Focused() bool {
	return w.control != nil && w.control.focus
}

// SetFocus gives or takes keyboard focus. Only enabled controls accept
// focus, and at most one widget per screen holds it. Gaining focus scrolls
// enclosing scroll areas so the widget is visible.
func (w *Widget) SetFocus(focus bool) *Widget {
	if w.control == nil {
		return w
	}
	if !focus {
		w.control.focus = false
		return w
	}
	if !w.control.enabled {
		return w
	}
	if w.screen != nil {
		if prev := w.screen.Focused(); prev != nil && prev != w {
			prev.control.focus = false
		}
	}
	w.control.focus = true
	w.revealInScrollAreas()
	return w
}

// revealInScrollAreas scrolls each scrollable ancestor so w is visible.
func (w *Widget) revealInScrollAreas() {
	for p := w.parent; p != nil; p = p.parent {
		if p.viewport != nil {
			p.ScrollIntoView(w)
		}
	}
}

// Focused returns the widget holding keyboard focus, or nil.
func (s *Screen) Focused() *Widget {
	return s.find(func(w *Widget) bool { return w.Focused() })
}

// ClearFocus drops keyboard focus from the screen.
func (s *Screen) ClearFocus() {
	if w := s.Focused(); w != nil {
		w.SetFocus(false)
	}
}

// tabStops returns the focusable text fields in focus order: by tab index,
// ties in tree order. Fields in hidden subtrees are skipped.
func (s *Screen) tabStops() []*Widget {
	var stops []*Widget
	var collect func(w *Widget)
	collect = func(w *Widget) {
		if !w.visible {
			return
		}
		if (w.kind == KindTextField || w.kind == KindMaskedField) && w.Enabled() {
			stops = append(stops, w)
		}
		for _, c := range w.children {
			collect(c)
		}
	}
	collect(s.root)
	slices.SortStableFunc(stops, func(a, b *Widget) int {
		return a.TabIndex() - b.TabIndex()
	})
	return stops
}

// NextTabStop returns the field after current in focus order, wrapping
// around. Gaps between tab indexes are skipped. With current nil or not a
// tab stop the first field is returned; nil if there are none.
func (s *Screen) NextTabStop(current *Widget) *Widget {
	return s.stepTabStop(current, 1)
}

// PrevTabStop is NextTabStop in reverse.
func (s *Screen) PrevTabStop(current *Widget) *Widget {
	return s.stepTabStop(current, -1)
}

func (s *Screen) stepTabStop(current *Widget, step int) *Widget {
	stops := s.tabStops()
	if len(stops) == 0 {
		return nil
	}
	i := slices.Index(stops, current)
	if i < 0 {
		if step < 0 {
			return stops[len(stops)-1]
		}
		return stops[0]
	}
	return stops[(i+step+len(stops))%len(stops)]
}

// FocusNext moves focus to the next tab stop and returns it.
func (s *Screen) FocusNext() *Widget {
	next := s.NextTabStop(s.Focused())
	if next != nil {
		next.SetFocus(true)
	}
	return next
}

// FocusPrev moves focus to the previous tab stop and returns it.
func (s *Screen) FocusPrev() *Widget {
	prev := s.PrevTabStop(s.Focused())
	if prev != nil {
		prev.SetFocus(true)
	}
	return prev
}
