package retained

import "log/slog"

// ScreenType identifies which host screen a Screen stands in for.
type ScreenType int

const (
	ScreenUnknown ScreenType = -1

	ScreenGame ScreenType = iota - 1
	ScreenChat
	ScreenCustom
	ScreenPlayerInventory
	ScreenChestInventory
	ScreenDispenserInventory
	ScreenFurnaceInventory
	ScreenIngameMenu
	ScreenOptionsMenu
	ScreenVideoSettingsMenu
	ScreenControlsMenu
	ScreenAchievements
	ScreenStatistics
	ScreenWorkbenchInventory
	ScreenSign
	ScreenGameOver
	ScreenSleep
	ScreenAddWaypoint
	ScreenBrewingStandInventory
	ScreenPlayerInventoryCreative
	ScreenEnchantmentInventory
	ScreenEditShortcut
	ScreenChangeLanguage
	ScreenMinimapSettings
	ScreenAmbiguousShortcut
	ScreenChatSettings
	ScreenListEdit
	ScreenMoveMinimap
	ScreenOverviewMap
	ScreenWinGame
	ScreenConfirmURL
)

// Code returns the numeric code shared with the host.
func (t ScreenType) Code() int { return int(t) }

// ScreenTypeFromCode looks up a screen type by host code.
func ScreenTypeFromCode(code int) (ScreenType, bool) {
	if code == int(ScreenUnknown) || (code >= int(ScreenGame) && code <= int(ScreenConfirmURL)) {
		return ScreenType(code), true
	}
	return 0, false
}

// attachment is a registry entry for a widget attached directly to a screen.
type attachment struct {
	widget *Widget
	owner  string
}

// Screen is the top-level container of a widget tree. It tracks which
// external owner attached each top-level widget and maps actual geometry to
// screen pixels.
type Screen struct {
	root    *Widget
	entries []attachment

	width, height int
	guiScale      float32
	scale         ScaleTransform
	screenType    ScreenType

	pointerX, pointerY float32

	env       layoutEnv
	drawOrder []DrawItem
}

// NewScreen creates an empty custom screen of the given pixel size.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		guiScale:   1,
		screenType: ScreenCustom,
		env:        defaultLayoutEnv(),
	}
	s.root = NewWidget(KindScreen)
	s.root.anchor = AnchorTopLeft
	s.root.screen = s
	s.Resize(width, height)
	return s
}

// Root returns the screen's top-level container.
func (s *Screen) Root() *Widget { return s.root }

// ============================================================================
// Attachment
// ============================================================================

// Attach adds widgets to the screen under the given owner tag. A widget
// attached to any container (on this or another screen) is detached from it
// first. Nil widgets and screen roots are ignored.
func (s *Screen) Attach(owner string, widgets ...*Widget) *Screen {
	for _, w := range widgets {
		if w == nil || w.kind == KindScreen {
			continue
		}
		s.root.AddChild(w)
		s.entries = append(s.entries, attachment{widget: w, owner: owner})
		s.env.logger.Debug("widget attached",
			slog.String("widget", w.id.String()),
			slog.String("kind", string(w.kind)),
			slog.String("owner", owner))
	}
	return s
}

// Remove detaches w from the screen. Nested widgets are removed from their
// container. Reports whether w was on this screen.
func (s *Screen) Remove(w *Widget) bool {
	if w == nil || w.screen != s || w == s.root {
		return false
	}
	w.RemoveFromParent()
	return true
}

// RemoveOwnedBy detaches every top-level widget attached by owner and returns
// how many were removed.
func (s *Screen) RemoveOwnedBy(owner string) int {
	var owned []*Widget
	for _, e := range s.entries {
		if e.owner == owner {
			owned = append(owned, e.widget)
		}
	}
	for _, w := range owned {
		s.Remove(w)
	}
	return len(owned)
}

// dropEntry forgets the registry entry for a top-level widget leaving the
// screen root.
func (s *Screen) dropEntry(w *Widget) {
	for i, e := range s.entries {
		if e.widget == w {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.env.logger.Debug("widget detached",
				slog.String("widget", w.id.String()),
				slog.String("owner", e.owner))
			return
		}
	}
}

// Owner returns the owner tag of the top-level attachment containing w, or
// "" if w is not on this screen.
func (s *Screen) Owner(w *Widget) string {
	if w == nil || w.screen != s {
		return ""
	}
	top := w
	for top.parent != nil && top.parent != s.root {
		top = top.parent
	}
	for _, e := range s.entries {
		if e.widget == top {
			return e.owner
		}
	}
	return ""
}

// ============================================================================
// Lookup
// ============================================================================

// ContainsWidget reports whether w is anywhere under the screen. The search
// is a linear walk of the tree.
func (s *Screen) ContainsWidget(w *Widget) bool {
	if w == nil {
		return false
	}
	return s.find(func(c *Widget) bool { return c == w }) != nil
}

// ContainsID reports whether a widget with the given id is under the screen.
func (s *Screen) ContainsID(id WidgetID) bool {
	_, ok := s.Widget(id)
	return ok
}

// Widget finds a widget under the screen by id.
func (s *Screen) Widget(id WidgetID) (*Widget, bool) {
	w := s.find(func(c *Widget) bool { return c.id == id })
	return w, w != nil
}

func (s *Screen) find(match func(*Widget) bool) *Widget {
	var found *Widget
	walk(s.root, func(w *Widget) bool {
		if w != s.root && match(w) {
			found = w
			return false
		}
		return true
	})
	return found
}

// walk visits w and its descendants depth-first in tree order until fn
// returns false.
func walk(w *Widget, fn func(*Widget) bool) bool {
	if !fn(w) {
		return false
	}
	for _, c := range w.children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// AttachedWidgets returns the widgets directly under the screen, or with
// recursive set, every widget under it in depth-first order. The result is a
// snapshot.
func (s *Screen) AttachedWidgets(recursive bool) []*Widget {
	if !recursive {
		return s.root.Children()
	}
	var out []*Widget
	walk(s.root, func(w *Widget) bool {
		if w != s.root {
			out = append(out, w)
		}
		return true
	})
	return out
}

// AttachedWidgetsBy returns the top-level widgets attached by owner.
func (s *Screen) AttachedWidgetsBy(owner string) []*Widget {
	var out []*Widget
	for _, e := range s.entries {
		if e.owner == owner {
			out = append(out, e.widget)
		}
	}
	return out
}

// ============================================================================
// Geometry
// ============================================================================

// Width returns the screen width in pixels.
func (s *Screen) Width() int { return s.width }

// Height returns the screen height in pixels.
func (s *Screen) Height() int { return s.height }

// Resize sets the pixel size and schedules a re-layout.
func (s *Screen) Resize(width, height int) *Screen {
	s.width, s.height = nonNegative(width), nonNegative(height)
	s.updateRoot()
	return s
}

// GUIScale returns the factor applied to widgets that are not scale
// anchored.
func (s *Screen) GUIScale() float32 { return s.guiScale }

// SetGUIScale sets the factor between logical and screen pixels for widgets
// that are not scale anchored. Non-positive values reset it to 1.
func (s *Screen) SetGUIScale(scale float32) *Screen {
	if scale <= 0 {
		scale = 1
	}
	if s.guiScale != scale {
		s.guiScale = scale
		s.updateRoot()
	}
	return s
}

// ScaleTransform returns the transform applied to scale anchored widgets.
func (s *Screen) ScaleTransform() ScaleTransform { return s.scale }

// updateRoot sizes the root to the logical screen and recomputes the scale
// transform.
func (s *Screen) updateRoot() {
	s.scale = ComputeScaleTransform(float32(s.width), float32(s.height))
	s.root.setActual(Rect{
		Width:  float32(s.width) / s.guiScale,
		Height: float32(s.height) / s.guiScale,
	})
	s.root.markLayoutDirty()
}

// transformFor returns the transform mapping w's actual geometry to pixels.
func (s *Screen) transformFor(w *Widget) ScaleTransform {
	if w.scaled() {
		return s.scale
	}
	return UniformTransform(s.guiScale)
}

// ScreenType returns the host screen this screen represents.
func (s *Screen) ScreenType() ScreenType { return s.screenType }

// SetScreenType sets the host screen this screen represents.
func (s *Screen) SetScreenType(t ScreenType) *Screen {
	s.screenType = t
	return s
}

// SetPointer records the pointer position in screen pixels.
func (s *Screen) SetPointer(x, y float32) {
	s.pointerX, s.pointerY = x, y
}

// Pointer returns the last recorded pointer position.
func (s *Screen) Pointer() (x, y float32) {
	return s.pointerX, s.pointerY
}

// WidgetAt returns the topmost widget whose clipped screen bounds contain
// the point, using the draw order of the latest frame. Returns nil if
// nothing was drawn there.
func (s *Screen) WidgetAt(x, y float32) *Widget {
	for i := len(s.drawOrder) - 1; i >= 0; i-- {
		item := s.drawOrder[i]
		if item.visibleBounds().Contains(x, y) {
			return item.Widget
		}
	}
	return nil
}

// Hovered returns the widget under the recorded pointer.
func (s *Screen) Hovered() *Widget {
	return s.WidgetAt(s.pointerX, s.pointerY)
}
