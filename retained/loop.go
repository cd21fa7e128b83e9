package retained

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// ErrLoopRunning is returned by Run when the loop is already running.
var ErrLoopRunning = errors.New("retained: loop already running")

// LoopConfig configures the tick loop.
type LoopConfig struct {
	// TargetTPS is the desired ticks per second (default: 20).
	TargetTPS int

	// GUIScale is applied to screens added to the loop (default: 1).
	GUIScale float32

	// ScrollBarSize is the space reserved for a visible scrollbar
	// (default: DefaultScrollBarSize).
	ScrollBarSize float32

	// Logger receives layout and attachment records. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// DefaultLoopConfig returns sensible defaults.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		TargetTPS:     20,
		GUIScale:      1,
		ScrollBarSize: DefaultScrollBarSize,
	}
}

// Frame is the immutable result of one tick for one screen. All layout for
// the tick has completed before a Frame is built.
type Frame struct {
	// Number is the monotonically increasing tick counter.
	Number uint64

	// DeltaTime is seconds since the previous tick.
	DeltaTime float64

	Screen *Screen

	// Scale maps scale anchored widgets to screen pixels.
	Scale ScaleTransform

	// Items lists the visible widgets in draw order.
	Items []DrawItem
}

// Host receives frames for drawing. Rendering itself happens outside this
// package.
type Host interface {
	Present(*Frame)
}

// HostFunc adapts a function to Host.
type HostFunc func(*Frame)

// Present calls f.
func (f HostFunc) Present(frame *Frame) { f(frame) }

// Loop drives layout for a set of screens at a fixed tick rate.
type Loop struct {
	config  LoopConfig
	env     layoutEnv
	screens []*Screen
	host    Host
	onFrame func(*Frame)

	// Posted work from other goroutines, drained at the start of each tick.
	mu     sync.Mutex
	posted []func()

	lastTick time.Time

	running      atomic.Bool
	tickCount    atomic.Uint64
	layoutPasses atomic.Uint64
	droppedTicks atomic.Uint64
}

// NewLoop creates a tick loop with the specified configuration.
func NewLoop(config LoopConfig) *Loop {
	if config.TargetTPS < 1 {
		config.TargetTPS = 20
	}
	if config.GUIScale <= 0 {
		config.GUIScale = 1
	}
	if config.ScrollBarSize < 0 {
		config.ScrollBarSize = 0
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Loop{
		config: config,
		env: layoutEnv{
			scrollBarSize: config.ScrollBarSize,
			logger:        config.Logger,
		},
	}
}

// Config returns the effective configuration.
func (l *Loop) Config() LoopConfig { return l.config }

// AddScreen registers a screen with the loop. The screen adopts the loop's
// GUI scale, scrollbar size and logger, and is fully re-laid out on the next
// tick.
func (l *Loop) AddScreen(s *Screen) {
	if s == nil || slices.Contains(l.screens, s) {
		return
	}
	s.env = l.env
	s.SetGUIScale(l.config.GUIScale)
	InvalidateTreeLayout(s.root)
	l.screens = append(l.screens, s)
}

// RemoveScreen stops ticking a screen.
func (l *Loop) RemoveScreen(s *Screen) {
	l.screens = slices.DeleteFunc(l.screens, func(o *Screen) bool { return o == s })
}

// Screens returns the registered screens.
func (l *Loop) Screens() []*Screen {
	return slices.Clone(l.screens)
}

// SetHost sets where frames are presented.
func (l *Loop) SetHost(h Host) {
	l.host = h
}

// OnFrame sets a callback run for each frame before it is presented.
func (l *Loop) OnFrame(fn func(*Frame)) {
	l.onFrame = fn
}

// Post queues fn to run on the tick goroutine at the start of the next tick.
// Safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
}

// drain runs work posted before the tick began. Work posted while draining
// waits for the next tick.
func (l *Loop) drain() {
	next := acquireTaskSlice()
	l.mu.Lock()
	tasks := l.posted
	l.posted = next
	l.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	if tasks != nil {
		releaseTaskSlice(tasks)
	}
}

// Tick advances every screen by one tick and returns the resulting frames:
// posted work, widget tick hooks, layout, scale transform, then render
// order.
func (l *Loop) Tick() []*Frame {
	l.drain()

	now := time.Now()
	var delta float64
	if !l.lastTick.IsZero() {
		delta = now.Sub(l.lastTick).Seconds()
	}
	l.lastTick = now
	number := l.tickCount.Add(1)

	frames := make([]*Frame, 0, len(l.screens))
	for _, s := range slices.Clone(l.screens) {
		runTickHooks(s.root)

		passes := ComputeLayout(s.root)
		l.layoutPasses.Add(uint64(passes))

		s.scale = ComputeScaleTransform(float32(s.width), float32(s.height))
		frame := &Frame{
			Number:    number,
			DeltaTime: delta,
			Screen:    s,
			Scale:     s.scale,
			Items:     RenderOrder(s),
		}
		if l.onFrame != nil {
			l.onFrame(frame)
		}
		if l.host != nil {
			l.host.Present(frame)
		}
		frames = append(frames, frame)
	}
	return frames
}

// runTickHooks calls every OnTick hook under w in tree order.
func runTickHooks(w *Widget) {
	if w.onTick != nil {
		w.onTick(w)
	}
	if len(w.children) == 0 {
		return
	}
	children := acquireWidgetSlice(len(w.children))
	copy(children, w.children)
	for _, c := range children {
		runTickHooks(c)
	}
	releaseWidgetSlice(children)
}

// Run ticks at TargetTPS until ctx is done. It returns ctx.Err() on
// cancellation, or ErrLoopRunning if the loop is already running.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	budget := time.Second / time.Duration(l.config.TargetTPS)
	ticker := time.NewTicker(budget)
	defer ticker.Stop()

	l.config.Logger.Info("loop started",
		slog.Int("tps", l.config.TargetTPS),
		slog.Int("screens", len(l.screens)))
	for {
		select {
		case <-ctx.Done():
			l.config.Logger.Info("loop stopped", slog.Uint64("ticks", l.tickCount.Load()))
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			l.Tick()
			if elapsed := time.Since(start); elapsed > budget {
				l.droppedTicks.Add(1)
				l.config.Logger.Warn("tick over budget",
					slog.Duration("elapsed", elapsed),
					slog.Duration("budget", budget))
			}
		}
	}
}

// IsRunning returns whether Run is active.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// Stats returns loop statistics.
func (l *Loop) Stats() LoopStats {
	return LoopStats{
		TickCount:    l.tickCount.Load(),
		LayoutPasses: l.layoutPasses.Load(),
		DroppedTicks: l.droppedTicks.Load(),
		TargetTPS:    l.config.TargetTPS,
	}
}

// LoopStats contains loop counters.
type LoopStats struct {
	TickCount    uint64
	LayoutPasses uint64
	DroppedTicks uint64
	TargetTPS    int
}
