package retained

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLoopTick(t *testing.T) {
	loop := NewLoop(DefaultLoopConfig())
	s := newTestScreen()
	loop.AddScreen(s)

	var order []string
	w := box(10, 10).OnTick(func(*Widget) { order = append(order, "tick") })
	c := VStack(w).SetAnchor(AnchorTopLeft).SetSize(50, 50)
	c.OnLayout(func(*Widget) { order = append(order, "layout") })
	s.Attach("test", c)

	loop.Post(func() { order = append(order, "posted") })

	var presented *Frame
	loop.SetHost(HostFunc(func(f *Frame) {
		order = append(order, "present")
		presented = f
	}))

	frames := loop.Tick()
	if len(frames) != 1 {
		t.Fatalf("Tick() returned %d frames, want 1", len(frames))
	}
	want := []string{"posted", "tick", "layout", "present"}
	if len(order) != len(want) {
		t.Fatalf("tick order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("tick order = %v, want %v", order, want)
		}
	}

	f := frames[0]
	if presented != f || f.Number != 1 || f.Screen != s {
		t.Errorf("unexpected frame %+v", f)
	}
	if len(f.Items) != 2 {
		t.Errorf("frame has %d items, want 2", len(f.Items))
	}

	stats := loop.Stats()
	if stats.TickCount != 1 || stats.LayoutPasses == 0 {
		t.Errorf("Stats() = %+v", stats)
	}

	// A clean tree needs no layout on the next tick.
	passes := stats.LayoutPasses
	loop.Tick()
	if got := loop.Stats().LayoutPasses; got != passes {
		t.Errorf("LayoutPasses grew to %d on a clean tick", got)
	}
}

func TestLoopPostFromGoroutines(t *testing.T) {
	loop := NewLoop(DefaultLoopConfig())
	count := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loop.Post(func() { count++ })
		}()
	}
	wg.Wait()

	loop.Tick()
	if count != 50 {
		t.Errorf("ran %d posted tasks, want 50", count)
	}
}

func TestLoopPostDuringDrainWaits(t *testing.T) {
	loop := NewLoop(DefaultLoopConfig())
	ran := 0
	loop.Post(func() {
		loop.Post(func() { ran++ })
	})

	loop.Tick()
	if ran != 0 {
		t.Fatal("work posted while draining should wait for the next tick")
	}
	loop.Tick()
	if ran != 1 {
		t.Errorf("ran = %d, want 1", ran)
	}
}

func TestLoopAddScreenAppliesConfig(t *testing.T) {
	cfg := DefaultLoopConfig()
	cfg.GUIScale = 2
	loop := NewLoop(cfg)
	s := NewScreen(800, 400)
	loop.AddScreen(s)
	loop.AddScreen(s)

	if len(loop.Screens()) != 1 {
		t.Errorf("Screens() has %d entries, want 1", len(loop.Screens()))
	}
	if s.GUIScale() != 2 {
		t.Errorf("GUIScale() = %v, want 2", s.GUIScale())
	}

	loop.RemoveScreen(s)
	if frames := loop.Tick(); len(frames) != 0 {
		t.Errorf("removed screen still ticked")
	}
}

func TestLoopRun(t *testing.T) {
	cfg := DefaultLoopConfig()
	cfg.TargetTPS = 200
	loop := NewLoop(cfg)
	loop.AddScreen(newTestScreen())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	// Wait for Run to start before trying a second one.
	for !loop.IsRunning() {
		time.Sleep(time.Millisecond)
	}
	if err := loop.Run(ctx); !errors.Is(err, ErrLoopRunning) {
		t.Errorf("second Run() = %v, want ErrLoopRunning", err)
	}

	if err := <-done; !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() = %v, want deadline exceeded", err)
	}
	if loop.IsRunning() {
		t.Error("IsRunning() after Run returned")
	}
	if loop.Stats().TickCount == 0 {
		t.Error("Run() never ticked")
	}
}
