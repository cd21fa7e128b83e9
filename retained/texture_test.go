package retained

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// fakeFetch serves fixed bytes per URL and counts fetches.
type fakeFetch struct {
	files map[string][]byte
	calls atomic.Int32
}

func (f *fakeFetch) fetch(_ context.Context, url string) ([]byte, error) {
	f.calls.Add(1)
	data, ok := f.files[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func quietLoop() *Loop {
	cfg := DefaultLoopConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLoop(cfg)
}

func TestTextureResolve(t *testing.T) {
	f := &fakeFetch{files: map[string][]byte{
		"steve.png": pngBytes(t, 64, 32),
		"junk.png":  []byte("not an image"),
	}}

	type tc struct {
		url      string
		size     [2]int
		wantSize [2]int
		wantOrig [2]int
		wantErr  bool
	}

	tests := map[string]tc{
		"adopts the source size": {url: "steve.png", wantSize: [2]int{64, 32}, wantOrig: [2]int{64, 32}},
		"keeps a set size":       {url: "steve.png", size: [2]int{10, 10}, wantSize: [2]int{10, 10}, wantOrig: [2]int{64, 32}},
		"missing source":         {url: "gone.png", wantErr: true},
		"undecodable source":     {url: "junk.png", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			tl := NewTextureLoader(quietLoop(), f.fetch)
			loaded := false
			w := Texture(tc.url).SetSize(tc.size[0], tc.size[1]).OnTextureLoaded(func(*Widget) { loaded = true })

			err := tl.Resolve(context.Background(), w)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				if w.TextureErr() == nil || loaded {
					t.Error("a failed load should record the error and skip the handler")
				}
				return
			}

			if !loaded || w.TextureErr() != nil || w.TextureLoading() {
				t.Errorf("loaded=%v err=%v loading=%v", loaded, w.TextureErr(), w.TextureLoading())
			}
			if diff := cmp.Diff(tc.wantSize, [2]int{w.Width(), w.Height()}); diff != "" {
				t.Errorf("size mismatch (-want +got):\n%s", diff)
			}
			ow, oh := w.OriginalSize()
			if diff := cmp.Diff(tc.wantOrig, [2]int{ow, oh}); diff != "" {
				t.Errorf("OriginalSize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTextureLoadCompletesOnTick(t *testing.T) {
	f := &fakeFetch{files: map[string][]byte{"a.png": pngBytes(t, 16, 8)}}
	loop := quietLoop()
	tl := NewTextureLoader(loop, f.fetch)

	s := newTestScreen()
	a, b := Texture("a.png"), Texture("a.png")
	s.Attach("hud", a, b, Texture(""))
	loop.AddScreen(s)

	if n := tl.LoadAll(context.Background(), s); n != 2 {
		t.Fatalf("LoadAll() = %d, want 2", n)
	}
	if !a.TextureLoading() {
		t.Fatal("Load() should mark the widget as loading")
	}
	if n := tl.LoadAll(context.Background(), s); n != 0 {
		t.Errorf("LoadAll() while loading = %d, want 0", n)
	}

	deadline := time.Now().Add(2 * time.Second)
	for (a.TextureLoading() || b.TextureLoading()) && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
		loop.Tick()
	}
	if a.TextureLoading() || b.TextureLoading() {
		t.Fatal("texture loads never completed")
	}
	if a.Width() != 16 || b.Height() != 8 {
		t.Errorf("sizes %dx%d and %dx%d", a.Width(), a.Height(), b.Width(), b.Height())
	}
	if got := f.calls.Load(); got > 2 {
		t.Errorf("fetched %d times", got)
	}
}

func TestTextureURLChangeDropsResult(t *testing.T) {
	release := make(chan struct{})
	data := pngBytes(t, 4, 4)
	loop := quietLoop()
	tl := NewTextureLoader(loop, func(ctx context.Context, url string) ([]byte, error) {
		<-release
		return data, nil
	})

	w := Texture("old.png")
	tl.Load(context.Background(), w)
	w.SetURL("new.png")
	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for w.TextureLoading() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
		loop.Tick()
	}
	if ow, _ := w.OriginalSize(); ow != 0 || w.Width() != 0 {
		t.Error("a result for a stale URL should be ignored")
	}
}

func TestTextureInfoSharesFetches(t *testing.T) {
	var calls atomic.Int32
	gate := make(chan struct{})
	data := pngBytes(t, 2, 3)
	tl := NewTextureLoader(quietLoop(), func(ctx context.Context, url string) ([]byte, error) {
		calls.Add(1)
		<-gate
		return data, nil
	})

	var wg sync.WaitGroup
	infos := make([]TextureInfo, 8)
	for i := range infos {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			infos[i], _ = tl.Info(context.Background(), "x.png")
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	want := TextureInfo{URL: "x.png", Format: "png", Width: 2, Height: 3}
	for _, got := range infos {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Info() mismatch (-want +got):\n%s", diff)
		}
	}
	before := calls.Load()
	if _, err := tl.Info(context.Background(), "x.png"); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != before {
		t.Error("a cached URL should not be fetched again")
	}
}

func TestTextureInfoCancelDoesNotAbortSharedFetch(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	data := pngBytes(t, 5, 7)
	tl := NewTextureLoader(quietLoop(), func(ctx context.Context, url string) ([]byte, error) {
		once.Do(func() { close(started) })
		select {
		case <-gate:
			return data, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := tl.Info(ctx, "shared.png")
		firstErr <- err
	}()
	<-started

	type result struct {
		info TextureInfo
		err  error
	}
	second := make(chan result, 1)
	go func() {
		info, err := tl.Info(context.Background(), "shared.png")
		second <- result{info, err}
	}()
	time.Sleep(10 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled Info() error = %v, want context.Canceled", err)
	}

	close(gate)
	got := <-second
	if got.err != nil {
		t.Fatalf("Info() error = %v", got.err)
	}
	want := TextureInfo{URL: "shared.png", Format: "png", Width: 5, Height: 7}
	if diff := cmp.Diff(want, got.info); diff != "" {
		t.Errorf("Info() mismatch (-want +got):\n%s", diff)
	}
}
