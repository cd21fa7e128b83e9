package retained

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// TextureInfo describes a decoded texture source.
type TextureInfo struct {
	URL    string
	Format string
	Width  int
	Height int
}

// FetchFunc returns the raw bytes behind a texture URL.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// DefaultFetch reads http(s) URLs over the network and anything else from
// the filesystem.
func DefaultFetch(ctx context.Context, url string) ([]byte, error) {
	if !isURL(url) {
		data, err := os.ReadFile(url)
		if err != nil {
			return nil, fmt.Errorf("failed to read texture: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build texture request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch texture: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch texture: HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// TextureLoader resolves texture sizes off the tick goroutine and hands the
// results back through Loop.Post. Concurrent requests for the same URL share
// one fetch; results are cached by URL.
type TextureLoader struct {
	loop   *Loop
	fetch  FetchFunc
	logger *slog.Logger
	group  singleflight.Group

	mu    sync.Mutex
	cache map[string]TextureInfo
}

// NewTextureLoader creates a loader posting completions to loop. A nil fetch
// uses DefaultFetch.
func NewTextureLoader(loop *Loop, fetch FetchFunc) *TextureLoader {
	if fetch == nil {
		fetch = DefaultFetch
	}
	return &TextureLoader{
		loop:   loop,
		fetch:  fetch,
		logger: loop.config.Logger,
		cache:  make(map[string]TextureInfo),
	}
}

// Info fetches and decodes the header of url. Safe for concurrent use.
func (tl *TextureLoader) Info(ctx context.Context, url string) (TextureInfo, error) {
	tl.mu.Lock()
	info, ok := tl.cache[url]
	tl.mu.Unlock()
	if ok {
		return info, nil
	}

	// The fetch is shared, so one caller giving up must not cancel it for
	// the others.
	shared := context.WithoutCancel(ctx)
	ch := tl.group.DoChan(url, func() (any, error) {
		data, err := tl.fetch(shared, url)
		if err != nil {
			return TextureInfo{}, err
		}
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return TextureInfo{}, fmt.Errorf("failed to decode texture %s: %w", url, err)
		}
		info := TextureInfo{URL: url, Format: format, Width: cfg.Width, Height: cfg.Height}
		tl.mu.Lock()
		tl.cache[url] = info
		tl.mu.Unlock()
		return info, nil
	})

	select {
	case <-ctx.Done():
		return TextureInfo{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return TextureInfo{}, res.Err
		}
		return res.Val.(TextureInfo), nil
	}
}

// Load starts resolving the texture widget's URL. Must be called on the tick
// goroutine. The widget's original size, and its configured size if it has
// none, are set on a later tick, after which its OnTextureLoaded handler
// runs.
func (tl *TextureLoader) Load(ctx context.Context, w *Widget) {
	t := w.texture()
	if t == nil || t.url == "" || t.loading {
		return
	}
	t.loading = true
	url := t.url

	go func() {
		info, err := tl.Info(ctx, url)
		tl.loop.Post(func() {
			tl.finish(w, url, info, err)
		})
	}()
}

// Resolve loads the widget's texture synchronously and applies the result.
// Must be called on the tick goroutine.
func (tl *TextureLoader) Resolve(ctx context.Context, w *Widget) error {
	t := w.texture()
	if t == nil || t.url == "" {
		return nil
	}
	info, err := tl.Info(ctx, t.url)
	tl.finish(w, t.url, info, err)
	return err
}

// finish applies a load result on the tick goroutine.
func (tl *TextureLoader) finish(w *Widget, url string, info TextureInfo, err error) {
	t := w.texture()
	t.loading = false
	if t.url != url {
		// The source changed while loading.
		return
	}
	if err != nil {
		t.err = err
		tl.logger.Warn("texture load failed",
			slog.String("widget", w.id.String()),
			slog.String("url", url),
			slog.Any("error", err))
		return
	}

	t.err = nil
	t.originalWidth, t.originalHeight = info.Width, info.Height
	if w.width == 0 && w.height == 0 {
		w.SetSize(info.Width, info.Height)
	}
	tl.logger.Debug("texture loaded",
		slog.String("url", url),
		slog.String("format", info.Format),
		slog.Int("width", info.Width),
		slog.Int("height", info.Height))
	if t.onFinish != nil {
		t.onFinish(w)
	}
}

// LoadAll starts loading every texture widget under s.
func (tl *TextureLoader) LoadAll(ctx context.Context, s *Screen) int {
	n := 0
	walk(s.root, func(w *Widget) bool {
		if t := w.texture(); t != nil && t.url != "" && !t.loading && t.originalWidth == 0 {
			tl.Load(ctx, w)
			n++
		}
		return true
	})
	return n
}
