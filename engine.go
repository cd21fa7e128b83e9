package frames

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/obsidianbox/frames/retained"
)

// Engine wires a tick loop, its logger and a texture loader together.
type Engine struct {
	config   Config
	logger   *slog.Logger
	loop     *retained.Loop
	textures *retained.TextureLoader
}

// EngineOption customizes NewEngine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	logOutput io.Writer
	fetch     retained.FetchFunc
}

// WithLogOutput sends log records to w instead of stderr.
func WithLogOutput(w io.Writer) EngineOption {
	return func(o *engineOptions) { o.logOutput = w }
}

// WithFetch replaces the texture fetcher.
func WithFetch(fetch retained.FetchFunc) EngineOption {
	return func(o *engineOptions) { o.fetch = fetch }
}

// NewEngine creates an engine with the given configuration.
func NewEngine(config Config, opts ...EngineOption) (*Engine, error) {
	o := engineOptions{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	level, err := config.Level()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(o.logOutput, &slog.HandlerOptions{Level: level}))

	loop := retained.NewLoop(config.LoopConfig(logger))
	return &Engine{
		config:   config,
		logger:   logger,
		loop:     loop,
		textures: retained.NewTextureLoader(loop, o.fetch),
	}, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.config }

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// Loop returns the tick loop.
func (e *Engine) Loop() *retained.Loop { return e.loop }

// Textures returns the texture loader.
func (e *Engine) Textures() *retained.TextureLoader { return e.textures }

// NewScreen creates a screen of the given pixel size and registers it with
// the loop.
func (e *Engine) NewScreen(width, height int) *retained.Screen {
	s := retained.NewScreen(width, height)
	e.loop.AddScreen(s)
	return s
}

// Show registers widgets with s under owner and starts loading any textures
// among them.
func (e *Engine) Show(ctx context.Context, s *retained.Screen, owner string, widgets ...*retained.Widget) {
	s.Attach(owner, widgets...)
	if n := e.textures.LoadAll(ctx, s); n > 0 {
		e.logger.Debug("loading textures", slog.Int("count", n))
	}
}

// Run ticks the loop until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	return e.loop.Run(ctx)
}
