package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/obsidianbox/frames"
	"github.com/obsidianbox/frames/retained"
)

// stdout receives command output. Tests swap it out.
var stdout io.Writer = os.Stdout

// laidOut holds a scene after one tick.
type laidOut struct {
	engine *frames.Engine
	screen *retained.Screen
	frame  *retained.Frame
}

// layoutScene loads the config and scene, then runs a single tick.
func layoutScene(ctx context.Context, configPath, scenePath string, width, height int) (*laidOut, error) {
	config, err := frames.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	scene, err := LoadScene(scenePath)
	if err != nil {
		return nil, err
	}
	if width > 0 && height > 0 {
		scene.Screen.Width, scene.Screen.Height = width, height
	}

	engine, err := frames.NewEngine(config)
	if err != nil {
		return nil, err
	}
	screen, err := scene.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}
	engine.Loop().AddScreen(screen)
	if scene.Screen.GUIScale > 0 {
		screen.SetGUIScale(scene.Screen.GUIScale)
	}

	// Texture sizes feed layout, so resolve them before the first tick.
	// Failures are logged and leave the widget at its configured size.
	for _, w := range screen.AttachedWidgets(true) {
		if w.Kind() == retained.KindTexture {
			_ = engine.Textures().Resolve(ctx, w)
		}
	}

	out := engine.Loop().Tick()
	if len(out) == 0 {
		return nil, fmt.Errorf("no frame produced")
	}
	return &laidOut{engine: engine, screen: screen, frame: out[0]}, nil
}

// Layout implements the 'frames layout' command
func Layout(args []string) error {
	fs := flag.NewFlagSet("layout", flag.ContinueOnError)
	configPath := fs.String("config", "", "Config file (default frames.toml)")
	width := fs.Int("width", 0, "Override screen width in pixels")
	height := fs.Int("height", 0, "Override screen height in pixels")
	all := fs.Bool("all", false, "Include hidden widgets")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: frames layout [options] <scene>")
	}

	res, err := layoutScene(context.Background(), *configPath, fs.Arg(0), *width, *height)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEPTH\tKIND\tPRIORITY\tX\tY\tWIDTH\tHEIGHT\tOWNER\tID")
	if *all {
		for _, w := range res.screen.AttachedWidgets(true) {
			printRow(tw, w, w.ScreenBounds())
		}
	} else {
		for _, item := range res.frame.Items {
			printRow(tw, item.Widget, item.Bounds)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	stats := res.engine.Loop().Stats()
	fmt.Fprintf(stdout, "\n%d widgets, %d layout passes\n", len(res.frame.Items), stats.LayoutPasses)
	return nil
}

func printRow(w io.Writer, widget *retained.Widget, r retained.Rect) {
	fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%s\t%s\n",
		depth(widget), widget.Kind(), widget.Priority(),
		r.X, r.Y, r.Width, r.Height, widget.Owner(), widget.ID())
}

func depth(w *retained.Widget) int {
	d := 0
	for p := w.Parent(); p != nil && p.Kind() != retained.KindScreen; p = p.Parent() {
		d++
	}
	return d
}
