package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/obsidianbox/frames/retained"
)

// tierColors outlines each priority tier in its own color, Highest first.
var tierColors = [...]retained.Color{
	{R: 0x55, G: 0x55, B: 0xff, A: 0xff},
	{R: 0x55, G: 0xff, B: 0xff, A: 0xff},
	{R: 0x55, G: 0xff, B: 0x55, A: 0xff},
	{R: 0xff, G: 0xff, B: 0x55, A: 0xff},
	{R: 0xff, G: 0x55, B: 0x55, A: 0xff},
}

// OutlineHost draws the bounds of every frame item into a gg context.
type OutlineHost struct {
	dc     *gg.Context
	frames int
}

// NewOutlineHost creates a host drawing into a width x height canvas.
func NewOutlineHost(width, height int) *OutlineHost {
	return &OutlineHost{dc: gg.NewContext(width, height)}
}

// Present implements retained.Host.
func (h *OutlineHost) Present(frame *retained.Frame) {
	dc := h.dc
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.Clear()

	// Letterbox of the scaled design frame.
	t := frame.Scale
	dc.SetRGBA(1, 1, 1, 0.25)
	dc.SetDash(4, 4)
	dc.DrawRectangle(float64(t.OffsetX), float64(t.OffsetY),
		float64(retained.DesignWidth*t.Factor), float64(retained.DesignHeight*t.Factor))
	dc.Stroke()
	dc.SetDash()

	for _, item := range frame.Items {
		dc.Push()
		if item.Clipped {
			clip := item.Clip.Snap()
			dc.DrawRectangle(float64(clip.X), float64(clip.Y),
				float64(clip.Width), float64(clip.Height))
			dc.Clip()
		}
		c := tierColors[min(int(item.Priority), len(tierColors)-1)]
		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
		dc.SetLineWidth(1)
		b := item.Bounds.Snap()
		dc.DrawRectangle(float64(b.X)+0.5, float64(b.Y)+0.5, float64(b.Width)-1, float64(b.Height)-1)
		dc.Stroke()
		dc.Pop()
	}
	h.frames++
}

// SavePNG writes the most recent frame to path.
func (h *OutlineHost) SavePNG(path string) error {
	if h.frames == 0 {
		return fmt.Errorf("no frame presented")
	}
	return h.dc.SavePNG(path)
}

// Outline implements the 'frames outline' command
func Outline(args []string) error {
	fs := flag.NewFlagSet("outline", flag.ContinueOnError)
	configPath := fs.String("config", "", "Config file (default frames.toml)")
	output := fs.String("o", "outline.png", "Output PNG file")
	width := fs.Int("width", 0, "Override screen width in pixels")
	height := fs.Int("height", 0, "Override screen height in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: frames outline [options] <scene>")
	}

	res, err := layoutScene(context.Background(), *configPath, fs.Arg(0), *width, *height)
	if err != nil {
		return err
	}

	host := NewOutlineHost(res.screen.Width(), res.screen.Height())
	host.Present(res.frame)
	if err := host.SavePNG(*output); err != nil {
		return fmt.Errorf("failed to write %s: %w", *output, err)
	}
	fmt.Fprintf(stdout, "Wrote %d widgets to %s\n", len(res.frame.Items), *output)
	return nil
}
