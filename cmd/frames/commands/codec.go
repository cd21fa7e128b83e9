package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/obsidianbox/frames/retained"
)

// Encode implements the 'frames encode' command
func Encode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	index := fs.Int("widget", 0, "Index of the top-level widget to encode")
	output := fs.String("o", "", "Output file (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *output == "" {
		return fmt.Errorf("usage: frames encode -o <out.nbt> [-widget N] <scene>")
	}

	scene, err := LoadScene(fs.Arg(0))
	if err != nil {
		return err
	}
	if *index < 0 || *index >= len(scene.Widgets) {
		return fmt.Errorf("widget index %d out of range (scene has %d)", *index, len(scene.Widgets))
	}
	w, err := scene.Widgets[*index].Build()
	if err != nil {
		return fmt.Errorf("failed to build widget %d: %w", *index, err)
	}

	data, err := retained.MarshalWidget(w)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", *output, err)
	}
	fmt.Fprintf(stdout, "Encoded %s %s (%d bytes) to %s\n", w.Kind(), w.ID(), len(data), *output)
	return nil
}

// Decode implements the 'frames decode' command
func Decode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	format := fs.String("format", "yaml", "Output format: yaml or toml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: frames decode [-format yaml|toml] <widget.nbt>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fs.Arg(0), err)
	}
	w, err := retained.UnmarshalWidget(data)
	if err != nil {
		return err
	}

	scene := DefaultScene()
	scene.Widgets = []retained.Blueprint{retained.BlueprintOf(w)}

	var out []byte
	switch *format {
	case "yaml":
		out, err = yaml.Marshal(scene)
	case "toml":
		out, err = toml.Marshal(scene)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}
	_, err = stdout.Write(out)
	return err
}
