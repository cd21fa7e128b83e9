package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/obsidianbox/frames/retained"
)

// Scene is a screen description loaded from a .toml, .yaml or .nbt file.
type Scene struct {
	Screen  ScreenConfig         `toml:"screen" yaml:"screen"`
	Owner   string               `toml:"owner" yaml:"owner"`
	Widgets []retained.Blueprint `toml:"widgets" yaml:"widgets"`
}

// ScreenConfig is the [screen] table of a scene file.
type ScreenConfig struct {
	Width    int     `toml:"width" yaml:"width"`
	Height   int     `toml:"height" yaml:"height"`
	GUIScale float32 `toml:"gui_scale" yaml:"gui_scale"`
	Type     *int    `toml:"type,omitempty" yaml:"type,omitempty"`
}

// DefaultScene returns the scene values used for omitted fields.
func DefaultScene() Scene {
	return Scene{
		Screen: ScreenConfig{Width: 854, Height: 480},
		Owner:  "scene",
	}
}

// LoadScene reads a scene file. The format follows the file extension; a
// .nbt file holds a single encoded widget.
func LoadScene(path string) (Scene, error) {
	scene := DefaultScene()

	data, err := os.ReadFile(path)
	if err != nil {
		return scene, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &scene)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &scene)
	case ".nbt":
		var w *retained.Widget
		w, err = retained.UnmarshalWidget(data)
		if err == nil {
			scene.Widgets = []retained.Blueprint{retained.BlueprintOf(w)}
		}
	default:
		return scene, fmt.Errorf("unsupported scene format %q", ext)
	}
	if err != nil {
		return scene, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if scene.Screen.Width <= 0 || scene.Screen.Height <= 0 {
		return scene, fmt.Errorf("%s: screen size must be positive, got %dx%d",
			path, scene.Screen.Width, scene.Screen.Height)
	}
	if scene.Owner == "" {
		scene.Owner = DefaultScene().Owner
	}
	return scene, nil
}

// Build creates a screen holding the scene's widgets. The screen is not yet
// laid out.
func (sc Scene) Build() (*retained.Screen, error) {
	s := retained.NewScreen(sc.Screen.Width, sc.Screen.Height)
	if sc.Screen.GUIScale > 0 {
		s.SetGUIScale(sc.Screen.GUIScale)
	}
	if sc.Screen.Type != nil {
		t, ok := retained.ScreenTypeFromCode(*sc.Screen.Type)
		if !ok {
			return nil, fmt.Errorf("unknown screen type %d", *sc.Screen.Type)
		}
		s.SetScreenType(t)
	}

	for i, b := range sc.Widgets {
		w, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("widget %d: %w", i, err)
		}
		s.Attach(sc.Owner, w)
	}
	return s, nil
}
