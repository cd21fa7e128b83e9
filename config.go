package frames

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/obsidianbox/frames/retained"
)

// DefaultConfigFile is the file LoadConfig reads when given an empty path.
const DefaultConfigFile = "frames.toml"

// Config represents the frames.toml configuration file.
type Config struct {
	// Ticks per second the loop targets.
	TargetTPS int `toml:"target_tps" yaml:"target_tps"`
	// GUI scale applied to every screen; screen pixels per logical pixel.
	GUIScale float32 `toml:"gui_scale" yaml:"gui_scale"`
	// Thickness reserved for a scroll bar when one is shown.
	ScrollBarSize int `toml:"scroll_bar_size" yaml:"scroll_bar_size"`
	// One of debug, info, warn, error.
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		TargetTPS:     20,
		GUIScale:      1,
		ScrollBarSize: retained.DefaultScrollBarSize,
		LogLevel:      "info",
	}
}

// LoadConfig loads the configuration from path, or frames.toml when path
// is empty. If the file doesn't exist, returns default config.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// Apply defaults for empty values
	def := DefaultConfig()
	if config.TargetTPS <= 0 {
		config.TargetTPS = def.TargetTPS
	}
	if config.GUIScale <= 0 {
		config.GUIScale = def.GUIScale
	}
	if config.ScrollBarSize < 0 {
		config.ScrollBarSize = 0
	}
	if config.LogLevel == "" {
		config.LogLevel = def.LogLevel
	}
	if _, err := config.Level(); err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return config, nil
}

// SaveConfig writes the configuration to path.
func SaveConfig(path string, config Config) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// LoopConfig converts the file configuration into loop settings.
func (c Config) LoopConfig(logger *slog.Logger) retained.LoopConfig {
	lc := retained.DefaultLoopConfig()
	lc.TargetTPS = c.TargetTPS
	lc.GUIScale = c.GUIScale
	lc.ScrollBarSize = float32(c.ScrollBarSize)
	if logger != nil {
		lc.Logger = logger
	}
	return lc
}
