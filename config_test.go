package frames

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	type tc struct {
		content string
		want    Config
		wantErr bool
	}

	tests := map[string]tc{
		"full file": {
			content: "target_tps = 40\ngui_scale = 2.5\nscroll_bar_size = 8\nlog_level = \"debug\"\n",
			want:    Config{TargetTPS: 40, GUIScale: 2.5, ScrollBarSize: 8, LogLevel: "debug"},
		},
		"empty values use defaults": {
			content: "target_tps = 0\ngui_scale = -1\n",
			want:    DefaultConfig(),
		},
		"negative scroll bar": {
			content: "scroll_bar_size = -3\n",
			want:    Config{TargetTPS: 20, GUIScale: 1, ScrollBarSize: 0, LogLevel: "info"},
		},
		"bad toml":      {content: "target_tps = [", wantErr: true},
		"bad log level": {content: "log_level = \"loud\"\n", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := LoadConfig(writeFile(t, "frames.toml", tc.content))
			if tc.wantErr {
				if err == nil {
					t.Fatal("LoadConfig() expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	got, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), got); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.toml")
	want := Config{TargetTPS: 60, GUIScale: 3, ScrollBarSize: 12, LogLevel: "warn"}
	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigLoopConfig(t *testing.T) {
	cfg := Config{TargetTPS: 30, GUIScale: 2, ScrollBarSize: 10, LogLevel: "error"}
	level, err := cfg.Level()
	if err != nil || level != slog.LevelError {
		t.Errorf("Level() = %v, %v", level, err)
	}

	lc := cfg.LoopConfig(nil)
	if lc.TargetTPS != 30 || lc.GUIScale != 2 || lc.ScrollBarSize != 10 {
		t.Errorf("LoopConfig() = %+v", lc)
	}
	if lc.Logger != nil {
		t.Error("a nil logger should be left for the loop to default")
	}
}
