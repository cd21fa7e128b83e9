package commands

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureStdout redirects command output for the rest of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// noConfig points -config at a file that doesn't exist so defaults apply.
func noConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "frames.toml")
}

func TestLayout(t *testing.T) {
	type tc struct {
		args []string
		want []string
	}

	tests := map[string]tc{
		"toml scene": {
			args: []string{writeScene(t, "menu.toml", menuTOML)},
			want: []string{"DEPTH", "container", "button", "label", "menu", "3 widgets"},
		},
		"yaml scene": {
			args: []string{writeScene(t, "menu.yaml", menuYAML)},
			want: []string{"text_field", "combo_box", "3 widgets"},
		},
		"size override": {
			args: []string{"-width", "1280", "-height", "720", writeScene(t, "menu.yaml", menuYAML)},
			want: []string{"640.0", "360.0"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			out := captureStdout(t)
			args := append([]string{"-config", noConfig(t)}, tc.args...)
			if err := Layout(args); err != nil {
				t.Fatalf("Layout() error = %v", err)
			}
			for _, want := range tc.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestLayoutErrors(t *testing.T) {
	captureStdout(t)
	if err := Layout(nil); err == nil {
		t.Error("Layout() without a scene should fail")
	}
	if err := Layout([]string{filepath.Join(t.TempDir(), "missing.toml")}); err == nil {
		t.Error("Layout() of a missing scene should fail")
	}
}

func TestEncodeDecode(t *testing.T) {
	out := captureStdout(t)
	scene := writeScene(t, "menu.yaml", menuYAML)
	nbtPath := filepath.Join(t.TempDir(), "menu.nbt")

	if err := Encode([]string{"-o", nbtPath, scene}); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(out.String(), "Encoded container") {
		t.Errorf("unexpected output %q", out)
	}

	type tc struct {
		format string
		want   []string
	}

	tests := map[string]tc{
		"yaml": {format: "yaml", want: []string{"kind: container", "kind: combo_box", "placeholder: Name"}},
		"toml": {format: "toml", want: []string{"[[widgets]]", "combo_box", "Name"}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			out.Reset()
			if err := Decode([]string{"-format", tc.format, nbtPath}); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			for _, want := range tc.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}

	// A .nbt file is itself a scene.
	out.Reset()
	if err := Layout([]string{"-config", noConfig(t), nbtPath}); err != nil {
		t.Fatalf("Layout() of an encoded widget error = %v", err)
	}
	if !strings.Contains(out.String(), "3 widgets") {
		t.Errorf("unexpected layout output:\n%s", out)
	}
}

func TestEncodeErrors(t *testing.T) {
	captureStdout(t)
	scene := writeScene(t, "menu.yaml", menuYAML)
	if err := Encode([]string{scene}); err == nil {
		t.Error("Encode() without -o should fail")
	}
	if err := Encode([]string{"-o", filepath.Join(t.TempDir(), "x.nbt"), "-widget", "3", scene}); err == nil {
		t.Error("Encode() with an out of range widget should fail")
	}
	if err := Decode([]string{"-format", "json", scene}); err == nil {
		t.Error("Decode() of a non-nbt file should fail")
	}
}

func TestOutline(t *testing.T) {
	out := captureStdout(t)
	pngPath := filepath.Join(t.TempDir(), "outline.png")
	args := []string{"-config", noConfig(t), "-o", pngPath, writeScene(t, "menu.toml", menuTOML)}
	if err := Outline(args); err != nil {
		t.Fatalf("Outline() error = %v", err)
	}
	if !strings.Contains(out.String(), "Wrote 3 widgets") {
		t.Errorf("unexpected output %q", out)
	}

	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("png.DecodeConfig() error = %v", err)
	}
	if cfg.Width != 854 || cfg.Height != 480 {
		t.Errorf("image is %dx%d, want 854x480", cfg.Width, cfg.Height)
	}
}

func TestOutlineHostNeedsFrame(t *testing.T) {
	host := NewOutlineHost(10, 10)
	if err := host.SavePNG(filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Error("SavePNG() before any frame should fail")
	}
}
