package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/example/maskannotate/internal/maskfile"
	"github.com/example/maskannotate/internal/stroke"
)

func TestParse(t *testing.T) {
	input := `
root = /data/fundus
theme = my_custom_theme
history_depth = 4
brush_index = 2
transparency = 0.5
zoom_step = 0.25

[brushes]
sizes = 9, 1, 3, 3

[objects]
types = exudates, "cotton wool spots"

[notify]
save = true
error = false

[theme.my_custom_theme]
Background = #111111
CursorDark = #222222
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Root != "/data/fundus" {
		t.Errorf("Expected root '/data/fundus', got '%s'", cfg.Root)
	}
	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.HistoryDepth != 4 || cfg.BrushIndex != 2 || cfg.Transparency != 0.5 || cfg.ZoomStep != 0.25 {
		t.Errorf("Unexpected root values: %+v", cfg)
	}
	if want := (stroke.Sizes{1, 3, 9}); !reflect.DeepEqual(cfg.Brushes, want) {
		t.Errorf("Brushes = %v, want %v", cfg.Brushes, want)
	}
	if want := []string{"exudates", "cotton wool spots"}; !reflect.DeepEqual(cfg.Objects, want) {
		t.Errorf("Objects = %q, want %q", cfg.Objects, want)
	}
	if !cfg.Notify.Save || cfg.Notify.Error {
		t.Errorf("Unexpected notify: %+v", cfg.Notify)
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.CursorDark.R != 0x22 {
		t.Errorf("Unexpected theme colours: %+v", theme)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg.Objects, maskfile.DefaultTypes) {
		t.Errorf("Objects = %v", cfg.Objects)
	}
	if cfg.HistoryDepth != 10 || cfg.Transparency != 1 || !cfg.Notify.Error {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct{ input, frag string }{
		{"history_depth = 0", "root section"},
		{"transparency = 1.5", "transparency"},
		{"zoom_step = 0.01", "zoom_step"},
		{"[brushes]\nsizes = 3, x", "[brushes]"},
		{"[notify]\nsave = perhaps", "[notify]"},
		{"[theme.bad]\nBorder = #12", "[theme.bad]"},
		{"[objects]\ntypes = , ,", "[objects]"},
	}
	for _, c := range cases {
		_, err := Parse(strings.NewReader(c.input))
		if err == nil {
			t.Errorf("Parse(%q) succeeded", c.input)
			continue
		}
		if !strings.Contains(err.Error(), c.frag) {
			t.Errorf("Parse(%q) error %q lacks %q", c.input, err, c.frag)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `root = /srv/images
theme = dark
history_depth = 7
transparency = 0.75

[brushes]
sizes = 2, 4, 8

[objects]
types = artery, vein

[notify]
save = true
error = true

[theme.custom]
Name = custom
Background = #000000
StatusText = #FFFFFF
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	// 4. Compare relevant fields
	if cfg.Root != cfg2.Root || cfg.Theme != cfg2.Theme {
		t.Errorf("Root/theme mismatch: %q/%q vs %q/%q", cfg.Root, cfg.Theme, cfg2.Root, cfg2.Theme)
	}
	if cfg.HistoryDepth != cfg2.HistoryDepth || cfg.Transparency != cfg2.Transparency || cfg.ZoomStep != cfg2.ZoomStep {
		t.Errorf("Numeric mismatch: %+v vs %+v", cfg, cfg2)
	}
	if !reflect.DeepEqual(cfg.Brushes, cfg2.Brushes) || !reflect.DeepEqual(cfg.Objects, cfg2.Objects) {
		t.Errorf("List mismatch: %v %v vs %v %v", cfg.Brushes, cfg.Objects, cfg2.Brushes, cfg2.Objects)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	// Check theme persistence
	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestThemeNamePrecedence(t *testing.T) {
	cfg := New()
	cfg.Theme = "fromfile"
	t.Setenv(ThemeEnv, "")
	if got := cfg.ThemeName(""); got != "fromfile" {
		t.Errorf("ThemeName = %q, want fromfile", got)
	}
	t.Setenv(ThemeEnv, "fromenv")
	if got := cfg.ThemeName(""); got != "fromenv" {
		t.Errorf("ThemeName = %q, want fromenv", got)
	}
	if got := cfg.ThemeName("fromflag"); got != "fromflag" {
		t.Errorf("ThemeName = %q, want fromflag", got)
	}
}

func TestLoaderOverrideAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.rc")
	l := NewLoader("v1.0.0", path)
	cfg := New()
	cfg.Root = "/tmp/eyes"
	cfg.HistoryDepth = 3
	written, err := l.Save(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if written != path {
		t.Fatalf("written to %s, want %s", written, path)
	}
	if l.GetConfigPath() != path {
		t.Fatalf("GetConfigPath = %q", l.GetConfigPath())
	}
	loaded, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Root != "/tmp/eyes" || loaded.HistoryDepth != 3 {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestLoaderDevFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, devFileName), []byte("root = here\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := NewLoader("dev", "").Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Root != "here" {
		t.Fatalf("Root = %q", cfg.Root)
	}
}
