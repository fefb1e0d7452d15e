package theme

import (
	"image/color"
	"strings"

	"github.com/example/maskannotate/internal/render"
)

// Theme defines the colours of the editor view.
type Theme struct {
	Name string

	// Canvas
	Background color.RGBA // Area around the image
	Border     color.RGBA // Frame drawn when the view exceeds the image

	// Brush cursor
	CursorLight color.RGBA
	CursorDark  color.RGBA

	// Status line
	StatusBackground color.RGBA
	StatusText       color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Background:       color.RGBA{240, 240, 240, 255},
		Border:           color.RGBA{0, 0, 0, 255},
		CursorLight:      color.RGBA{192, 192, 192, 255},
		CursorDark:       color.RGBA{128, 128, 128, 255},
		StatusBackground: color.RGBA{220, 220, 220, 255},
		StatusText:       color.RGBA{0, 0, 0, 255},
	}
}

// Dark returns the built-in dark theme.
func Dark() *Theme {
	return &Theme{
		Name:             "Dark",
		Background:       color.RGBA{40, 40, 40, 255},
		Border:           color.RGBA{200, 200, 200, 255},
		CursorLight:      color.RGBA{230, 230, 230, 255},
		CursorDark:       color.RGBA{90, 90, 90, 255},
		StatusBackground: color.RGBA{30, 30, 30, 255},
		StatusText:       color.RGBA{220, 220, 220, 255},
	}
}

// Builtin returns a built-in theme by case-insensitive name.
func Builtin(name string) (*Theme, bool) {
	switch strings.ToLower(strings.TrimSuffix(name, ".theme")) {
	case "default", "light":
		return Default(), true
	case "dark":
		return Dark(), true
	}
	return nil, false
}

// Compositor returns a compositor drawing with the theme's colours.
func (t *Theme) Compositor() *render.Compositor {
	c := render.NewCompositor()
	c.Background = t.Background
	c.Border = t.Border
	c.CursorLight = t.CursorLight
	c.CursorDark = t.CursorDark
	return c
}
