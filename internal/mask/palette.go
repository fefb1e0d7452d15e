package mask

import (
	"image"
	"image/color"
)

// Class is the palette index stored in an on-disk mask.
type Class uint8

const (
	Background Class = iota
	ConfidentObject
	UnconfidentObject
)

func (c Class) String() string {
	switch c {
	case Background:
		return "background"
	case ConfidentObject:
		return "confident"
	case UnconfidentObject:
		return "unconfident"
	default:
		return "unknown"
	}
}

// Palette is the fixed colour table of every mask file, in index order.
var Palette = color.Palette{
	color.RGBA{0, 0, 0, 255},
	color.RGBA{255, 0, 0, 255},
	color.RGBA{0, 255, 0, 255},
}

// Colour returns the working colour for a class at the given alpha.
// Background is always transparent black.
func Colour(c Class, alpha uint8) color.NRGBA {
	switch c {
	case ConfidentObject:
		return color.NRGBA{R: 255, A: alpha}
	case UnconfidentObject:
		return color.NRGBA{G: 255, A: alpha}
	default:
		return color.NRGBA{}
	}
}

// NewIndexed returns an all-background mask of the given size.
func NewIndexed(size image.Point) *image.Paletted {
	// Pix starts zeroed, which is the Background index.
	return image.NewPaletted(image.Rectangle{Max: size}, Palette)
}

// ClassOf classifies a working pixel: red wins over green, anything else
// is background.
func ClassOf(c color.NRGBA) Class {
	switch {
	case c.R > 0:
		return ConfidentObject
	case c.G > 0:
		return UnconfidentObject
	default:
		return Background
	}
}

// IndexedEqual reports whether two indexed masks have the same bounds and
// the same class at every pixel.
func IndexedEqual(a, b *image.Paletted) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.Rect.Eq(b.Rect) {
		return false
	}
	for y := a.Rect.Min.Y; y < a.Rect.Max.Y; y++ {
		for x := a.Rect.Min.X; x < a.Rect.Max.X; x++ {
			if a.ColorIndexAt(x, y) != b.ColorIndexAt(x, y) {
				return false
			}
		}
	}
	return true
}

// CloneIndexed returns a deep copy of m.
func CloneIndexed(m *image.Paletted) *image.Paletted {
	if m == nil {
		return nil
	}
	out := image.NewPaletted(m.Rect, m.Palette)
	copy(out.Pix, m.Pix)
	return out
}
