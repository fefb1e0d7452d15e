// Package mask holds the two mask representations: the indexed three-colour
// image stored on disk and the NRGBA working buffer edited on screen.
package mask

import (
	"image"
	"image/color"
	"math"
)

// transparencyEpsilon is the smallest transparency change that triggers a
// rescan of the buffer.
const transparencyEpsilon = 1e-6

// Buffer is the working copy of a mask. Red marks confident strokes, green
// unconfident strokes and alpha only controls on-screen blending.
type Buffer struct {
	img   *image.NRGBA
	level float64
}

// New returns an empty buffer of the given size at full opacity.
func New(size image.Point) *Buffer {
	return &Buffer{img: image.NewNRGBA(image.Rectangle{Max: size}), level: 1}
}

// FromImage converts a decoded mask into a working buffer. Pure black
// pixels become transparent; every other colour keeps its channels.
func FromImage(src image.Image) *Buffer {
	b := src.Bounds()
	buf := New(b.Size())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			if c.R == 0 && c.G == 0 && c.B == 0 {
				continue
			}
			buf.img.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
		}
	}
	return buf
}

// Image exposes the working pixels for painting and compositing.
func (b *Buffer) Image() *image.NRGBA { return b.img }

// Bounds returns the buffer bounds, always anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle { return b.img.Rect }

// Transparency returns the display level last applied.
func (b *Buffer) Transparency() float64 { return b.level }

// Alpha is the alpha value strokes are painted with at the current level.
func (b *Buffer) Alpha() uint8 { return alphaFor(b.level) }

// SetTransparency rescales the alpha of every stroke pixel to level*255.
// Background pixels are never touched. It reports whether a rescan
// happened; levels within 1e-6 of the current one are ignored.
func (b *Buffer) SetTransparency(level float64) bool {
	level = math.Max(0, math.Min(1, level))
	if math.Abs(level-b.level) < transparencyEpsilon {
		return false
	}
	b.level = level
	a := alphaFor(level)
	pix := b.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		switch {
		case pix[i] != 0:
			pix[i] = 255
			pix[i+3] = a
		case pix[i+1] != 0:
			pix[i+1] = 255
			pix[i+3] = a
		}
	}
	return true
}

// At returns the working colour at (x, y).
func (b *Buffer) At(x, y int) color.NRGBA { return b.img.NRGBAAt(x, y) }

// ClassAt returns the class a pixel would be saved as.
func (b *Buffer) ClassAt(x, y int) Class { return ClassOf(b.img.NRGBAAt(x, y)) }

// ToIndexed quantizes the buffer into the on-disk representation.
func (b *Buffer) ToIndexed() *image.Paletted {
	r := b.img.Rect
	out := NewIndexed(r.Size())
	for y := 0; y < r.Dy(); y++ {
		row := y * b.img.Stride
		dst := y * out.Stride
		for x := 0; x < r.Dx(); x++ {
			i := row + x*4
			switch {
			case b.img.Pix[i] > 0:
				out.Pix[dst+x] = uint8(ConfidentObject)
			case b.img.Pix[i+1] > 0:
				out.Pix[dst+x] = uint8(UnconfidentObject)
			}
		}
	}
	return out
}

// Clone returns an independent copy.
func (b *Buffer) Clone() *Buffer {
	img := image.NewNRGBA(b.img.Rect)
	copy(img.Pix, b.img.Pix)
	return &Buffer{img: img, level: b.level}
}

func alphaFor(level float64) uint8 {
	return uint8(int(255 * level))
}
