package stroke

import (
	"image"
	"image/color"
	"math"
)

// halfPixel shifts pen geometry and coverage samples onto pixel centres.
const halfPixel = 0.5

// Pen paints round-capped, round-joined segments without antialiasing.
type Pen struct {
	Width  int
	Colour color.NRGBA
	// Clear writes transparent black regardless of Colour.
	Clear bool
}

// Dot paints a single pen footprint at p.
func (p Pen) Dot(dst *image.NRGBA, at image.Point) image.Rectangle {
	return p.Segment(dst, at, at)
}

// Segment paints the capsule from a to b and returns the rectangle of
// pixels it may have changed, clipped to dst.
func (p Pen) Segment(dst *image.NRGBA, a, b image.Point) image.Rectangle {
	w := p.Width
	if w < 1 {
		w = 1
	}
	r := float64(w) / 2
	ax, ay := float64(a.X)+halfPixel, float64(a.Y)+halfPixel
	bx, by := float64(b.X)+halfPixel, float64(b.Y)+halfPixel

	box := image.Rect(
		int(math.Floor(math.Min(ax, bx)-r)), int(math.Floor(math.Min(ay, by)-r)),
		int(math.Ceil(math.Max(ax, bx)+r)), int(math.Ceil(math.Max(ay, by)+r)),
	).Intersect(dst.Rect)
	if box.Empty() {
		return box
	}

	col := p.Colour
	if p.Clear {
		col = color.NRGBA{}
	}
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	rSq := r * r
	for y := box.Min.Y; y < box.Max.Y; y++ {
		cy := float64(y) + halfPixel
		for x := box.Min.X; x < box.Max.X; x++ {
			cx := float64(x) + halfPixel
			if distSq(cx, cy, ax, ay, dx, dy, lenSq) <= rSq {
				dst.SetNRGBA(x, y, col)
			}
		}
	}
	return box
}

// distSq is the squared distance from (px, py) to the segment starting at
// (ax, ay) with direction (dx, dy).
func distSq(px, py, ax, ay, dx, dy, lenSq float64) float64 {
	t := 0.0
	if lenSq > 0 {
		t = ((px-ax)*dx + (py-ay)*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	ex := px - (ax + t*dx)
	ey := py - (ay + t*dy)
	return ex*ex + ey*ey
}
