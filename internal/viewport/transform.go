// Package viewport maps between widget (device) pixels and image pixels for
// a zoomed, centred image.
package viewport

import (
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// zoomEpsilon is the smallest zoom change that is applied.
const zoomEpsilon = 0.001

// Point is a position in either device or image space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// FromInt converts an integer point.
func FromInt(p image.Point) Point { return Point{X: float64(p.X), Y: float64(p.Y)} }

// Round returns the nearest integer pixel, rounding halves away from zero.
func (p Point) Round() image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// affine holds the six coefficients of a 2D affine map:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type affine [6]float64

func (m affine) apply(p Point) Point {
	return Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// Transform is the zoom/offset state of one view onto one image.
// The zero value is not usable; call New.
type Transform struct {
	imgSize  image.Point
	viewSize image.Point
	zoom     float64
	offset   image.Point

	fwd affine
	inv affine
}

// New returns a transform for an image of the given size at zoom 1.
func New(imgSize image.Point) *Transform {
	t := &Transform{imgSize: imgSize, zoom: 1}
	t.recompute()
	return t
}

// Zoom returns the current zoom factor.
func (t *Transform) Zoom() float64 { return t.zoom }

// ImageSize returns the size of the image in image pixels.
func (t *Transform) ImageSize() image.Point { return t.imgSize }

// Offset returns the centering offset in device pixels.
func (t *Transform) Offset() image.Point { return t.offset }

// SetImageSize replaces the image dimensions, as when a new base image is
// loaded, and recomputes the mapping.
func (t *Transform) SetImageSize(sz image.Point) {
	t.imgSize = sz
	t.recompute()
}

// SetZoom applies a new zoom factor. It reports whether the factor changed;
// non-positive factors and changes below 0.001 are ignored.
func (t *Transform) SetZoom(f float64) bool {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	if math.Abs(f-t.zoom) <= zoomEpsilon {
		return false
	}
	t.zoom = f
	t.recompute()
	return true
}

// Resize sets the size of the viewport the image is displayed in.
func (t *Transform) Resize(view image.Point) {
	t.viewSize = view
	t.recompute()
}

// MinSize is the smallest widget size that shows the whole zoomed image.
func (t *Transform) MinSize() image.Point {
	return image.Pt(int(float64(t.imgSize.X)*t.zoom), int(float64(t.imgSize.Y)*t.zoom))
}

// WidgetSize is the viewport size grown to at least MinSize.
func (t *Transform) WidgetSize() image.Point {
	ms := t.MinSize()
	sz := t.viewSize
	if sz.X < ms.X {
		sz.X = ms.X
	}
	if sz.Y < ms.Y {
		sz.Y = ms.Y
	}
	return sz
}

// Border reports whether the widget is larger than the zoomed image on
// either axis, in which case a frame is drawn around the image.
func (t *Transform) Border() bool {
	w := t.WidgetSize()
	return float64(w.X) > float64(t.imgSize.X)*t.zoom || float64(w.Y) > float64(t.imgSize.Y)*t.zoom
}

// ImageRect returns the device rectangle covered by the zoomed image.
func (t *Transform) ImageRect() image.Rectangle {
	return image.Rectangle{Min: t.offset, Max: t.offset.Add(t.MinSize())}
}

// ToDevice maps an image-space point to device space.
func (t *Transform) ToDevice(p Point) Point { return t.fwd.apply(p) }

// Matrix returns the forward map as row-major affine coefficients
// {a, b, c, d, e, f}, the layout golang.org/x/image/math/f64.Aff3 uses.
func (t *Transform) Matrix() [6]float64 { return t.fwd }

// ToImage maps a device-space point to image space.
func (t *Transform) ToImage(p Point) Point { return t.inv.apply(p) }

// ToImageRect maps a device rectangle to the smallest enclosing image rectangle.
func (t *Transform) ToImageRect(r image.Rectangle) image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	a := t.ToImage(FromInt(r.Min))
	b := t.ToImage(FromInt(r.Max))
	return image.Rect(
		int(math.Floor(a.X)), int(math.Floor(a.Y)),
		int(math.Ceil(b.X)), int(math.Ceil(b.Y)),
	)
}

// ToDeviceRect maps an image rectangle to the smallest enclosing device rectangle.
func (t *Transform) ToDeviceRect(r image.Rectangle) image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	a := t.ToDevice(FromInt(r.Min))
	b := t.ToDevice(FromInt(r.Max))
	return image.Rect(
		int(math.Floor(a.X)), int(math.Floor(a.Y)),
		int(math.Ceil(b.X)), int(math.Ceil(b.Y)),
	)
}

func (t *Transform) String() string {
	return fmt.Sprintf("zoom=%.3f offset=%v view=%v image=%v", t.zoom, t.offset, t.viewSize, t.imgSize)
}

func (t *Transform) recompute() {
	w := t.WidgetSize()
	sw := float64(t.imgSize.X) * t.zoom
	sh := float64(t.imgSize.Y) * t.zoom
	t.offset = image.Point{}
	if float64(w.X) > sw {
		t.offset.X = int((float64(w.X) - sw) / 2)
	}
	if float64(w.Y) > sh {
		t.offset.Y = int((float64(w.Y) - sh) / 2)
	}

	fwd := mat.NewDense(3, 3, []float64{
		t.zoom, 0, float64(t.offset.X),
		0, t.zoom, float64(t.offset.Y),
		0, 0, 1,
	})
	var inv mat.Dense
	if err := inv.Inverse(fwd); err != nil {
		// Inverse reports ill-conditioning for extreme zooms.
		inv.CloneFrom(mat.NewDense(3, 3, []float64{
			1 / t.zoom, 0, -float64(t.offset.X) / t.zoom,
			0, 1 / t.zoom, -float64(t.offset.Y) / t.zoom,
			0, 0, 1,
		}))
	}
	t.fwd = affineFrom(fwd)
	t.inv = affineFrom(&inv)
}

func affineFrom(m mat.Matrix) affine {
	return affine{
		m.At(0, 0), m.At(0, 1), m.At(0, 2),
		m.At(1, 0), m.At(1, 1), m.At(1, 2),
	}
}
