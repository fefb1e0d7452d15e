// Package render composites the base image, the working mask and the brush
// cursor into a device-space frame, limited to a damaged region.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/maskannotate/internal/viewport"
)

// maskVisibleThreshold is the transparency at or below which the mask
// layer is not drawn at all.
const maskVisibleThreshold = 0.01

// Frame is everything needed to draw one paint request.
type Frame struct {
	Transform    *viewport.Transform
	Base         image.Image
	Mask         *image.NRGBA
	Transparency float64
	Painting     bool
	Cursor       image.Point // image space
	BrushWidth   int
	HideCursor   bool
	// Region is the image-space area to refresh; empty means all of it.
	Region image.Rectangle
	// Damage is the device-space clip; empty means the whole destination.
	Damage image.Rectangle
}

// Stats reports which layers a Compose call produced.
type Stats struct {
	Clip        image.Rectangle
	BaseDrawn   bool
	MaskDrawn   bool
	CursorDrawn bool
	BorderDrawn bool
}

// Compositor draws frames. The colours may be replaced by a theme.
type Compositor struct {
	Background  color.RGBA
	Border      color.RGBA
	CursorLight color.RGBA
	CursorDark  color.RGBA
}

// NewCompositor returns a compositor with the default colours.
func NewCompositor() *Compositor {
	return &Compositor{
		Background:  color.RGBA{240, 240, 240, 255},
		Border:      color.RGBA{0, 0, 0, 255},
		CursorLight: color.RGBA{192, 192, 192, 255},
		CursorDark:  color.RGBA{128, 128, 128, 255},
	}
}

// Compose draws f into dst and reports what was drawn.
func (c *Compositor) Compose(dst *image.RGBA, f Frame) Stats {
	var st Stats
	clip := dst.Bounds()
	if !f.Damage.Empty() {
		clip = f.Damage.Intersect(clip)
	}
	st.Clip = clip
	if clip.Empty() || f.Transform == nil {
		return st
	}
	t := f.Transform
	draw.Draw(dst, clip, image.NewUniform(c.Background), image.Point{}, draw.Src)

	imgClip := clip.Intersect(t.ImageRect())
	if !f.Region.Empty() {
		imgClip = imgClip.Intersect(t.ToDeviceRect(f.Region))
	}
	s2d := f64.Aff3(t.Matrix())
	if !imgClip.Empty() && f.Base != nil && !f.Base.Bounds().Empty() {
		sub := dst.SubImage(imgClip).(*image.RGBA)
		xdraw.NearestNeighbor.Transform(sub, s2d, f.Base, f.Base.Bounds(), xdraw.Src, nil)
		st.BaseDrawn = true
	}

	if f.Painting {
		if f.Mask != nil && f.Transparency > maskVisibleThreshold && !imgClip.Empty() {
			sub := dst.SubImage(imgClip).(*image.RGBA)
			xdraw.NearestNeighbor.Transform(sub, s2d, f.Mask, f.Mask.Bounds(), xdraw.Over, nil)
			st.MaskDrawn = true
		}
		if !f.HideCursor {
			st.CursorDrawn = c.drawCursor(dst, clip, t, f.Cursor, f.BrushWidth)
		}
	}

	if t.Border() {
		st.BorderDrawn = c.drawBorder(dst, clip, t.ImageRect())
	}
	return st
}

// drawCursor draws the brush outline as a light ring just outside the pen
// and a dark ring just inside it, each one device pixel wide.
func (c *Compositor) drawCursor(dst *image.RGBA, clip image.Rectangle, t *viewport.Transform, at image.Point, width int) bool {
	z := t.Zoom()
	centre := t.ToDevice(viewport.Pt(float64(at.X)+0.5, float64(at.Y)+0.5))
	outer := (z*float64(width) + 1) / 2
	inner := (z*float64(width) - 1) / 2
	drawn := ring(dst, clip, centre, outer, c.CursorLight)
	if inner > 0 {
		drawn = ring(dst, clip, centre, inner, c.CursorDark) || drawn
	}
	return drawn
}

func ring(dst *image.RGBA, clip image.Rectangle, centre viewport.Point, radius float64, col color.RGBA) bool {
	bounds := image.Rect(
		int(math.Floor(centre.X-radius-1)), int(math.Floor(centre.Y-radius-1)),
		int(math.Ceil(centre.X+radius+1)), int(math.Ceil(centre.Y+radius+1)),
	).Intersect(clip)
	drawn := false
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		dy := float64(y) + 0.5 - centre.Y
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx := float64(x) + 0.5 - centre.X
			if math.Abs(math.Hypot(dx, dy)-radius) <= 0.5 {
				dst.SetRGBA(x, y, col)
				drawn = true
			}
		}
	}
	return drawn
}

// drawBorder frames the image one pixel outside its device rectangle.
func (c *Compositor) drawBorder(dst *image.RGBA, clip, img image.Rectangle) bool {
	outer := img.Inset(-1)
	edges := []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, outer.Min.Y+1),
		image.Rect(outer.Min.X, outer.Max.Y-1, outer.Max.X, outer.Max.Y),
		image.Rect(outer.Min.X, outer.Min.Y, outer.Min.X+1, outer.Max.Y),
		image.Rect(outer.Max.X-1, outer.Min.Y, outer.Max.X, outer.Max.Y),
	}
	drawn := false
	for _, e := range edges {
		e = e.Intersect(clip)
		if e.Empty() {
			continue
		}
		draw.Draw(dst, e, image.NewUniform(c.Border), image.Point{}, draw.Src)
		drawn = true
	}
	return drawn
}
