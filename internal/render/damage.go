package render

import (
	"image"
	"math"

	"github.com/example/maskannotate/internal/viewport"
)

// cursorMargin is the extra image-space padding around the brush radius
// that keeps the cursor rings inside the damaged area.
const cursorMargin = 2

// ScrollBar mirrors the state of one scroll bar of the enclosing view.
type ScrollBar struct {
	Value    float64
	Min      float64
	Max      float64
	PageStep float64
}

func (s ScrollBar) length() float64 { return s.Max - s.Min + s.PageStep }

// Scroll is the horizontal and vertical scroll state.
type Scroll struct {
	H, V ScrollBar
}

// PointerDamage returns the device rectangle touched by moving the pointer
// from a to b with a brush of the given width, including the cursor outline.
func PointerDamage(a, b image.Point, zoom float64, width int) image.Rectangle {
	off := int(math.Ceil(zoom * (0.5*float64(width) + cursorMargin)))
	return image.Rect(
		min(a.X, b.X)-off, min(a.Y, b.Y)-off,
		max(a.X, b.X)+off+1, max(a.Y, b.Y)+off+1,
	)
}

// Scheduler decides which part of the image a paint request must redraw.
// It remembers the scroll position of the previous paint so that scrolling
// forces a recompute from the scroll bars instead of the damage rectangle.
type Scheduler struct {
	last   Scroll
	primed bool
}

// Region returns the image-space rectangle to redraw for a paint request
// with the given device damage rectangle.
func (s *Scheduler) Region(damage image.Rectangle, scroll Scroll, t *viewport.Transform) image.Rectangle {
	size := t.ImageSize()
	r := t.ToImageRect(damage)
	scrolled := !s.primed || scroll.H.Value != s.last.H.Value || scroll.V.Value != s.last.V.Value
	if scrolled || r.Empty() {
		r = visible(scroll, size)
	}
	s.last = scroll
	s.primed = true
	return r.Inset(-1).Intersect(image.Rectangle{Max: size})
}

// visible derives the visible part of the image from scroll bar ratios.
func visible(scroll Scroll, size image.Point) image.Rectangle {
	x0, x1 := span(scroll.H, size.X)
	y0, y1 := span(scroll.V, size.Y)
	return image.Rect(x0, y0, x1, y1)
}

func span(s ScrollBar, extent int) (int, int) {
	l := s.length()
	if l <= 0 {
		return 0, extent
	}
	start := s.Value / l * float64(extent)
	width := s.PageStep / l * float64(extent)
	return int(math.Round(start)), int(math.Round(start + width))
}
