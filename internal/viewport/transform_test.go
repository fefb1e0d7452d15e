package viewport

import (
	"image"
	"math"
	"testing"
)

func TestRoundTripAcrossZooms(t *testing.T) {
	tr := New(image.Pt(320, 240))
	tr.Resize(image.Pt(800, 600))
	points := []Point{{0, 0}, {1, 1}, {17.5, 3.25}, {319, 239}, {-4, 700}}
	for _, z := range []float64{0.1, 0.25, 0.5, 1, 1.7, 3, 8.25} {
		tr.SetZoom(z)
		for _, p := range points {
			got := tr.ToImage(tr.ToDevice(p))
			if math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
				t.Fatalf("zoom %v: round trip of %v gave %v", z, p, got)
			}
			dev := tr.ToDevice(tr.ToImage(p))
			if math.Abs(dev.X-p.X) > 1e-9 || math.Abs(dev.Y-p.Y) > 1e-9 {
				t.Fatalf("zoom %v: inverse round trip of %v gave %v", z, p, dev)
			}
		}
	}
}

func TestCenteringOffset(t *testing.T) {
	tr := New(image.Pt(100, 50))
	tr.Resize(image.Pt(301, 50))
	if got, want := tr.Offset(), image.Pt(100, 0); got != want {
		t.Fatalf("offset = %v, want %v", got, want)
	}
	if !tr.Border() {
		t.Fatal("expected border when view exceeds image")
	}
	dev := tr.ToDevice(Pt(10, 10))
	if dev.X != 110 || dev.Y != 10 {
		t.Fatalf("ToDevice = %v", dev)
	}
}

func TestZoomRecomputesMinSize(t *testing.T) {
	tr := New(image.Pt(100, 80))
	tr.Resize(image.Pt(150, 100))
	if !tr.SetZoom(2) {
		t.Fatal("expected zoom change")
	}
	if got, want := tr.MinSize(), image.Pt(200, 160); got != want {
		t.Fatalf("MinSize = %v, want %v", got, want)
	}
	if got := tr.WidgetSize(); got != image.Pt(200, 160) {
		t.Fatalf("WidgetSize = %v", got)
	}
	if tr.Offset() != (image.Point{}) {
		t.Fatalf("expected no offset when widget fits image, got %v", tr.Offset())
	}
	if tr.Border() {
		t.Fatal("no border expected when the widget equals the zoomed image")
	}
}

func TestSetZoomIgnoresTinyAndInvalidChanges(t *testing.T) {
	tr := New(image.Pt(10, 10))
	if tr.SetZoom(1.0005) {
		t.Fatal("change below epsilon should be ignored")
	}
	if tr.SetZoom(0) || tr.SetZoom(-2) || tr.SetZoom(math.NaN()) {
		t.Fatal("invalid zoom accepted")
	}
	if tr.Zoom() != 1 {
		t.Fatalf("zoom = %v", tr.Zoom())
	}
}

func TestToImageRect(t *testing.T) {
	tr := New(image.Pt(100, 100))
	tr.SetZoom(2)
	got := tr.ToImageRect(image.Rect(10, 10, 31, 31))
	if want := image.Rect(5, 5, 16, 16); got != want {
		t.Fatalf("ToImageRect = %v, want %v", got, want)
	}
	if !tr.ToImageRect(image.Rectangle{}).Empty() {
		t.Fatal("empty rect should stay empty")
	}
}
