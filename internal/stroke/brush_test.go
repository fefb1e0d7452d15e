package stroke

import (
	"image"
	"image/color"
	"reflect"
	"testing"
)

func TestSizesStepClamps(t *testing.T) {
	s := DefaultSizes
	if got := s.Step(0, -1); got != 0 {
		t.Fatalf("step below start = %d", got)
	}
	if got := s.Step(len(s)-1, 3); got != len(s)-1 {
		t.Fatalf("step past end = %d", got)
	}
	if got := s.At(DefaultSizeIndex); got != 3 {
		t.Fatalf("default width = %d, want 3", got)
	}
	if got := s.Index(18); s.At(got) != 18 {
		t.Fatalf("Index(18) = %d", got)
	}
	if got := s.Index(16); s.At(got) != 18 {
		t.Fatalf("Index(16) picked width %d, want 18", s.At(got))
	}
	if got := s.Index(1000); got != len(s)-1 {
		t.Fatalf("Index(1000) = %d", got)
	}
	if (Sizes{}).At(4) != 1 {
		t.Fatal("empty sizes should yield width 1")
	}
}

func TestSizesNormalize(t *testing.T) {
	got := Sizes{9, 3, 0, 3, -1, 5, 9}.Normalize()
	if want := (Sizes{3, 5, 9}); !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
}

func TestPenWidthOneIsSinglePixel(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	red := color.NRGBA{R: 255, A: 255}
	Pen{Width: 1, Colour: red}.Dot(dst, image.Pt(2, 2))
	n := 0
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if dst.NRGBAAt(x, y) == red {
				n++
			}
		}
	}
	if n != 1 || dst.NRGBAAt(2, 2) != red {
		t.Fatalf("painted %d pixels", n)
	}
}

func TestPenSegmentClipsToDestination(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	r := Pen{Width: 5, Colour: color.NRGBA{G: 255, A: 255}}.Segment(dst, image.Pt(-20, 5), image.Pt(3, 5))
	if r.Min.X != 0 || r.Max.X > 10 {
		t.Fatalf("rect = %v", r)
	}
	if dst.NRGBAAt(0, 5).G != 255 || dst.NRGBAAt(6, 5).G != 0 {
		t.Fatal("segment coverage wrong")
	}
	if got := (Pen{Width: 3}).Segment(dst, image.Pt(-50, -50), image.Pt(-40, -40)); !got.Empty() {
		t.Fatalf("off-image segment rect = %v", got)
	}
}
