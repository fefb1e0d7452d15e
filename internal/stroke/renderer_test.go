package stroke

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/maskannotate/internal/mask"
	"github.com/example/maskannotate/internal/render"
	"github.com/example/maskannotate/internal/viewport"
)

func newTestRenderer(size image.Point, opts ...Option) (*Renderer, *mask.Buffer, *int) {
	buf := mask.New(size)
	changes := 0
	opts = append([]Option{WithEnabled(true), WithChangeListener(func() { changes++ })}, opts...)
	return NewRenderer(buf, viewport.New(size), opts...), buf, &changes
}

func stroke(r *Renderer, b Button, pts ...image.Point) {
	r.PointerDown(Event{Pos: pts[0], Button: b})
	for _, p := range pts[1:] {
		r.PointerMove(Event{Pos: p})
	}
	r.PointerUp(Event{Pos: pts[len(pts)-1], Button: b})
}

func TestDiagonalStroke(t *testing.T) {
	r, buf, changes := newTestRenderer(image.Pt(100, 100), WithBrush(Brush{Width: 5, Confident: true}))
	stroke(r, ButtonLeft, image.Pt(10, 10), image.Pt(50, 50), image.Pt(90, 90))

	if *changes != 1 {
		t.Fatalf("changes = %d, want 1", *changes)
	}
	red := color.NRGBA{R: 255, A: 255}
	for _, p := range []image.Point{{10, 10}, {50, 50}, {52, 50}, {50, 52}, {91, 91}} {
		if got := buf.At(p.X, p.Y); got != red {
			t.Errorf("pixel %v = %+v, want %+v", p, got, red)
		}
	}
	for _, p := range []image.Point{{50, 40}, {54, 50}, {92, 92}, {0, 99}} {
		if got := buf.ClassAt(p.X, p.Y); got != mask.Background {
			t.Errorf("pixel %v = %v, want background", p, got)
		}
	}
	if r.State() != Idle {
		t.Fatalf("state = %v after pointer up", r.State())
	}
}

func TestUnconfidentStrokeIsGreen(t *testing.T) {
	r, buf, _ := newTestRenderer(image.Pt(20, 20), WithBrush(Brush{Width: 3}))
	buf.SetTransparency(0.5)
	stroke(r, ButtonLeft, image.Pt(5, 5), image.Pt(15, 5))
	if got, want := buf.At(10, 5), (color.NRGBA{G: 255, A: 127}); got != want {
		t.Fatalf("pixel = %+v, want %+v", got, want)
	}
}

func TestDrawThenEraseClearsAllChannels(t *testing.T) {
	r, buf, changes := newTestRenderer(image.Pt(60, 60), WithBrush(Brush{Width: 7, Confident: true}))
	path := []image.Point{{5, 5}, {30, 20}, {55, 50}}
	stroke(r, ButtonLeft, path...)
	if buf.ClassAt(30, 20) != mask.ConfidentObject {
		t.Fatal("stroke did not paint")
	}
	stroke(r, ButtonRight, path...)
	if *changes != 2 {
		t.Fatalf("changes = %d, want 2", *changes)
	}
	img := buf.Image()
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			if c := img.NRGBAAt(x, y); c != (color.NRGBA{}) {
				t.Fatalf("pixel (%d,%d) = %+v after erase", x, y, c)
			}
		}
	}
	if r.Erasing() {
		t.Fatal("erase flag should clear on pointer up")
	}
}

func TestDisabledRendererIgnoresEvents(t *testing.T) {
	buf := mask.New(image.Pt(10, 10))
	changes := 0
	r := NewRenderer(buf, viewport.New(image.Pt(10, 10)), WithChangeListener(func() { changes++ }))
	if dmg := r.PointerDown(Event{Pos: image.Pt(5, 5), Button: ButtonLeft}); !dmg.Empty() {
		t.Fatalf("damage = %v, want empty", dmg)
	}
	r.PointerMove(Event{Pos: image.Pt(6, 6)})
	r.PointerUp(Event{Pos: image.Pt(6, 6), Button: ButtonLeft})
	if changes != 0 || buf.ClassAt(5, 5) != mask.Background {
		t.Fatal("disabled renderer painted")
	}
}

func TestZeroTransparencyStaysIdle(t *testing.T) {
	r, buf, changes := newTestRenderer(image.Pt(10, 10))
	buf.SetTransparency(0)
	r.PointerDown(Event{Pos: image.Pt(5, 5), Button: ButtonLeft})
	if r.State() != Idle {
		t.Fatalf("state = %v, want idle", r.State())
	}
	r.PointerMove(Event{Pos: image.Pt(7, 5)})
	r.PointerUp(Event{Pos: image.Pt(7, 5), Button: ButtonLeft})
	if *changes != 0 {
		t.Fatalf("changes = %d, want 0", *changes)
	}
	if r.Follow() != image.Pt(7, 5) {
		t.Fatalf("follow = %v", r.Follow())
	}
}

func TestPointerUpNeedsStartingButton(t *testing.T) {
	r, _, changes := newTestRenderer(image.Pt(10, 10))
	r.PointerDown(Event{Pos: image.Pt(2, 2), Button: ButtonLeft})
	r.PointerUp(Event{Pos: image.Pt(3, 3), Button: ButtonRight})
	if *changes != 0 || r.State() != Drawing {
		t.Fatalf("mismatched release ended stroke: changes=%d state=%v", *changes, r.State())
	}
	r.PointerUp(Event{Pos: image.Pt(3, 3), Button: ButtonLeft})
	if *changes != 1 || r.State() != Idle {
		t.Fatalf("changes=%d state=%v", *changes, r.State())
	}
	r.PointerUp(Event{Pos: image.Pt(3, 3), Button: ButtonLeft})
	if *changes != 1 {
		t.Fatal("idle pointer up emitted a change")
	}
}

func TestForeignReleaseKeepsStrokeContinuous(t *testing.T) {
	r, buf, changes := newTestRenderer(image.Pt(100, 100), WithBrush(Brush{Width: 3, Confident: true}))
	r.PointerDown(Event{Pos: image.Pt(10, 50), Button: ButtonLeft})
	r.PointerMove(Event{Pos: image.Pt(20, 50)})
	r.PointerUp(Event{Pos: image.Pt(60, 50), Button: ButtonMiddle})
	r.PointerMove(Event{Pos: image.Pt(70, 50)})
	r.PointerUp(Event{Pos: image.Pt(80, 50), Button: ButtonLeft})

	for _, x := range []int{15, 30, 40, 55, 65, 80} {
		if got := buf.ClassAt(x, 50); got != mask.ConfidentObject {
			t.Errorf("pixel (%d,50) = %v, want confident", x, got)
		}
	}
	if *changes != 1 || r.State() != Idle {
		t.Fatalf("changes=%d state=%v", *changes, r.State())
	}
}

func TestPressDuringStrokeIsIgnored(t *testing.T) {
	r, buf, changes := newTestRenderer(image.Pt(60, 60), WithBrush(Brush{Width: 3, Confident: true}))
	r.PointerDown(Event{Pos: image.Pt(10, 10), Button: ButtonLeft})
	if d := r.PointerDown(Event{Pos: image.Pt(50, 50), Button: ButtonRight}); !d.Empty() {
		t.Fatalf("second press returned damage %v", d)
	}
	if r.Erasing() || r.State() != Drawing {
		t.Fatalf("second press changed stroke: erase=%v state=%v", r.Erasing(), r.State())
	}
	if buf.ClassAt(50, 50) != mask.Background {
		t.Fatal("second press painted")
	}
	r.PointerUp(Event{Pos: image.Pt(50, 50), Button: ButtonRight})
	if r.State() != Drawing {
		t.Fatal("release of the second button ended the stroke")
	}
	r.PointerUp(Event{Pos: image.Pt(20, 10), Button: ButtonLeft})
	if *changes != 1 || buf.ClassAt(15, 10) != mask.ConfidentObject {
		t.Fatalf("changes=%d class=%v", *changes, buf.ClassAt(15, 10))
	}
}

func TestMiddleButtonDoesNotStartStroke(t *testing.T) {
	r, buf, _ := newTestRenderer(image.Pt(10, 10))
	r.PointerDown(Event{Pos: image.Pt(5, 5), Button: ButtonMiddle})
	if r.State() != Idle || buf.ClassAt(5, 5) != mask.Background {
		t.Fatal("middle button painted")
	}
}

func TestPointerDamageFollowsTrace(t *testing.T) {
	r, _, _ := newTestRenderer(image.Pt(100, 100), WithBrush(Brush{Width: 5, Confident: true}))
	got := r.PointerDown(Event{Pos: image.Pt(20, 20), Button: ButtonLeft})
	if want := render.PointerDamage(image.Pt(20, 20), image.Pt(20, 20), 1, 5); got != want {
		t.Fatalf("down damage = %v, want %v", got, want)
	}
	got = r.PointerMove(Event{Pos: image.Pt(40, 30)})
	if want := render.PointerDamage(image.Pt(20, 20), image.Pt(40, 30), 1, 5); got != want {
		t.Fatalf("move damage = %v, want %v", got, want)
	}
}

func TestStrokeMapsThroughZoom(t *testing.T) {
	buf := mask.New(image.Pt(50, 50))
	tr := viewport.New(image.Pt(50, 50))
	tr.SetZoom(2)
	r := NewRenderer(buf, tr, WithEnabled(true), WithBrush(Brush{Width: 1, Confident: true}))
	r.PointerDown(Event{Pos: image.Pt(40, 20), Button: ButtonLeft})
	r.PointerUp(Event{Pos: image.Pt(40, 20), Button: ButtonLeft})
	if buf.ClassAt(20, 10) != mask.ConfidentObject {
		t.Fatal("device point was not mapped to image space")
	}
}

func TestSetEnabledFalseDropsStroke(t *testing.T) {
	r, _, changes := newTestRenderer(image.Pt(10, 10))
	r.PointerDown(Event{Pos: image.Pt(1, 1), Button: ButtonRight})
	r.SetEnabled(false)
	if r.State() != Idle || r.Erasing() {
		t.Fatal("disable did not reset the stroke")
	}
	r.SetEnabled(true)
	r.PointerUp(Event{Pos: image.Pt(1, 1), Button: ButtonRight})
	if *changes != 0 {
		t.Fatal("dropped stroke emitted a change")
	}
}
