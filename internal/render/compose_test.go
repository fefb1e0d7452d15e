package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/maskannotate/internal/viewport"
)

func solid(size image.Point, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: size})
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestComposeSkipsMaskAtZeroTransparency(t *testing.T) {
	base := solid(image.Pt(8, 8), color.RGBA{10, 20, 30, 255})
	mask := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			mask.SetNRGBA(x, y, color.NRGBA{R: 255, A: 0})
		}
	}
	tr := viewport.New(image.Pt(8, 8))
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))

	st := NewCompositor().Compose(dst, Frame{
		Transform:    tr,
		Base:         base,
		Mask:         mask,
		Transparency: 0,
		Painting:     true,
		Cursor:       image.Pt(-100, -100),
		BrushWidth:   3,
	})
	if st.MaskDrawn {
		t.Fatal("mask layer drawn at zero transparency")
	}
	if !st.BaseDrawn {
		t.Fatal("base image not drawn")
	}
	if got := dst.RGBAAt(4, 4); got != (color.RGBA{10, 20, 30, 255}) {
		t.Fatalf("pixel = %+v, want base colour", got)
	}
	if mask.NRGBAAt(4, 4).R != 255 {
		t.Fatal("compositing modified the mask")
	}
}

func TestComposeBlendsMask(t *testing.T) {
	base := solid(image.Pt(4, 4), color.RGBA{0, 0, 0, 255})
	mask := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	mask.SetNRGBA(1, 1, color.NRGBA{G: 255, A: 255})
	tr := viewport.New(image.Pt(4, 4))
	tr.SetZoom(2)
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))

	st := NewCompositor().Compose(dst, Frame{
		Transform:    tr,
		Base:         base,
		Mask:         mask,
		Transparency: 1,
		Painting:     true,
		Cursor:       image.Pt(-100, -100),
		BrushWidth:   1,
	})
	if !st.MaskDrawn {
		t.Fatal("mask not drawn")
	}
	for _, p := range []image.Point{{2, 2}, {3, 3}} {
		if got := dst.RGBAAt(p.X, p.Y); got != (color.RGBA{0, 255, 0, 255}) {
			t.Fatalf("pixel %v = %+v, want green", p, got)
		}
	}
	if got := dst.RGBAAt(4, 4); got != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("pixel outside stroke = %+v", got)
	}
}

func TestComposeNoMaskWhenPaintingDisabled(t *testing.T) {
	tr := viewport.New(image.Pt(4, 4))
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	st := NewCompositor().Compose(dst, Frame{
		Transform:    tr,
		Base:         solid(image.Pt(4, 4), color.RGBA{1, 2, 3, 255}),
		Mask:         image.NewNRGBA(image.Rect(0, 0, 4, 4)),
		Transparency: 1,
	})
	if st.MaskDrawn || st.CursorDrawn {
		t.Fatalf("unexpected layers: %+v", st)
	}
}

func TestComposeBorderAndClip(t *testing.T) {
	tr := viewport.New(image.Pt(4, 4))
	tr.Resize(image.Pt(10, 10))
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	c := NewCompositor()
	st := c.Compose(dst, Frame{
		Transform: tr,
		Base:      solid(image.Pt(4, 4), color.RGBA{200, 0, 0, 255}),
	})
	if !st.BorderDrawn {
		t.Fatal("expected border around centred image")
	}
	// image occupies [3,7) so the frame sits on x=2 and x=7
	if got := dst.RGBAAt(2, 5); got != c.Border {
		t.Fatalf("left border pixel = %+v", got)
	}
	if got := dst.RGBAAt(7, 5); got != c.Border {
		t.Fatalf("right border pixel = %+v", got)
	}
	if got := dst.RGBAAt(0, 0); got != c.Background {
		t.Fatalf("background pixel = %+v", got)
	}

	dst2 := image.NewRGBA(image.Rect(0, 0, 10, 10))
	st = c.Compose(dst2, Frame{
		Transform: tr,
		Base:      solid(image.Pt(4, 4), color.RGBA{200, 0, 0, 255}),
		Damage:    image.Rect(0, 0, 2, 2),
	})
	if st.BaseDrawn {
		t.Fatal("base drawn outside the damaged area")
	}
	if got := dst2.RGBAAt(5, 5); got != (color.RGBA{}) {
		t.Fatalf("pixel outside damage was touched: %+v", got)
	}
}

func TestComposeCursorRings(t *testing.T) {
	tr := viewport.New(image.Pt(20, 20))
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	c := NewCompositor()
	st := c.Compose(dst, Frame{
		Transform:  tr,
		Base:       solid(image.Pt(20, 20), color.RGBA{0, 0, 255, 255}),
		Painting:   true,
		Cursor:     image.Pt(10, 10),
		BrushWidth: 9,
	})
	if !st.CursorDrawn {
		t.Fatal("cursor not drawn")
	}
	// centre (10.5,10.5): light ring radius 5, dark ring radius 4
	if got := dst.RGBAAt(15, 10); got != c.CursorLight {
		t.Fatalf("outer ring pixel = %+v", got)
	}
	if got := dst.RGBAAt(14, 10); got != c.CursorDark {
		t.Fatalf("inner ring pixel = %+v", got)
	}
	if got := dst.RGBAAt(10, 10); got != (color.RGBA{0, 0, 255, 255}) {
		t.Fatalf("cursor centre should show the image, got %+v", got)
	}
}

func TestComposeHideCursor(t *testing.T) {
	tr := viewport.New(image.Pt(20, 20))
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	blue := color.RGBA{0, 0, 255, 255}
	st := NewCompositor().Compose(dst, Frame{
		Transform:  tr,
		Base:       solid(image.Pt(20, 20), blue),
		Painting:   true,
		Cursor:     image.Pt(10, 10),
		BrushWidth: 9,
		HideCursor: true,
	})
	if st.CursorDrawn {
		t.Fatal("cursor drawn while hidden")
	}
	if got := dst.RGBAAt(15, 10); got != blue {
		t.Fatalf("pixel = %+v", got)
	}
}
