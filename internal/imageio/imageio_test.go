package imageio

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func writePNG(t *testing.T, path string, size image.Point) {
	t.Helper()
	img := image.NewRGBA(image.Rectangle{Max: size})
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeCachesByPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eye.png")
	writePNG(t, path, image.Pt(7, 4))

	d := NewDecoder(2)
	first, err := d.Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if first.Format != "png" || first.Image.Bounds().Size() != image.Pt(7, 4) {
		t.Fatalf("decoded %s %v", first.Format, first.Image.Bounds())
	}
	second, err := d.Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if second.Image != first.Image {
		t.Fatal("expected cached image on second decode")
	}
	if d.Len() != 1 {
		t.Fatalf("cache len = %d", d.Len())
	}
}

func TestDecodeBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eye.bmp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(f, image.NewRGBA(image.Rect(0, 0, 3, 5))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if got := NewDecoder(0).Size(path); got != image.Pt(3, 5) {
		t.Fatalf("size = %v", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	d := NewDecoder(DefaultCacheSize)

	_, err := d.Decode(filepath.Join(dir, "missing.jpg"))
	var decErr *DecodeError
	if !errors.As(err, &decErr) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected DecodeError wrapping ErrNotExist, got %v", err)
	}

	junk := filepath.Join(dir, "junk.ppm")
	if err := os.WriteFile(junk, []byte("P3 garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Decode(junk); !errors.As(err, &decErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if d.Size(junk) != (image.Point{}) {
		t.Fatal("undecodable image should have zero size")
	}
}
