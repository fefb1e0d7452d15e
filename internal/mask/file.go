package mask

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// Load reads a mask file into a working buffer.
func Load(path string) (*Buffer, error) {
	m, err := ReadIndexed(path)
	if err != nil {
		return nil, err
	}
	return FromImage(m), nil
}

// ReadIndexed decodes a mask file. Any decodable PNG is accepted; foreign
// colour tables are mapped through FromImage by callers that need a
// working buffer.
func ReadIndexed(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, &IOError{Op: "decode", Path: path, Err: err}
	}
	return img, nil
}

// WriteIndexed encodes m as an indexed PNG with the three-entry palette.
// The file is replaced only once the encoded image is complete.
func WriteIndexed(path string, m *image.Paletted) error {
	if m == nil {
		return &IOError{Op: "write", Path: path, Err: errors.New("nil mask")}
	}
	out := m
	if len(m.Palette) != len(Palette) {
		out = image.NewPaletted(m.Rect, Palette)
		copy(out.Pix, m.Pix)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	tmp := f.Name()
	fail := func(err error) error {
		_ = f.Close()
		_ = os.Remove(tmp)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := png.Encode(f, out); err != nil {
		return fail(err)
	}
	if err := f.Chmod(0o644); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
