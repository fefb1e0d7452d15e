// Package imageio decodes base images and keeps recently used ones cached.
package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultCacheSize is the number of decoded images kept by a Decoder.
const DefaultCacheSize = 8

// DecodeError reports a base image that could not be read or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type cacheKey struct {
	path    string
	modTime time.Time
	size    int64
}

// Decoded is a base image with the format name reported by its decoder.
type Decoded struct {
	Image  image.Image
	Format string
}

// Decoder decodes base images from disk. Entries are keyed by path,
// modification time and size so an edited file is decoded again.
type Decoder struct {
	cache  *lru.Cache[cacheKey, Decoded]
	logger *slog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger for decode events.
func WithLogger(l *slog.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDecoder returns a decoder caching up to size images. A size below one
// disables caching.
func NewDecoder(size int, opts ...Option) *Decoder {
	d := &Decoder{logger: slog.Default()}
	if size > 0 {
		c, err := lru.New[cacheKey, Decoded](size)
		if err == nil {
			d.cache = c
		}
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Decode reads and decodes the image at path.
func (d *Decoder) Decode(path string) (Decoded, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Decoded{}, &DecodeError{Path: path, Err: err}
	}
	key := cacheKey{path: path, modTime: info.ModTime(), size: info.Size()}
	if d.cache != nil {
		if img, ok := d.cache.Get(key); ok {
			d.logger.Debug("image cache hit", "path", path)
			return img, nil
		}
	}
	img, err := decodeFile(path)
	if err != nil {
		d.logger.Warn("image decode failed", "path", path, "error", err)
		return Decoded{}, err
	}
	if d.cache != nil {
		d.cache.Add(key, img)
	}
	d.logger.Debug("image decoded", "path", path, "format", img.Format, "size", img.Image.Bounds().Size())
	return img, nil
}

// Size returns the dimensions of the image at path, or a zero size when it
// cannot be decoded.
func (d *Decoder) Size(path string) image.Point {
	img, err := d.Decode(path)
	if err != nil {
		return image.Point{}
	}
	return img.Image.Bounds().Size()
}

// Len returns the number of cached images.
func (d *Decoder) Len() int {
	if d.cache == nil {
		return 0
	}
	return d.cache.Len()
}

func decodeFile(path string) (Decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		return Decoded{}, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return Decoded{}, &DecodeError{Path: path, Err: err}
	}
	return Decoded{Image: img, Format: format}, nil
}
