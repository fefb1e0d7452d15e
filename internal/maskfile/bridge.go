package maskfile

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/example/maskannotate/internal/mask"
)

// ErrNotRegistered is wrapped when an object type has no mask file yet.
var ErrNotRegistered = errors.New("no mask file registered")

// Bridge connects one image's object types to their mask files on disk.
type Bridge struct {
	dir       string
	imageFile string
	types     []string
	registry  Registry
	logger    *slog.Logger
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithLogger sets the logger used for persistence events.
func WithLogger(l *slog.Logger) BridgeOption {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithTypes replaces the object type list.
func WithTypes(types []string) BridgeOption {
	return func(b *Bridge) {
		if len(types) > 0 {
			b.types = types
		}
	}
}

// NewBridge lists the masks of imageFile in dir and builds its registry.
func NewBridge(dir, imageFile string, opts ...BridgeOption) (*Bridge, error) {
	b := &Bridge{dir: dir, imageFile: imageFile, types: DefaultTypes, logger: slog.Default()}
	for _, o := range opts {
		o(b)
	}
	if err := b.Refresh(); err != nil {
		return nil, err
	}
	return b, nil
}

// Refresh rebuilds the registry from the directory listing.
func (b *Bridge) Refresh() error {
	files, err := ListMaskFiles(b.dir, b.imageFile)
	if err != nil {
		return fmt.Errorf("failed to list masks of %s: %w", b.imageFile, err)
	}
	b.registry = BuildRegistry(files, b.types)
	b.logger.Debug("mask registry built", "dir", b.dir, "file", b.imageFile, "masks", len(b.registry))
	return nil
}

// Types returns the object type names.
func (b *Bridge) Types() []string { return b.types }

// Registry returns a copy of the object type to file name map.
func (b *Bridge) Registry() Registry {
	out := make(Registry, len(b.registry))
	for k, v := range b.registry {
		out[k] = v
	}
	return out
}

// Path returns the mask path registered for an object type.
func (b *Bridge) Path(objectType int) (string, bool) {
	name, ok := b.registry[objectType]
	if !ok {
		return "", false
	}
	return filepath.Join(b.dir, name), true
}

// ImagePath is the path of the base image.
func (b *Bridge) ImagePath() string { return filepath.Join(b.dir, b.imageFile) }

// TypeName returns the name of an object type.
func (b *Bridge) TypeName(objectType int) (string, error) {
	if objectType < 0 || objectType >= len(b.types) {
		return "", fmt.Errorf("object type %d out of range [0,%d)", objectType, len(b.types))
	}
	return b.types[objectType], nil
}

// EnsureObjectMask creates an all-background mask of the given size when
// the object type has no file yet, and registers it.
func (b *Bridge) EnsureObjectMask(objectType int, size image.Point) (string, error) {
	if p, ok := b.Path(objectType); ok {
		return p, nil
	}
	name, err := b.TypeName(objectType)
	if err != nil {
		return "", err
	}
	file := FileName(b.imageFile, name)
	path := filepath.Join(b.dir, file)
	if err := mask.WriteIndexed(path, mask.NewIndexed(size)); err != nil {
		return "", err
	}
	b.registry[objectType] = file
	b.logger.Info("created mask", "path", path, "object", name)
	return path, nil
}

// Load reads the registered mask of an object type.
func (b *Bridge) Load(objectType int) (*mask.Buffer, error) {
	path, ok := b.Path(objectType)
	if !ok {
		return nil, &mask.IOError{Op: "read", Path: b.imageFile, Err: ErrNotRegistered}
	}
	return mask.Load(path)
}

// Save writes an indexed snapshot to the registered mask of an object type.
func (b *Bridge) Save(objectType int, m *image.Paletted) error {
	path, ok := b.Path(objectType)
	if !ok {
		return &mask.IOError{Op: "write", Path: b.imageFile, Err: ErrNotRegistered}
	}
	if err := mask.WriteIndexed(path, m); err != nil {
		b.logger.Error("mask write failed", "path", path, "error", err)
		return err
	}
	b.logger.Debug("mask saved", "path", path)
	return nil
}
