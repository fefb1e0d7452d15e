// Package session ties one (directory, image, object type) selection to
// its mask buffer, stroke renderer, view transform and undo history.
//
// A Session is driven from a single goroutine. Frame returns a copy of the
// drawable state that may be composited elsewhere.
package session

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/example/maskannotate/internal/history"
	"github.com/example/maskannotate/internal/imageio"
	"github.com/example/maskannotate/internal/mask"
	"github.com/example/maskannotate/internal/maskfile"
	"github.com/example/maskannotate/internal/render"
	"github.com/example/maskannotate/internal/stroke"
	"github.com/example/maskannotate/internal/viewport"
)

const (
	// DefaultZoomStep is the zoom change per wheel notch.
	DefaultZoomStep = 0.1
	// MinZoom is the smallest zoom reachable by stepping.
	MinZoom = 0.1
)

// Selection names the image and object type a session edits.
type Selection struct {
	Root       string
	Dir        string
	File       string
	ObjectType int
}

// Path returns the directory holding the image.
func (s Selection) Path() string { return filepath.Join(s.Root, s.Dir) }

// Listeners receive session events. Nil fields are skipped.
type Listeners struct {
	ZoomChanged    func(zoom float64)
	MaskChanged    func()
	PixmapChanged  func(size image.Point)
	HistoryChanged func(canUndo, canRedo bool)
	Saved          func(path string)
	Error          func(err error)
}

// Session is the editing state of one selection.
type Session struct {
	sel    Selection
	logger *slog.Logger

	decoder    *imageio.Decoder
	bridge     *maskfile.Bridge
	types      []string
	base       image.Image
	buf        *mask.Buffer
	transform  *viewport.Transform
	renderer   *stroke.Renderer
	history    *history.History
	scheduler  render.Scheduler
	compositor *render.Compositor

	sizes        stroke.Sizes
	brushIdx     int
	confident    bool
	transparency float64
	zoomStep     float64
	depth        int
	painting     bool
	hasMask      bool

	scroll  render.Scroll
	damage  image.Rectangle
	repaint bool

	listeners Listeners
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDecoder shares a base image decoder between sessions.
func WithDecoder(d *imageio.Decoder) Option {
	return func(s *Session) {
		if d != nil {
			s.decoder = d
		}
	}
}

// WithTypes replaces the object type list.
func WithTypes(types []string) Option {
	return func(s *Session) {
		if len(types) > 0 {
			s.types = types
		}
	}
}

// WithHistoryDepth bounds the undo history.
func WithHistoryDepth(n int) Option { return func(s *Session) { s.depth = n } }

// WithBrushSizes replaces the allowed brush widths.
func WithBrushSizes(sizes stroke.Sizes) Option {
	return func(s *Session) {
		if n := sizes.Normalize(); len(n) > 0 {
			s.sizes = n
		}
	}
}

// WithBrushIndex selects the initial brush width by index.
func WithBrushIndex(i int) Option { return func(s *Session) { s.brushIdx = i } }

// WithConfidence sets whether strokes start confident.
func WithConfidence(confident bool) Option { return func(s *Session) { s.confident = confident } }

// WithTransparency sets the initial mask transparency.
func WithTransparency(level float64) Option { return func(s *Session) { s.transparency = level } }

// WithZoom sets the initial zoom factor.
func WithZoom(f float64) Option {
	return func(s *Session) {
		if f > 0 {
			s.transform.SetZoom(f)
		}
	}
}

// WithZoomStep sets the zoom change per step.
func WithZoomStep(step float64) Option {
	return func(s *Session) {
		if step >= MinZoom {
			s.zoomStep = step
		}
	}
}

// WithCompositor replaces the compositor, as when a theme supplies colours.
func WithCompositor(c *render.Compositor) Option {
	return func(s *Session) {
		if c != nil {
			s.compositor = c
		}
	}
}

// WithListeners registers event callbacks.
func WithListeners(l Listeners) Option { return func(s *Session) { s.listeners = l } }

// Open decodes the base image, makes sure the object type has a mask file,
// loads it and seeds the history. An undecodable base image yields a
// session with an empty image and painting disabled; the decode error is
// reported to the error listener rather than returned.
func Open(sel Selection, opts ...Option) (*Session, error) {
	s := &Session{
		sel:          sel,
		logger:       slog.Default(),
		types:        maskfile.DefaultTypes,
		sizes:        stroke.DefaultSizes,
		brushIdx:     stroke.DefaultSizeIndex,
		confident:    true,
		transparency: 1,
		zoomStep:     DefaultZoomStep,
		depth:        history.DefaultDepth,
		transform:    viewport.New(image.Point{}),
		compositor:   render.NewCompositor(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.decoder == nil {
		s.decoder = imageio.NewDecoder(imageio.DefaultCacheSize, imageio.WithLogger(s.logger))
	}
	s.logger = s.logger.With("dir", sel.Dir, "file", sel.File)
	s.brushIdx = s.sizes.Clamp(s.brushIdx)
	s.transparency = clamp01(s.transparency)
	s.history = history.New(s.depth)

	bridge, err := maskfile.NewBridge(sel.Path(), sel.File, maskfile.WithTypes(s.types), maskfile.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	s.bridge = bridge

	s.base = image.NewRGBA(image.Rectangle{})
	decodeOK := true
	if dec, err := s.decoder.Decode(bridge.ImagePath()); err != nil {
		var de *imageio.DecodeError
		if !errors.As(err, &de) {
			return nil, err
		}
		decodeOK = false
		s.logger.Warn("base image unavailable, painting disabled", "error", err)
		s.emitError(err)
	} else {
		s.base = dec.Image
	}
	s.transform.SetImageSize(s.base.Bounds().Size())
	s.buf = mask.New(s.base.Bounds().Size())
	s.renderer = stroke.NewRenderer(s.buf, s.transform,
		stroke.WithBrush(s.brush()),
		stroke.WithChangeListener(s.maskChanged),
	)

	if decodeOK && sel.ObjectType >= 0 {
		if err := s.LoadForSelection(); err != nil {
			return nil, err
		}
	}
	s.emitPixmap()
	s.emitHistory()
	return s, nil
}

// LoadForSelection ensures the selected object type has a mask file, loads
// it at the session transparency and reseeds the history with it.
func (s *Session) LoadForSelection() error {
	return s.loadObject(s.sel.ObjectType)
}

// SelectObject switches the edited object type and loads its mask. On
// failure the previous object stays selected and loaded.
func (s *Session) SelectObject(objectType int) error {
	if _, err := s.bridge.TypeName(objectType); err != nil {
		return err
	}
	if s.renderer.State() == stroke.Drawing {
		return fmt.Errorf("cannot switch object type during a stroke")
	}
	if err := s.loadObject(objectType); err != nil {
		return err
	}
	s.logger.Info("object type selected", "object", s.typeName())
	s.emitHistory()
	return nil
}

// loadObject commits the selection, buffer and history only after the mask
// of objectType was prepared and read.
func (s *Session) loadObject(objectType int) error {
	if _, err := s.bridge.EnsureObjectMask(objectType, s.base.Bounds().Size()); err != nil {
		s.emitError(err)
		return fmt.Errorf("failed to prepare mask: %w", err)
	}
	buf, err := s.bridge.Load(objectType)
	if err != nil {
		s.emitError(err)
		return fmt.Errorf("failed to load mask: %w", err)
	}
	if buf.Bounds().Size() != s.base.Bounds().Size() {
		s.logger.Warn("mask size differs from image", "mask", buf.Bounds().Size(), "image", s.base.Bounds().Size())
	}
	buf.SetTransparency(s.transparency)
	s.sel.ObjectType = objectType
	s.buf = buf
	s.hasMask = true
	s.renderer.Retarget(buf)
	s.history.Reset(buf.ToIndexed())
	s.setPainting(true)
	s.invalidate()
	s.logger.Debug("mask loaded", "object", s.typeName())
	return nil
}

// Types returns the object type names in registry order.
func (s *Session) Types() []string { return s.bridge.Types() }

// ObjectName returns the name of the edited object type, or "" when the
// selection has none.
func (s *Session) ObjectName() string { return s.typeName() }

// Selection returns what the session edits.
func (s *Session) Selection() Selection { return s.sel }

// Registry returns the object type to mask file map of the image.
func (s *Session) Registry() maskfile.Registry { return s.bridge.Registry() }

// Base returns the decoded base image.
func (s *Session) Base() image.Image { return s.base }

// Mask returns the working mask buffer.
func (s *Session) Mask() *mask.Buffer { return s.buf }

// Transform returns the live view transform.
func (s *Session) Transform() *viewport.Transform { return s.transform }

// Renderer returns the stroke renderer.
func (s *Session) Renderer() *stroke.Renderer { return s.renderer }

// History returns the undo history.
func (s *Session) History() *history.History { return s.history }

// BrushSizes returns the allowed widths.
func (s *Session) BrushSizes() stroke.Sizes { return s.sizes }

// BrushIndex returns the index of the active width.
func (s *Session) BrushIndex() int { return s.brushIdx }

// BrushWidth returns the active width.
func (s *Session) BrushWidth() int { return s.sizes.At(s.brushIdx) }

// SetBrushWidth selects the smallest allowed width that is at least w.
func (s *Session) SetBrushWidth(w int) { s.SetBrushIndex(s.sizes.Index(w)) }

// SetBrushIndex selects a width by index, clamped to the list.
func (s *Session) SetBrushIndex(i int) {
	s.brushIdx = s.sizes.Clamp(i)
	s.renderer.SetBrush(s.brush())
	s.invalidate()
}

// StepBrush moves the brush index by delta.
func (s *Session) StepBrush(delta int) { s.SetBrushIndex(s.sizes.Step(s.brushIdx, delta)) }

// Confident reports whether new strokes are confident.
func (s *Session) Confident() bool { return s.confident }

// SetConfidence selects confident or unconfident strokes.
func (s *Session) SetConfidence(confident bool) {
	s.confident = confident
	s.renderer.SetBrush(s.brush())
}

// Transparency returns the mask display transparency.
func (s *Session) Transparency() float64 { return s.transparency }

// SetTransparency changes the mask display transparency.
func (s *Session) SetTransparency(level float64) {
	s.transparency = clamp01(level)
	if s.buf.SetTransparency(s.transparency) {
		s.invalidate()
	}
}

// Painting reports whether pointer events paint.
func (s *Session) Painting() bool { return s.painting }

// EnablePainting toggles painting. Painting stays off without a mask.
func (s *Session) EnablePainting(on bool) { s.setPainting(on) }

func (s *Session) setPainting(on bool) {
	s.painting = on && s.hasMask
	s.renderer.SetEnabled(s.painting)
	s.invalidate()
}

// PointerDown forwards a press to the renderer.
func (s *Session) PointerDown(ev stroke.Event) { s.addDamage(s.renderer.PointerDown(ev)) }

// PointerMove forwards a motion to the renderer.
func (s *Session) PointerMove(ev stroke.Event) { s.addDamage(s.renderer.PointerMove(ev)) }

// PointerUp forwards a release to the renderer. A completed stroke is saved
// before PointerUp returns.
func (s *Session) PointerUp(ev stroke.Event) { s.addDamage(s.renderer.PointerUp(ev)) }

// Cursor returns the image position under the pointer.
func (s *Session) Cursor() image.Point { return s.renderer.Follow() }

// Zoom returns the zoom factor.
func (s *Session) Zoom() float64 { return s.transform.Zoom() }

// SetZoom applies a zoom factor and reports whether it changed.
func (s *Session) SetZoom(f float64) bool {
	if !s.transform.SetZoom(f) {
		return false
	}
	if s.listeners.ZoomChanged != nil {
		s.listeners.ZoomChanged(s.transform.Zoom())
	}
	s.emitPixmap()
	s.invalidate()
	return true
}

// StepZoom changes the zoom by steps times the zoom step, not going below
// MinZoom.
func (s *Session) StepZoom(steps int) bool {
	z := s.transform.Zoom() + float64(steps)*s.zoomStep
	z = math.Max(MinZoom, math.Round(z*1000)/1000)
	return s.SetZoom(z)
}

// Resize sets the viewport size.
func (s *Session) Resize(view image.Point) {
	s.transform.Resize(view)
	s.invalidate()
}

// Scroll records the scroll bar state used for the next repaint.
func (s *Session) Scroll(sc render.Scroll) { s.scroll = sc }

// Invalidate forces the next frame to redraw everything visible.
func (s *Session) Invalidate() { s.invalidate() }

// Frame returns a snapshot of what needs drawing and clears the pending
// damage.
func (s *Session) Frame() render.Frame {
	damage := s.damage
	if s.repaint {
		damage = image.Rectangle{}
	}
	tr := *s.transform
	f := render.Frame{
		Transform:    &tr,
		Base:         s.base,
		Mask:         cloneNRGBA(s.buf.Image()),
		Transparency: s.transparency,
		Painting:     s.painting,
		Cursor:       s.renderer.Follow(),
		BrushWidth:   s.BrushWidth(),
		Region:       s.scheduler.Region(damage, s.scroll, s.transform),
		Damage:       damage,
	}
	s.damage = image.Rectangle{}
	s.repaint = false
	return f
}

// Paint composites the pending frame into dst.
func (s *Session) Paint(dst *image.RGBA) render.Stats {
	return s.compositor.Compose(dst, s.Frame())
}

// Snapshot composes the whole image and mask at the given zoom without the
// brush cursor. It does not touch the pending damage.
func (s *Session) Snapshot(zoom float64) *image.RGBA {
	tr := *s.transform
	tr.SetZoom(zoom)
	tr.Resize(tr.MinSize())
	dst := image.NewRGBA(image.Rectangle{Max: tr.MinSize()})
	s.compositor.Compose(dst, render.Frame{
		Transform:    &tr,
		Base:         s.base,
		Mask:         s.buf.Image(),
		Transparency: s.transparency,
		Painting:     s.painting,
		HideCursor:   true,
	})
	return dst
}

// Compositor returns the compositor used by Paint.
func (s *Session) Compositor() *render.Compositor { return s.compositor }

// Save writes the current mask and records it in the history.
func (s *Session) Save() error {
	if !s.hasMask {
		return fmt.Errorf("no mask selected for %s", s.sel.File)
	}
	snap := s.buf.ToIndexed()
	if err := s.bridge.Save(s.sel.ObjectType, snap); err != nil {
		s.emitError(err)
		return err
	}
	s.history.Record(snap)
	s.emitHistory()
	s.emitSaved()
	return nil
}

// MaskPath returns the file the edited mask is saved to.
func (s *Session) MaskPath() (string, bool) { return s.bridge.Path(s.sel.ObjectType) }

// CanUndo reports whether Undo has an older snapshot.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo has a newer snapshot.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Undo restores and persists the previous snapshot. If it cannot be written
// the history cursor is put back and the mask is left as it was.
func (s *Session) Undo() error {
	snap, ok := s.history.Undo()
	if !ok {
		return nil
	}
	if err := s.restore(snap); err != nil {
		s.history.Redo()
		return err
	}
	return nil
}

// Redo restores and persists the next snapshot, with the same rollback as
// Undo.
func (s *Session) Redo() error {
	snap, ok := s.history.Redo()
	if !ok {
		return nil
	}
	if err := s.restore(snap); err != nil {
		s.history.Undo()
		return err
	}
	return nil
}

func (s *Session) restore(snap *image.Paletted) error {
	if err := s.bridge.Save(s.sel.ObjectType, snap); err != nil {
		s.emitError(err)
		return err
	}
	buf := mask.FromImage(snap)
	buf.SetTransparency(s.transparency)
	s.buf = buf
	s.renderer.Retarget(buf)
	s.invalidate()
	s.emitHistory()
	return nil
}

func (s *Session) maskChanged() {
	if s.listeners.MaskChanged != nil {
		s.listeners.MaskChanged()
	}
	if err := s.Save(); err != nil {
		s.logger.Error("failed to save stroke", "object", s.typeName(), "error", err)
	}
}

func (s *Session) brush() stroke.Brush {
	return stroke.Brush{Width: s.sizes.At(s.brushIdx), Confident: s.confident}
}

func (s *Session) typeName() string {
	name, err := s.bridge.TypeName(s.sel.ObjectType)
	if err != nil {
		return ""
	}
	return name
}

func (s *Session) addDamage(r image.Rectangle) {
	if r.Empty() {
		return
	}
	s.damage = s.damage.Union(r)
}

func (s *Session) invalidate() { s.repaint = true }

func (s *Session) emitPixmap() {
	if s.listeners.PixmapChanged != nil {
		s.listeners.PixmapChanged(s.transform.WidgetSize())
	}
}

func (s *Session) emitHistory() {
	if s.listeners.HistoryChanged != nil {
		s.listeners.HistoryChanged(s.history.CanUndo(), s.history.CanRedo())
	}
}

func (s *Session) emitSaved() {
	if s.listeners.Saved == nil {
		return
	}
	if p, ok := s.MaskPath(); ok {
		s.listeners.Saved(p)
	}
}

func (s *Session) emitError(err error) {
	if s.listeners.Error != nil {
		s.listeners.Error(err)
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	return math.Max(0, math.Min(1, v))
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}
