// Package appstate is the interactive editor window. It turns shiny mouse,
// key and paint events into session calls.
package appstate

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"sync"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/maskannotate/internal/maskfile"
	"github.com/example/maskannotate/internal/render"
	"github.com/example/maskannotate/internal/session"
	"github.com/example/maskannotate/internal/stroke"
	"github.com/example/maskannotate/internal/theme"
)

const (
	panStep       = 32
	defaultWidth  = 800
	defaultHeight = 600
)

// transparencySteps is the cycle used by the transparency key.
var transparencySteps = []float64{1, 0.5, 0}

// ErrNoImage is returned when the catalog holds no image to open.
var ErrNoImage = errors.New("no image to edit")

// AppState holds the editor window state.
type AppState struct {
	catalog  *maskfile.Catalog
	sel      session.Selection
	sessOpts []session.Option
	theme    *theme.Theme
	logger   *slog.Logger

	copyImage func(image.Image) error
	onCopy    func(image.Image)
	onError   func(error)
	onSave    func(string)
	onClose   func()
	closeOnce sync.Once

	sess    *session.Session
	window  image.Point
	pan     image.Point
	canvas  *image.RGBA
	message string
	canUndo bool
	canRedo bool
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithCatalog sets the images that file navigation walks through.
func WithCatalog(c *maskfile.Catalog) Option { return func(a *AppState) { a.catalog = c } }

// WithSelection sets the image and object type opened first.
func WithSelection(sel session.Selection) Option { return func(a *AppState) { a.sel = sel } }

// WithSessionOptions adds options applied to every opened session.
func WithSessionOptions(opts ...session.Option) Option {
	return func(a *AppState) { a.sessOpts = append(a.sessOpts, opts...) }
}

// WithTheme sets the view colours.
func WithTheme(t *theme.Theme) Option {
	return func(a *AppState) {
		if t != nil {
			a.theme = t
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *AppState) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClipboard sets the function that publishes the copied view.
func WithClipboard(fn func(image.Image) error) Option {
	return func(a *AppState) { a.copyImage = fn }
}

// WithOnCopy registers a callback run after a successful copy.
func WithOnCopy(fn func(image.Image)) Option { return func(a *AppState) { a.onCopy = fn } }

// WithOnError registers a callback for read and write failures.
func WithOnError(fn func(error)) Option { return func(a *AppState) { a.onError = fn } }

// WithOnSave registers a callback run after each mask save.
func WithOnSave(fn func(path string)) Option { return func(a *AppState) { a.onSave = fn } }

// WithOnClose registers a callback run once the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New returns an AppState. Call Open before handling events.
func New(opts ...Option) *AppState {
	a := &AppState{
		theme:  theme.Default(),
		logger: slog.Default(),
		window: image.Pt(defaultWidth, defaultHeight),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Session returns the session being edited, or nil before Open.
func (a *AppState) Session() *session.Session { return a.sess }

// Message returns the last status message.
func (a *AppState) Message() string { return a.message }

// Open starts editing sel. The previous session is kept if sel cannot be
// opened.
func (a *AppState) Open(sel session.Selection) error {
	opts := append([]session.Option{
		session.WithLogger(a.logger),
		session.WithCompositor(a.theme.Compositor()),
	}, a.sessOpts...)
	opts = append(opts, session.WithListeners(a.listeners()))
	s, err := session.Open(sel, opts...)
	if err != nil {
		a.report(err)
		return err
	}
	prev := a.sess
	a.sess = s
	a.sel = s.Selection()
	a.pan = image.Point{}
	if prev != nil {
		s.SetBrushIndex(prev.BrushIndex())
		s.SetConfidence(prev.Confident())
		s.SetZoom(prev.Zoom())
	}
	a.canUndo, a.canRedo = s.CanUndo(), s.CanRedo()
	a.Resize(a.window)
	a.logger.Info("editing", "dir", sel.Dir, "file", sel.File, "object", s.ObjectName())
	return nil
}

// OpenFirst opens the configured selection, or the first catalog image
// when none is set.
func (a *AppState) OpenFirst() error {
	if a.sel.File == "" {
		if a.catalog == nil {
			return ErrNoImage
		}
		rel, file, ok := a.catalog.First()
		if !ok {
			return ErrNoImage
		}
		a.sel.Root, a.sel.Dir, a.sel.File = a.catalog.Root, rel, file
	}
	return a.Open(a.sel)
}

func (a *AppState) listeners() session.Listeners {
	return session.Listeners{
		ZoomChanged:   func(float64) { a.clampPan() },
		PixmapChanged: func(image.Point) { a.clampPan() },
		HistoryChanged: func(canUndo, canRedo bool) {
			a.canUndo, a.canRedo = canUndo, canRedo
		},
		Saved: func(path string) {
			if a.onSave != nil {
				a.onSave(path)
			}
		},
		Error: a.report,
	}
}

func (a *AppState) report(err error) {
	a.message = err.Error()
	a.logger.Error("editor error", "error", err)
	if a.onError != nil {
		a.onError(err)
	}
}

// Resize sets the window size. The canvas gets everything above the
// status line.
func (a *AppState) Resize(window image.Point) {
	a.window = window
	view := a.viewSize()
	if a.canvas == nil || a.canvas.Rect.Size() != view {
		a.canvas = image.NewRGBA(image.Rectangle{Max: view})
	}
	if a.sess != nil {
		a.sess.Resize(view)
		a.clampPan()
	}
}

func (a *AppState) viewSize() image.Point {
	return image.Pt(max(a.window.X, 0), max(a.window.Y-statusHeight, 0))
}

// clampPan keeps the visible part of the widget inside it and pushes the
// scroll state to the session.
func (a *AppState) clampPan() {
	if a.sess == nil {
		return
	}
	view := a.viewSize()
	widget := a.sess.Transform().WidgetSize()
	a.pan.X = max(0, min(a.pan.X, widget.X-view.X))
	a.pan.Y = max(0, min(a.pan.Y, widget.Y-view.Y))
	a.sess.Scroll(render.Scroll{
		H: render.ScrollBar{Value: float64(a.pan.X), Max: float64(widget.X - view.X), PageStep: float64(view.X)},
		V: render.ScrollBar{Value: float64(a.pan.Y), Max: float64(widget.Y - view.Y), PageStep: float64(view.Y)},
	})
	a.sess.Invalidate()
}

// Pan scrolls the view by d device pixels.
func (a *AppState) Pan(d image.Point) {
	a.pan = a.pan.Add(d)
	a.clampPan()
}

func toButton(b mouse.Button) stroke.Button {
	switch b {
	case mouse.ButtonLeft:
		return stroke.ButtonLeft
	case mouse.ButtonMiddle:
		return stroke.ButtonMiddle
	case mouse.ButtonRight:
		return stroke.ButtonRight
	}
	return stroke.ButtonNone
}

// HandleMouse applies a mouse event and reports whether a repaint is needed.
func (a *AppState) HandleMouse(e mouse.Event) bool {
	if a.sess == nil {
		return false
	}
	if e.Button.IsWheel() {
		if e.Direction == mouse.DirRelease {
			return false
		}
		return a.wheel(e.Button, e.Modifiers)
	}
	ev := stroke.Event{
		Pos:    image.Pt(int(e.X), int(e.Y)).Add(a.pan),
		Button: toButton(e.Button),
	}
	switch e.Direction {
	case mouse.DirPress:
		a.sess.PointerDown(ev)
	case mouse.DirRelease:
		a.sess.PointerUp(ev)
	default:
		a.sess.PointerMove(ev)
	}
	return true
}

// wheel maps a wheel notch: plain zooms, ctrl steps the brush, shift
// switches files. Rolling up zooms out and moves to the previous file.
func (a *AppState) wheel(b mouse.Button, mods key.Modifiers) bool {
	var up bool
	switch b {
	case mouse.ButtonWheelUp:
		up = true
	case mouse.ButtonWheelDown:
	default:
		return false
	}
	switch {
	case mods&key.ModControl != 0:
		if up {
			a.sess.StepBrush(1)
		} else {
			a.sess.StepBrush(-1)
		}
		return true
	case mods&key.ModShift != 0:
		if up {
			return a.PrevFile()
		}
		return a.NextFile()
	}
	if up {
		return a.sess.StepZoom(-1)
	}
	return a.sess.StepZoom(1)
}

// NextFile opens the next image of the catalog.
func (a *AppState) NextFile() bool { return a.step(true) }

// PrevFile opens the previous image of the catalog.
func (a *AppState) PrevFile() bool { return a.step(false) }

func (a *AppState) step(forward bool) bool {
	if a.catalog == nil || a.sess == nil {
		return false
	}
	if a.sess.Renderer().State() == stroke.Drawing {
		return false
	}
	var (
		rel, file string
		ok        bool
	)
	if forward {
		rel, file, ok = a.catalog.Next(a.sel.Dir, a.sel.File)
	} else {
		rel, file, ok = a.catalog.Prev(a.sel.Dir, a.sel.File)
	}
	if !ok || (rel == a.sel.Dir && file == a.sel.File) {
		return false
	}
	next := a.sel
	next.Dir, next.File = rel, file
	return a.Open(next) == nil
}

// HandleKey applies a key event and reports whether a repaint is needed.
func (a *AppState) HandleKey(e key.Event) bool {
	if a.sess == nil || e.Direction == key.DirRelease {
		return false
	}
	if e.Modifiers&key.ModControl != 0 {
		return a.command(e)
	}
	switch e.Code {
	case key.CodePageDown:
		return a.NextFile()
	case key.CodePageUp:
		return a.PrevFile()
	case key.CodeLeftArrow:
		a.Pan(image.Pt(-panStep, 0))
		return true
	case key.CodeRightArrow:
		a.Pan(image.Pt(panStep, 0))
		return true
	case key.CodeUpArrow:
		a.Pan(image.Pt(0, -panStep))
		return true
	case key.CodeDownArrow:
		a.Pan(image.Pt(0, panStep))
		return true
	case key.CodeHome:
		return a.sess.SetZoom(1)
	}
	switch r := e.Rune; {
	case r >= '1' && r <= '9':
		a.sess.SetBrushIndex(int(r - '1'))
	case r == '+' || r == '=':
		return a.sess.StepZoom(1)
	case r == '-':
		return a.sess.StepZoom(-1)
	case r == ']':
		return a.stepObject(1)
	case r == '[':
		return a.stepObject(-1)
	case r == 'u' || r == 'U':
		a.sess.SetConfidence(!a.sess.Confident())
	case r == 't' || r == 'T':
		a.sess.SetTransparency(nextTransparency(a.sess.Transparency()))
	default:
		return false
	}
	return true
}

func (a *AppState) command(e key.Event) bool {
	var err error
	switch e.Code {
	case key.CodeZ:
		if e.Modifiers&key.ModShift != 0 {
			err = a.sess.Redo()
		} else {
			err = a.sess.Undo()
		}
	case key.CodeY:
		err = a.sess.Redo()
	case key.CodeS:
		if err = a.sess.Save(); err == nil {
			a.message = "saved"
		}
	case key.CodeC:
		err = a.Copy()
	default:
		return false
	}
	if err != nil {
		a.logger.Warn("command failed", "error", err)
		a.message = err.Error()
	}
	return true
}

func (a *AppState) stepObject(delta int) bool {
	n := len(a.sess.Types())
	if n == 0 {
		return false
	}
	next := (a.sel.ObjectType + delta + n) % n
	if err := a.sess.SelectObject(next); err != nil {
		a.report(err)
		return true
	}
	a.sel = a.sess.Selection()
	a.canUndo, a.canRedo = a.sess.CanUndo(), a.sess.CanRedo()
	return true
}

func nextTransparency(cur float64) float64 {
	for i, t := range transparencySteps {
		if cur >= t {
			return transparencySteps[(i+1)%len(transparencySteps)]
		}
	}
	return transparencySteps[0]
}

// Copy publishes the composited view of the whole image to the clipboard.
func (a *AppState) Copy() error {
	if a.copyImage == nil {
		return fmt.Errorf("clipboard not available")
	}
	img := a.Snapshot()
	if err := a.copyImage(img); err != nil {
		return fmt.Errorf("failed to copy view: %w", err)
	}
	a.message = "copied view to clipboard"
	if a.onCopy != nil {
		a.onCopy(img)
	}
	return nil
}

// Snapshot composes the base image and mask at zoom 1.
func (a *AppState) Snapshot() *image.RGBA { return a.sess.Snapshot(1) }

// Render draws the canvas and status line into dst, which covers the
// whole window.
func (a *AppState) Render(dst *image.RGBA) {
	view := a.viewSize()
	if a.sess != nil && a.canvas != nil {
		a.canvas.Rect = image.Rectangle{Min: a.pan, Max: a.pan.Add(view)}
		a.sess.Paint(a.canvas)
		draw.Draw(dst, image.Rectangle{Max: view}, a.canvas, a.pan, draw.Src)
	}
	bar := image.Rect(0, view.Y, a.window.X, a.window.Y)
	drawStatus(dst, bar, a.theme, a.Status())
}
