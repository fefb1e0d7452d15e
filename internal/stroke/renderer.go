// Package stroke turns pointer events into brush strokes on a mask buffer.
package stroke

import (
	"image"

	"github.com/example/maskannotate/internal/mask"
	"github.com/example/maskannotate/internal/render"
	"github.com/example/maskannotate/internal/viewport"
)

// State is the renderer's position in a stroke.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Button identifies the pointer button of an event.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Event is a pointer event in device coordinates.
type Event struct {
	Pos    image.Point
	Button Button
}

// Mapper converts device positions to image positions.
type Mapper interface {
	ToImage(viewport.Point) viewport.Point
	Zoom() float64
}

// Renderer is the Idle/Drawing state machine that paints strokes.
type Renderer struct {
	target *mask.Buffer
	mapper Mapper
	brush  Brush

	enabled bool
	state   State
	button  Button
	erase   bool

	lastRaw   image.Point
	lastImage image.Point
	follow    image.Point

	onChanged func()
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBrush sets the initial brush.
func WithBrush(b Brush) Option { return func(r *Renderer) { r.brush = b } }

// WithChangeListener registers the callback run when a stroke completes.
func WithChangeListener(fn func()) Option { return func(r *Renderer) { r.onChanged = fn } }

// WithEnabled sets whether painting starts enabled.
func WithEnabled(enabled bool) Option { return func(r *Renderer) { r.enabled = enabled } }

// NewRenderer returns an idle renderer painting into target.
func NewRenderer(target *mask.Buffer, m Mapper, opts ...Option) *Renderer {
	r := &Renderer{target: target, mapper: m, brush: DefaultBrush()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// State returns Idle or Drawing.
func (r *Renderer) State() State { return r.state }

// Erasing reports whether the current stroke erases.
func (r *Renderer) Erasing() bool { return r.erase }

// Brush returns the active brush.
func (r *Renderer) Brush() Brush { return r.brush }

// SetBrush replaces the active brush. A stroke in progress continues with
// the new pen from its next segment.
func (r *Renderer) SetBrush(b Brush) { r.brush = b }

// Enabled reports whether pointer events are processed.
func (r *Renderer) Enabled() bool { return r.enabled }

// SetEnabled toggles painting. Disabling drops any stroke in progress
// without emitting a change.
func (r *Renderer) SetEnabled(enabled bool) {
	r.enabled = enabled
	if !enabled {
		r.state = Idle
		r.erase = false
		r.button = ButtonNone
	}
}

// Follow is the image position of the brush cursor.
func (r *Renderer) Follow() image.Point { return r.follow }

// PointerDown starts a stroke. Right button erases, left button draws.
// Nothing is painted while the mask is fully transparent, and presses
// during a stroke are ignored.
func (r *Renderer) PointerDown(ev Event) image.Rectangle {
	if !r.enabled || (ev.Button != ButtonLeft && ev.Button != ButtonRight) {
		return image.Rectangle{}
	}
	if r.state == Drawing {
		return image.Rectangle{}
	}
	pos := r.toImage(ev.Pos)
	r.erase = ev.Button == ButtonRight
	if r.target.Transparency() > 0 {
		r.pen().Dot(r.target.Image(), pos)
		r.state = Drawing
		r.button = ev.Button
	}
	r.lastRaw = ev.Pos
	r.lastImage = pos
	r.follow = pos
	return render.PointerDamage(ev.Pos, ev.Pos, r.mapper.Zoom(), r.brush.Width)
}

// PointerMove extends the stroke from the previous sample, so fast motion
// leaves no gaps. The cursor follows the pointer even when idle.
func (r *Renderer) PointerMove(ev Event) image.Rectangle {
	if !r.enabled {
		return image.Rectangle{}
	}
	pos := r.toImage(ev.Pos)
	damage := render.PointerDamage(r.lastRaw, ev.Pos, r.mapper.Zoom(), r.brush.Width)
	if r.state == Drawing {
		r.pen().Segment(r.target.Image(), r.lastImage, pos)
	}
	r.lastRaw = ev.Pos
	r.lastImage = pos
	r.follow = pos
	return damage
}

// PointerUp finishes the stroke started with the same button and notifies
// the change listener.
func (r *Renderer) PointerUp(ev Event) image.Rectangle {
	if !r.enabled {
		return image.Rectangle{}
	}
	pos := r.toImage(ev.Pos)
	damage := render.PointerDamage(r.lastRaw, ev.Pos, r.mapper.Zoom(), r.brush.Width)
	if r.state != Drawing {
		r.lastRaw = ev.Pos
		r.lastImage = pos
		return damage
	}
	if ev.Button != r.button {
		// The stroke continues from its last sample.
		r.follow = pos
		return damage
	}
	r.pen().Segment(r.target.Image(), r.lastImage, pos)
	r.lastRaw = ev.Pos
	r.lastImage = pos
	r.follow = pos
	r.state = Idle
	r.erase = false
	r.button = ButtonNone
	if r.onChanged != nil {
		r.onChanged()
	}
	return damage
}

// Retarget points the renderer at a new buffer, as after an undo reloads
// the mask. Any stroke in progress is dropped.
func (r *Renderer) Retarget(target *mask.Buffer) {
	r.target = target
	r.state = Idle
	r.erase = false
	r.button = ButtonNone
}

func (r *Renderer) pen() Pen {
	if r.erase {
		return Pen{Width: r.brush.Width, Clear: true}
	}
	class := mask.UnconfidentObject
	if r.brush.Confident {
		class = mask.ConfidentObject
	}
	return Pen{Width: r.brush.Width, Colour: mask.Colour(class, r.target.Alpha())}
}

func (r *Renderer) toImage(p image.Point) image.Point {
	return r.mapper.ToImage(viewport.FromInt(p)).Round()
}
