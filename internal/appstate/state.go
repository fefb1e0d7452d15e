package appstate

import (
	"fmt"
	"image"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// Run opens the first selection and executes the UI loop using shiny's
// driver. It returns once the window is closed.
func (a *AppState) Run() error {
	if err := a.OpenFirst(); err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	var runErr error
	driver.Main(func(s screen.Screen) { runErr = a.Main(s) })
	return runErr
}

// Main runs the event loop on an existing screen.
func (a *AppState) Main(s screen.Screen) error {
	width, height := a.initialSize()
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  width,
		Height: height,
		Title:  "maskannotate",
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer w.Release()
	defer a.notifyClose()
	a.Resize(image.Pt(width, height))

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}
		case size.Event:
			a.Resize(e.Size())
			w.Send(paint.Event{})
		case paint.Event:
			if e.External {
				a.sess.Invalidate()
			}
			if err := a.publish(s, w); err != nil {
				a.logger.Error("paint failed", "error", err)
			}
		case mouse.Event:
			if a.HandleMouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if e.Code == key.CodeEscape && e.Direction == key.DirPress {
				return nil
			}
			if a.HandleKey(e) {
				w.Send(paint.Event{})
			}
		case error:
			a.logger.Error("window event", "error", e)
		}
	}
}

func (a *AppState) publish(s screen.Screen, w screen.Window) error {
	b, err := s.NewBuffer(a.window)
	if err != nil {
		return fmt.Errorf("failed to allocate buffer: %w", err)
	}
	defer b.Release()
	a.Render(b.RGBA())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
	return nil
}

// initialSize fits the zoomed image plus the status line, capped to a
// typical screen.
func (a *AppState) initialSize() (int, int) {
	width, height := defaultWidth, defaultHeight
	if a.sess != nil {
		sz := a.sess.Transform().MinSize()
		width = min(max(sz.X, 320), 1600)
		height = min(max(sz.Y, 240), 1000) + statusHeight
	}
	return width, height
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}
