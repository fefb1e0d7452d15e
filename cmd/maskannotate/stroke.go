package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"strconv"

	"github.com/example/maskannotate/internal/session"
	"github.com/example/maskannotate/internal/stroke"
)

// strokeCmd paints one stroke through the given image points and saves
// the mask, the same way a mouse drag in the editor does.
type strokeCmd struct {
	*root
	fs          *flag.FlagSet
	target      target
	width       int
	unconfident bool
	erase       bool
	points      []image.Point
}

func (c *strokeCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *strokeCmd) Program() string { return c.subcommand("stroke") }

func (c *strokeCmd) Template() string { return "stroke.txt" }

func parseStrokeCmd(args []string, r *root) (*strokeCmd, error) {
	c := &strokeCmd{root: r, fs: newFlagSet("stroke")}
	c.target.register(c.fs, r.config.Root)
	c.fs.IntVar(&c.width, "width", 0, "brush width; the nearest allowed size at or above it is used (default: configured brush)")
	c.fs.BoolVar(&c.unconfident, "unconfident", false, "paint the unconfident class")
	c.fs.BoolVar(&c.erase, "erase", false, "erase instead of painting")
	if err := parseFlags(c, args); err != nil {
		return nil, err
	}
	pts, err := parsePoints(c.fs.Args())
	if err != nil {
		return nil, &UsageError{of: c, msg: err.Error()}
	}
	c.points = pts
	if c.target.file == "" {
		return nil, &UsageError{of: c, msg: "-file is required"}
	}
	return c, nil
}

// parsePoints reads "x0 y0 x1 y1 ..." into points.
func parsePoints(args []string) ([]image.Point, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, errors.New("coordinates must be given as x y pairs")
	}
	pts := make([]image.Point, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		x, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("invalid x coordinate %q: %w", args[i], err)
		}
		y, err := strconv.Atoi(args[i+1])
		if err != nil {
			return nil, fmt.Errorf("invalid y coordinate %q: %w", args[i+1], err)
		}
		pts = append(pts, image.Pt(x, y))
	}
	return pts, nil
}

func (c *strokeCmd) Run() error {
	sel, err := c.target.selection(c.config.Objects)
	if err != nil {
		return err
	}
	var (
		saved   string
		saveErr error
	)
	opts := append(c.sessionOptions(session.Listeners{
		Saved: func(path string) { saved = path },
		Error: func(err error) { saveErr = err },
	}), session.WithZoom(1), session.WithConfidence(!c.unconfident))
	s, err := session.Open(sel, opts...)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", sel.File, err)
	}
	if !s.Painting() {
		return fmt.Errorf("cannot paint on %s: image could not be decoded", sel.File)
	}
	if s.Transparency() == 0 {
		return fmt.Errorf("cannot paint on %s: transparency is 0", sel.File)
	}
	if c.width > 0 {
		s.SetBrushWidth(c.width)
	}
	// At zoom 1 with the view sized to the image, device and image
	// coordinates coincide.
	s.Resize(s.Base().Bounds().Size())

	button := stroke.ButtonLeft
	if c.erase {
		button = stroke.ButtonRight
	}
	first, last := c.points[0], c.points[len(c.points)-1]
	s.PointerDown(stroke.Event{Pos: first, Button: button})
	for _, p := range c.points[1:] {
		s.PointerMove(stroke.Event{Pos: p, Button: button})
	}
	s.PointerUp(stroke.Event{Pos: last, Button: button})
	if saveErr != nil {
		return fmt.Errorf("failed to save stroke: %w", saveErr)
	}
	if saved == "" {
		return fmt.Errorf("stroke on %s was not saved", sel.File)
	}

	c.logger.Info("stroke saved", "path", saved, "object", s.ObjectName(), "width", s.BrushWidth(), "points", len(c.points))
	fmt.Fprintln(c.out(), saved)
	return nil
}
