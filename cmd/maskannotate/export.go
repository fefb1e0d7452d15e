package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"github.com/example/maskannotate/internal/clipboard"
	"github.com/example/maskannotate/internal/session"
)

// exportCmd writes the base image with the mask blended over it.
type exportCmd struct {
	*root
	fs           *flag.FlagSet
	target       target
	output       string
	zoom         float64
	transparency float64
	toClipboard  bool
}

func (c *exportCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *exportCmd) Program() string { return c.subcommand("export") }

func (c *exportCmd) Template() string { return "export.txt" }

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	c := &exportCmd{root: r, fs: newFlagSet("export")}
	c.target.register(c.fs, r.config.Root)
	c.fs.StringVar(&c.output, "output", "", "PNG file to write")
	c.fs.Float64Var(&c.zoom, "zoom", 1, "zoom factor of the exported image")
	c.fs.Float64Var(&c.transparency, "transparency", r.config.Transparency, "mask opacity in [0,1]")
	c.fs.BoolVar(&c.toClipboard, "clipboard", false, "copy the image to the clipboard instead of writing a file")
	if err := parseFlags(c, args); err != nil {
		return nil, err
	}
	if c.target.file == "" {
		return nil, &UsageError{of: c, msg: "-file is required"}
	}
	if c.output == "" && !c.toClipboard {
		return nil, &UsageError{of: c, msg: "either -output or -clipboard is required"}
	}
	if c.zoom <= 0 {
		return nil, &UsageError{of: c, msg: "-zoom must be positive"}
	}
	return c, nil
}

func (c *exportCmd) Run() error {
	sel, err := c.target.selection(c.config.Objects)
	if err != nil {
		return err
	}
	opts := append(c.sessionOptions(session.Listeners{}), session.WithTransparency(c.transparency))
	s, err := session.Open(sel, opts...)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", sel.File, err)
	}
	img := s.Snapshot(c.zoom)
	if img.Bounds().Empty() {
		return fmt.Errorf("nothing to export for %s", sel.File)
	}

	if c.toClipboard {
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		c.notifier.Copy(sel.File, img)
		c.logger.Info("export copied to clipboard", "file", sel.File, "object", s.ObjectName())
		return nil
	}

	f, err := os.Create(c.output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.output, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode %s: %w", c.output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.output, err)
	}
	c.logger.Info("export written", "path", c.output, "object", s.ObjectName(), "zoom", c.zoom)
	fmt.Fprintln(c.out(), c.output)
	return nil
}
