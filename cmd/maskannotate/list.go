package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/example/maskannotate/internal/maskfile"
)

// listCmd prints the image catalog and, per image, its mask registry.
type listCmd struct {
	*root
	fs    *flag.FlagSet
	masks bool
	path  string
}

func (c *listCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *listCmd) Program() string { return c.subcommand("list") }

func (c *listCmd) Template() string { return "list.txt" }

func parseListCmd(args []string, r *root) (*listCmd, error) {
	c := &listCmd{root: r, fs: newFlagSet("list")}
	c.fs.BoolVar(&c.masks, "masks", true, "show the mask files registered for each image")
	if err := parseFlags(c, args); err != nil {
		return nil, err
	}
	switch c.fs.NArg() {
	case 0:
		c.path = r.config.Root
		if c.path == "" {
			c.path = "."
		}
	case 1:
		c.path = c.fs.Arg(0)
	default:
		return nil, &UsageError{of: c, msg: "at most one root directory may be given"}
	}
	return c, nil
}

func (c *listCmd) Run() error {
	cat, err := maskfile.Scan(c.path)
	if err != nil {
		return err
	}
	out := c.out()
	if cat.Len() == 0 {
		fmt.Fprintf(out, "no images under %s\n", c.path)
		return nil
	}
	for _, d := range cat.Dirs {
		fmt.Fprintf(out, "%s/\n", d.Rel)
		for _, file := range d.Files {
			fmt.Fprintf(out, "  %s\n", file)
			if !c.masks {
				continue
			}
			files, err := maskfile.ListMaskFiles(filepath.Join(cat.Root, d.Rel), file)
			if err != nil {
				c.logger.Warn("failed to list masks", "dir", d.Rel, "file", file, "error", err)
				continue
			}
			reg := maskfile.BuildRegistry(files, c.config.Objects)
			ids := make([]int, 0, len(reg))
			for id := range reg {
				ids = append(ids, id)
			}
			sort.Ints(ids)
			for _, id := range ids {
				fmt.Fprintf(out, "    %d %-20s %s\n", id, c.config.Objects[id], reg[id])
			}
		}
	}
	return nil
}

// objectsCmd prints the configured object types.
type objectsCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *objectsCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *objectsCmd) Program() string { return c.subcommand("objects") }

func (c *objectsCmd) Template() string { return "objects.txt" }

func parseObjectsCmd(args []string, r *root) (*objectsCmd, error) {
	c := &objectsCmd{root: r, fs: newFlagSet("objects")}
	if err := parseFlags(c, args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *objectsCmd) Run() error {
	for i, name := range c.config.Objects {
		fmt.Fprintf(c.out(), "%d %s\n", i, name)
	}
	return nil
}

// brushesCmd prints the allowed brush widths, marking the default.
type brushesCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *brushesCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *brushesCmd) Program() string { return c.subcommand("brushes") }

func (c *brushesCmd) Template() string { return "brushes.txt" }

func parseBrushesCmd(args []string, r *root) (*brushesCmd, error) {
	c := &brushesCmd{root: r, fs: newFlagSet("brushes")}
	if err := parseFlags(c, args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *brushesCmd) Run() error {
	def := c.config.Brushes.Clamp(c.config.BrushIndex)
	for i, w := range c.config.Brushes {
		marker := " "
		if i == def {
			marker = "*"
		}
		fmt.Fprintf(c.out(), "%s %d: %dpx\n", marker, i+1, w)
	}
	return nil
}
