package main

import (
	"flag"
	"fmt"
	"image"

	"github.com/example/maskannotate/internal/appstate"
	"github.com/example/maskannotate/internal/clipboard"
	"github.com/example/maskannotate/internal/maskfile"
	"github.com/example/maskannotate/internal/session"
)

// editCmd opens the interactive editor on an image tree.
type editCmd struct {
	*root
	fs     *flag.FlagSet
	dir    string
	file   string
	object string
	path   string
}

func (e *editCmd) FlagSet() *flag.FlagSet { return e.fs }

func (e *editCmd) Program() string { return e.subcommand("edit") }

func (e *editCmd) Template() string { return "edit.txt" }

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	e := &editCmd{root: r, fs: newFlagSet("edit")}
	e.fs.StringVar(&e.dir, "dir", ".", "directory of the first image, relative to the root")
	e.fs.StringVar(&e.file, "file", "", "first image to open (default: first image of the tree)")
	e.fs.StringVar(&e.object, "object", "0", "object type, by index or name")
	if err := parseFlags(e, args); err != nil {
		return nil, err
	}
	switch e.fs.NArg() {
	case 0:
		e.path = r.config.Root
		if e.path == "" {
			e.path = "."
		}
	case 1:
		e.path = e.fs.Arg(0)
	default:
		return nil, &UsageError{of: e, msg: "at most one root directory may be given"}
	}
	return e, nil
}

func (e *editCmd) Run() error {
	cat, err := maskfile.Scan(e.path)
	if err != nil {
		return err
	}
	if cat.Len() == 0 {
		return fmt.Errorf("no images found under %s", e.path)
	}
	idx, err := resolveObject(e.config.Objects, e.object)
	if err != nil {
		return err
	}
	sel := session.Selection{Root: e.path, ObjectType: idx}
	if e.file != "" {
		sel.Dir, sel.File = e.dir, e.file
	}

	st := appstate.New(
		appstate.WithCatalog(cat),
		appstate.WithSelection(sel),
		appstate.WithSessionOptions(e.config.SessionOptions()...),
		appstate.WithTheme(e.activeTheme),
		appstate.WithLogger(e.logger),
		appstate.WithClipboard(clipboard.WriteImage),
		appstate.WithOnCopy(func(img image.Image) { e.notifier.Copy("view", img) }),
		appstate.WithOnSave(e.notifier.Save),
		appstate.WithOnError(e.notifier.Error),
		appstate.WithOnClose(func() { e.logger.Debug("editor closed") }),
	)
	return st.Run()
}
