package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/maskannotate/internal/session"
)

// target is the root/dir/file/object triple shared by the headless
// commands.
type target struct {
	root   string
	dir    string
	file   string
	object string
}

func (t *target) register(fs *flag.FlagSet, defaultRoot string) {
	if defaultRoot == "" {
		defaultRoot = "."
	}
	fs.StringVar(&t.root, "root", defaultRoot, "root directory of the image tree")
	fs.StringVar(&t.dir, "dir", ".", "directory of the image, relative to the root")
	fs.StringVar(&t.file, "file", "", "image file name")
	fs.StringVar(&t.object, "object", "0", "object type, by index or name")
}

// selection resolves the triple against the configured object types.
func (t *target) selection(types []string) (session.Selection, error) {
	if t.file == "" {
		return session.Selection{}, fmt.Errorf("an image file is required")
	}
	idx, err := resolveObject(types, t.object)
	if err != nil {
		return session.Selection{}, err
	}
	return session.Selection{Root: t.root, Dir: t.dir, File: t.file, ObjectType: idx}, nil
}

// resolveObject accepts an object type index or a case-insensitive name.
func resolveObject(types []string, s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= len(types) {
			return 0, fmt.Errorf("object type %d out of range [0,%d)", n, len(types))
		}
		return n, nil
	}
	for i, name := range types {
		if strings.EqualFold(name, s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown object type %q", s)
}

// sessionOptions are the options every command opens sessions with. The
// hooks in extra run after the notifier.
func (r *root) sessionOptions(extra session.Listeners) []session.Option {
	opts := r.config.SessionOptions()
	opts = append(opts,
		session.WithLogger(r.logger),
		session.WithCompositor(r.activeTheme.Compositor()),
		session.WithListeners(session.Listeners{
			Saved: func(path string) {
				r.notifier.Save(path)
				if extra.Saved != nil {
					extra.Saved(path)
				}
			},
			Error: func(err error) {
				r.notifier.Error(err)
				if extra.Error != nil {
					extra.Error(err)
				}
			},
		}),
	)
	return opts
}
