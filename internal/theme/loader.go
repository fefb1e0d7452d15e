package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Loader handles loading themes from various sources.
type Loader struct {
	// Extra holds themes defined inline in the configuration file.
	Extra map[string]*Theme
}

// NewLoader creates a new Loader with the given inline themes.
func NewLoader(extra map[string]*Theme) *Loader {
	return &Loader{Extra: extra}
}

// Load attempts to load a theme by name or path.
// Order:
// 1. If it's a file path that exists, load it.
// 2. Check inline configuration themes.
// 3. Check built-in themes.
// 4. Check the XDG config and data directories.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}

	// 1. File path
	if _, err := os.Stat(name); err == nil {
		return parseFile(name)
	}

	// 2. Inline
	if t, ok := l.Extra[name]; ok {
		return t, nil
	}

	// 3. Built-in
	if t, ok := Builtin(name); ok {
		return t, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}
	rel := filepath.Join("maskannotate", "themes", filename)

	// 4. XDG directories
	if p, err := xdg.SearchConfigFile(rel); err == nil {
		return parseFile(p)
	}
	if p, err := xdg.SearchDataFile(rel); err == nil {
		return parseFile(p)
	}

	return nil, fmt.Errorf("theme '%s' not found", name)
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
