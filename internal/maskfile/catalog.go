package maskfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ImageExtensions are the file extensions treated as base images.
var ImageExtensions = []string{
	".jpg", ".png", ".bmp", ".jpeg", ".tif", ".gif", ".tiff",
	".pbm", ".pgm", ".ppm", ".xbm", ".xpm",
}

// IsImage reports whether name has an image extension and is not a mask.
func IsImage(name string) bool {
	if IsMask(name) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Directory is one catalog entry: a directory relative to the root and
// its image files.
type Directory struct {
	Rel   string
	Files []string
}

// Catalog is the sorted list of directories under a root that hold images.
type Catalog struct {
	Root string
	Dirs []Directory
}

// Scan walks root breadth first and collects every directory with images.
// Directories and files are sorted by name.
func Scan(root string) (*Catalog, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to scan %s: not a directory", root)
	}

	var dirs []Directory
	queue := []string{"."}
	for len(queue) > 0 {
		rel := queue[0]
		queue = queue[1:]
		entries, err := os.ReadDir(filepath.Join(root, rel))
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", filepath.Join(root, rel), err)
		}
		var files []string
		for _, e := range entries {
			if e.IsDir() {
				queue = append(queue, filepath.Join(rel, e.Name()))
				continue
			}
			if IsImage(e.Name()) {
				files = append(files, e.Name())
			}
		}
		if len(files) == 0 {
			continue
		}
		sort.Strings(files)
		dirs = append(dirs, Directory{Rel: rel, Files: files})
	}
	sort.SliceStable(dirs, func(i, j int) bool { return dirs[i].Rel < dirs[j].Rel })
	return &Catalog{Root: root, Dirs: dirs}, nil
}

// Len returns the total number of image files.
func (c *Catalog) Len() int {
	n := 0
	for _, d := range c.Dirs {
		n += len(d.Files)
	}
	return n
}

// Path joins a catalog entry into a file system path.
func (c *Catalog) Path(rel, file string) string {
	return filepath.Join(c.Root, rel, file)
}

// First returns the first file of the catalog.
func (c *Catalog) First() (rel, file string, ok bool) {
	if len(c.Dirs) == 0 {
		return "", "", false
	}
	return c.Dirs[0].Rel, c.Dirs[0].Files[0], true
}

// Find returns the position of a file. A directory without a file name
// resolves to its first file.
func (c *Catalog) Find(rel, file string) (dirIdx, fileIdx int, ok bool) {
	for i, d := range c.Dirs {
		if d.Rel != rel {
			continue
		}
		if file == "" {
			return i, 0, true
		}
		for j, f := range d.Files {
			if f == file {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// Next returns the file after (rel, file), moving into the next directory
// after the last file. It stays on the last file of the catalog.
func (c *Catalog) Next(rel, file string) (string, string, bool) {
	return c.step(rel, file, 1)
}

// Prev returns the file before (rel, file), moving to the end of the
// previous directory before the first file. It stays on the first file of
// the catalog.
func (c *Catalog) Prev(rel, file string) (string, string, bool) {
	return c.step(rel, file, -1)
}

func (c *Catalog) step(rel, file string, delta int) (string, string, bool) {
	di, fi, ok := c.Find(rel, file)
	if !ok {
		return "", "", false
	}
	fi += delta
	switch {
	case fi < 0:
		if di > 0 {
			di--
			fi = len(c.Dirs[di].Files) - 1
		} else {
			fi = 0
		}
	case fi >= len(c.Dirs[di].Files):
		if di < len(c.Dirs)-1 {
			di++
			fi = 0
		} else {
			fi = len(c.Dirs[di].Files) - 1
		}
	}
	d := c.Dirs[di]
	return d.Rel, d.Files[fi], true
}
