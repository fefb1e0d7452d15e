// Package maskfile names, discovers and persists the per-object mask files
// that sit next to each annotated image.
package maskfile

import (
	"os"
	"sort"
	"strconv"
	"strings"
)

// DefaultTypes are the object types offered when no configuration
// overrides them. A type's index is its identity in the registry.
var DefaultTypes = []string{
	"microaneurysms",
	"exudates",
	"hemorrhages",
	"cotton wool spots",
	"venous beading",
	"neovascularization",
	"IMRA",
	"hemorrhages spot",
	"artery",
	"vein",
}

const (
	maskInfix  = ".mask."
	maskSuffix = ".png"
)

// Basename strips an image file name down to the stem its masks share:
// ".image." collapses to "." and the last extension is dropped.
func Basename(imageFile string) string {
	name := strings.ReplaceAll(imageFile, ".image.", ".")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}

// FileName returns the mask file name for an object type of an image.
func FileName(imageFile, typeName string) string {
	return Basename(imageFile) + maskInfix + typeName + maskSuffix
}

// IsMask reports whether a file name looks like a mask rather than an image.
func IsMask(name string) bool {
	return strings.Contains(name, maskInfix)
}

// Less orders mask file names: by the part before the last three
// dot-separated sections, then by the numeric second-to-last section.
// Names whose suffix is not a non-negative number sort last.
func Less(a, b string) bool {
	fa, fb := front(a), front(b)
	if fa != fb {
		return fa < fb
	}
	na, errA := strconv.Atoi(section(a, 2))
	nb, errB := strconv.Atoi(section(b, 2))
	if errA != nil || na < 0 {
		return false
	}
	if errB != nil || nb < 0 {
		return true
	}
	return na < nb
}

func front(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) <= 3 {
		return ""
	}
	return strings.Join(parts[:len(parts)-3], ".")
}

// section returns the n-th dot-separated section counting from the end, 1
// being the last.
func section(name string, n int) string {
	parts := strings.Split(name, ".")
	if len(parts) < n {
		return ""
	}
	return parts[len(parts)-n]
}

// ListMaskFiles returns the mask files of imageFile found in dir, ordered
// with Less.
func ListMaskFiles(dir, imageFile string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	prefix := Basename(imageFile) + maskInfix
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(strings.ToLower(name), maskSuffix) {
			files = append(files, name)
		}
	}
	sort.SliceStable(files, func(i, j int) bool { return Less(files[i], files[j]) })
	return files, nil
}

// Registry maps object-type index to the mask file registered for it.
type Registry map[int]string

// BuildRegistry matches mask files to object types by substring. Each file
// goes to the first type whose name it contains; a later file replaces an
// earlier one for the same type. Type names that are substrings of others
// ("hemorrhages" and "hemorrhages spot") therefore resolve by list order.
func BuildRegistry(files, types []string) Registry {
	reg := Registry{}
	for _, f := range files {
		for i, t := range types {
			if t != "" && strings.Contains(f, t) {
				reg[i] = f
				break
			}
		}
	}
	return reg
}
