package stroke

import "sort"

// DefaultSizes are the brush widths offered when no configuration
// overrides them.
var DefaultSizes = Sizes{1, 3, 5, 7, 9, 11, 13, 15, 18, 20, 25, 30, 50, 100}

// DefaultSizeIndex selects the initial brush.
const DefaultSizeIndex = 1

// Sizes is an ordered list of allowed brush widths.
type Sizes []int

// Clamp limits idx to the valid index range.
func (s Sizes) Clamp(idx int) int {
	if len(s) == 0 || idx < 0 {
		return 0
	}
	if idx >= len(s) {
		return len(s) - 1
	}
	return idx
}

// At returns the width at idx after clamping, or 1 for an empty list.
func (s Sizes) At(idx int) int {
	if len(s) == 0 {
		return 1
	}
	return s[s.Clamp(idx)]
}

// Step moves idx by delta and clamps the result.
func (s Sizes) Step(idx, delta int) int { return s.Clamp(idx + delta) }

// Index returns the index of the smallest size that is at least width.
func (s Sizes) Index(width int) int {
	i := sort.SearchInts(s, width)
	return s.Clamp(i)
}

// Normalize sorts the sizes and drops duplicates and non-positive values.
func (s Sizes) Normalize() Sizes {
	out := make(Sizes, 0, len(s))
	for _, v := range s {
		if v > 0 {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	uniq := make(Sizes, 0, len(out))
	for _, v := range out {
		if len(uniq) == 0 || uniq[len(uniq)-1] != v {
			uniq = append(uniq, v)
		}
	}
	return uniq
}

// Brush is the pen configuration chosen by the user.
type Brush struct {
	Width     int
	Confident bool
}

// DefaultBrush returns the brush used before the user picks one.
func DefaultBrush() Brush {
	return Brush{Width: DefaultSizes.At(DefaultSizeIndex), Confident: true}
}
