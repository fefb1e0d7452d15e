// Package history keeps a bounded undo/redo list of saved mask snapshots.
//
// Entries are ordered newest first. The cursor marks the snapshot that is
// currently on disk; undo moves it towards older entries and redo back
// towards newer ones. Recording a new snapshot discards everything newer
// than the cursor.
package history

import "image"

// DefaultDepth is the number of snapshots kept when no depth is configured.
const DefaultDepth = 10

// History is a bounded, cursor-addressed list of indexed mask snapshots.
// Snapshots are treated as immutable once recorded.
type History struct {
	entries []*image.Paletted
	cursor  int
	depth   int
}

// New returns an empty history holding at most depth entries. A depth below
// one keeps a single entry.
func New(depth int) *History {
	if depth < 1 {
		depth = 1
	}
	return &History{depth: depth}
}

// Depth returns the maximum number of entries.
func (h *History) Depth() int { return h.depth }

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the index of the current entry, 0 being the newest.
func (h *History) Cursor() int { return h.cursor }

// Current returns the snapshot under the cursor, or nil when empty.
func (h *History) Current() *image.Paletted {
	if len(h.entries) == 0 {
		return nil
	}
	return h.entries[h.cursor]
}

// Reset makes seed the sole entry.
func (h *History) Reset(seed *image.Paletted) {
	h.entries = append(h.entries[:0], seed)
	h.cursor = 0
}

// Record pushes s as the newest entry. Entries newer than the cursor are
// discarded and the oldest entries are trimmed to the depth.
func (h *History) Record(s *image.Paletted) {
	kept := h.entries[h.cursor:]
	if len(h.entries) == 0 {
		kept = nil
	}
	entries := make([]*image.Paletted, 0, h.depth)
	entries = append(entries, s)
	for _, e := range kept {
		if len(entries) == h.depth {
			break
		}
		entries = append(entries, e)
	}
	h.entries = entries
	h.cursor = 0
}

// CanUndo reports whether an older snapshot exists.
func (h *History) CanUndo() bool {
	return h.cursor+1 < len(h.entries) && len(h.entries) > 1
}

// CanRedo reports whether a newer snapshot exists.
func (h *History) CanRedo() bool {
	return h.cursor > 0 && len(h.entries) > 1
}

// Undo moves the cursor one entry older and returns that snapshot.
func (h *History) Undo() (*image.Paletted, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Redo moves the cursor one entry newer and returns that snapshot.
func (h *History) Redo() (*image.Paletted, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}
