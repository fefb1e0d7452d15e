package history

import (
	"image"
	"testing"

	"github.com/example/maskannotate/internal/mask"
)

func snap(tag int) *image.Paletted {
	p := mask.NewIndexed(image.Pt(4, 1))
	for x := 0; x < 4 && x < tag; x++ {
		p.SetColorIndex(x, 0, uint8(mask.ConfidentObject))
	}
	return p
}

func TestRecordGrowsUntilDepth(t *testing.T) {
	h := New(DefaultDepth)
	h.Reset(snap(0))
	for i := 1; i <= 4; i++ {
		h.Record(snap(i))
		if h.Len() != i+1 {
			t.Fatalf("after %d records len = %d", i, h.Len())
		}
		if h.Cursor() != 0 {
			t.Fatalf("cursor = %d, want 0", h.Cursor())
		}
	}
	for i := 0; i < DefaultDepth+3; i++ {
		h.Record(snap(i))
	}
	if h.Len() != DefaultDepth {
		t.Fatalf("len = %d, want cap %d", h.Len(), DefaultDepth)
	}
}

func TestUndoThenRedoRestores(t *testing.T) {
	h := New(5)
	a, b, c := snap(1), snap(2), snap(3)
	h.Reset(a)
	h.Record(b)
	h.Record(c)

	got, ok := h.Undo()
	if !ok || got != b {
		t.Fatalf("undo = %p,%v want b", got, ok)
	}
	got, ok = h.Redo()
	if !ok || got != c {
		t.Fatalf("redo = %p,%v want c", got, ok)
	}
	if h.Current() != c || h.CanRedo() {
		t.Fatal("redo did not return to newest")
	}
}

func TestRecordAfterUndoDropsRedo(t *testing.T) {
	h := New(5)
	a, b, c, d := snap(1), snap(2), snap(3), snap(4)
	h.Reset(a)
	h.Record(b)
	h.Record(c)
	h.Undo()
	h.Undo()
	if !h.CanRedo() {
		t.Fatal("expected redo after undo")
	}
	h.Record(d)
	if h.CanRedo() {
		t.Fatal("redo survived a new record")
	}
	if h.Len() != 2 || h.Current() != d {
		t.Fatalf("len = %d current = %p", h.Len(), h.Current())
	}
	if got, _ := h.Undo(); got != a {
		t.Fatal("expected a behind d")
	}
}

func TestBoundaries(t *testing.T) {
	h := New(3)
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("empty history offers undo/redo")
	}
	if _, ok := h.Undo(); ok {
		t.Fatal("undo on empty history")
	}
	h.Reset(snap(0))
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("single entry offers undo/redo")
	}
	h.Record(snap(1))
	h.Undo()
	if h.CanUndo() {
		t.Fatal("undo past oldest entry")
	}
	if _, ok := h.Undo(); ok {
		t.Fatal("undo beyond oldest succeeded")
	}
	if h.Cursor() != 1 {
		t.Fatalf("cursor = %d", h.Cursor())
	}
}

func TestDepthBelowOne(t *testing.T) {
	h := New(0)
	h.Reset(snap(0))
	h.Record(snap(1))
	if h.Len() != 1 || h.CanUndo() {
		t.Fatalf("len = %d", h.Len())
	}
}

func TestResetClearsEntries(t *testing.T) {
	h := New(4)
	h.Reset(snap(0))
	h.Record(snap(1))
	h.Record(snap(2))
	h.Undo()
	seed := snap(3)
	h.Reset(seed)
	if h.Len() != 1 || h.Cursor() != 0 || h.Current() != seed {
		t.Fatal("reset did not leave a sole entry")
	}
}
