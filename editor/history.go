package editor

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is returned when a committed list holds the same id twice.
var ErrDuplicateID = errors.New("duplicate element id")

// History is a linear undo/redo buffer of document snapshots.
//
// Snapshots are slices of pointers to immutable elements. An element which is
// left untouched by a commit is shared with the previous snapshot instead of
// being copied, so a snapshot only costs one pointer per unchanged element.
type History struct {
	snapshots [][]*Element
	cursor    int
	limit     int
}

// NewHistory creates a history holding the empty document as its first snapshot.
// limit caps the number of undo steps kept; zero means unlimited.
func NewHistory(limit int) *History {
	return &History{
		snapshots: [][]*Element{{}},
		limit:     limit,
	}
}

// Current returns the snapshot under the cursor. The slice must not be modified.
func (h *History) Current() []*Element {
	return h.snapshots[h.cursor]
}

// Commit pushes a new snapshot built from elems and makes it current.
// Any redo branch past the cursor is discarded. Elements holding a nil or
// unknown shape are rejected with ErrUnknownShape and nothing changes.
func (h *History) Commit(elems []*Element) ([]*Element, error) {
	prev := make(map[string]*Element, len(h.snapshots[h.cursor]))
	for _, e := range h.snapshots[h.cursor] {
		prev[e.ID] = e
	}

	seen := make(map[string]struct{}, len(elems))
	snap := make([]*Element, len(elems))
	for i, e := range elems {
		if e == nil {
			return nil, fmt.Errorf("nil element at index %d", i)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, e.ID)
		}
		if _, err := Bounds(e.Shape); err != nil {
			return nil, fmt.Errorf("element %q: %w", e.ID, err)
		}
		seen[e.ID] = struct{}{}

		if old, ok := prev[e.ID]; ok && equalElements(old, e) {
			snap[i] = old
		} else {
			snap[i] = e.clone()
		}
	}

	// Truncate the redo branch. The backing array is reused, which is fine
	// since nothing references the discarded snapshots any more.
	h.snapshots = append(h.snapshots[:h.cursor+1], snap)
	h.cursor++

	if h.limit > 0 && len(h.snapshots) > h.limit+1 {
		drop := len(h.snapshots) - (h.limit + 1)
		h.snapshots = append([][]*Element(nil), h.snapshots[drop:]...)
		h.cursor -= drop
	}
	return snap, nil
}

// Undo moves the cursor one snapshot back. It reports false at the start boundary.
func (h *History) Undo() ([]*Element, bool) {
	if h.cursor == 0 {
		return h.snapshots[0], false
	}
	h.cursor--
	return h.snapshots[h.cursor], true
}

// Redo moves the cursor one snapshot forward. It reports false at the tip.
func (h *History) Redo() ([]*Element, bool) {
	if h.cursor == len(h.snapshots)-1 {
		return h.snapshots[h.cursor], false
	}
	h.cursor++
	return h.snapshots[h.cursor], true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

// Len returns the number of snapshots, the initial one included.
func (h *History) Len() int { return len(h.snapshots) }

// Cursor returns the index of the current snapshot.
func (h *History) Cursor() int { return h.cursor }
