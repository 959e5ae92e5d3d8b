package editor

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNotFound is returned when an operation targets an id which is not live.
var ErrNotFound = errors.New("element not found")

// ErrSingleSelection is returned by layer operations invoked on anything but exactly one element.
var ErrSingleSelection = errors.New("layer operations need a single selected element")

// LayerOp moves an element along the z-order.
type LayerOp int

const (
	BringToFront LayerOp = iota
	BringForward
	SendBackward
	SendToBack
)

func (op LayerOp) String() string {
	switch op {
	case BringToFront:
		return "front"
	case BringForward:
		return "forward"
	case SendBackward:
		return "backward"
	case SendToBack:
		return "back"
	}
	return fmt.Sprintf("LayerOp(%d)", int(op))
}

// ParseLayerOp converts the names returned by LayerOp.String back to the operation.
func ParseLayerOp(name string) (LayerOp, error) {
	for op := BringToFront; op <= SendToBack; op++ {
		if op.String() == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown layer operation %q", name)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithHistoryLimit caps the number of undo steps. Zero keeps every snapshot.
func WithHistoryLimit(n int) StoreOption {
	return func(s *Store) { s.history = NewHistory(n) }
}

// Store owns the committed element list, its history and the selection set.
// The working list is always the history's current snapshot.
type Store struct {
	ids      IDGenerator
	history  *History
	elems    []*Element
	selected []string
}

// NewStore creates an empty document. The id generator is mandatory: the store
// never falls back to hidden global state for identifiers.
func NewStore(ids IDGenerator, opts ...StoreOption) *Store {
	if ids == nil {
		panic("editor: NewStore requires an IDGenerator")
	}
	s := &Store{ids: ids, history: NewHistory(0)}
	for _, opt := range opts {
		opt(s)
	}
	s.elems = s.history.Current()
	return s
}

// NextID returns a fresh element id.
func (s *Store) NextID() string { return s.ids.NextID() }

// Len returns the number of live elements.
func (s *Store) Len() int { return len(s.elems) }

// Elements returns a deep copy of the committed list in z-order.
func (s *Store) Elements() []Element {
	out := make([]Element, len(s.elems))
	for i, e := range s.elems {
		out[i] = *e.clone()
	}
	return out
}

// snapshot exposes the committed list without copying. Callers must treat it as read only.
func (s *Store) snapshot() []*Element { return s.elems }

// Element returns a copy of the element with the given id.
func (s *Store) Element(id string) (Element, bool) {
	if i := s.index(id); i >= 0 {
		return *s.elems[i].clone(), true
	}
	return Element{}, false
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.elems, func(e *Element) bool { return e.ID == id })
}

// Commit replaces the working list with elems and records a snapshot.
// Elements without an id get one from the generator.
func (s *Store) Commit(elems []Element) error {
	list := make([]*Element, len(elems))
	for i := range elems {
		e := elems[i]
		if e.ID == "" {
			e.ID = s.ids.NextID()
		}
		list[i] = &e
	}
	return s.commit(list)
}

func (s *Store) commit(list []*Element) error {
	snap, err := s.history.Commit(list)
	if err != nil {
		return err
	}
	s.elems = snap
	s.pruneSelection()
	logger().Debug("editor commit", "elements", len(snap), "cursor", s.history.Cursor())
	return nil
}

// Add appends an element on top of the z-order and commits. It returns the element id.
func (s *Store) Add(e Element) (string, error) {
	if e.ID == "" {
		e.ID = s.ids.NextID()
	}
	if s.index(e.ID) >= 0 {
		return "", fmt.Errorf("%w: %q", ErrDuplicateID, e.ID)
	}
	list := append(slices.Clone(s.elems), &e)
	if err := s.commit(list); err != nil {
		return "", err
	}
	return e.ID, nil
}

// Update applies fn to a copy of every listed, unlocked element and commits once.
// It reports whether anything changed.
func (s *Store) Update(ids []string, fn func(*Element)) (bool, error) {
	return s.update(ids, true, fn)
}

func (s *Store) update(ids []string, skipLocked bool, fn func(*Element)) (bool, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	list := slices.Clone(s.elems)
	changed := false
	for i, e := range list {
		if !want[e.ID] || (skipLocked && e.Locked) {
			continue
		}
		c := e.clone()
		fn(c)
		c.ID = e.ID
		if !equalElements(e, c) {
			list[i] = c
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	return true, s.commit(list)
}

// Delete removes the listed elements, locked ones excepted, and commits.
// It returns the number of removed elements.
func (s *Store) Delete(ids []string) (int, error) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	list := make([]*Element, 0, len(s.elems))
	for _, e := range s.elems {
		if drop[e.ID] && !e.Locked {
			continue
		}
		list = append(list, e)
	}
	n := len(s.elems) - len(list)
	if n == 0 {
		return 0, nil
	}
	return n, s.commit(list)
}

// duplicateOffset is the distance applied to duplicated elements.
const duplicateOffset = 10

// Duplicate copies the listed elements on top of the z-order, offset slightly,
// selects the copies and commits. It returns the new ids.
func (s *Store) Duplicate(ids []string) ([]string, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	list := slices.Clone(s.elems)
	var created []string
	for _, e := range s.elems {
		if !want[e.ID] {
			continue
		}
		c := e.clone()
		c.ID = s.ids.NextID()
		c.Locked = false
		sh, err := Translate(c.Shape, duplicateOffset, duplicateOffset)
		if err != nil {
			return nil, err
		}
		c.Shape = sh
		list = append(list, c)
		created = append(created, c.ID)
	}
	if len(created) == 0 {
		return nil, nil
	}
	if err := s.commit(list); err != nil {
		return nil, err
	}
	s.selected = slices.Clone(created)
	return created, nil
}

// Reorder moves one element along the z-order and always commits a snapshot,
// even when the element already sits at the requested boundary.
func (s *Store) Reorder(id string, op LayerOp) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	list := slices.Clone(s.elems)
	e := list[i]
	last := len(list) - 1

	switch op {
	case BringToFront:
		list = append(slices.Delete(list, i, i+1), e)
	case SendToBack:
		list = slices.Insert(slices.Delete(list, i, i+1), 0, e)
	case BringForward:
		if i < last {
			list[i], list[i+1] = list[i+1], list[i]
		}
	case SendBackward:
		if i > 0 {
			list[i], list[i-1] = list[i-1], list[i]
		}
	default:
		return fmt.Errorf("unknown layer operation %v", op)
	}
	return s.commit(list)
}

// ReorderSelection applies op to the selection, which must hold exactly one element.
func (s *Store) ReorderSelection(op LayerOp) error {
	if len(s.selected) != 1 {
		return ErrSingleSelection
	}
	return s.Reorder(s.selected[0], op)
}

// SetVisible shows or hides the listed elements, locked ones included.
func (s *Store) SetVisible(ids []string, visible bool) (bool, error) {
	return s.update(ids, false, func(e *Element) { e.Visible = visible })
}

// SetLocked locks or unlocks the listed elements.
func (s *Store) SetLocked(ids []string, locked bool) (bool, error) {
	return s.update(ids, false, func(e *Element) { e.Locked = locked })
}

// Undo restores the previous snapshot. It reports false at the start boundary.
func (s *Store) Undo() bool {
	snap, ok := s.history.Undo()
	if ok {
		s.elems = snap
		s.pruneSelection()
	}
	return ok
}

// Redo restores the next snapshot. It reports false at the tip.
func (s *Store) Redo() bool {
	snap, ok := s.history.Redo()
	if ok {
		s.elems = snap
		s.pruneSelection()
	}
	return ok
}

func (s *Store) CanUndo() bool { return s.history.CanUndo() }
func (s *Store) CanRedo() bool { return s.history.CanRedo() }

// History gives read access to the snapshot buffer.
func (s *Store) History() *History { return s.history }

// Selection returns the selected ids in selection order.
func (s *Store) Selection() []string { return slices.Clone(s.selected) }

// IsSelected reports whether id is part of the selection.
func (s *Store) IsSelected(id string) bool { return slices.Contains(s.selected, id) }

// Select replaces the selection. Unknown ids are ignored.
func (s *Store) Select(ids ...string) {
	s.selected = nil
	for _, id := range ids {
		if s.index(id) >= 0 && !slices.Contains(s.selected, id) {
			s.selected = append(s.selected, id)
		}
	}
}

// Toggle adds id to the selection or removes it when already selected.
func (s *Store) Toggle(id string) {
	if i := slices.Index(s.selected, id); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
		return
	}
	if s.index(id) >= 0 {
		s.selected = append(s.selected, id)
	}
}

// SelectAll selects every visible element.
func (s *Store) SelectAll() {
	s.selected = nil
	for _, e := range s.elems {
		if e.Visible {
			s.selected = append(s.selected, e.ID)
		}
	}
}

// ClearSelection empties the selection.
func (s *Store) ClearSelection() { s.selected = nil }

// pruneSelection drops ids which are no longer live.
func (s *Store) pruneSelection() {
	s.selected = slices.DeleteFunc(s.selected, func(id string) bool { return s.index(id) < 0 })
}

// BringToFront moves the element to the top of the z-order.
func (s *Store) BringToFront(id string) error { return s.Reorder(id, BringToFront) }

// BringForward swaps the element with the one above it.
func (s *Store) BringForward(id string) error { return s.Reorder(id, BringForward) }

// SendBackward swaps the element with the one below it.
func (s *Store) SendBackward(id string) error { return s.Reorder(id, SendBackward) }

// SendToBack moves the element to the bottom of the z-order.
func (s *Store) SendToBack(id string) error { return s.Reorder(id, SendToBack) }
