package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T, n int) (*Store, []string) {
	t.Helper()
	s := NewStore(NewSequence("el"))
	ids := make([]string, n)
	for i := range ids {
		id, err := s.Add(*rectElem("", float64(i*20)))
		assert.NoError(t, err)
		ids[i] = id
	}
	return s, ids
}

func order(s *Store) []string {
	var ids []string
	for _, e := range s.Elements() {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestStore_AddAssignsIDs(t *testing.T) {
	s, ids := newTestStore(t, 3)
	assert.Equal(t, []string{"el-1", "el-2", "el-3"}, ids)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 4, s.History().Len())
}

func TestStore_AddDuplicateID(t *testing.T) {
	s, ids := newTestStore(t, 1)
	_, err := s.Add(*rectElem(ids[0], 0))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestStore_ElementsAreCopies(t *testing.T) {
	s := NewStore(NewSequence("el"))
	id, _ := s.Add(Element{Visible: true, Shape: Path{Points: []Point{{0, 0}, {5, 5}}}})

	elems := s.Elements()
	elems[0].Shape.(Path).Points[0] = Point{99, 99}

	e, ok := s.Element(id)
	assert.True(t, ok)
	assert.Equal(t, Point{0, 0}, e.Shape.(Path).Points[0])
}

func TestStore_UpdateSkipsLocked(t *testing.T) {
	s, ids := newTestStore(t, 2)
	_, err := s.SetLocked(ids[:1], true)
	assert.NoError(t, err)

	changed, err := s.Update(ids, func(e *Element) { e.Style.Fill = "#ff0000" })
	assert.NoError(t, err)
	assert.True(t, changed)

	a, _ := s.Element(ids[0])
	b, _ := s.Element(ids[1])
	assert.Equal(t, DefaultStyle.Fill, a.Style.Fill)
	assert.Equal(t, "#ff0000", b.Style.Fill)
}

func TestStore_UpdateWithoutChangeDoesNotCommit(t *testing.T) {
	s, ids := newTestStore(t, 1)
	before := s.History().Len()
	changed, err := s.Update(ids, func(e *Element) {})
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, s.History().Len())
}

func TestStore_DeletePrunesSelection(t *testing.T) {
	s, ids := newTestStore(t, 3)
	s.Select(ids[0], ids[1])
	n, err := s.Delete([]string{ids[0]})
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{ids[1]}, s.Selection())
}

func TestStore_DeleteLocked(t *testing.T) {
	s, ids := newTestStore(t, 1)
	s.SetLocked(ids, true)
	n, err := s.Delete(ids)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, s.Len())
}

func TestStore_UndoPrunesSelection(t *testing.T) {
	s, ids := newTestStore(t, 2)
	s.Select(ids[1])
	assert.True(t, s.Undo())
	assert.Empty(t, s.Selection())
	assert.True(t, s.Redo())
	assert.Equal(t, 2, s.Len())
}

func TestStore_Duplicate(t *testing.T) {
	s, ids := newTestStore(t, 1)
	created, err := s.Duplicate(ids)
	assert.NoError(t, err)
	assert.Len(t, created, 1)
	assert.Equal(t, created, s.Selection())

	e, _ := s.Element(created[0])
	assert.Equal(t, Rect{X: 10, Y: 10, Width: 10, Height: 10}, e.Shape)
}

func TestStore_SelectionDoesNotAliasReturnedIDs(t *testing.T) {
	s, ids := newTestStore(t, 2)
	created, err := s.Duplicate(ids[:1])
	assert.NoError(t, err)
	assert.Equal(t, []string{"el-3"}, created)

	s.Select(ids[0])
	assert.Equal(t, []string{"el-3"}, created)
	s.SelectAll()
	assert.Equal(t, []string{"el-3"}, created)
	s.ClearSelection()
	s.Toggle(ids[1])
	assert.Equal(t, []string{"el-3"}, created)

	sel := s.Selection()
	sel[0] = "changed"
	assert.Equal(t, []string{ids[1]}, s.Selection())
}

func TestStore_CommitRejectsMissingShape(t *testing.T) {
	ed := New(NewSequence("el"))
	assert.NoError(t, ed.Store().Commit([]Element{*rectElem("", 0)}))

	err := ed.Store().Commit([]Element{{Visible: true}})
	assert.ErrorIs(t, err, ErrUnknownShape)
	assert.Equal(t, 1, ed.Store().Len())
	assert.Equal(t, 2, ed.Store().History().Len())

	assert.NoError(t, ed.PointerDown(Pt(5, 5), Modifiers{}))
	assert.NoError(t, ed.PointerUp(Pt(5, 5), Modifiers{}))
	assert.Equal(t, []string{"el-1"}, ed.Store().Selection())
}

func TestStore_UndoAllThenRedoAll(t *testing.T) {
	const n = 8
	s, _ := newTestStore(t, n)
	final := s.Elements()

	for i := 0; i < n; i++ {
		assert.True(t, s.Undo())
	}
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Elements())
	assert.False(t, s.Undo())

	for i := 0; i < n; i++ {
		assert.True(t, s.Redo())
	}
	assert.Equal(t, final, s.Elements())
	assert.False(t, s.Redo())
}

func TestStore_Reorder(t *testing.T) {
	s, ids := newTestStore(t, 3)

	assert.NoError(t, s.BringToFront(ids[0]))
	assert.Equal(t, []string{ids[1], ids[2], ids[0]}, order(s))

	assert.NoError(t, s.SendToBack(ids[0]))
	assert.Equal(t, []string{ids[0], ids[1], ids[2]}, order(s))

	assert.NoError(t, s.BringForward(ids[0]))
	assert.Equal(t, []string{ids[1], ids[0], ids[2]}, order(s))

	assert.NoError(t, s.SendBackward(ids[0]))
	assert.Equal(t, []string{ids[0], ids[1], ids[2]}, order(s))

	assert.ErrorIs(t, s.Reorder("missing", BringToFront), ErrNotFound)
}

func TestStore_ReorderAtBoundaryStillCommits(t *testing.T) {
	s, ids := newTestStore(t, 2)
	before := s.History().Len()
	assert.NoError(t, s.BringToFront(ids[1]))
	assert.Equal(t, before+1, s.History().Len())
	assert.Equal(t, ids, order(s))
}

func TestStore_ReorderSelectionNeedsOne(t *testing.T) {
	s, ids := newTestStore(t, 2)
	before := s.History().Len()

	s.Select(ids...)
	assert.ErrorIs(t, s.ReorderSelection(BringToFront), ErrSingleSelection)
	s.ClearSelection()
	assert.ErrorIs(t, s.ReorderSelection(BringToFront), ErrSingleSelection)
	assert.Equal(t, before, s.History().Len())
}

func TestStore_SelectAllSkipsHidden(t *testing.T) {
	s, ids := newTestStore(t, 3)
	s.SetVisible(ids[1:2], false)
	s.SelectAll()
	assert.Equal(t, []string{ids[0], ids[2]}, s.Selection())
}

func TestStore_Toggle(t *testing.T) {
	s, ids := newTestStore(t, 2)
	s.Toggle(ids[0])
	s.Toggle(ids[1])
	assert.Equal(t, ids, s.Selection())
	s.Toggle(ids[0])
	assert.Equal(t, ids[1:], s.Selection())
	s.Toggle("missing")
	assert.Equal(t, ids[1:], s.Selection())
}

func TestLayerOp_Parse(t *testing.T) {
	for op := BringToFront; op <= SendToBack; op++ {
		got, err := ParseLayerOp(op.String())
		assert.NoError(t, err)
		assert.Equal(t, op, got)
	}
	_, err := ParseLayerOp("sideways")
	assert.Error(t, err)
}

func TestStore_UUIDGenerator(t *testing.T) {
	s := NewStore(NewUUIDGenerator())
	a, _ := s.Add(*rectElem("", 0))
	b, _ := s.Add(*rectElem("", 0))
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestStylePanel_Apply(t *testing.T) {
	s := NewStore(NewSequence("el"))
	rid, _ := s.Add(*rectElem("", 0))
	pid, _ := s.Add(Element{Style: DefaultStyle, Visible: true, Shape: NewPolygon(Pt(50, 50), 20, 6)})

	p := NewStylePanel()
	p.Style.Fill = "#00ff00"
	p.Shapes.CornerRadius = 4
	p.Shapes.Sides = 3

	s.Select(rid, pid)
	before := s.History().Len()
	changed, err := p.Apply(s)
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, before+1, s.History().Len())

	r, _ := s.Element(rid)
	assert.Equal(t, "#00ff00", r.Style.Fill)
	assert.Equal(t, 4.0, r.Shape.(Rect).Radius)

	poly, _ := s.Element(pid)
	assert.Equal(t, 3, poly.Shape.(Polygon).Sides)
	assert.Len(t, poly.Shape.(Polygon).Vertices, 3)
}
