package editor

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func rectElem(id string, x float64) *Element {
	return &Element{ID: id, Style: DefaultStyle, Visible: true, Shape: Rect{X: x, Y: 0, Width: 10, Height: 10}}
}

func TestHistory_StartsEmpty(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, 1, h.Len())
	assert.Empty(t, h.Current())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	_, ok := h.Undo()
	assert.False(t, ok)
	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestHistory_UndoRedo(t *testing.T) {
	h := NewHistory(0)
	_, err := h.Commit([]*Element{rectElem("a", 0)})
	assert.NoError(t, err)
	_, err = h.Commit([]*Element{rectElem("a", 0), rectElem("b", 5)})
	assert.NoError(t, err)

	snap, ok := h.Undo()
	assert.True(t, ok)
	assert.Len(t, snap, 1)
	assert.Equal(t, snap, h.Current())

	snap, ok = h.Redo()
	assert.True(t, ok)
	assert.Len(t, snap, 2)
	assert.False(t, h.CanRedo())
}

func TestHistory_UndoAllThenRedoAll(t *testing.T) {
	for _, n := range []int{1, 2, 5, 20} {
		h := NewHistory(0)
		var list []*Element
		for i := 0; i < n; i++ {
			list = append(slices.Clone(list), rectElem(fmt.Sprintf("e%d", i), float64(i)))
			_, err := h.Commit(list)
			assert.NoError(t, err)
		}
		final := h.Current()

		for i := 0; i < n; i++ {
			_, ok := h.Undo()
			assert.True(t, ok, "undo %d of %d", i+1, n)
		}
		assert.Empty(t, h.Current(), "n=%d", n)
		assert.False(t, h.CanUndo())

		for i := 0; i < n; i++ {
			_, ok := h.Redo()
			assert.True(t, ok, "redo %d of %d", i+1, n)
		}
		assert.Equal(t, final, h.Current(), "n=%d", n)
		assert.Len(t, h.Current(), n)
		assert.False(t, h.CanRedo())
	}
}

func TestHistory_CommitTruncatesRedo(t *testing.T) {
	h := NewHistory(0)
	h.Commit([]*Element{rectElem("a", 0)})
	h.Commit([]*Element{rectElem("a", 1)})
	h.Undo()
	assert.True(t, h.CanRedo())

	h.Commit([]*Element{rectElem("a", 2)})
	assert.False(t, h.CanRedo())
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 2, h.Cursor())
	assert.Equal(t, 2.0, h.Current()[0].Shape.(Rect).X)
}

func TestHistory_StructuralSharing(t *testing.T) {
	h := NewHistory(0)
	first, _ := h.Commit([]*Element{rectElem("a", 0), rectElem("b", 0)})
	second, _ := h.Commit([]*Element{rectElem("a", 0), rectElem("b", 9)})

	assert.Same(t, first[0], second[0])
	assert.NotSame(t, first[1], second[1])
}

func TestHistory_DuplicateID(t *testing.T) {
	h := NewHistory(0)
	_, err := h.Commit([]*Element{rectElem("a", 0), rectElem("a", 1)})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, h.Len())
}

func TestHistory_RejectsUnknownShapes(t *testing.T) {
	h := NewHistory(0)
	h.Commit([]*Element{rectElem("a", 0)})

	for _, sh := range []Shape{nil, fakeShape{}} {
		_, err := h.Commit([]*Element{rectElem("a", 0), {ID: "b", Visible: true, Shape: sh}})
		assert.ErrorIs(t, err, ErrUnknownShape)
		assert.Equal(t, 2, h.Len())
		assert.Len(t, h.Current(), 1)
	}
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory(2)
	for i := 0; i < 5; i++ {
		h.Commit([]*Element{rectElem("a", float64(i))})
	}
	assert.Equal(t, 3, h.Len())

	undos := 0
	for h.CanUndo() {
		h.Undo()
		undos++
	}
	assert.Equal(t, 2, undos)
	assert.Equal(t, 2.0, h.Current()[0].Shape.(Rect).X)
}
