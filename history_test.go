package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRecordIgnoresEmptyEntry(t *testing.T) {
	h := NewHistory()
	h.Record(EmptyHistoryEntry())
	assert.True(t, h.IsUndoStackEmpty())
}

func TestHistoryUndoRedoRoundTrip(t *testing.T) {
	h := NewHistory()

	prev := NewElementsMap()
	prev.Set("a", rect("a", 1, 0))
	next := NewElementsMap()
	next.Set("a", rect("a", 2, 50))
	ec := CalculateElementsChange(prev, next)

	h.Record(HistoryEntry{Elements: ec, AppState: EmptyAppStateChange()})
	require.False(t, h.IsUndoStackEmpty())
	require.True(t, h.IsRedoStackEmpty())

	live := next
	result, ok := h.Undo(live, ObservedAppState{})
	require.True(t, ok)
	el, _ := result.Elements.Get("a")
	assert.Equal(t, 0.0, el.Props["x"])

	require.True(t, h.IsUndoStackEmpty())
	require.False(t, h.IsRedoStackEmpty())

	result, ok = h.Redo(result.Elements, ObservedAppState{})
	require.True(t, ok)
	el, _ = result.Elements.Get("a")
	assert.Equal(t, 50.0, el.Props["x"])
}

func TestHistoryRecordClearsRedoStack(t *testing.T) {
	h := NewHistory()

	prev := NewElementsMap()
	prev.Set("a", rect("a", 1, 0))
	next := NewElementsMap()
	next.Set("a", rect("a", 2, 50))
	h.Record(HistoryEntry{Elements: CalculateElementsChange(prev, next), AppState: EmptyAppStateChange()})

	h.Undo(next, ObservedAppState{})
	require.False(t, h.IsRedoStackEmpty())

	third := NewElementsMap()
	third.Set("b", rect("b", 1, 0))
	h.Record(HistoryEntry{Elements: CalculateElementsChange(NewElementsMap(), third), AppState: EmptyAppStateChange()})

	assert.True(t, h.IsRedoStackEmpty())
}

func TestHistoryUndoSkipsTransparentEntries(t *testing.T) {
	h := NewHistory()

	// Entry 1: create "a" at x=0.
	a1 := NewElementsMap()
	a1.Set("a", rect("a", 1, 0))
	h.Record(HistoryEntry{Elements: CalculateElementsChange(NewElementsMap(), a1), AppState: EmptyAppStateChange()})

	// Entry 2: move "a" from x=0 to x=50.
	a2 := NewElementsMap()
	a2.Set("a", rect("a", 2, 50))
	h.Record(HistoryEntry{Elements: CalculateElementsChange(a1, a2), AppState: EmptyAppStateChange()})

	// By the time we undo, "a" is already back at x=0 (e.g. a remote
	// collaborator reverted it independently), so applying entry 2's
	// inverse move is a no-op and must be skipped transparently; only
	// entry 1's inverse (the creation) produces a visible result.
	live := NewElementsMap()
	live.Set("a", rect("a", 2, 0))

	result, ok := h.Undo(live, ObservedAppState{})
	require.True(t, ok)
	el, found := result.Elements.Get("a")
	require.True(t, found)
	assert.True(t, el.IsDeleted)
	assert.True(t, h.IsUndoStackEmpty())
}
