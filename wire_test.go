package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeElementsChangeAddition(t *testing.T) {
	prev := NewElementsMap()
	next := NewElementsMap()
	next.Set("a", rect("a", 1, 0))

	ops := EncodeElementsChange(CalculateElementsChange(prev, next))
	require.Len(t, ops, 1)
	assert.Equal(t, "add", ops[0].Op)
	assert.Equal(t, "/elements/a", ops[0].Path)
}

func TestEncodeElementsChangeRemoval(t *testing.T) {
	prev := NewElementsMap()
	prev.Set("a", rect("a", 1, 0))
	next := NewElementsMap()

	ops := EncodeElementsChange(CalculateElementsChange(prev, next))
	require.Len(t, ops, 1)
	assert.Equal(t, "remove", ops[0].Op)
	assert.Equal(t, "/elements/a", ops[0].Path)
	assert.Nil(t, ops[0].Value)
}

func TestEncodeElementsChangeUpdateSortsKeys(t *testing.T) {
	prev := NewElementsMap()
	prev.Set("a", DrawingElement{ID: "a", VersionNonce: 1, Props: Props{"x": 0.0, "y": 0.0, "type": "rectangle"}})
	next := NewElementsMap()
	next.Set("a", DrawingElement{ID: "a", VersionNonce: 2, Props: Props{"x": 10.0, "y": 5.0, "type": "rectangle"}})

	ops := EncodeElementsChange(CalculateElementsChange(prev, next))
	require.Len(t, ops, 2)
	assert.Equal(t, "/elements/a/x", ops[0].Path)
	assert.Equal(t, "/elements/a/y", ops[1].Path)
	for _, op := range ops {
		assert.Equal(t, "replace", op.Op)
	}
}

func TestEncodeElementsChangeEscapesPointerTokens(t *testing.T) {
	prev := NewElementsMap()
	next := NewElementsMap()
	next.Set("a/b~c", rect("a/b~c", 1, 0))

	ops := EncodeElementsChange(CalculateElementsChange(prev, next))
	require.Len(t, ops, 1)
	assert.Equal(t, "/elements/a~1b~0c", ops[0].Path)
}

func TestEncodeElementsChangeIsDeterministicAcrossRepeatedEncodes(t *testing.T) {
	prev := NewElementsMap()
	prev.Set("a", DrawingElement{ID: "a", VersionNonce: 1, Props: Props{"x": 0.0, "y": 0.0}})
	next := NewElementsMap()
	next.Set("a", DrawingElement{ID: "a", VersionNonce: 2, Props: Props{"x": 1.0, "y": 1.0}})
	c := CalculateElementsChange(prev, next)

	first := EncodeElementsChange(c)
	second := EncodeElementsChange(c)
	assert.Equal(t, first, second)
}

func TestEncodeAppStateChangeEmpty(t *testing.T) {
	ops := EncodeAppStateChange(EmptyAppStateChange())
	assert.Nil(t, ops)
}

func TestEncodeAppStateChangeSortsFields(t *testing.T) {
	prev := ObservedAppState{Name: "a", ViewBackgroundColor: "#fff"}
	next := ObservedAppState{Name: "b", ViewBackgroundColor: "#000"}
	ops := EncodeAppStateChange(CalculateAppStateChange(prev, next))

	require.Len(t, ops, 2)
	assert.Equal(t, "/appState/name", ops[0].Path)
	assert.Equal(t, "/appState/viewBackgroundColor", ops[1].Path)
	assert.Equal(t, "b", ops[0].Value)
}

func TestEncodeHistoryEntryOrdersElementsBeforeAppState(t *testing.T) {
	prev := NewElementsMap()
	next := NewElementsMap()
	next.Set("a", rect("a", 1, 0))

	entry := HistoryEntry{
		Elements: CalculateElementsChange(prev, next),
		AppState: CalculateAppStateChange(ObservedAppState{}, ObservedAppState{Name: "picked"}),
	}

	ops := EncodeHistoryEntry(entry)
	require.Len(t, ops, 2)
	assert.Equal(t, "/elements/a", ops[0].Path)
	assert.Equal(t, "/appState/name", ops[1].Path)
}

func TestPatchJSONEmpty(t *testing.T) {
	var p Patch
	b, err := p.JSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
	assert.True(t, p.Empty())
}
