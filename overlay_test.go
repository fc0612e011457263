package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func markSelected(elements *ElementsMap, by CollaboratorID) *ElementsMap {
	out := elements.Clone()
	if el, ok := out.Get("a"); ok {
		el.Props = Props{"type": el.Props["type"], "x": el.Props["x"], "highlightedBy": string(by)}
		out.Set("a", el)
	}
	return out
}

func baseElements() *ElementsMap {
	elements := NewElementsMap()
	elements.Set("a", rect("a", 1, 0))
	return elements
}

func TestTimedOverlayAppliesWithinWindow(t *testing.T) {
	overlay := Timed("selection-flash", time.Hour, markSelected)
	overlay.SetActivator("alice")

	result := overlay.Apply(baseElements(), overlay.Activator())
	el, _ := result.Get("a")
	assert.Equal(t, "alice", el.Props["highlightedBy"])
}

func TestTimedOverlayExpires(t *testing.T) {
	overlay := Timed("selection-flash", time.Hour, markSelected)
	overlay.timeFunc = func() time.Time { return overlay.expiresAt.Add(time.Minute) }

	assert.True(t, overlay.Expired())
	result := overlay.Apply(baseElements(), "alice")
	el, _ := result.Get("a")
	assert.Nil(t, el.Props["highlightedBy"])
}

func TestTimedOverlayExtendPushesExpirationOut(t *testing.T) {
	overlay := Timed("selection-flash", time.Minute, markSelected)
	before := overlay.expiresAt
	overlay.Extend(time.Hour)
	assert.True(t, overlay.expiresAt.After(before))
}

func TestToggleOverlayEnableDisable(t *testing.T) {
	overlay := Toggle("lock-badge", markSelected)
	require.True(t, overlay.IsEnabled())

	overlay.Disable()
	result := overlay.Apply(baseElements(), "alice")
	el, _ := result.Get("a")
	assert.Nil(t, el.Props["highlightedBy"])

	overlay.Enable()
	result = overlay.Apply(baseElements(), "alice")
	el, _ = result.Get("a")
	assert.Equal(t, "alice", el.Props["highlightedBy"])
}

func TestConditionalOverlayOnlyAppliesWhenConditionHolds(t *testing.T) {
	dragging := false
	overlay := Conditional("drag-highlight", func(*ElementsMap, CollaboratorID) bool { return dragging }, markSelected)

	result := overlay.Apply(baseElements(), "alice")
	el, _ := result.Get("a")
	assert.Nil(t, el.Props["highlightedBy"])

	dragging = true
	result = overlay.Apply(baseElements(), "alice")
	el, _ = result.Get("a")
	assert.Equal(t, "alice", el.Props["highlightedBy"])
}

func TestStackOverlayCombinesAllValues(t *testing.T) {
	overlay := Stack[string]("hover", func(elements *ElementsMap, values []string, by CollaboratorID) *ElementsMap {
		out := elements.Clone()
		el, _ := out.Get("a")
		el.Props = Props{"type": el.Props["type"], "x": el.Props["x"], "hoveredBy": append([]string(nil), values...)}
		out.Set("a", el)
		return out
	})

	result := overlay.Apply(baseElements(), "alice")
	el, _ := result.Get("a")
	assert.Nil(t, el.Props["hoveredBy"])

	overlay.Push("alice")
	overlay.Push("bob")
	result = overlay.Apply(baseElements(), "alice")
	el, _ = result.Get("a")
	assert.Equal(t, []string{"alice", "bob"}, el.Props["hoveredBy"])

	overlay.Clear()
	result = overlay.Apply(baseElements(), "alice")
	el, _ = result.Get("a")
	assert.Nil(t, el.Props["hoveredBy"])
}

func TestOverlayStackAddRejectsDuplicateID(t *testing.T) {
	stack := NewOverlayStack()
	require.NoError(t, stack.Add(Toggle("lock", markSelected)))
	assert.Error(t, stack.Add(Toggle("lock", markSelected)))
}

func TestOverlayStackRemoveAndHas(t *testing.T) {
	stack := NewOverlayStack()
	require.NoError(t, stack.Add(Toggle("lock", markSelected)))
	require.True(t, stack.Has("lock"))

	require.True(t, stack.Remove("lock"))
	assert.False(t, stack.Has("lock"))
	assert.False(t, stack.Remove("lock"))
}

func TestOverlayStackCleanupExpiredRemovesOnlyExpired(t *testing.T) {
	stack := NewOverlayStack()

	expired := Timed("expired", time.Minute, markSelected)
	expired.timeFunc = func() time.Time { return expired.expiresAt.Add(time.Second) }
	live := Timed("live", time.Hour, markSelected)

	require.NoError(t, stack.Add(expired))
	require.NoError(t, stack.Add(live))

	removed := stack.CleanupExpired()
	assert.Equal(t, 1, removed)
	assert.False(t, stack.Has("expired"))
	assert.True(t, stack.Has("live"))
}

func TestOverlayStackRenderAppliesInRegistrationOrderWithoutMutatingBase(t *testing.T) {
	stack := NewOverlayStack()
	require.NoError(t, stack.Add(Timed("flash", time.Hour, markSelected)))

	base := baseElements()
	result := stack.Render(base)

	baseEl, _ := base.Get("a")
	assert.Nil(t, baseEl.Props["highlightedBy"])

	resultEl, _ := result.Get("a")
	assert.NotNil(t, resultEl.Props["highlightedBy"])
}

func TestOverlayStackClear(t *testing.T) {
	stack := NewOverlayStack()
	require.NoError(t, stack.Add(Toggle("lock", markSelected)))
	stack.Clear()
	assert.False(t, stack.Has("lock"))
}
