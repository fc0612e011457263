package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterConnectDisconnect(t *testing.T) {
	store := NewStore(Config{})
	b := NewBroadcaster[string](store)
	defer b.Close()

	b.Connect("alice", nil)
	assert.True(t, b.IsConnected("alice"))
	assert.Equal(t, 1, b.Count())

	b.Disconnect("alice")
	assert.False(t, b.IsConnected("alice"))
	assert.Equal(t, 0, b.Count())
}

func TestBroadcasterDeliversImmediatelyWithoutDebounce(t *testing.T) {
	store := NewStore(Config{})
	b := NewBroadcaster[string](store)
	defer b.Close()

	b.Connect("alice", nil)

	var got map[string]Patch
	b.SetBroadcastCallback(func(patches map[string]Patch) { got = patches })

	elements := NewElementsMap()
	n := int64(1)
	store.ResumeRecording()
	store.Capture(elements, ObservedAppState{}, &n, "") // empty scene: quiet baseline

	elements.Set("a", rect("a", 1, 0))
	n = 2
	store.ResumeRecording()
	store.Capture(elements, ObservedAppState{}, &n, "") // first population: still quiet baseline

	require.Nil(t, got)

	el, _ := elements.Get("a")
	el.VersionNonce = 3
	el.Props = Props{"type": "rectangle", "x": 50.0}
	elements.Set("a", el)
	n = 3
	store.ResumeRecording()
	store.Capture(elements, ObservedAppState{}, &n, "") // real edit: reported

	require.NotNil(t, got)
	require.Contains(t, got, "alice")
	assert.False(t, got["alice"].Empty())
}

func TestBroadcasterAppliesPerClientProjection(t *testing.T) {
	store := NewStore(Config{})
	b := NewBroadcaster[string](store)
	defer b.Close()

	// bob's projection sees nothing.
	b.Connect("alice", nil)
	b.Connect("bob", func(ElementsChange, AppStateChange) (ElementsChange, AppStateChange) {
		return EmptyElementsChange(), EmptyAppStateChange()
	})

	var got map[string]Patch
	b.SetBroadcastCallback(func(patches map[string]Patch) { got = patches })

	elements := NewElementsMap()
	n := int64(1)
	store.ResumeRecording()
	store.Capture(elements, ObservedAppState{}, &n, "")

	elements.Set("a", rect("a", 1, 0))
	n = 2
	store.ResumeRecording()
	store.Capture(elements, ObservedAppState{}, &n, "")

	el, _ := elements.Get("a")
	el.VersionNonce = 3
	el.Props = Props{"type": "rectangle", "x": 50.0}
	elements.Set("a", el)
	n = 3
	store.ResumeRecording()
	store.Capture(elements, ObservedAppState{}, &n, "")

	require.Contains(t, got, "alice")
	assert.NotContains(t, got, "bob")
}

func TestBroadcasterDebouncesDelivery(t *testing.T) {
	store := NewStore(Config{})
	b := NewBroadcaster[string](store)
	defer b.Close()

	b.Connect("alice", nil)
	b.SetDebounce(20 * time.Millisecond)

	delivered := make(chan map[string]Patch, 1)
	b.SetBroadcastCallback(func(patches map[string]Patch) { delivered <- patches })

	elements := NewElementsMap()
	n := int64(1)
	store.ResumeRecording()
	store.Capture(elements, ObservedAppState{}, &n, "")

	elements.Set("a", rect("a", 1, 0))
	n = 2
	store.ResumeRecording()
	store.Capture(elements, ObservedAppState{}, &n, "")

	el, _ := elements.Get("a")
	el.VersionNonce = 3
	el.Props = Props{"type": "rectangle", "x": 50.0}
	elements.Set("a", el)
	n = 3
	store.ResumeRecording()
	store.Capture(elements, ObservedAppState{}, &n, "")

	select {
	case <-delivered:
		t.Fatal("expected no delivery before the debounce window elapses")
	case <-time.After(5 * time.Millisecond):
	}

	select {
	case patches := <-delivered:
		require.Contains(t, patches, "alice")
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected delivery after the debounce window elapsed")
	}
}

func TestBroadcasterDisconnectDiscardsPending(t *testing.T) {
	store := NewStore(Config{})
	b := NewBroadcaster[string](store)
	defer b.Close()

	b.Connect("alice", nil)
	b.SetDebounce(20 * time.Millisecond)

	var delivered int
	b.SetBroadcastCallback(func(map[string]Patch) { delivered++ })

	elements := NewElementsMap()
	n := int64(1)
	store.ResumeRecording()
	store.Capture(elements, ObservedAppState{}, &n, "")
	elements.Set("a", rect("a", 1, 0))
	n = 2
	store.ResumeRecording()
	store.Capture(elements, ObservedAppState{}, &n, "")

	el, _ := elements.Get("a")
	el.VersionNonce = 3
	el.Props = Props{"type": "rectangle", "x": 50.0}
	elements.Set("a", el)
	n = 3
	store.ResumeRecording()
	store.Capture(elements, ObservedAppState{}, &n, "")

	b.Disconnect("alice")
	time.Sleep(40 * time.Millisecond)

	assert.Zero(t, delivered)
}

func TestBroadcasterCloseUnsubscribes(t *testing.T) {
	store := NewStore(Config{})
	b := NewBroadcaster[string](store)
	b.Connect("alice", nil)

	var calls int
	b.SetBroadcastCallback(func(map[string]Patch) { calls++ })
	b.Close()

	elements := NewElementsMap()
	n := int64(1)
	store.ResumeRecording()
	store.Capture(elements, ObservedAppState{}, &n, "")
	elements.Set("a", rect("a", 1, 0))
	n = 2
	store.ResumeRecording()
	store.Capture(elements, ObservedAppState{}, &n, "")

	assert.Zero(t, calls)
}
