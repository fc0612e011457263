package history

import (
	"sync"
	"time"
)

// Projection narrows an increment down to what one collaborator is
// allowed to see before it is encoded onto the wire — e.g. stripping a
// delta for an element another collaborator has locked. A nil
// Projection passes the increment through unchanged.
type Projection func(ElementsChange, AppStateChange) (ElementsChange, AppStateChange)

// Broadcaster fans a Store's increments out to per-collaborator JSON
// Patch documents. It subscribes to Store.Listen once at construction
// and stays subscribed until Close.
type Broadcaster[ID comparable] struct {
	unsubscribe func()
	clients     map[ID]Projection

	debounceMu    sync.Mutex
	debounce      time.Duration
	debounceTimer *time.Timer
	pending       map[ID]Patch
	onBroadcast   func(map[ID]Patch)
}

// NewBroadcaster subscribes to store and returns a Broadcaster with no
// connected clients and no debounce (immediate delivery).
func NewBroadcaster[ID comparable](store *Store) *Broadcaster[ID] {
	b := &Broadcaster[ID]{
		clients: make(map[ID]Projection),
		pending: make(map[ID]Patch),
	}
	b.unsubscribe = store.Listen(b.onChange)
	return b
}

// Connect registers a client under id with an optional Projection.
func (b *Broadcaster[ID]) Connect(id ID, project Projection) {
	b.clients[id] = project
}

// Disconnect removes a client and discards any patch queued for it.
func (b *Broadcaster[ID]) Disconnect(id ID) {
	delete(b.clients, id)
	b.debounceMu.Lock()
	delete(b.pending, id)
	b.debounceMu.Unlock()
}

// IsConnected reports whether id is registered.
func (b *Broadcaster[ID]) IsConnected(id ID) bool {
	_, ok := b.clients[id]
	return ok
}

// Count returns the number of connected clients.
func (b *Broadcaster[ID]) Count() int { return len(b.clients) }

// IDs returns all connected client ids, in no particular order.
func (b *Broadcaster[ID]) IDs() []ID {
	ids := make([]ID, 0, len(b.clients))
	for id := range b.clients {
		ids = append(ids, id)
	}
	return ids
}

// SetDebounce sets how long Broadcaster waits after the last increment
// before delivering accumulated patches. Zero (the default) delivers
// each increment immediately, synchronously, from within Store.Capture.
func (b *Broadcaster[ID]) SetDebounce(d time.Duration) {
	b.debounceMu.Lock()
	defer b.debounceMu.Unlock()
	b.debounce = d
}

// SetBroadcastCallback sets the function invoked with accumulated
// per-client patches once the debounce window elapses (or immediately,
// with a single-entry map, when debounce is zero).
func (b *Broadcaster[ID]) SetBroadcastCallback(fn func(map[ID]Patch)) {
	b.debounceMu.Lock()
	defer b.debounceMu.Unlock()
	b.onBroadcast = fn
}

// Close unsubscribes from the store and cancels any pending debounce
// timer. Already-queued patches are discarded, never delivered.
func (b *Broadcaster[ID]) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	b.debounceMu.Lock()
	if b.debounceTimer != nil {
		b.debounceTimer.Stop()
		b.debounceTimer = nil
	}
	b.pending = make(map[ID]Patch)
	b.debounceMu.Unlock()
}

// onChange is the Store.Listener installed at construction.
func (b *Broadcaster[ID]) onChange(ec ElementsChange, ac AppStateChange) {
	for id, project := range b.clients {
		elementsChange, appStateChange := ec, ac
		if project != nil {
			elementsChange, appStateChange = project(ec, ac)
		}
		if elementsChange.IsEmpty() && appStateChange.IsEmpty() {
			continue
		}
		patch := EncodeHistoryEntry(HistoryEntry{Elements: elementsChange, AppState: appStateChange})
		if patch.Empty() {
			continue
		}
		b.queue(id, patch)
	}
}

// queue either delivers patch immediately (no debounce) or appends it to
// the per-client pending buffer and (re)arms the debounce timer.
func (b *Broadcaster[ID]) queue(id ID, patch Patch) {
	b.debounceMu.Lock()
	debounce := b.debounce
	if debounce == 0 {
		callback := b.onBroadcast
		b.debounceMu.Unlock()
		if callback != nil {
			callback(map[ID]Patch{id: patch})
		}
		return
	}

	b.pending[id] = append(b.pending[id], patch...)
	if b.debounceTimer != nil {
		b.debounceTimer.Stop()
	}
	b.debounceTimer = time.AfterFunc(b.debounce, b.flush)
	b.debounceMu.Unlock()
}

func (b *Broadcaster[ID]) flush() {
	b.debounceMu.Lock()
	pending := b.pending
	b.pending = make(map[ID]Patch)
	b.debounceTimer = nil
	callback := b.onBroadcast
	b.debounceMu.Unlock()

	if callback != nil && len(pending) > 0 {
		callback(pending)
	}
}
