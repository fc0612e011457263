package history

import "encoding/json"

// Listener receives every increment the Store emits: the elements change
// and the app-state change captured in the same transition.
type Listener func(ElementsChange, AppStateChange)

type listenerEntry struct {
	id int64
	fn Listener
}

// Config carries host-supplied extension points: a deep-clone function for
// drawing elements. The zero Config is valid: ElementCloner nil means the
// one-level Props map copy in DrawingElement.deepCopy is used.
type Config struct {
	// ElementCloner deep-clones a changed element's payload when Snapshot
	// rebuilds its elements map. Leave nil for the default shallow-map
	// copy (sufficient when Props values are replaced wholesale rather
	// than mutated in place); supply JSONElementCloner, or a manual
	// Clone() generated by cmd/clonegen, when a host's payload nests
	// mutable slices/maps that must be independently copied.
	ElementCloner func(DrawingElement) DrawingElement
}

// JSONElementCloner deep-clones an element's Props via a JSON
// marshal/unmarshal round trip. Generic but slower than a manual
// Clone(); see cmd/clonegen to generate one for a concrete host type.
func JSONElementCloner(e DrawingElement) DrawingElement {
	out := DrawingElement{ID: e.ID, VersionNonce: e.VersionNonce, IsDeleted: e.IsDeleted}
	if e.Props == nil {
		return out
	}
	data, err := json.Marshal(e.Props)
	if err != nil {
		panic(newProgrammerError("JSONElementCloner", "props not json-marshalable: %w", err))
	}
	var cloned Props
	if err := json.Unmarshal(data, &cloned); err != nil {
		panic(newProgrammerError("JSONElementCloner", "props not json-unmarshalable: %w", err))
	}
	out.Props = cloned
	return out
}

func (cfg Config) cloneElement(e DrawingElement) DrawingElement {
	if cfg.ElementCloner != nil {
		return cfg.ElementCloner(e)
	}
	return e.deepCopy()
}

// Store owns the current Snapshot and a listener emitter. Three one-shot
// boolean flags govern the next Capture: recordingChanges (compute and
// emit an increment), shouldOnlyUpdateSnapshot (update the snapshot but
// never emit), and isRemoteUpdate (passed into Snapshot.Clone so the
// editing-element exception can fire). All three reset to false at the
// end of every Capture regardless of outcome.
//
// Store is single-threaded and cooperative: callers must serialize their
// own calls into Capture/Listen/Clear/Destroy. There is no internal
// locking — concurrent access to a single Store is out of scope, so this
// synchronization is the host's job, not the library's.
type Store struct {
	snapshot  *Snapshot
	listeners []listenerEntry
	nextID    int64
	cfg       Config

	recordingChanges         bool
	shouldOnlyUpdateSnapshot bool
	isRemoteUpdate           bool
}

// NewStore returns a Store with an empty initial snapshot.
func NewStore(cfg Config) *Store {
	return &Store{snapshot: NewSnapshot(), cfg: cfg}
}

// ResumeRecording arms the next Capture to compute and emit an increment.
func (s *Store) ResumeRecording() { s.recordingChanges = true }

// OnlyUpdateSnapshot arms the next Capture to update the snapshot without
// emitting — used to absorb changes that should not be individually
// undoable.
func (s *Store) OnlyUpdateSnapshot() { s.shouldOnlyUpdateSnapshot = true }

// MarkRemoteUpdate arms the next Capture as having originated from a
// remote collaborator, enabling the editing-element exception.
func (s *Store) MarkRemoteUpdate() { s.isRemoteUpdate = true }

// Listen registers cb and returns a deregistration handle. Listeners are
// invoked in registration order, synchronously, from Capture.
func (s *Store) Listen(cb Listener) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: cb})

	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Clear resets the current snapshot to empty. The undo/redo stacks are
// owned by History, not Store, and are unaffected.
func (s *Store) Clear() { s.snapshot = NewSnapshot() }

// Destroy clears the snapshot and drops all listeners.
func (s *Store) Destroy() {
	s.snapshot = NewSnapshot()
	s.listeners = nil
}

// Snapshot returns the store's current snapshot. Callers must not mutate
// the elements map it references.
func (s *Store) Snapshot() *Snapshot { return s.snapshot }

// Capture observes a transition to elements/appState and, depending on
// the store's one-shot flags, computes and emits an increment (spec
// §4.6). editingElementID and sceneVersionNonce are forwarded to
// Snapshot.Clone verbatim; pass a nil sceneVersionNonce when the host has
// none to offer, which falls back to the scan-based change signal.
func (s *Store) Capture(elements *ElementsMap, appState ObservedAppState, sceneVersionNonce *int64, editingElementID string) {
	recording := s.recordingChanges
	onlyUpdate := s.shouldOnlyUpdateSnapshot
	remote := s.isRemoteUpdate
	s.recordingChanges = false
	s.shouldOnlyUpdateSnapshot = false
	s.isRemoteUpdate = false

	if !recording && !onlyUpdate {
		return
	}

	current := s.snapshot
	next := current.Clone(elements, appState, CloneOptions{
		SceneVersionNonce: sceneVersionNonce,
		IsRemoteUpdate:    remote,
		EditingElementID:  editingElementID,
		ElementCloner:     s.cfg.ElementCloner,
	})

	if next == current {
		return
	}

	if !recording || onlyUpdate {
		s.snapshot = next
		return
	}

	elementsChange := EmptyElementsChange()
	if next.Meta.DidElementsChange {
		elementsChange = CalculateElementsChange(current.Elements, next.Elements)
	}
	appStateChange := EmptyAppStateChange()
	if next.Meta.DidAppStateChange {
		appStateChange = CalculateAppStateChange(current.AppState, next.AppState)
	}

	// The snapshot is updated before listeners run so that a listener
	// failure, which propagates synchronously to the caller of Capture,
	// does not leave the store re-diffing the same transition on a retry.
	s.snapshot = next

	if elementsChange.IsEmpty() && appStateChange.IsEmpty() {
		return
	}

	listeners := append([]listenerEntry(nil), s.listeners...)
	for _, l := range listeners {
		l.fn(elementsChange, appStateChange)
	}
}
