package history

// SnapshotMeta records what changed relative to the predecessor snapshot
// that produced this one.
type SnapshotMeta struct {
	DidElementsChange bool
	DidAppStateChange bool
	SceneVersionNonce *int64
}

// Snapshot is the Store's immutable, memoized last-observed state: the
// elements map plus the observed app state, used as the diff anchor.
type Snapshot struct {
	Elements *ElementsMap
	AppState ObservedAppState
	Meta     SnapshotMeta
}

// NewSnapshot returns the empty initial snapshot: no elements, the zero
// ObservedAppState, and no scene version nonce observed yet.
func NewSnapshot() *Snapshot {
	return &Snapshot{Elements: NewElementsMap()}
}

// CloneOptions parameterizes Snapshot.Clone.
type CloneOptions struct {
	// SceneVersionNonce, if non-nil, is used as the cheap elements
	// fast-path signal instead of scanning both maps.
	SceneVersionNonce *int64
	// IsRemoteUpdate marks this clone as originating from a remote
	// collaborator's edit rather than the local user.
	IsRemoteUpdate bool
	// EditingElementID is the id of the element currently being edited
	// locally, if any. Combined with IsRemoteUpdate it triggers the
	// editing-element exception.
	EditingElementID string
	// ElementCloner overrides how a changed element is deep-copied. Nil
	// falls back to DrawingElement.deepCopy.
	ElementCloner func(DrawingElement) DrawingElement
}

func (opts CloneOptions) cloneElement(e DrawingElement) DrawingElement {
	if opts.ElementCloner != nil {
		return opts.ElementCloner(e)
	}
	return e.deepCopy()
}

// Clone observes a transition to nextElements/nextAppState and returns
// either the same Snapshot instance (fast path: nothing changed) or a new
// one built by structural sharing.
func (s *Snapshot) Clone(nextElements *ElementsMap, nextAppState ObservedAppState, opts CloneOptions) *Snapshot {
	if nextElements == nil {
		nextElements = NewElementsMap()
	}

	firstInit := opts.SceneVersionNonce != nil && s.Meta.SceneVersionNonce == nil
	sceneChanged := s.rawElementsChanged(nextElements, opts.SceneVersionNonce)
	appChanged := !appStateEqual(s.AppState, nextAppState)

	if !sceneChanged && !appChanged {
		return s
	}

	resultElements := s.Elements
	if sceneChanged {
		resultElements = s.buildSharedElements(nextElements, opts)
	}

	// The very first observation of a populated scene (no prior
	// sceneVersionNonce to compare against) is the identity transition,
	// not a user action — an empty scene becoming populated must not be
	// reported as a change, even though the elements map content did
	// change and must still be captured as the new baseline.
	reportedElementsChanged := sceneChanged && !firstInit

	return &Snapshot{
		Elements: resultElements,
		AppState: nextAppState,
		Meta: SnapshotMeta{
			DidElementsChange: reportedElementsChanged,
			DidAppStateChange: appChanged,
			SceneVersionNonce: opts.SceneVersionNonce,
		},
	}
}

// rawElementsChanged reports whether the elements content actually
// differs, ignoring the first-initialization override — used to decide
// whether a new elements map needs to be built at all.
func (s *Snapshot) rawElementsChanged(next *ElementsMap, sceneVersionNonce *int64) bool {
	if sceneVersionNonce != nil {
		if s.Meta.SceneVersionNonce == nil {
			// No baseline nonce yet: still the identity transition for
			// comparison purposes, callers above decide first-init framing.
			return next.Len() > 0
		}
		return *sceneVersionNonce != *s.Meta.SceneVersionNonce
	}
	return elementsMightDiffer(s.Elements, next)
}

// elementsMightDiffer is the cheap fallback used when no sceneVersionNonce
// is supplied: a size check followed by a right-to-left scan of id and
// VersionNonce pairs. This is intentionally not a full diff — callers
// that need certainty about *what* changed always go through
// CalculateElementsChange separately.
func elementsMightDiffer(prev, next *ElementsMap) bool {
	if prev.Len() != next.Len() {
		return true
	}
	for i := len(next.order) - 1; i >= 0; i-- {
		nid := next.order[i]
		pid := prev.order[i]
		if nid != pid {
			return true
		}
		if prev.byID[pid].VersionNonce != next.byID[nid].VersionNonce {
			return true
		}
	}
	return false
}

// buildSharedElements builds the next elements map by structural sharing:
// every previously observed id is carried over (never dropped — a remote
// collaborator may deliver only a subset of the scene), then any id whose
// VersionNonce differs from the previous observation is overwritten with
// a deep copy of the new element. The editing-element exception skips an
// id entirely when this is a remote update and the id matches the
// locally-edited element, so a half-committed remote mutation of it is
// never captured.
func (s *Snapshot) buildSharedElements(next *ElementsMap, opts CloneOptions) *ElementsMap {
	result := NewElementsMap()
	s.Elements.Range(func(id string, el DrawingElement) bool {
		result.Set(id, el)
		return true
	})

	next.Range(func(id string, nextEl DrawingElement) bool {
		if opts.IsRemoteUpdate && opts.EditingElementID != "" && id == opts.EditingElementID {
			return true
		}
		if prevEl, existed := result.Get(id); existed && prevEl.VersionNonce == nextEl.VersionNonce {
			return true
		}
		result.Set(id, opts.cloneElement(nextEl))
		return true
	})

	return result
}

// appStateEqual implements the observed-app-state equality used to
// decide didAppStateChange: one level of field equality, with a second,
// nested shallow-equality level applied specifically to the two
// selection maps.
func appStateEqual(a, b ObservedAppState) bool {
	if a.Name != b.Name ||
		a.EditingGroupID != b.EditingGroupID ||
		a.ViewBackgroundColor != b.ViewBackgroundColor {
		return false
	}
	if !propEqual(a.EditingLinearElement, b.EditingLinearElement) {
		return false
	}
	if !propEqual(a.SelectedLinearElement, b.SelectedLinearElement) {
		return false
	}
	if !boolMapShallowEqual(a.SelectedElementIDs, b.SelectedElementIDs) {
		return false
	}
	if !boolMapShallowEqual(a.SelectedGroupIDs, b.SelectedGroupIDs) {
		return false
	}
	return true
}

func boolMapShallowEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
