package history

// HistoryEntry pairs an AppStateChange and an ElementsChange into one
// undoable step.
type HistoryEntry struct {
	AppState AppStateChange
	Elements ElementsChange
}

// EmptyHistoryEntry returns the entry with no changes.
func EmptyHistoryEntry() HistoryEntry {
	return HistoryEntry{AppState: EmptyAppStateChange(), Elements: EmptyElementsChange()}
}

// IsEmpty reports whether both children are empty.
func (e HistoryEntry) IsEmpty() bool {
	return e.AppState.IsEmpty() && e.Elements.IsEmpty()
}

// Inverse inverts both children.
func (e HistoryEntry) Inverse() HistoryEntry {
	return HistoryEntry{AppState: e.AppState.Inverse(), Elements: e.Elements.Inverse()}
}

// ApplyResult is the outcome of applying a HistoryEntry to live state: the
// next elements/appState values, and whether each side produced a
// visible change against what was live at apply time.
type ApplyResult struct {
	Elements        *ElementsMap
	ElementsVisible bool
	AppState        ObservedAppState
	AppStateVisible bool
}

// Visible reports whether either side of the result is visible. Callers
// implementing the visibility-skip policy use this to decide whether to
// immediately continue to the next stack entry.
func (r ApplyResult) Visible() bool {
	return r.ElementsVisible || r.AppStateVisible
}

// ApplyTo applies both children to the given live elements and app
// state, returning the next values for the host to commit.
func (e HistoryEntry) ApplyTo(elements *ElementsMap, appState ObservedAppState) ApplyResult {
	nextElements, elementsVisible := e.Elements.ApplyTo(elements)
	nextAppState, appStateVisible := e.AppState.ApplyTo(appState)
	return ApplyResult{
		Elements:        nextElements,
		ElementsVisible: elementsVisible,
		AppState:        nextAppState,
		AppStateVisible: appStateVisible,
	}
}

// ApplyLatestChanges rebases the entry's ElementsChange against elements,
// refreshing the `to` half of each delta from the live map: the
// opposite-stack entry must reflect current values so a later redo/undo
// doesn't clobber concurrent remote edits. AppStateChange passes through
// unchanged — selection/editing state has no analogous "remote
// collaborator" pressure, since it is local-only editor state.
func (e HistoryEntry) ApplyLatestChanges(elements *ElementsMap) HistoryEntry {
	return HistoryEntry{
		AppState: e.AppState,
		Elements: e.Elements.ApplyLatestChanges(elements, ModifierTo),
	}
}
