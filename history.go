package history

// History holds the undo and redo stacks as two slices used as stacks
// (push/pop at the tail), the same push/pop-at-end idiom as the
// past/future stacks in a typical undo hook, generalized here to carry
// HistoryEntry instead of a whole-state snapshot per step.
type History struct {
	undoStack []HistoryEntry
	redoStack []HistoryEntry
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{}
}

// Record pushes the inverse of entry onto the undo stack and clears the
// redo stack, unless entry is empty (a no-op capture records nothing and
// leaves both stacks untouched).
func (h *History) Record(entry HistoryEntry) {
	if entry.IsEmpty() {
		return
	}
	h.undoStack = append(h.undoStack, entry.Inverse())
	h.redoStack = h.redoStack[:0]
}

// IsUndoStackEmpty reports whether there is nothing to undo.
func (h *History) IsUndoStackEmpty() bool { return len(h.undoStack) == 0 }

// IsRedoStackEmpty reports whether there is nothing to redo.
func (h *History) IsRedoStackEmpty() bool { return len(h.redoStack) == 0 }

// Clear empties both stacks, e.g. when the host loads an unrelated scene.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// popUndo pops the top undo-stack entry and pushes its inverse, rebased
// against liveElements, onto the redo stack. The popped entry itself is
// returned unrebased: it still reverses the local transition correctly
// regardless of what has happened to liveElements since it was recorded,
// and rebasing it in place (rather than only the pushed redo entry) would
// collapse it into a no-op whenever liveElements already equals the
// entry's captured from half. Returns nil if the undo stack is empty.
func (h *History) popUndo(liveElements *ElementsMap) *HistoryEntry {
	if h.IsUndoStackEmpty() {
		return nil
	}
	last := len(h.undoStack) - 1
	entry := h.undoStack[last]
	h.undoStack = h.undoStack[:last]
	h.redoStack = append(h.redoStack, entry.Inverse().ApplyLatestChanges(liveElements))
	return &entry
}

// popRedo is popUndo's mirror image.
func (h *History) popRedo(liveElements *ElementsMap) *HistoryEntry {
	if h.IsRedoStackEmpty() {
		return nil
	}
	last := len(h.redoStack) - 1
	entry := h.redoStack[last]
	h.redoStack = h.redoStack[:last]
	h.undoStack = append(h.undoStack, entry.Inverse().ApplyLatestChanges(liveElements))
	return &entry
}

// Undo pops one entry off the undo stack, applies it to liveElements/
// liveAppState, and pushes its inverse onto the redo stack. It keeps
// popping and applying while the result is not Visible() and the undo
// stack is non-empty — a popped entry can turn out to be a pure no-op
// against the current live state (e.g. the only change it carried was
// already overwritten by a remote collaborator), and such entries are
// skipped automatically, transparently inside Undo/Redo, rather than
// surfaced to the caller as an apparent do-nothing undo.
func (h *History) Undo(liveElements *ElementsMap, liveAppState ObservedAppState) (ApplyResult, bool) {
	for {
		entry := h.popUndo(liveElements)
		if entry == nil {
			return ApplyResult{}, false
		}
		result := entry.ApplyTo(liveElements, liveAppState)
		if result.Visible() {
			return result, true
		}
		liveElements = result.Elements
		liveAppState = result.AppState
	}
}

// Redo is Undo's mirror image over the redo stack.
func (h *History) Redo(liveElements *ElementsMap, liveAppState ObservedAppState) (ApplyResult, bool) {
	for {
		entry := h.popRedo(liveElements)
		if entry == nil {
			return ApplyResult{}, false
		}
		result := entry.ApplyTo(liveElements, liveAppState)
		if result.Visible() {
			return result, true
		}
		liveElements = result.Elements
		liveAppState = result.AppState
	}
}
