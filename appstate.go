package history

// LinearElementEditState is the opaque in-progress editing state for a
// linear element (e.g. an arrow or line with user-draggable midpoints).
// The core treats it as a black box: it only cares whether its reference
// changed, never what is inside it.
type LinearElementEditState struct {
	ElementID string
	Data      Props
}

// ObservedAppState is the fixed, enumerated projection of editor state
// the core watches. Only these fields participate in history;
// everything else (tool mode, zoom, cursor, ...) is deliberately ignored.
type ObservedAppState struct {
	Name                  string
	EditingGroupID        string
	ViewBackgroundColor   string
	SelectedElementIDs    map[string]bool
	SelectedGroupIDs      map[string]bool
	EditingLinearElement  *LinearElementEditState
	SelectedLinearElement *LinearElementEditState
}

// toProps projects ObservedAppState onto the flat Props shape Delta
// operates over.
func (s ObservedAppState) toProps() Props {
	return Props{
		"name":                  s.Name,
		"editingGroupId":        s.EditingGroupID,
		"viewBackgroundColor":   s.ViewBackgroundColor,
		"selectedElementIds":    s.SelectedElementIDs,
		"selectedGroupIds":      s.SelectedGroupIDs,
		"editingLinearElement":  s.EditingLinearElement,
		"selectedLinearElement": s.SelectedLinearElement,
	}
}

// mergeProps returns a copy of s with every field present in p shallow-
// merged on top: apply is a shallow merge of the to half onto the state.
func (s ObservedAppState) mergeProps(p Props) ObservedAppState {
	out := s
	if v, ok := p["name"]; ok {
		out.Name, _ = v.(string)
	}
	if v, ok := p["editingGroupId"]; ok {
		out.EditingGroupID, _ = v.(string)
	}
	if v, ok := p["viewBackgroundColor"]; ok {
		out.ViewBackgroundColor, _ = v.(string)
	}
	if v, ok := p["selectedElementIds"]; ok {
		out.SelectedElementIDs, _ = v.(map[string]bool)
	}
	if v, ok := p["selectedGroupIds"]; ok {
		out.SelectedGroupIDs, _ = v.(map[string]bool)
	}
	if v, ok := p["editingLinearElement"]; ok {
		out.EditingLinearElement, _ = v.(*LinearElementEditState)
	}
	if v, ok := p["selectedLinearElement"]; ok {
		out.SelectedLinearElement, _ = v.(*LinearElementEditState)
	}
	return out
}

// AppStateChange wraps one Delta[ObservedAppState].
type AppStateChange struct {
	delta Delta[ObservedAppState]
}

// EmptyAppStateChange returns the empty AppStateChange.
func EmptyAppStateChange() AppStateChange {
	return AppStateChange{}
}

// CalculateAppStateChange diffs prev and next over the observed fields.
func CalculateAppStateChange(prev, next ObservedAppState) AppStateChange {
	return AppStateChange{delta: CalculateDelta[ObservedAppState](prev.toProps(), next.toProps(), nil)}
}

// IsEmpty reports whether the change carries no observed-field diff.
func (c AppStateChange) IsEmpty() bool {
	return c.delta.IsEmpty()
}

// Inverse swaps from and to.
func (c AppStateChange) Inverse() AppStateChange {
	return AppStateChange{delta: c.delta.Inverse()}
}

// ApplyTo shallow-merges the change's `to` half onto state and reports
// whether doing so would actually be visible against the *current* state
// (which may have drifted since the change was captured).
func (c AppStateChange) ApplyTo(state ObservedAppState) (ObservedAppState, bool) {
	visible := containsDifference(c.delta.to, state.toProps())
	return state.mergeProps(c.delta.to), visible
}

// Delta exposes the underlying Delta for callers that need direct access
// (e.g. the wire encoder).
func (c AppStateChange) Delta() Delta[ObservedAppState] { return c.delta }
