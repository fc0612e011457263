package history

// ElementDelta is a Delta[DrawingElement] with the add/remove-as-flip
// constraint: an addition is encoded as
// from={isDeleted:true}, to={...payload, isDeleted:false}; a removal as
// from={...payload, isDeleted:false}, to={isDeleted:true}; an update as a
// symmetric diff of payload keys. Unlike a plain CalculateDelta result,
// an add/remove ElementDelta's two halves intentionally do not share a
// key set.
type ElementDelta = Delta[DrawingElement]

// ElementsChange is a mapping from id to ElementDelta.
// Invariant: empty deltas are never inserted. Iteration order follows
// first-insertion order, kept only for deterministic wire encoding — it
// carries no semantic weight the way ElementsMap's z-order does.
type ElementsChange struct {
	order []string
	byID  map[string]ElementDelta
}

// EmptyElementsChange returns the empty ElementsChange.
func EmptyElementsChange() ElementsChange {
	return ElementsChange{}
}

// IsEmpty reports whether the change has no entries.
func (c ElementsChange) IsEmpty() bool { return len(c.byID) == 0 }

// Len returns the number of per-id deltas.
func (c ElementsChange) Len() int { return len(c.byID) }

// Range iterates entries in insertion order, stopping early if fn
// returns false.
func (c ElementsChange) Range(fn func(id string, d ElementDelta) bool) {
	for _, id := range c.order {
		if !fn(id, c.byID[id]) {
			return
		}
	}
}

// Get returns the delta for id, if any.
func (c ElementsChange) Get(id string) (ElementDelta, bool) {
	d, ok := c.byID[id]
	return d, ok
}

func (c *ElementsChange) insert(id string, d ElementDelta) {
	if d.IsEmpty() {
		return
	}
	if c.byID == nil {
		c.byID = make(map[string]ElementDelta)
	}
	if _, exists := c.byID[id]; !exists {
		c.order = append(c.order, id)
	}
	c.byID[id] = d
}

// CalculateElementsChange diffs prev and next in two passes: ids removed
// from the map entirely produce a removal delta; ids in next
// produce an addition delta if absent from prev, or an update delta (via
// CalculateDelta, stripping irrelevant keys) if their VersionNonce
// differs from prev's. A reference-equal prev/next pair returns the
// empty change.
func CalculateElementsChange(prev, next *ElementsMap) ElementsChange {
	if prev == next {
		return ElementsChange{}
	}

	var change ElementsChange

	prev.Range(func(id string, el DrawingElement) bool {
		if next.Has(id) {
			return true
		}
		from := el.toProps()
		from["isDeleted"] = false
		to := Props{"isDeleted": true}
		change.insert(id, CreateDelta[DrawingElement](from, to, clearIrrelevantProps, ModifierBoth))
		return true
	})

	next.Range(func(id string, nextEl DrawingElement) bool {
		prevEl, existed := prev.Get(id)
		if !existed {
			from := Props{"isDeleted": true}
			to := nextEl.toProps()
			to["isDeleted"] = false
			change.insert(id, CreateDelta[DrawingElement](from, to, clearIrrelevantProps, ModifierBoth))
			return true
		}
		if prevEl.VersionNonce == nextEl.VersionNonce {
			return true
		}
		change.insert(id, CalculateDelta[DrawingElement](prevEl.toProps(), nextEl.toProps(), clearIrrelevantProps))
		return true
	})

	return change
}

// Inverse returns the per-id inverse of every delta in the change.
func (c ElementsChange) Inverse() ElementsChange {
	out := ElementsChange{order: append([]string(nil), c.order...), byID: make(map[string]ElementDelta, len(c.byID))}
	for id, d := range c.byID {
		out.byID[id] = d.Inverse()
	}
	return out
}

// flipsIsDeleted reports whether a delta's to half explicitly sets
// isDeleted, i.e. whether it is an add/remove rather than a plain update.
func flipsIsDeleted(d ElementDelta) bool {
	_, ok := d.to["isDeleted"]
	return ok
}

// ApplyTo returns a fresh ElementsMap with every delta merged onto its
// target element, preserving identity and z-order, plus whether the
// result contains a *visible* change: a toggle of isDeleted
// is always visible; otherwise visibility is only evaluated for
// elements that are currently non-deleted. A delta whose id is absent
// from elements and whose to half sets isDeleted to false is synthesized
// from the zero-value element (this is how undoing a removal materializes
// an element back into a map that no longer has it) and appended to the
// end of z-order; any other delta with an absent id is skipped.
func (c ElementsChange) ApplyTo(elements *ElementsMap) (*ElementsMap, bool) {
	if elements == nil {
		elements = NewElementsMap()
	}
	if c.IsEmpty() {
		return elements.Clone(), false
	}

	result := NewElementsMap()
	visible := false

	elements.Range(func(id string, el DrawingElement) bool {
		d, ok := c.byID[id]
		if !ok {
			result.Set(id, el)
			return true
		}

		merged := el.mergeProps(d.to)
		result.Set(id, merged)

		switch {
		case flipsIsDeleted(d):
			visible = true
		case !el.IsDeleted:
			if containsDifference(d.to, el.toProps()) {
				visible = true
			}
		}
		return true
	})

	c.Range(func(id string, d ElementDelta) bool {
		if elements.Has(id) {
			return true
		}
		// Only a delta that actually wants the element present (to.isDeleted
		// == false) materializes a new entry here. A removal delta replayed
		// against an id that is already absent is already satisfied — it
		// stays absent rather than inserting a deleted placeholder.
		isDeleted, ok := d.to["isDeleted"].(bool)
		if !ok || isDeleted {
			return true
		}
		zero := DrawingElement{ID: id, IsDeleted: true}
		merged := zero.mergeProps(d.to)
		result.Set(id, merged)
		visible = true
		return true
	})

	return result, visible
}

// refreshKeys returns a copy of half with every key's value replaced by
// the corresponding value in current, when present; keys with no
// counterpart in current keep their captured value.
func refreshKeys(half, current Props) Props {
	out := make(Props, len(half))
	for k, v := range half {
		if cv, ok := current[k]; ok {
			out[k] = cv
		} else {
			out[k] = v
		}
	}
	return out
}

// ApplyLatestChanges rebases the change against elements: for every delta
// whose id is present in elements, the chosen half (ModifierFrom or
// ModifierTo) is refreshed from elements' current values of the same
// keys, while the other half is preserved untouched. This lets a stale
// stored delta (captured before concurrent remote edits) still produce a
// correct pairing with the opposite half when replayed.
func (c ElementsChange) ApplyLatestChanges(elements *ElementsMap, side ModifierSide) ElementsChange {
	out := ElementsChange{order: append([]string(nil), c.order...), byID: make(map[string]ElementDelta, len(c.byID))}

	for id, d := range c.byID {
		el, ok := elements.Get(id)
		if !ok {
			out.byID[id] = d
			continue
		}

		current := el.toProps()
		switch side {
		case ModifierFrom:
			out.byID[id] = Delta[DrawingElement]{from: refreshKeys(d.from, current), to: d.to}
		case ModifierTo:
			out.byID[id] = Delta[DrawingElement]{from: d.from, to: refreshKeys(d.to, current)}
		default:
			out.byID[id] = d
		}
	}

	return out
}
