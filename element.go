package history

// DrawingElement is an opaque record identified by a stable ID.
// Props carries arbitrary payload (geometry, style, ...) treated as a flat
// mapping by the diff algorithm. VersionNonce is a cheap equality
// short-circuit tag, not an ordering, bumped by the host whenever any
// observable field changes.
type DrawingElement struct {
	ID           string
	VersionNonce int64
	IsDeleted    bool
	Props        Props
}

// toProps projects the element onto the flat shape Delta operates over:
// the payload plus isDeleted (which participates in diffing so add/
// remove can be encoded as a flip) and versionNonce (present only so
// clearIrrelevantProps has something to strip if a host also mirrors it
// into Props; the dedicated VersionNonce field is what the core actually
// consults).
func (e DrawingElement) toProps() Props {
	out := make(Props, len(e.Props)+2)
	for k, v := range e.Props {
		out[k] = v
	}
	out["isDeleted"] = e.IsDeleted
	out["versionNonce"] = e.VersionNonce
	return out
}

// mergeProps returns a copy of e with every key in p shallow-merged on
// top, preserving ID and VersionNonce (identity is never altered by an
// apply — only the host bumps VersionNonce, on its own next mutation).
func (e DrawingElement) mergeProps(p Props) DrawingElement {
	out := DrawingElement{ID: e.ID, VersionNonce: e.VersionNonce, IsDeleted: e.IsDeleted}
	out.Props = make(Props, len(e.Props))
	for k, v := range e.Props {
		out.Props[k] = v
	}
	for k, v := range p {
		switch k {
		case "isDeleted":
			if b, ok := v.(bool); ok {
				out.IsDeleted = b
			}
		case "versionNonce":
			// Irrelevant; never promoted onto the dedicated field by an apply.
		default:
			out.Props[k] = v
		}
	}
	return out
}

// deepCopy returns a structurally independent copy of the element,
// including its Props map. Used by Snapshot.Clone for elements whose
// VersionNonce changed since the previous observation.
func (e DrawingElement) deepCopy() DrawingElement {
	out := e
	if e.Props != nil {
		out.Props = make(Props, len(e.Props))
		for k, v := range e.Props {
			out.Props[k] = v
		}
	}
	return out
}

// ElementsMap is an id -> DrawingElement mapping with significant
// iteration order (it represents z-order). The zero value is not
// usable; construct with NewElementsMap.
type ElementsMap struct {
	order []string
	byID  map[string]DrawingElement
}

// NewElementsMap returns an empty, order-preserving elements map.
func NewElementsMap() *ElementsMap {
	return &ElementsMap{byID: make(map[string]DrawingElement)}
}

// Len returns the number of elements.
func (m *ElementsMap) Len() int { return len(m.order) }

// Has reports whether id is present.
func (m *ElementsMap) Has(id string) bool {
	_, ok := m.byID[id]
	return ok
}

// Get returns the element for id and whether it was found.
func (m *ElementsMap) Get(id string) (DrawingElement, bool) {
	el, ok := m.byID[id]
	return el, ok
}

// Set inserts or updates id's element. A new id is appended to the end of
// the iteration order (new elements are drawn on top); an existing id
// keeps its position, only its value is replaced.
func (m *ElementsMap) Set(id string, el DrawingElement) {
	el.ID = id
	if _, exists := m.byID[id]; !exists {
		m.order = append(m.order, id)
	}
	m.byID[id] = el
}

// Delete removes id entirely. The core itself never calls this on a map
// it produces (soft deletion only) — it exists for the host's
// own bookkeeping, e.g. pruning elements that left the scene before the
// core ever observed them.
func (m *ElementsMap) Delete(id string) {
	if _, ok := m.byID[id]; !ok {
		return
	}
	delete(m.byID, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Keys returns the ids in iteration (z-)order. Callers must not mutate
// the returned slice.
func (m *ElementsMap) Keys() []string { return m.order }

// Range iterates elements in z-order, stopping early if fn returns false.
func (m *ElementsMap) Range(fn func(id string, el DrawingElement) bool) {
	for _, id := range m.order {
		if !fn(id, m.byID[id]) {
			return
		}
	}
}

// Clone returns a new ElementsMap with the same ids, order, and element
// values. Element Props maps are shared by reference with the source
// (shallow clone); use deepCopy on individual elements where independence
// is required.
func (m *ElementsMap) Clone() *ElementsMap {
	out := &ElementsMap{
		order: append([]string(nil), m.order...),
		byID:  make(map[string]DrawingElement, len(m.byID)),
	}
	for k, v := range m.byID {
		out.byID[k] = v
	}
	return out
}
