package history

import (
	"encoding/json"
	"sort"
)

// Patch is an RFC 6902 JSON Patch document.
type Patch []Op

// Op is a single patch operation.
type Op struct {
	Op    string `json:"op"`              // "add", "remove", "replace"
	Path  string `json:"path"`            // JSON Pointer
	Value any    `json:"value,omitempty"` // new value, omitted for "remove"
}

// JSON returns the patch as JSON bytes, "[]" for an empty patch.
func (p Patch) JSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(p)
}

// Empty reports whether the patch has no operations.
func (p Patch) Empty() bool { return len(p) == 0 }

// EncodeElementsChange renders an ElementsChange as a Patch walking
// /elements/{id}/{prop}. Deltas are visited in insertion order; within a
// delta, prop keys are sorted for deterministic output across repeated
// encodes of an identical change. A delta that flips isDeleted to true
// encodes as a single "remove" of /elements/{id} rather than a per-key
// removal, mirroring the soft-deletion semantics of the change itself.
// A delta whose from half is {isDeleted:true} (an addition) encodes as a
// single "add" of the whole element payload at /elements/{id}.
//
// Payloads here are always record-shaped — ElementsChange never carries
// a raw array in a delta value — so unlike the line-oriented JSON Patch
// diff this is adapted from, there is no ArrayStrategy: every value is
// passed through to the Patch op as-is and left for the receiving host
// to interpret.
func EncodeElementsChange(c ElementsChange) Patch {
	var ops Patch

	c.Range(func(id string, d ElementDelta) bool {
		elPath := "/elements/" + escapePtr(id)

		if isAdd, ok := d.from["isDeleted"].(bool); ok && isAdd {
			ops = append(ops, Op{Op: "add", Path: elPath, Value: d.to})
			return true
		}
		if isRemove, ok := d.to["isDeleted"].(bool); ok && isRemove {
			ops = append(ops, Op{Op: "remove", Path: elPath})
			return true
		}

		keys := make([]string, 0, len(d.to))
		for k := range d.to {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			ops = append(ops, Op{Op: "replace", Path: elPath + "/" + escapePtr(k), Value: d.to[k]})
		}
		return true
	})

	return ops
}

// EncodeAppStateChange renders an AppStateChange as a Patch walking
// /appState/{field}, one "replace" op per changed top-level field, in
// sorted field-name order for determinism.
func EncodeAppStateChange(c AppStateChange) Patch {
	if c.IsEmpty() {
		return nil
	}

	to := c.delta.to
	keys := make([]string, 0, len(to))
	for k := range to {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var ops Patch
	for _, k := range keys {
		ops = append(ops, Op{Op: "replace", Path: "/appState/" + escapePtr(k), Value: to[k]})
	}
	return ops
}

// EncodeHistoryEntry concatenates the elements patch followed by the
// app-state patch, the order a receiving host should apply them in so
// that an appState reference to a just-added element (e.g. a new
// selection) always lands after the element exists.
func EncodeHistoryEntry(e HistoryEntry) Patch {
	out := EncodeElementsChange(e.Elements)
	out = append(out, EncodeAppStateChange(e.AppState)...)
	return out
}

// escapePtr escapes JSON Pointer special characters in a reference token.
func escapePtr(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '~':
			out = append(out, '~', '0')
		case '/':
			out = append(out, '~', '1')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
