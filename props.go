package history

import "reflect"

// Props is a flat mapping of string keys to values. It stands in for the
// arbitrary payload (geometry, style, ...) a DrawingElement carries, and
// for the fixed field set of ObservedAppState once projected to a map for
// diffing purposes.
type Props map[string]any

// irrelevantProps lists fields that churn without semantic meaning and
// must never survive into an emitted delta.
var irrelevantProps = map[string]struct{}{
	"updated":      {},
	"version":      {},
	"versionNonce": {},
	"seed":         {},
}

// clearIrrelevantProps returns a copy of p with irrelevant keys removed.
// A nil input returns nil.
func clearIrrelevantProps(p Props) Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		if _, skip := irrelevantProps[k]; skip {
			continue
		}
		out[k] = v
	}
	return out
}

// propEqual implements a "reference equality for primitives and objects"
// policy: value equality for plain comparable scalars, pointer/identity
// equality for maps, slices, pointers, funcs and channels. This is
// intentionally not deep equality — callers are
// expected to normalize at the source (e.g. reuse sub-object references
// when nothing inside them changed) rather than rely on this function to
// notice structural sameness of freshly-allocated values.
func propEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	if va.Kind() != vb.Kind() {
		return false
	}

	switch va.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() == vb.IsNil()
		}
		return va.Pointer() == vb.Pointer()
	case reflect.Ptr:
		return va.Pointer() == vb.Pointer()
	case reflect.Struct:
		// Small value structs (e.g. a color or point literal) are not
		// reallocated references in Go the way object literals are in a
		// GC'd dynamic language; fall back to a field-by-field compare so
		// equivalent literals aren't reported as changed merely because
		// they occupy distinct addresses after being copied into `any`.
		return reflect.DeepEqual(a, b)
	default:
		if !va.Comparable() {
			return reflect.DeepEqual(a, b)
		}
		return a == b
	}
}

// shallowEqual treats a and b as equal if every key in one is present in
// the other with a propEqual value, one level deep — used only by
// containsDifference, which must not report a "visible change" merely
// because a selection map or similar sub-object was freshly reallocated
// with structurally identical contents.
func shallowEqual(a, b any) bool {
	if propEqual(a, b) {
		return true
	}

	am, aok := a.(Props)
	bm, bok := b.(Props)
	if aok && bok {
		return shallowEqualMaps(am, bm)
	}

	// Support plain map[string]any too, since payloads frequently arrive
	// in that shape rather than the named Props type.
	am2, aok2 := a.(map[string]any)
	bm2, bok2 := b.(map[string]any)
	if aok2 && bok2 {
		return shallowEqualMaps(am2, bm2)
	}

	// Any other pair of maps of the same type (e.g. the map[string]bool
	// selection maps) is compared the same way, key by key.
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Map && vb.Kind() == reflect.Map && va.Type() == vb.Type() {
		if va.Len() != vb.Len() {
			return false
		}
		iter := va.MapRange()
		for iter.Next() {
			bv := vb.MapIndex(iter.Key())
			if !bv.IsValid() || !propEqual(iter.Value().Interface(), bv.Interface()) {
				return false
			}
		}
		return true
	}

	return false
}

func shallowEqualMaps(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !propEqual(av, bv) {
			return false
		}
	}
	return true
}

// containsDifference reports whether any key present in partial is
// missing from object or holds a value there that differs under
// shallowEqual. It is
// used on apply to decide whether a delta produces a *visible* change
// against the current object, which may have drifted since the delta
// was captured.
func containsDifference(partial, object Props) bool {
	for k, pv := range partial {
		ov, ok := object[k]
		if !ok {
			return true
		}
		if !shallowEqual(pv, ov) {
			return true
		}
	}
	return false
}
