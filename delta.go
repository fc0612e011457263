package history

import "reflect"

// ModifierSide selects which half of a Delta a modifier function applies
// to when using CreateDelta directly (CalculateDelta always applies a
// modifier to both halves).
type ModifierSide int

const (
	// ModifierBoth applies the modifier to both from and to.
	ModifierBoth ModifierSide = iota
	// ModifierFrom applies the modifier only to from.
	ModifierFrom
	// ModifierTo applies the modifier only to to.
	ModifierTo
)

// Delta is a value object describing a property-level change between two
// values of the same shape T. Invariants: from and to have
// identical key sets; for every key k, from[k] and to[k] differ at
// construction; Delta is empty iff both halves are empty. T only
// parameterizes the type for call-site clarity (Delta[ObservedAppState]
// vs Delta[DrawingElement]) — the storage underneath is always a flat
// Props map, since the diff algorithm treats payload as property-level.
type Delta[T any] struct {
	from Props
	to   Props
}

// From returns the delta's from half. Callers must not mutate it.
func (d Delta[T]) From() Props { return d.from }

// To returns the delta's to half. Callers must not mutate it.
func (d Delta[T]) To() Props { return d.to }

// IsEmpty reports whether both halves of the delta are empty.
func (d Delta[T]) IsEmpty() bool {
	return len(d.from) == 0 && len(d.to) == 0
}

// Inverse swaps from and to. Delta values are never mutated after
// construction, so this is a cheap reference swap.
func (d Delta[T]) Inverse() Delta[T] {
	return Delta[T]{from: d.to, to: d.from}
}

// CalculateDelta walks the union of keys of prev and next; for every key
// where the values differ under propEqual, it records from[k] = prev[k],
// to[k] = next[k]. A reference-equal prev/next pair (including both nil)
// short-circuits to the empty Delta. modifier, if non-nil, is applied to
// both from and to after computation — used to strip irrelevant keys
// such as versionNonce before the delta is ever inspected.
func CalculateDelta[T any](prev, next Props, modifier func(Props) Props) Delta[T] {
	if samePropsRef(prev, next) {
		return Delta[T]{}
	}

	from := Props{}
	to := Props{}

	seen := make(map[string]struct{}, len(prev)+len(next))
	for k := range prev {
		seen[k] = struct{}{}
	}
	for k := range next {
		seen[k] = struct{}{}
	}

	for k := range seen {
		pv, pok := prev[k]
		nv, nok := next[k]
		if pok == nok && (!pok || propEqual(pv, nv)) {
			continue
		}
		from[k] = pv
		to[k] = nv
	}

	if modifier != nil {
		from = modifier(from)
		to = modifier(to)
	}
	return Delta[T]{from: from, to: to}
}

// CreateDelta constructs a Delta directly from two already-known halves,
// optionally running a modifier over one or both of them. Unlike
// CalculateDelta it performs no key-union diffing — callers are
// responsible for the from/to pairing (this is how ElementsChange encodes
// add/remove as an isDeleted flip: the caller builds from/to explicitly
// rather than diffing two element states).
func CreateDelta[T any](from, to Props, modifier func(Props) Props, side ModifierSide) Delta[T] {
	if modifier != nil {
		switch side {
		case ModifierFrom:
			from = modifier(from)
		case ModifierTo:
			to = modifier(to)
		default:
			from = modifier(from)
			to = modifier(to)
		}
	}
	return Delta[T]{from: from, to: to}
}

// samePropsRef implements the "prev === next" reference-equality
// short-circuit: true when both are nil, or both are backed by the same
// underlying map.
func samePropsRef(a, b Props) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
