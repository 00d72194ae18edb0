package memstore

import (
	"strings"

	"liveview/query"
)

// Op is a comparison operator for Where predicates.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpContains // substring match, strings only
)

// Where compares a field against a value. It is this store's native
// predicate type; the portable query.MatchAll and query.Eq are supported
// as well.
type Where struct {
	Field string
	Op    Op
	Value any
}

// Equal implements query.Predicate.
func (w Where) Equal(other query.Predicate) bool {
	o, ok := other.(Where)
	return ok && o == w
}

// And is the conjunction of predicates. An empty And matches everything.
type And []query.Predicate

// Equal implements query.Predicate.
func (a And) Equal(other query.Predicate) bool {
	o, ok := other.(And)
	if !ok || len(o) != len(a) {
		return false
	}
	for i := range a {
		if !query.PredicatesEqual(a[i], o[i]) {
			return false
		}
	}
	return true
}

// validatePredicate rejects predicate types this store cannot evaluate.
func validatePredicate(p query.Predicate) error {
	switch p := p.(type) {
	case nil, query.MatchAll, query.Eq, Where:
		return nil
	case And:
		for _, sub := range p {
			if err := validatePredicate(sub); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrUnsupportedPredicate
	}
}

func evalPredicate[T any](p query.Predicate, item T, fieldFn FieldFunc[T]) bool {
	switch p := p.(type) {
	case nil, query.MatchAll:
		return true
	case query.Eq:
		v, ok := fieldFn(item, p.Field)
		return ok && equalValues(v, p.Value)
	case Where:
		v, ok := fieldFn(item, p.Field)
		if !ok {
			return false
		}
		return evalOp(p.Op, v, p.Value)
	case And:
		for _, sub := range p {
			if !evalPredicate(sub, item, fieldFn) {
				return false
			}
		}
		return true
	default:
		// Filter validated the chain already.
		return false
	}
}

func evalOp(op Op, have, want any) bool {
	if op == OpContains {
		hs, ok1 := have.(string)
		ws, ok2 := want.(string)
		return ok1 && ok2 && strings.Contains(hs, ws)
	}
	c := compareValues(have, want)
	switch op {
	case OpEq:
		return c == 0 && sameDomain(have, want)
	case OpNe:
		return !(c == 0 && sameDomain(have, want))
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	default:
		return false
	}
}

// sameDomain reports whether two values live in the same comparison
// domain (both strings, or both numbers).
func sameDomain(a, b any) bool {
	if _, ok := a.(string); ok {
		_, ok2 := b.(string)
		return ok2
	}
	_, aNum := asFloat(a)
	_, bNum := asFloat(b)
	return aNum && bNum
}

// equalValues compares with integer widening so int(3), int32(3), and
// int64(3) are all equal.
func equalValues(a, b any) bool {
	if as, ok := a.(string); ok {
		bs, ok2 := b.(string)
		return ok2 && as == bs
	}
	if af, ok := asFloat(a); ok {
		bf, ok2 := asFloat(b)
		return ok2 && af == bf
	}
	return a == b
}

// compareValues orders two field values: strings lexicographically,
// numbers numerically. Missing or incomparable values sort last.
func compareValues(a, b any) int {
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return strings.Compare(as, bs)
	}

	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	// Comparable values come before missing or foreign-typed ones.
	aKnown := aStr || aNum
	bKnown := bStr || bNum
	switch {
	case aKnown && !bKnown:
		return -1
	case !aKnown && bKnown:
		return 1
	default:
		return 0
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
