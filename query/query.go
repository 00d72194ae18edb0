package query

// Predicate is a filter expression evaluated by the store. The controller
// treats predicates as opaque values; it only needs value equality to
// detect whether an update actually changes the query. Stores define their
// own predicate types and are free to reject ones they cannot evaluate.
type Predicate interface {
	// Equal reports whether the other predicate selects the same items.
	Equal(other Predicate) bool
}

// MatchAll selects every item in the store. It is the explicit default:
// a Spec with a nil Predicate behaves exactly like one with MatchAll.
type MatchAll struct{}

func (MatchAll) Equal(other Predicate) bool {
	_, ok := other.(MatchAll)
	return ok
}

// Eq selects items whose field equals a value. Every store must support
// it; section subsets are built by re-filtering with Eq on the section
// field.
type Eq struct {
	Field string
	Value any
}

func (e Eq) Equal(other Predicate) bool {
	o, ok := other.(Eq)
	return ok && o.Field == e.Field && o.Value == e.Value
}

// SortKey orders results by a single field. Keys are applied in sequence:
// later keys break ties left by earlier ones.
type SortKey struct {
	Field      string
	Descending bool
}

// Spec is an immutable filter + sort configuration. A nil Predicate means
// match-all; an empty Sort means the store's natural (insertion) order.
// Specs are replaced wholesale, never mutated in place.
type Spec struct {
	Predicate Predicate
	Sort      []SortKey
}

// Equal reports whether two specs describe the same query. It drives
// change detection in the controller: an update carrying an equal spec is
// a no-op.
func (s Spec) Equal(o Spec) bool {
	return PredicatesEqual(s.Predicate, o.Predicate) && SortKeysEqual(s.Sort, o.Sort)
}

// PredicatesEqual compares two predicates, treating nil as MatchAll.
func PredicatesEqual(a, b Predicate) bool {
	if a == nil {
		a = MatchAll{}
	}
	if b == nil {
		b = MatchAll{}
	}
	return a.Equal(b)
}

// SortKeysEqual reports whether two key sequences are identical. Order
// matters: [name, age] and [age, name] are different sorts.
func SortKeysEqual(a, b []SortKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
