package memstore

import (
	"sort"

	"github.com/google/uuid"

	"liveview/internal/bounds"
	"liveview/query"
	"liveview/store"
)

// View is a live, ordered window onto a Store: a predicate chain plus an
// optional sort. Rows are recomputed lazily against the store's current
// generation, so a View is never stale and never a copy.
type View[T comparable] struct {
	st    *Store[T]
	preds []query.Predicate
	keys  []query.SortKey

	cached    []T
	cachedGen uint64
	cacheSet  bool
}

// rows returns the view's current row ordering.
func (v *View[T]) rows() []T {
	if v.cacheSet && v.cachedGen == v.st.gen {
		return v.cached
	}

	out := make([]T, 0, len(v.st.items))
	for _, it := range v.st.items {
		if v.matches(it) {
			out = append(out, it)
		}
	}
	if len(v.keys) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return v.less(out[i], out[j])
		})
	}

	v.cached = out
	v.cachedGen = v.st.gen
	v.cacheSet = true
	return out
}

func (v *View[T]) matches(item T) bool {
	for _, p := range v.preds {
		if !evalPredicate(p, item, v.st.fieldFn) {
			return false
		}
	}
	return true
}

func (v *View[T]) less(a, b T) bool {
	for _, k := range v.keys {
		av, _ := v.st.fieldFn(a, k.Field)
		bv, _ := v.st.fieldFn(b, k.Field)
		c := compareValues(av, bv)
		if c == 0 {
			continue
		}
		if k.Descending {
			return c > 0
		}
		return c < 0
	}
	return false
}

// Len returns the current number of items in the view.
func (v *View[T]) Len() int {
	return len(v.rows())
}

// At returns the item at index i, or false if i is out of range.
func (v *View[T]) At(i int) (T, bool) {
	return bounds.At(v.rows(), i)
}

// ValueAt returns the raw value of field on the item at index i.
func (v *View[T]) ValueAt(field string, i int) (any, bool) {
	item, ok := v.At(i)
	if !ok {
		return nil, false
	}
	return v.st.fieldFn(item, field)
}

// Filter returns a live subset of the view. The predicate is validated up
// front so an unsupported type fails the call, not a later notification.
func (v *View[T]) Filter(p query.Predicate) (store.ResultSet[T], error) {
	if err := validatePredicate(p); err != nil {
		return nil, err
	}
	preds := make([]query.Predicate, 0, len(v.preds)+1)
	preds = append(preds, v.preds...)
	if p != nil {
		preds = append(preds, p)
	}
	return &View[T]{st: v.st, preds: preds, keys: v.keys}, nil
}

// Sort returns a live reordering of the view. An empty key list restores
// natural order.
func (v *View[T]) Sort(keys []query.SortKey) (store.ResultSet[T], error) {
	for _, k := range keys {
		if k.Field == "" {
			return nil, ErrInvalidSortKey
		}
	}
	preds := make([]query.Predicate, len(v.preds))
	copy(preds, v.preds)
	return &View[T]{st: v.st, preds: preds, keys: append([]query.SortKey(nil), keys...)}, nil
}

// Observe registers fn for changes to this view. One Initial event is
// delivered before Observe returns; Updates follow each committed write
// that changes the view.
func (v *View[T]) Observe(fn func(store.ChangeEvent)) store.Subscription {
	sub := &subscription[T]{
		id:       uuid.NewString(),
		view:     v,
		fn:       fn,
		lastRows: snapshot(v.rows()),
	}
	v.st.subs = append(v.st.subs, sub)
	fn(store.InitialEvent{})
	return sub
}

// subscription is an active observer registration on a view.
type subscription[T comparable] struct {
	id          string
	view        *View[T]
	fn          func(store.ChangeEvent)
	lastRows    []T
	invalidated bool
}

func (s *subscription[T]) ID() string { return s.id }

// Invalidate cancels delivery synchronously. The callback never fires
// after Invalidate returns.
func (s *subscription[T]) Invalidate() {
	if s.invalidated {
		return
	}
	s.invalidated = true
	s.view.st.unsubscribe(s)
}

// diffRows computes the UpdateEvent between two orderings of a view.
// Deleted indices refer to the old ordering, Inserted and Modified to the
// new one. changed is false when the write did not affect the view.
func diffRows[T comparable](oldRows, newRows []T, touched map[T]bool) (store.ChangeEvent, bool) {
	oldSet := make(map[T]int, len(oldRows))
	for i, it := range oldRows {
		oldSet[it] = i
	}
	newSet := make(map[T]int, len(newRows))
	for i, it := range newRows {
		newSet[it] = i
	}

	var ev store.UpdateEvent
	for i, it := range oldRows {
		if _, ok := newSet[it]; !ok {
			ev.Deleted = append(ev.Deleted, i)
		}
	}
	for i, it := range newRows {
		if _, ok := oldSet[it]; !ok {
			ev.Inserted = append(ev.Inserted, i)
		} else if touched[it] {
			ev.Modified = append(ev.Modified, i)
		}
	}

	changed := len(ev.Deleted) > 0 || len(ev.Inserted) > 0 || len(ev.Modified) > 0
	return ev, changed
}
