package store

import "liveview/query"

// Store is the storage collaborator the controller observes. The store
// owns the underlying data; everything the controller holds is a live
// view into it.
type Store[T any] interface {
	// All returns a live view over every item in natural (insertion) order.
	All() ResultSet[T]

	// IsLive reports whether an item still corresponds to a live record.
	// It turns false once the record has been removed, even while stale
	// references to the item are still floating around.
	IsLive(item T) bool
}

// ResultSet is an ordered, auto-updating view of items matching a query.
// Derived sets share the parent's liveness: they reorder or narrow the
// view, they never copy it.
type ResultSet[T any] interface {
	// Len returns the current number of items in the view.
	Len() int

	// At returns the item at index i, or false if i is out of range.
	At(i int) (T, bool)

	// ValueAt returns the raw value of a field on the item at index i.
	// False means the index is out of range or the item has no such field.
	ValueAt(field string, i int) (any, bool)

	// Filter returns a live subset matching the predicate. The store may
	// reject predicate types it cannot evaluate.
	Filter(p query.Predicate) (ResultSet[T], error)

	// Sort returns a live reordering of the view. An empty key list
	// restores natural order.
	Sort(keys []query.SortKey) (ResultSet[T], error)

	// Observe registers a callback for changes to this view. Exactly one
	// Initial event is delivered synchronously before Observe returns;
	// Update and Error events follow as the store commits writes.
	// Delivery is serialized on the goroutine that owns the store.
	Observe(fn func(ChangeEvent)) Subscription
}

// Subscription is an active registration for change notifications.
type Subscription interface {
	// ID identifies the subscription, for logging and tests.
	ID() string

	// Invalidate cancels delivery. Once it returns, the callback never
	// fires again, including for writes already committed.
	Invalidate()
}
