// Package memstore is an in-memory implementation of the store contract.
// It backs the demo binary and the test suites; production callers are
// expected to bring their own store.
//
// A Store and every view derived from it are confined to the single
// goroutine that owns them. There is no internal locking: change delivery
// is synchronous and listeners routinely call back into the store, which
// rules out holding a lock across delivery.
package memstore

import (
	"errors"

	"liveview/store"
)

var (
	// ErrUnsupportedPredicate is returned by Filter for predicate types
	// this store cannot evaluate.
	ErrUnsupportedPredicate = errors.New("memstore: unsupported predicate type")

	// ErrInvalidSortKey is returned by Sort for keys with an empty field.
	ErrInvalidSortKey = errors.New("memstore: sort key has empty field")
)

// FieldFunc extracts a named field from an item. False means the item has
// no such field.
type FieldFunc[T any] func(item T, field string) (any, bool)

// Store holds an ordered collection of items and notifies observing views
// when it changes. T is typically a pointer type; identity is ==.
type Store[T comparable] struct {
	fieldFn FieldFunc[T]
	items   []T // live items in insertion order
	member  map[T]bool
	dead    map[T]bool // removed items, kept so IsLive stays answerable
	gen     uint64
	subs    []*subscription[T]
}

// New creates an empty store. fieldFn resolves field paths for filtering,
// sorting, and section-key extraction.
func New[T comparable](fieldFn FieldFunc[T]) *Store[T] {
	return &Store[T]{
		fieldFn: fieldFn,
		member:  make(map[T]bool),
		dead:    make(map[T]bool),
	}
}

// All returns a live view over the whole collection in insertion order.
func (s *Store[T]) All() store.ResultSet[T] {
	return &View[T]{st: s}
}

// IsLive reports whether item is still a live record.
func (s *Store[T]) IsLive(item T) bool {
	return s.member[item] && !s.dead[item]
}

// Add inserts items at the end of natural order and notifies observers
// once for the whole batch. Items already present are ignored.
func (s *Store[T]) Add(items ...T) {
	added := false
	for _, it := range items {
		if s.member[it] {
			continue
		}
		s.items = append(s.items, it)
		s.member[it] = true
		delete(s.dead, it)
		added = true
	}
	if added {
		s.commit(nil)
	}
}

// Remove deletes an item. The record is tombstoned: IsLive turns false
// while stale references still compare equal to the removed item.
func (s *Store[T]) Remove(item T) {
	if !s.member[item] {
		return
	}
	for i, it := range s.items {
		if it == item {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	delete(s.member, item)
	s.dead[item] = true
	s.commit(nil)
}

// Touch records that item's fields were mutated in place and notifies
// observers. Views re-evaluate the item against their predicate and sort.
func (s *Store[T]) Touch(item T) {
	if !s.member[item] {
		return
	}
	s.commit(map[T]bool{item: true})
}

// commit bumps the generation and delivers per-view deltas to every
// active subscription, synchronously on the calling goroutine.
func (s *Store[T]) commit(touched map[T]bool) {
	s.gen++

	// Subscriptions may be invalidated from inside a callback.
	active := make([]*subscription[T], len(s.subs))
	copy(active, s.subs)

	for _, sub := range active {
		if sub.invalidated {
			continue
		}
		newRows := sub.view.rows()
		ev, changed := diffRows(sub.lastRows, newRows, touched)
		if !changed {
			continue
		}
		sub.lastRows = snapshot(newRows)
		sub.fn(ev)
	}
}

func (s *Store[T]) unsubscribe(sub *subscription[T]) {
	for i, candidate := range s.subs {
		if candidate == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

func snapshot[T any](rows []T) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	return out
}
