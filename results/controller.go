// Package results presents a live, filtered, sorted, and optionally
// sectioned view over a store collection, addressable by (section, row),
// and forwards coherent change notifications to a single listener.
//
// The Controller and everything it touches run on the single goroutine
// that owns the store connection. Nothing here locks and nothing blocks;
// the only asynchrony is the store delivering Update events, which the
// store serializes onto the owning goroutine.
package results

import (
	"fmt"

	"liveview/internal/bounds"
	"liveview/query"
	"liveview/store"
)

// ChangeHandler receives the controller's change notifications. Initial
// and Update events arrive with the section index already recomputed;
// Error events are passed through verbatim.
type ChangeHandler func(store.ChangeEvent)

// Controller owns the subscription lifecycle over a live result set.
// It is in one of two states: unsubscribed (no listener registered, or
// torn down) or subscribed. Query updates from the subscribed state
// replace the result set atomically: the old subscription is invalidated
// strictly before the new set is installed, so a stale callback can never
// observe replaced state.
type Controller[T any] struct {
	st         store.Store[T]
	spec       query.Spec
	sectioning *Sectioning

	filtered store.ResultSet[T] // post-filter, natural order
	results  store.ResultSet[T] // post-filter, post-sort
	sections sectionIndex[T]

	sub      store.Subscription
	onChange ChangeHandler
	tornDown bool
}

// New builds a controller over st for the given query. sectioning may be
// nil for a single flat list. State is computed synchronously; no
// subscription exists until RegisterListener is called.
func New[T any](st store.Store[T], spec query.Spec, sectioning *Sectioning) (*Controller[T], error) {
	c := &Controller[T]{st: st}
	filtered, results, err := c.computeSets(spec)
	if err != nil {
		return nil, err
	}
	sections, err := buildSections(results, sectioning)
	if err != nil {
		return nil, err
	}
	c.spec = spec
	c.sectioning = cloneSectioning(sectioning)
	c.filtered = filtered
	c.results = results
	c.sections = sections
	return c, nil
}

// computeSets derives the filtered and sorted live views for a spec.
func (c *Controller[T]) computeSets(spec query.Spec) (filtered, results store.ResultSet[T], err error) {
	pred := spec.Predicate
	if pred == nil {
		pred = query.MatchAll{}
	}
	filtered, err = c.st.All().Filter(pred)
	if err != nil {
		return nil, nil, fmt.Errorf("apply predicate: %w", err)
	}
	results, err = filtered.Sort(spec.Sort)
	if err != nil {
		return nil, nil, fmt.Errorf("apply sort: %w", err)
	}
	return filtered, results, nil
}

// RegisterListener registers fn as the single listener and subscribes to
// the current result set. fn immediately receives one Initial event, then
// Update and Error events as the store mutates. Calling it again replaces
// the listener: the prior subscription is invalidated first, so exactly
// one subscription is ever active. After Teardown it does nothing.
func (c *Controller[T]) RegisterListener(fn ChangeHandler) {
	if c.tornDown || fn == nil {
		return
	}
	if c.sub != nil {
		c.sub.Invalidate()
		c.sub = nil
	}
	c.onChange = fn
	c.sub = c.results.Observe(c.forward)
}

// forward relays a store event to the listener, recomputing the section
// index first for non-error events so (section, row) coordinates are
// coherent by the time the listener runs.
func (c *Controller[T]) forward(ev store.ChangeEvent) {
	if c.onChange == nil {
		return
	}
	if ev.Kind() != store.KindError {
		sections, err := buildSections(c.results, c.sectioning)
		if err != nil {
			c.onChange(store.ErrorEvent{Err: fmt.Errorf("recompute sections: %w", err)})
			return
		}
		c.sections = sections
	}
	c.onChange(ev)
}

// UpdatePredicate replaces the filter predicate and the sectioning. A nil
// sectioning means unsectioned. When the predicate differs by value
// equality, the result set is rebuilt and the subscription restarted, and
// the listener receives a fresh Initial event. When only the sectioning
// differs, sections are recomputed in place: same result set, same
// subscription, no event. When nothing differs, this is a no-op.
// On error the controller keeps its previous state.
func (c *Controller[T]) UpdatePredicate(p query.Predicate, sectioning *Sectioning) error {
	if c.tornDown {
		return ErrTornDown
	}

	if !query.PredicatesEqual(c.spec.Predicate, p) {
		spec := query.Spec{Predicate: p, Sort: c.spec.Sort}
		filtered, results, err := c.computeSets(spec)
		if err != nil {
			return err
		}
		return c.replaceResultSet(spec, filtered, results, sectioning)
	}

	if !sectioningEqual(c.sectioning, sectioning) {
		sections, err := buildSections(c.results, sectioning)
		if err != nil {
			return err
		}
		c.sectioning = cloneSectioning(sectioning)
		c.sections = sections
	}
	return nil
}

// UpdateSortKeys reorders the current filtered set. Equal keys are a
// no-op; otherwise the result set is rebuilt, the subscription restarted,
// and the listener receives a fresh Initial event.
func (c *Controller[T]) UpdateSortKeys(keys []query.SortKey) error {
	if c.tornDown {
		return ErrTornDown
	}
	if query.SortKeysEqual(c.spec.Sort, keys) {
		return nil
	}
	results, err := c.filtered.Sort(keys)
	if err != nil {
		return fmt.Errorf("apply sort: %w", err)
	}
	spec := query.Spec{Predicate: c.spec.Predicate, Sort: append([]query.SortKey(nil), keys...)}
	return c.replaceResultSet(spec, c.filtered, results, c.sectioning)
}

// replaceResultSet swaps the observed result set as one atomic step.
// Ordering is the correctness rule of this package: the old subscription
// is invalidated strictly before rs is installed, so events in flight for
// the old set are dropped rather than delivered against the new one.
// Resubscribing synthesizes the fresh Initial event for the listener.
func (c *Controller[T]) replaceResultSet(spec query.Spec, filtered, rs store.ResultSet[T], sectioning *Sectioning) error {
	sections, err := buildSections(rs, sectioning)
	if err != nil {
		return err
	}
	if c.sub != nil {
		c.sub.Invalidate()
		c.sub = nil
	}
	c.spec = spec
	c.filtered = filtered
	c.results = rs
	c.sectioning = cloneSectioning(sectioning)
	c.sections = sections
	if c.onChange != nil {
		c.sub = c.results.Observe(c.forward)
	}
	return nil
}

// SectionCount returns the number of sections, or 1 when unsectioned.
func (c *Controller[T]) SectionCount() int {
	if c.results == nil {
		return 0
	}
	if c.sectioning == nil {
		return 1
	}
	return len(c.sections.keys)
}

// SectionKey returns the key of section i. The key's dynamic type matches
// the declared kind: string, int32, or int64.
func (c *Controller[T]) SectionKey(i int) (any, bool) {
	return bounds.At(c.sections.keys, i)
}

// ItemsInSection returns the live subset for section i, or false when i
// is out of range or the controller is unsectioned.
func (c *Controller[T]) ItemsInSection(i int) (store.ResultSet[T], bool) {
	return bounds.At(c.sections.subsets, i)
}

// ItemAt resolves (section, row) to an item. It returns false when either
// index is out of range or when the resolved item is no longer live: a
// dangling reference is never handed out. Unsectioned controllers expose
// their flat results as section 0.
func (c *Controller[T]) ItemAt(section, row int) (T, bool) {
	var zero T
	if c.results == nil {
		return zero, false
	}

	rs := c.results
	if c.sectioning != nil {
		subset, ok := bounds.At(c.sections.subsets, section)
		if !ok {
			return zero, false
		}
		rs = subset
	} else if section != 0 {
		return zero, false
	}

	item, ok := rs.At(row)
	if !ok || !c.st.IsLive(item) {
		return zero, false
	}
	return item, true
}

// Items returns the current flat result set.
func (c *Controller[T]) Items() store.ResultSet[T] {
	return c.results
}

// Spec returns the current query spec.
func (c *Controller[T]) Spec() query.Spec {
	return c.spec
}

// Subscription returns the active subscription handle, or nil when no
// listener is registered.
func (c *Controller[T]) Subscription() store.Subscription {
	return c.sub
}

// Teardown invalidates the subscription, clears the listener, and
// releases the result set references. It is terminal: no callback fires
// afterward and update operations return ErrTornDown.
func (c *Controller[T]) Teardown() {
	if c.tornDown {
		return
	}
	if c.sub != nil {
		c.sub.Invalidate()
		c.sub = nil
	}
	c.onChange = nil
	c.filtered = nil
	c.results = nil
	c.sections = sectionIndex[T]{}
	c.sectioning = nil
	c.tornDown = true
}
