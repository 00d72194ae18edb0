package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liveview/query"
	"liveview/store"
)

type task struct {
	name     string
	status   string
	priority int
}

func taskFields(t *task, field string) (any, bool) {
	switch field {
	case "name":
		return t.name, true
	case "status":
		return t.status, true
	case "priority":
		return t.priority, true
	default:
		return nil, false
	}
}

func newTaskStore(tasks ...*task) *Store[*task] {
	s := New(taskFields)
	s.Add(tasks...)
	return s
}

// oddPredicate is a predicate type the store does not understand.
type oddPredicate struct{}

func (oddPredicate) Equal(other query.Predicate) bool {
	_, ok := other.(oddPredicate)
	return ok
}

func names(rs store.ResultSet[*task]) []string {
	out := make([]string, 0, rs.Len())
	for i := 0; i < rs.Len(); i++ {
		item, ok := rs.At(i)
		if ok {
			out = append(out, item.name)
		}
	}
	return out
}

func TestAllNaturalOrder(t *testing.T) {
	s := newTaskStore(
		&task{name: "b"},
		&task{name: "a"},
		&task{name: "c"},
	)
	require.Equal(t, []string{"b", "a", "c"}, names(s.All()))
}

func TestFilterEq(t *testing.T) {
	open := &task{name: "one", status: "open"}
	s := newTaskStore(
		open,
		&task{name: "two", status: "closed"},
		&task{name: "three", status: "open"},
	)

	rs, err := s.All().Filter(query.Eq{Field: "status", Value: "open"})
	require.NoError(t, err)
	require.Equal(t, []string{"one", "three"}, names(rs))

	// The filtered view stays live: removing a match shrinks it.
	s.Remove(open)
	require.Equal(t, []string{"three"}, names(rs))
}

func TestFilterWhereOps(t *testing.T) {
	s := newTaskStore(
		&task{name: "low", priority: 1},
		&task{name: "mid", priority: 5},
		&task{name: "high", priority: 9},
	)

	rs, err := s.All().Filter(Where{Field: "priority", Op: OpGe, Value: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"mid", "high"}, names(rs))

	rs, err = s.All().Filter(Where{Field: "name", Op: OpContains, Value: "i"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mid", "high"}, names(rs))

	rs, err = s.All().Filter(And{
		Where{Field: "priority", Op: OpGt, Value: 1},
		Where{Field: "priority", Op: OpLt, Value: 9},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mid"}, names(rs))
}

func TestFilterUnsupportedPredicate(t *testing.T) {
	s := newTaskStore(&task{name: "a"})

	_, err := s.All().Filter(oddPredicate{})
	require.ErrorIs(t, err, ErrUnsupportedPredicate)

	_, err = s.All().Filter(And{query.MatchAll{}, oddPredicate{}})
	require.ErrorIs(t, err, ErrUnsupportedPredicate, "validation should recurse into conjunctions")
}

func TestSort(t *testing.T) {
	s := newTaskStore(
		&task{name: "b", priority: 2},
		&task{name: "a", priority: 1},
		&task{name: "c", priority: 2},
	)

	rs, err := s.All().Sort([]query.SortKey{{Field: "name"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names(rs))

	rs, err = s.All().Sort([]query.SortKey{{Field: "name", Descending: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, names(rs))

	// Multi-key: priority first, then name breaks the tie.
	rs, err = s.All().Sort([]query.SortKey{{Field: "priority"}, {Field: "name"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names(rs))

	// Ties without a second key keep insertion order.
	rs, err = s.All().Sort([]query.SortKey{{Field: "priority"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names(rs))

	// Empty keys restore natural order.
	rs, err = rs.Sort(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, names(rs))
}

func TestSortInvalidKey(t *testing.T) {
	s := newTaskStore(&task{name: "a"})
	_, err := s.All().Sort([]query.SortKey{{Field: ""}})
	require.ErrorIs(t, err, ErrInvalidSortKey)
}

func TestObserveDeliversInitialFirst(t *testing.T) {
	s := newTaskStore(&task{name: "a"})

	var kinds []store.ChangeKind
	sub := s.All().Observe(func(ev store.ChangeEvent) {
		kinds = append(kinds, ev.Kind())
	})
	require.NotEmpty(t, sub.ID())
	require.Equal(t, []store.ChangeKind{store.KindInitial}, kinds,
		"Initial must be delivered synchronously on Observe")

	s.Add(&task{name: "b"})
	require.Equal(t, []store.ChangeKind{store.KindInitial, store.KindUpdate}, kinds)
}

func TestObserveUpdateIndices(t *testing.T) {
	a := &task{name: "a"}
	b := &task{name: "b"}
	c := &task{name: "c"}
	s := newTaskStore(a, b, c)

	var last store.UpdateEvent
	s.All().Observe(func(ev store.ChangeEvent) {
		if up, ok := ev.(store.UpdateEvent); ok {
			last = up
		}
	})

	// Deletions report indices in the pre-write ordering.
	s.Remove(b)
	assert.Equal(t, []int{1}, last.Deleted)
	assert.Empty(t, last.Inserted)

	// Insertions report indices in the post-write ordering.
	s.Add(&task{name: "d"})
	assert.Equal(t, []int{2}, last.Inserted)
	assert.Empty(t, last.Deleted)

	// In-place mutations report the item's post-write index.
	s.Touch(c)
	assert.Equal(t, []int{1}, last.Modified)
}

func TestObserveFilteredViewIgnoresForeignWrites(t *testing.T) {
	s := newTaskStore(&task{name: "a", status: "open"})
	rs, err := s.All().Filter(query.Eq{Field: "status", Value: "open"})
	require.NoError(t, err)

	events := 0
	rs.Observe(func(store.ChangeEvent) { events++ })
	require.Equal(t, 1, events) // Initial

	// A write outside the view must not notify it.
	s.Add(&task{name: "b", status: "closed"})
	assert.Equal(t, 1, events)

	// A write inside the view must.
	s.Add(&task{name: "c", status: "open"})
	assert.Equal(t, 2, events)
}

func TestTouchMovesItemUnderSort(t *testing.T) {
	a := &task{name: "a", priority: 1}
	b := &task{name: "b", priority: 2}
	s := newTaskStore(a, b)

	rs, err := s.All().Sort([]query.SortKey{{Field: "priority"}})
	require.NoError(t, err)

	var last store.UpdateEvent
	rs.Observe(func(ev store.ChangeEvent) {
		if up, ok := ev.(store.UpdateEvent); ok {
			last = up
		}
	})

	a.priority = 3
	s.Touch(a)
	require.Equal(t, []string{"b", "a"}, names(rs))
	assert.Equal(t, []int{1}, last.Modified, "modified index refers to the new ordering")
}

func TestInvalidateStopsDelivery(t *testing.T) {
	s := newTaskStore(&task{name: "a"})

	events := 0
	sub := s.All().Observe(func(store.ChangeEvent) { events++ })
	require.Equal(t, 1, events)

	sub.Invalidate()
	s.Add(&task{name: "b"})
	assert.Equal(t, 1, events, "no callback may fire after Invalidate returns")

	// Invalidating twice is harmless.
	sub.Invalidate()
}

func TestIsLive(t *testing.T) {
	a := &task{name: "a"}
	s := newTaskStore(a)
	require.True(t, s.IsLive(a))

	s.Remove(a)
	assert.False(t, s.IsLive(a), "removed items are tombstoned, not forgotten")
	assert.False(t, s.IsLive(&task{name: "stranger"}))
}

func TestValueAt(t *testing.T) {
	s := newTaskStore(&task{name: "a", priority: 7})

	v, ok := s.All().ValueAt("priority", 0)
	require.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = s.All().ValueAt("priority", 1)
	assert.False(t, ok)

	_, ok = s.All().ValueAt("nope", 0)
	assert.False(t, ok)
}

func TestAddDuplicateIgnored(t *testing.T) {
	a := &task{name: "a"}
	s := newTaskStore(a)

	events := 0
	s.All().Observe(func(store.ChangeEvent) { events++ })

	s.Add(a)
	assert.Equal(t, 1, events, "re-adding a present item must not notify")
	assert.Equal(t, 1, s.All().Len())
}
