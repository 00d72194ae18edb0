package results

import (
	"fmt"
	"math"
	"sort"

	"liveview/query"
	"liveview/store"
)

// KeyKind is the declared type of a section key. Declaring the kind up
// front removes any runtime type probing: an item either coerces to the
// declared kind or it is left out of every section.
type KeyKind int

const (
	KeyString KeyKind = iota
	KeyInt32
	KeyInt64
)

func (k KeyKind) String() string {
	switch k {
	case KeyString:
		return "string"
	case KeyInt32:
		return "int32"
	case KeyInt64:
		return "int64"
	default:
		return "unknown"
	}
}

// Sectioning configures how results are partitioned: the field whose
// value names each section, and the declared key kind. A nil *Sectioning
// means a single flat, unsectioned list.
type Sectioning struct {
	Field string
	Kind  KeyKind
}

// sectionIndex is an ordered partition of a result set. keys holds the
// distinct section keys sorted ascending by the declared kind's natural
// order; subsets[i] is the live subset for keys[i]. It is always rebuilt
// whole, never patched.
type sectionIndex[T any] struct {
	keys    []any
	subsets []store.ResultSet[T]
}

// buildSections computes the section index for rs. Items whose key value
// does not coerce to the declared kind are excluded from every section.
// Each subset is a live equality re-filter of rs, not a copy.
func buildSections[T any](rs store.ResultSet[T], sec *Sectioning) (sectionIndex[T], error) {
	var idx sectionIndex[T]
	if sec == nil {
		return idx, nil
	}

	seen := make(map[any]bool)
	for i := 0; i < rs.Len(); i++ {
		raw, ok := rs.ValueAt(sec.Field, i)
		if !ok {
			continue
		}
		key, ok := coerceKey(sec.Kind, raw)
		if !ok {
			continue
		}
		if !seen[key] {
			seen[key] = true
			idx.keys = append(idx.keys, key)
		}
	}
	sortKeys(sec.Kind, idx.keys)

	idx.subsets = make([]store.ResultSet[T], 0, len(idx.keys))
	for _, key := range idx.keys {
		subset, err := rs.Filter(query.Eq{Field: sec.Field, Value: key})
		if err != nil {
			return sectionIndex[T]{}, fmt.Errorf("section %v: %w", key, err)
		}
		idx.subsets = append(idx.subsets, subset)
	}
	return idx, nil
}

// coerceKey converts a raw field value to the declared key kind. Values
// outside the kind (floats, bools, out-of-range integers, ...) do not
// coerce and leave the item unsectioned.
func coerceKey(kind KeyKind, raw any) (any, bool) {
	switch kind {
	case KeyString:
		s, ok := raw.(string)
		return s, ok
	case KeyInt32:
		n, ok := asInt64(raw)
		if !ok || n < math.MinInt32 || n > math.MaxInt32 {
			return nil, false
		}
		return int32(n), true
	case KeyInt64:
		n, ok := asInt64(raw)
		if !ok {
			return nil, false
		}
		return n, true
	default:
		return nil, false
	}
}

func sortKeys(kind KeyKind, keys []any) {
	switch kind {
	case KeyString:
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].(string) < keys[j].(string)
		})
	case KeyInt32:
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].(int32) < keys[j].(int32)
		})
	case KeyInt64:
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].(int64) < keys[j].(int64)
		})
	}
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func sectioningEqual(a, b *Sectioning) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneSectioning(sec *Sectioning) *Sectioning {
	if sec == nil {
		return nil
	}
	c := *sec
	return &c
}
