// Package board is the demo domain: a task list served out of a memstore
// and kept in sync with a TOML file on disk.
package board

import (
	"strings"

	"liveview/internal/config"
	"liveview/query"
	"liveview/store/memstore"
)

// Task is a single row on the board. Fields are mutated in place on
// reload; the store is told via Touch.
type Task struct {
	Name     string
	Status   string
	Priority int64
}

// Fields resolves field paths for filtering, sorting, and sectioning.
func Fields(t *Task, field string) (any, bool) {
	switch field {
	case "name":
		return t.Name, true
	case "status":
		return t.Status, true
	case "priority":
		return t.Priority, true
	default:
		return nil, false
	}
}

// NewStore builds a task store seeded from cfg.
func NewStore(cfg *config.Config) *memstore.Store[*Task] {
	s := memstore.New(Fields)
	for _, tc := range cfg.Tasks {
		s.Add(&Task{Name: tc.Name, Status: tc.Status, Priority: tc.Priority})
	}
	return s
}

// Sync reconciles the store with a freshly loaded config: new tasks are
// added, changed ones touched, missing ones removed. Tasks are identified
// by name.
func Sync(s *memstore.Store[*Task], cfg *config.Config) {
	byName := make(map[string]*Task)
	rs := s.All()
	for i := 0; i < rs.Len(); i++ {
		if t, ok := rs.At(i); ok {
			byName[t.Name] = t
		}
	}

	wanted := make(map[string]bool, len(cfg.Tasks))
	for _, tc := range cfg.Tasks {
		wanted[tc.Name] = true
		existing, ok := byName[tc.Name]
		if !ok {
			s.Add(&Task{Name: tc.Name, Status: tc.Status, Priority: tc.Priority})
			continue
		}
		if existing.Status != tc.Status || existing.Priority != tc.Priority {
			existing.Status = tc.Status
			existing.Priority = tc.Priority
			s.Touch(existing)
		}
	}

	for name, t := range byName {
		if !wanted[name] {
			s.Remove(t)
		}
	}
}

// SortKeys parses the config sort list. A leading '-' marks a key
// descending: ["-priority", "name"].
func SortKeys(fields []string) []query.SortKey {
	keys := make([]query.SortKey, 0, len(fields))
	for _, f := range fields {
		desc := strings.HasPrefix(f, "-")
		keys = append(keys, query.SortKey{Field: strings.TrimPrefix(f, "-"), Descending: desc})
	}
	return keys
}

// StatusPredicate builds the board's filter. An empty status means show
// everything.
func StatusPredicate(status string) query.Predicate {
	if status == "" {
		return query.MatchAll{}
	}
	return query.Eq{Field: "status", Value: status}
}
