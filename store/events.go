package store

// ChangeKind discriminates ChangeEvent variants.
type ChangeKind int

const (
	KindInitial ChangeKind = iota
	KindUpdate
	KindError
)

func (k ChangeKind) String() string {
	switch k {
	case KindInitial:
		return "Initial"
	case KindUpdate:
		return "Update"
	case KindError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ChangeEvent describes how an observed ResultSet changed.
type ChangeEvent interface {
	Kind() ChangeKind
}

// InitialEvent is delivered exactly once per subscription, before any
// Update. The observed ResultSet already reflects the snapshot.
type InitialEvent struct{}

func (InitialEvent) Kind() ChangeKind { return KindInitial }

// UpdateEvent is delivered after the store commits a write affecting the
// observed view. Deleted indices refer to the ordering before the write;
// Inserted and Modified refer to the ordering after it.
type UpdateEvent struct {
	Deleted  []int
	Inserted []int
	Modified []int
}

func (UpdateEvent) Kind() ChangeKind { return KindUpdate }

// ErrorEvent reports a store-side observation failure. The subscription
// stays registered; recovery is the listener's call.
type ErrorEvent struct {
	Err error
}

func (ErrorEvent) Kind() ChangeKind { return KindError }
