package overrides

import "context"

// Repository abstracts storage operations for override records.
type Repository interface {
	ListByScope(ctx context.Context, path, locale string) ([]*Override, error)
	GetByKey(ctx context.Context, key Key) (*Override, error)
	// Replace removes any existing row for the record's triple and inserts
	// the supplied record, so the single active row is always fresh. The
	// baseline original of a prior row is carried into the new one; it is set
	// once per triple and never rewritten. The boolean reports whether a
	// prior row was replaced.
	Replace(ctx context.Context, record *Override) (*Override, bool, error)
	DeleteByKey(ctx context.Context, key Key) error
}

// Subscriber is an optional repository extension delivering change events,
// e.g. so a host can refresh other sessions after a commit.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeType enumerates override change events.
type ChangeType string

const (
	// ChangeCreated indicates a triple was persisted for the first time.
	ChangeCreated ChangeType = "created"
	// ChangeUpdated indicates an existing triple was replaced.
	ChangeUpdated ChangeType = "updated"
	// ChangeDeleted indicates a triple was removed.
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports override mutations to interested subscribers.
type ChangeEvent struct {
	Type     ChangeType
	Key      Key
	Override *Override
}

func newChangeEvent(changeType ChangeType, record *Override) ChangeEvent {
	return ChangeEvent{
		Type:     changeType,
		Key:      KeyOf(record),
		Override: record,
	}
}
