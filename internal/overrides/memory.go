package overrides

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository stores overrides in-memory. It backs tests and host
// applications that run without a database.
type MemoryRepository struct {
	mu          sync.RWMutex
	records     map[Key]*Override
	broadcaster *changeBroadcaster
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:     make(map[Key]*Override),
		broadcaster: newChangeBroadcaster(),
	}
}

// ListByScope returns every override stored for the (path, locale) pair.
func (r *MemoryRepository) ListByScope(_ context.Context, path, locale string) ([]*Override, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*Override{}
	for key, record := range r.records {
		if key.PagePath == path && key.Locale == locale {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

// GetByKey returns the override stored for a triple.
func (r *MemoryRepository) GetByKey(_ context.Context, key Key) (*Override, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[key]
	if !ok {
		return nil, &NotFoundError{Resource: "override", Key: key.ElementID}
	}
	copied := *record
	return &copied, nil
}

// Replace swaps the stored record for the triple, emitting a change event.
// A prior record's original is carried into the replacement.
func (r *MemoryRepository) Replace(_ context.Context, record *Override) (*Override, bool, error) {
	if record == nil {
		return nil, false, &CommitFailedError{Cause: ErrElementIDRequired}
	}
	key := KeyOf(record)
	if !key.Valid() {
		return nil, false, &CommitFailedError{Key: key, Cause: ErrElementIDRequired}
	}

	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	now := time.Now().UTC()
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = now
	}
	copied.UpdatedAt = now

	r.mu.Lock()
	prior, existed := r.records[key]
	if existed {
		copied.Original = prior.Original
	}
	r.records[key] = &copied
	r.mu.Unlock()

	eventType := ChangeUpdated
	if !existed {
		eventType = ChangeCreated
	}
	snapshot := copied
	r.broadcaster.Broadcast(newChangeEvent(eventType, &snapshot))

	result := copied
	return &result, existed, nil
}

// DeleteByKey removes the record for a triple.
func (r *MemoryRepository) DeleteByKey(_ context.Context, key Key) error {
	r.mu.Lock()
	_, existed := r.records[key]
	delete(r.records, key)
	r.mu.Unlock()

	if !existed {
		return &NotFoundError{Resource: "override", Key: key.ElementID}
	}
	r.broadcaster.Broadcast(ChangeEvent{Type: ChangeDeleted, Key: key})
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Subscriber = (*MemoryRepository)(nil)
)
