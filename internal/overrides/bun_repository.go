package overrides

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewOverrideRepository creates a generic repository for Override entities.
func NewOverrideRepository(db *bun.DB) repository.Repository[*Override] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Override]{
		NewRecord: func() *Override { return &Override{} },
		GetID: func(o *Override) uuid.UUID {
			return o.ID
		},
		SetID: func(o *Override, id uuid.UUID) {
			o.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(o *Override) string {
			if o == nil {
				return ""
			}
			return o.ID.String()
		},
	})
}

// BunRepository persists overrides using a Bun-backed database.
type BunRepository struct {
	db          *bun.DB
	repo        repository.Repository[*Override]
	broadcaster *changeBroadcaster
}

// NewBunRepository constructs a Bun-backed repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a Bun-backed repository whose reads
// go through the supplied cache service when one is provided.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	base := NewOverrideRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunRepository{
		db:          db,
		repo:        wrapped,
		broadcaster: newChangeBroadcaster(),
	}
}

// ListByScope returns every override persisted for the (path, locale) pair.
func (r *BunRepository) ListByScope(ctx context.Context, path, locale string) ([]*Override, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("co.page_path = ?", path).Where("co.locale = ?", locale)
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "overrides", path+":"+locale)
	}
	return records, nil
}

// GetByKey returns the single override for a triple, if present.
func (r *BunRepository) GetByKey(ctx context.Context, key Key) (*Override, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("co.page_path = ?", key.PagePath).
				Where("co.element_id = ?", key.ElementID).
				Where("co.locale = ?", key.Locale)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "override", key.ElementID)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "override", Key: key.ElementID}
	}
	return records[0], nil
}

// Replace deletes any stale row for the record's triple and inserts the
// supplied record inside one transaction. When a prior row exists its
// original is carried into the new row, so the baseline survives commits
// issued with a cold cache or a caller-supplied original.
func (r *BunRepository) Replace(ctx context.Context, record *Override) (*Override, bool, error) {
	if record == nil {
		return nil, false, &CommitFailedError{Cause: fmt.Errorf("nil record")}
	}
	key := KeyOf(record)
	if !key.Valid() {
		return nil, false, &CommitFailedError{Key: key, Cause: fmt.Errorf("incomplete key")}
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	existed := false
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		prior := new(Override)
		err := tx.NewSelect().
			Model(prior).
			Where("co.page_path = ?", key.PagePath).
			Where("co.element_id = ?", key.ElementID).
			Where("co.locale = ?", key.Locale).
			Limit(1).
			Scan(ctx)
		switch {
		case err == nil:
			existed = true
			record.Original = prior.Original
		case errors.Is(err, sql.ErrNoRows):
		default:
			return err
		}

		if existed {
			if _, err := tx.NewDelete().
				Model((*Override)(nil)).
				Where("page_path = ?", key.PagePath).
				Where("element_id = ?", key.ElementID).
				Where("locale = ?", key.Locale).
				Exec(ctx); err != nil {
				return err
			}
		}
		_, err = tx.NewInsert().Model(record).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, false, &CommitFailedError{Key: key, Cause: err}
	}

	eventType := ChangeUpdated
	if !existed {
		eventType = ChangeCreated
	}
	r.broadcaster.Broadcast(newChangeEvent(eventType, record))
	return record, existed, nil
}

// DeleteByKey removes the row matching a triple, if present.
func (r *BunRepository) DeleteByKey(ctx context.Context, key Key) error {
	res, err := r.db.NewDelete().
		Model((*Override)(nil)).
		Where("page_path = ?", key.PagePath).
		Where("element_id = ?", key.ElementID).
		Where("locale = ?", key.Locale).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return &NotFoundError{Resource: "override", Key: key.ElementID}
	}
	r.broadcaster.Broadcast(ChangeEvent{Type: ChangeDeleted, Key: key})
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache(base repository.Repository[*Override], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[*Override] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
