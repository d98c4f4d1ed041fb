package overrides

import (
	"context"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-overlay/internal/logging"
	"github.com/goliatone/go-overlay/pkg/interfaces"
)

// Store owns the override cache for the active (page path, locale) scope and
// mediates every read and write against the repository. Fetch failures
// degrade to default text; commit failures propagate to the caller.
type Store struct {
	mu       sync.RWMutex
	repo     Repository
	scope    Scope
	gen      uint64
	cache    map[string]*Override
	sanitize func(string) string
	logger   interfaces.Logger
}

// StoreOption mutates the store configuration.
type StoreOption func(*Store)

// WithStoreLogger overrides the store logger.
func WithStoreLogger(logger interfaces.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSanitizer installs a write-path content sanitizer applied to every
// committed value before it reaches the repository.
func WithSanitizer(fn func(string) string) StoreOption {
	return func(s *Store) {
		s.sanitize = fn
	}
}

// NewStore constructs a store backed by the supplied repository.
func NewStore(repo Repository, opts ...StoreOption) *Store {
	store := &Store{
		repo:   repo,
		cache:  map[string]*Override{},
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Scope returns the scope the cache currently serves.
func (s *Store) Scope() Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scope
}

// Lookup returns the cached override for an element in the active scope.
func (s *Store) Lookup(elementID string) (*Override, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.cache[elementID]
	return record, ok
}

// Invalidate drops every cached record without touching the backend.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.cache = map[string]*Override{}
}

// FetchAll re-scopes the store to (path, locale) and loads every override
// for that pair in one batch. An empty path means there is no page context
// yet; the call is a no-op returning an empty map. On repository failure the
// error is logged and returned, and whatever the cache held for the scope is
// left untouched so nodes fall back to defaults or prior values.
func (s *Store) FetchAll(ctx context.Context, path, locale string) (map[string]*Override, error) {
	if strings.TrimSpace(path) == "" {
		return map[string]*Override{}, nil
	}
	if s.repo == nil {
		return map[string]*Override{}, ErrRepositoryNil
	}

	scope := Scope{PagePath: path, Locale: locale}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.scope != scope {
		// New scope: prior records belong to another page or locale.
		s.scope = scope
		s.cache = map[string]*Override{}
	}
	s.mu.Unlock()

	records, err := s.repo.ListByScope(ctx, path, locale)
	if err != nil {
		s.logger.Error("override fetch failed",
			"page_path", path,
			"locale", locale,
			"error", err,
		)
		return map[string]*Override{}, err
	}

	fetched := make(map[string]*Override, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		fetched[record.ElementID] = record
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// A newer fetch or invalidation raced this one; do not clobber the
		// cache with a stale scope's results.
		s.logger.Debug("discarding stale override fetch", "page_path", path, "locale", locale)
		return fetched, nil
	}
	s.cache = fetched
	return fetched, nil
}

// Refresh refetches the current scope. Used after a commit so the cache
// reflects exactly what the backend holds.
func (s *Store) Refresh(ctx context.Context) error {
	scope := s.Scope()
	if scope.IsZero() {
		return nil
	}
	_, err := s.FetchAll(ctx, scope.PagePath, scope.Locale)
	return err
}

// CommitRequest captures a pending write for one triple.
type CommitRequest struct {
	PagePath  string
	ElementID string
	Locale    string
	Content   string
	Original  string
	EditorID  string
}

// Validate enforces the identifying triple on commit requests.
func (r CommitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PagePath, validation.Required.Error(ErrPagePathRequired.Error())),
		validation.Field(&r.ElementID, validation.Required.Error(ErrElementIDRequired.Error())),
		validation.Field(&r.Locale, validation.Required.Error(ErrLocaleRequired.Error())),
	)
}

// Commit persists a request through the repository's delete-then-insert
// cycle and then refreshes the active scope, sequenced strictly after the
// commit resolves. The repository preserves the baseline original of any
// existing row, so the request's Original only lands on the first save for
// a triple. On failure the cache is left untouched and the error is
// surfaced to the caller; no retry is performed. The boolean reports
// whether the commit created the triple.
func (s *Store) Commit(ctx context.Context, req CommitRequest) (*Override, bool, error) {
	if s.repo == nil {
		return nil, false, ErrRepositoryNil
	}
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	content := req.Content
	if s.sanitize != nil {
		content = s.sanitize(content)
	}

	record := &Override{
		PagePath:  req.PagePath,
		ElementID: req.ElementID,
		Locale:    req.Locale,
		Content:   content,
		Original:  req.Original,
		UpdatedBy: req.EditorID,
	}

	stored, existed, err := s.repo.Replace(ctx, record)
	if err != nil {
		s.logger.Error("override commit failed",
			"page_path", req.PagePath,
			"element_id", req.ElementID,
			"locale", req.Locale,
			"error", err,
		)
		return nil, false, err
	}

	// Confirmatory refetch: trust the backend, not the locally echoed value.
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("post-commit refresh failed",
			"page_path", req.PagePath,
			"locale", req.Locale,
			"error", err,
		)
	}
	return stored, !existed, nil
}
