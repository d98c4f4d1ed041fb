package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-overlay/internal/audit"
	"github.com/goliatone/go-overlay/internal/logging"
	"github.com/goliatone/go-overlay/internal/overrides"
	"github.com/goliatone/go-overlay/pkg/interfaces"
)

// EditPermission is the token a user must hold for any mutating operation.
const EditPermission = "content_overrides:update"

var (
	ErrStoreRequired     = errors.New("session: content store is required")
	ErrElementIDRequired = errors.New("session: element id is required")
	ErrNotEditing        = errors.New("session: element is not being edited")
)

// ContentStore is the slice of the override store the session drives.
type ContentStore interface {
	FetchAll(ctx context.Context, path, locale string) (map[string]*overrides.Override, error)
	Lookup(elementID string) (*overrides.Override, bool)
	Commit(ctx context.Context, req overrides.CommitRequest) (*overrides.Override, bool, error)
	Invalidate()
	Scope() overrides.Scope
}

type editState struct {
	live     string
	original string
}

// Session is the authorization-gated state machine controlling the global
// editing switch, the active locale and path, and the per-element edit
// lifecycle. Every element is Viewing unless it appears in the editing map.
type Session struct {
	mu      sync.RWMutex
	store   ContentStore
	auth    interfaces.AuthProvider
	paths   interfaces.PathProvider
	notify  interfaces.Notifier
	audit   audit.Recorder
	logger  interfaces.Logger
	clock   func() time.Time
	path    string
	locale  string
	enabled bool
	editing map[string]*editState
}

// Option mutates the session configuration.
type Option func(*Session)

// WithNotifier overrides the notifier used for transient user notices.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(s *Session) {
		s.notify = notifier
	}
}

// WithLogger overrides the session logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPathProvider binds a path source consulted by Refresh, so the session
// can follow the host router without explicit Navigate calls.
func WithPathProvider(provider interfaces.PathProvider) Option {
	return func(s *Session) {
		s.paths = provider
	}
}

// WithAuditRecorder overrides the audit recorder dependency.
func WithAuditRecorder(recorder audit.Recorder) Option {
	return func(s *Session) {
		s.audit = recorder
	}
}

// WithClock overrides the clock used for audit timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLocale sets the initial locale.
func WithLocale(locale string) Option {
	return func(s *Session) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			s.locale = trimmed
		}
	}
}

// New constructs an editing session around a content store. The auth
// provider gates every mutating operation; a nil provider means read-only.
func New(store ContentStore, auth interfaces.AuthProvider, opts ...Option) (*Session, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	sess := &Session{
		store:   store,
		auth:    auth,
		logger:  logging.NoOp(),
		clock:   time.Now,
		locale:  "en",
		editing: map[string]*editState{},
	}
	for _, opt := range opts {
		opt(sess)
	}
	return sess, nil
}

// Privileged reports whether the acting user may mutate overlay state.
// Absence of an identity and absence of the permission read the same.
func (s *Session) Privileged(ctx context.Context) bool {
	if s.auth == nil {
		return false
	}
	if id, err := s.auth.CurrentUserID(ctx); err != nil || id == "" {
		return false
	}
	ok, err := s.auth.HasPermission(ctx, EditPermission)
	return err == nil && ok
}

// Enabled reports whether the global editing switch is on.
func (s *Session) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// Locale returns the locale driving fetches and new edits.
func (s *Session) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

// Path returns the page path used as the commit scope.
func (s *Session) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// LiveContent returns the in-progress text for an element and whether the
// element is currently being edited.
func (s *Session) LiveContent(elementID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.editing[elementID]
	if !ok {
		return "", false
	}
	return state.live, true
}

// CachedContent returns the persisted override content for an element in
// the active scope.
func (s *Session) CachedContent(elementID string) (string, bool) {
	record, ok := s.store.Lookup(elementID)
	if !ok {
		return "", false
	}
	return record.Content, true
}

// EditingElements lists the element IDs currently in edit state.
func (s *Session) EditingElements() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.editing))
	for id := range s.editing {
		out = append(out, id)
	}
	return out
}

// ToggleEditing flips the global editing switch. Turning it off force-cancels
// every element currently being edited; unsaved text is discarded without
// any backend call. Unprivileged calls are silent no-ops.
func (s *Session) ToggleEditing(ctx context.Context) {
	if !s.Privileged(ctx) {
		return
	}

	s.mu.Lock()
	s.enabled = !s.enabled
	abandoned := 0
	if !s.enabled && len(s.editing) > 0 {
		abandoned = len(s.editing)
		s.editing = map[string]*editState{}
	}
	enabled := s.enabled
	s.mu.Unlock()

	s.logger.Info("editing mode toggled", "enabled", enabled, "abandoned_edits", abandoned)
}

// StartEditing transitions an element from Viewing to Editing, seeding the
// live content with what is currently displayed. When no override exists yet
// for the triple, the compiled-in default becomes the future baseline.
// Requires privilege, the global switch on, and the element not already
// being edited.
func (s *Session) StartEditing(ctx context.Context, elementID, displayed, defaultText string) {
	if !s.Privileged(ctx) {
		return
	}
	if strings.TrimSpace(elementID) == "" {
		return
	}

	original := defaultText
	if record, ok := s.store.Lookup(elementID); ok {
		original = record.Original
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	if _, exists := s.editing[elementID]; exists {
		return
	}
	s.editing[elementID] = &editState{
		live:     displayed,
		original: original,
	}
}

// UpdateContent records keystroke-level updates to the live content. It has
// a visible effect only while the element is being edited.
func (s *Session) UpdateContent(ctx context.Context, elementID, text string) {
	if !s.Privileged(ctx) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.editing[elementID]; ok {
		state.live = text
	}
}

// SaveContent commits the element's live content through the store. On
// success the element returns to Viewing and a success notice is surfaced.
// On failure the element stays Editing so the unsaved text is not lost, a
// failure notice is surfaced, and the error is returned; no retry happens.
func (s *Session) SaveContent(ctx context.Context, elementID string) error {
	if !s.Privileged(ctx) {
		return nil
	}

	s.mu.RLock()
	state, ok := s.editing[elementID]
	if !ok {
		s.mu.RUnlock()
		return ErrNotEditing
	}
	live := state.live
	original := state.original
	path := s.path
	locale := s.locale
	s.mu.RUnlock()

	editorID := ""
	if s.auth != nil {
		if id, err := s.auth.CurrentUserID(ctx); err == nil {
			editorID = id
		}
	}

	stored, created, err := s.store.Commit(ctx, overrides.CommitRequest{
		PagePath:  path,
		ElementID: elementID,
		Locale:    locale,
		Content:   live,
		Original:  original,
		EditorID:  editorID,
	})
	if err != nil {
		s.notifyFailure(ctx, "failed to save content for %s", elementID)
		return err
	}

	s.mu.Lock()
	delete(s.editing, elementID)
	s.mu.Unlock()

	s.notifySuccess(ctx, "content saved for %s", elementID)
	s.recordAudit(ctx, elementID, stored, created)
	return nil
}

// CancelEditing discards the element's live content and returns it to
// Viewing without any network call.
func (s *Session) CancelEditing(ctx context.Context, elementID string) {
	if !s.Privileged(ctx) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.editing, elementID)
}

// SetLocale clears the override cache, switches the locale, and refetches
// the active scope. Any in-progress edit is abandoned; the notifier reports
// how many so a host UI can warn.
func (s *Session) SetLocale(ctx context.Context, locale string) error {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return overrides.ErrLocaleRequired
	}
	return s.rescope(ctx, s.Path(), locale)
}

// Navigate switches the page path, with the same invalidation semantics as
// a locale change: full refetch, all in-flight edits abandoned.
func (s *Session) Navigate(ctx context.Context, path string) error {
	return s.rescope(ctx, path, s.Locale())
}

// Refresh refetches overrides for the current scope. When a path provider is
// bound, the scope follows whatever path it reports.
func (s *Session) Refresh(ctx context.Context) error {
	path := s.Path()
	if s.paths != nil {
		if current := strings.TrimSpace(s.paths.CurrentPath(ctx)); current != "" {
			path = current
		}
	}
	return s.rescope(ctx, path, s.Locale())
}

func (s *Session) rescope(ctx context.Context, path, locale string) error {
	s.mu.Lock()
	abandoned := len(s.editing)
	if abandoned > 0 {
		s.editing = map[string]*editState{}
	}
	s.path = path
	s.locale = locale
	s.mu.Unlock()

	if abandoned > 0 {
		s.notifyFailure(ctx, "%d unsaved edits were discarded", abandoned)
	}

	s.store.Invalidate()
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if _, err := s.store.FetchAll(ctx, path, locale); err != nil {
		// Non-fatal: nodes degrade to default text. Privileged users get a
		// transient notice so editing does not silently act on stale data.
		if s.Privileged(ctx) {
			s.notifyFailure(ctx, "failed to load content for %s", path)
		}
		return err
	}
	return nil
}

func (s *Session) notifySuccess(ctx context.Context, msg string, args ...any) {
	if s.notify == nil {
		return
	}
	s.notify.Success(ctx, msg, args...)
}

func (s *Session) notifyFailure(ctx context.Context, msg string, args ...any) {
	if s.notify == nil {
		return
	}
	s.notify.Failure(ctx, msg, args...)
}

func (s *Session) recordAudit(ctx context.Context, elementID string, stored *overrides.Override, created bool) {
	if s.audit == nil {
		return
	}
	action := "override_updated"
	if created {
		action = "override_created"
	}
	event := audit.Event{
		EntityType: "content_override",
		EntityID:   elementID,
		Action:     action,
		OccurredAt: s.clock(),
	}
	if stored != nil {
		event.Metadata = map[string]any{
			"page_path":  stored.PagePath,
			"locale":     stored.Locale,
			"updated_by": stored.UpdatedBy,
		}
	}
	_ = s.audit.Record(ctx, event)
}
