package di

import (
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-overlay/internal/audit"
	"github.com/goliatone/go-overlay/internal/logging"
	"github.com/goliatone/go-overlay/internal/logging/gologger"
	"github.com/goliatone/go-overlay/internal/node"
	"github.com/goliatone/go-overlay/internal/overrides"
	"github.com/goliatone/go-overlay/internal/runtimeconfig"
	"github.com/goliatone/go-overlay/internal/sanitize"
	"github.com/goliatone/go-overlay/internal/session"
	"github.com/goliatone/go-overlay/pkg/interfaces"
)

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	repo     overrides.Repository
	store    *overrides.Store
	sess     *session.Session
	nodes    *node.Factory
	auth     interfaces.AuthProvider
	paths    interfaces.PathProvider
	notifier interfaces.Notifier
	recorder audit.Recorder
	logs     interfaces.LoggerProvider
}

// Option overrides a container dependency.
type Option func(*Container)

// WithBunDB binds a bun database; the container builds a bun-backed
// repository from it unless one is supplied explicitly.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithRepository binds an override repository directly.
func WithRepository(repo overrides.Repository) Option {
	return func(c *Container) {
		c.repo = repo
	}
}

// WithCache binds an external cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithAuthProvider binds the identity/role collaborator.
func WithAuthProvider(auth interfaces.AuthProvider) Option {
	return func(c *Container) {
		c.auth = auth
	}
}

// WithPathProvider binds the host router's current-path lookup.
func WithPathProvider(provider interfaces.PathProvider) Option {
	return func(c *Container) {
		c.paths = provider
	}
}

// WithNotifier binds the transient notice sink.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

// WithAuditRecorder binds the audit trail recorder.
func WithAuditRecorder(recorder audit.Recorder) Option {
	return func(c *Container) {
		c.recorder = recorder
	}
}

// WithLoggerProvider binds a logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.logs = provider
	}
}

// NewContainer validates the config and wires every dependency, preferring
// supplied overrides over defaults.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepository()

	storeOpts := []overrides.StoreOption{
		overrides.WithStoreLogger(logging.StoreLogger(c.logs)),
	}
	if cfg.Sanitizer.Enabled {
		cleaner := sanitize.New()
		if cfg.Sanitizer.Strict {
			cleaner = sanitize.NewStrict()
		}
		storeOpts = append(storeOpts, overrides.WithSanitizer(cleaner.Clean))
	}
	c.store = overrides.NewStore(c.repo, storeOpts...)

	sessOpts := []session.Option{
		session.WithLogger(logging.SessionLogger(c.logs)),
		session.WithLocale(cfg.DefaultLocale),
	}
	if c.paths != nil {
		sessOpts = append(sessOpts, session.WithPathProvider(c.paths))
	}
	if c.notifier != nil {
		sessOpts = append(sessOpts, session.WithNotifier(c.notifier))
	}
	if c.recorder != nil {
		sessOpts = append(sessOpts, session.WithAuditRecorder(c.recorder))
	}
	sess, err := session.New(c.store, c.auth, sessOpts...)
	if err != nil {
		return nil, err
	}
	c.sess = sess

	nodes, err := node.NewFactory(sess,
		node.WithRTLLocales(cfg.RTLLocales),
		node.WithLogger(logging.NodeLogger(c.logs)),
	)
	if err != nil {
		return nil, err
	}
	c.nodes = nodes

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.logs != nil || !c.Config.Logging.Enabled {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
	})
	if err != nil {
		return err
	}
	c.logs = provider
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepository() {
	if c.repo != nil {
		return
	}
	if c.bunDB != nil {
		c.repo = overrides.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return
	}
	c.repo = overrides.NewMemoryRepository()
}

// Store returns the configured override store.
func (c *Container) Store() *overrides.Store {
	return c.store
}

// Session returns the configured editing session.
func (c *Container) Session() *session.Session {
	return c.sess
}

// Nodes returns the configured node factory.
func (c *Container) Nodes() *node.Factory {
	return c.nodes
}

// Repository returns the configured override repository.
func (c *Container) Repository() overrides.Repository {
	return c.repo
}

// LoggerProvider returns the configured logger provider, if any.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.logs
}
