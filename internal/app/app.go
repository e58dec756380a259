package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abhyasa/study-client/accounts"
	"github.com/abhyasa/study-client/activity"
	"github.com/abhyasa/study-client/admin"
	"github.com/abhyasa/study-client/api"
	"github.com/abhyasa/study-client/catalog"
	"github.com/abhyasa/study-client/internal/config"
	"github.com/abhyasa/study-client/sessions"
	"github.com/abhyasa/study-client/storage"
	"github.com/abhyasa/study-client/storage/filestore"
	"github.com/abhyasa/study-client/storage/redisstore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// App holds the wired client components for one profile.
type App struct {
	Config   config.Config
	Logger   zerolog.Logger
	Store    storage.Store
	Sessions *sessions.Manager
	Gate     *sessions.Gate
	Tracker  *activity.Tracker
	API      *api.Client
	Accounts *accounts.Service
	Admin    *admin.Manager
	Search   *catalog.Index

	closers []io.Closer
}

type options struct {
	logger    *zerolog.Logger
	store     storage.Store
	navigator sessions.Navigator
	nowFunc   func() time.Time
	traceOut  io.Writer
}

type Option func(*options)

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithStore replaces the store the config would open.
func WithStore(store storage.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithNavigator is told when the session ends and the user has to log in.
func WithNavigator(nav sessions.Navigator) Option {
	return func(o *options) {
		o.navigator = nav
	}
}

// WithTraceOutput is where API calls are printed when TRACE_HTTP is set.
func WithTraceOutput(w io.Writer) Option {
	return func(o *options) {
		o.traceOut = w
	}
}

func WithNowTime(nowFunc func() time.Time) Option {
	return func(o *options) {
		o.nowFunc = nowFunc
	}
}

// New opens the session store named by cfg and wires every component over it.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	o := options{nowFunc: time.Now, traceOut: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	logger := NewLogger(cfg.GetLogLevel(), os.Stderr)
	if o.logger != nil {
		logger = *o.logger
	}
	nav := o.navigator
	if nav == nil {
		nav = sessions.NavigatorFunc(func(reason string) {
			logger.Info().Str("reason", reason).Msg("Please log in again")
		})
	}

	a := &App{Config: cfg, Logger: logger}

	store := o.store
	if store == nil {
		var closer io.Closer
		var err error
		store, closer, err = OpenStore(cfg)
		if err != nil {
			return nil, err
		}
		if closer != nil {
			a.closers = append(a.closers, closer)
		}
	}
	a.Store = store

	m, err := sessions.NewManager(store, sessions.WithNowTime(o.nowFunc), sessions.WithLogger(logger))
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "[app.New] session manager")
	}
	if err := m.Init(ctx); err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "[app.New] session store")
	}
	a.Sessions = m

	a.Gate = sessions.NewGate(m,
		sessions.WithWindow(cfg.GetInactivityWindow()),
		sessions.WithNavigator(nav),
		sessions.WithGateLogger(logger),
	)
	a.Tracker = activity.NewTracker(m,
		activity.WithCoalesce(cfg.GetActivityCoalesce()),
		activity.WithNowTime(o.nowFunc),
		activity.WithLogger(logger),
	)

	clientOpts := []api.ClientOption{
		api.WithBaseURL(cfg.GetAPIBaseURL()),
		api.WithRefreshPath(cfg.GetRefreshPath()),
		api.WithTimeout(cfg.GetHTTPTimeout()),
		api.WithNavigator(nav),
		api.WithLogger(logger),
	}
	if cfg.GetTraceHTTP() && cfg.GetEnv() == "DEV" {
		clientOpts = append(clientOpts, api.WithTrace(o.traceOut))
	}
	client, err := api.NewClient(m, clientOpts...)
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "[app.New] api client")
	}
	a.API = client

	a.Accounts = accounts.NewService(client, m, accounts.WithLogger(logger))
	a.Admin = admin.NewManager(client, m, admin.WithLogger(logger))
	a.Search = catalog.NewIndex(client, catalog.WithLogger(logger))

	logger.Debug().
		Str("api", client.BaseURL()).
		Str("storage", cfg.GetStorageBackend()).
		Str("profile", cfg.GetProfile()).
		Msg("Client ready")
	return a, nil
}

// OpenStore builds the backend named by STORAGE_BACKEND. The closer is nil
// when the backend holds nothing open.
func OpenStore(cfg config.StorageConfig) (storage.Store, io.Closer, error) {
	switch cfg.GetStorageBackend() {
	case config.BackendFile:
		return filestore.New(cfg.GetStoragePath()), nil, nil
	case config.BackendRedis:
		rs := redisstore.New(redisstore.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
			Profile:  cfg.GetProfile(),
		})
		return rs, rs, nil
	}
	return nil, nil, fmt.Errorf("%w: storage backend %q", storage.ErrUnknownBackend, cfg.GetStorageBackend())
}

// Close releases the store.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
