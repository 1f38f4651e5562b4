package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/internal/config"
	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/adapters/file"
	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/adapters/redis"
	"github.com/aretw0/stepwise/pkg/adapters/sqlite"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/observability"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/session"
	"github.com/aretw0/stepwise/pkg/topic"
	"github.com/prometheus/client_golang/prometheus"
)

// App bundles what the commands share: config, logger, engine and the lazily
// opened session store.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Engine  *stepwise.Engine
	Metrics *observability.Metrics

	hooks    domain.LifecycleHooks
	once     sync.Once
	sessions *session.Manager
	closer   io.Closer
	err      error
}

// NewApp builds the engine from cfg. Metrics are always collected; only
// serve exposes them.
func NewApp(cfg config.Config) (*App, error) {
	logger := createLogger(cfg.Log)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))

	engine, err := createEngine(cfg, logger, hooks)
	if err != nil {
		return nil, err
	}
	return &App{
		Config:  cfg,
		Logger:  logger,
		Engine:  engine,
		Metrics: metrics,
		hooks:   hooks,
	}, nil
}

// createLogger maps the log section to a stderr logger.
func createLogger(c config.Log) *slog.Logger {
	return logging.New(logging.ParseLevel(c.Level), c.Format)
}

// createEngine initializes a stepwise engine with standard CLI conventions.
func createEngine(cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*stepwise.Engine, error) {
	engine, err := stepwise.New(
		stepwise.WithLogger(logger),
		stepwise.WithLifecycleHooks(hooks),
		stepwise.WithCacheSize(cfg.Cache.Size),
		stepwise.WithMaxInputSize(cfg.Input.MaxSize),
		stepwise.WithPlaybackDelay(cfg.Playback.Delay),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// Sessions opens the configured store on first use.
func (a *App) Sessions() (*session.Manager, error) {
	a.once.Do(func() {
		store, locker, closer, err := openStore(a.Config)
		if err != nil {
			a.err = err
			return
		}
		opts := []session.Option{
			session.WithLogger(a.Logger),
			session.WithHooks(a.hooks),
		}
		if locker != nil {
			opts = append(opts, session.WithLocker(locker))
		}
		a.sessions = session.NewManager(store, a.Engine, opts...)
		a.closer = closer
		a.Logger.Debug("session store opened", "backend", a.Config.Store.Backend)
	})
	return a.sessions, a.err
}

// Catalog returns the built-in topics plus those under topics.dir.
func (a *App) Catalog(ctx context.Context) (*topic.Catalog, error) {
	if a.Config.Topics.Dir == "" {
		return topic.Load(ctx, nil)
	}
	loader, err := topic.Open(a.Config.Topics.Dir)
	if err != nil {
		return nil, err
	}
	return topic.Load(ctx, loader)
}

// Close releases the session store.
func (a *App) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore creates the session store selected by store.backend. Only the
// redis backend comes with a distributed locker.
func openStore(cfg config.Config) (ports.SessionStore, ports.DistributedLocker, io.Closer, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil, nopCloser{}, nil

	case config.BackendFile, "":
		path := cfg.Store.Path
		if path == "" {
			path = file.DefaultPath
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create session directory: %w", err)
		}
		return file.New(path), nil, nopCloser{}, nil

	case config.BackendSQLite:
		// A directory path (the file backend default) holds sessions.db.
		path := cfg.Store.Path
		if path != "" && filepath.Ext(path) == "" {
			path = filepath.Join(path, "sessions.db")
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, store, nil

	case config.BackendRedis:
		var opts []redis.Option
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		locker := redis.NewLocker(store.Client(), redis.DefaultPrefix)
		return store, locker, store, nil
	}
	return nil, nil, nil, errors.New("unknown store backend: " + cfg.Store.Backend)
}
