package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/excursion"
	"github.com/aretw0/excursion/internal/config"
	"github.com/aretw0/excursion/pkg/adapters/file"
	httpAdapter "github.com/aretw0/excursion/pkg/adapters/http"
	redisAdapter "github.com/aretw0/excursion/pkg/adapters/redis"
	"github.com/aretw0/excursion/pkg/dispatch"
	"github.com/aretw0/excursion/pkg/observability"
	"github.com/aretw0/excursion/pkg/persistence/middleware"
	"github.com/aretw0/excursion/pkg/ports"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "excursion"

// Services is a fully wired bot without its update loop.
type Services struct {
	Tour       *Tour
	Engine     *excursion.Engine
	Dispatcher *dispatch.Dispatcher
	Metrics    *observability.Metrics
	Journal    ports.ActionJournal
	// Actions reads the journal back; nil when the backend cannot.
	Actions ports.JournalReader

	redis  backend.UniversalClient
	logger *slog.Logger
}

// Build wires the tour, the engine and the dispatcher from cfg, delivering through transport.
func Build(cfg *config.Config, transport ports.MessageTransport, logger *slog.Logger) (*Services, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	tour, err := LoadTour(cfg, logger)
	if err != nil {
		return nil, err
	}

	svc := &Services{
		Tour:    tour,
		Metrics: observability.NewMetrics(MetricsNamespace, true),
		logger:  logger,
	}

	if cfg.Redis.Addr != "" {
		svc.redis = backend.NewUniversalClient(&backend.UniversalOptions{
			Addrs:    []string{cfg.Redis.Addr},
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	if err := svc.openJournal(cfg); err != nil {
		_ = svc.Close()
		return nil, err
	}

	engineOpts := []excursion.Option{
		excursion.WithLogger(logger),
		excursion.WithLifecycleHooks(observability.Combine(
			observability.LoggingHooks(logger),
			svc.Metrics.Hooks(),
		)),
		excursion.WithLabels(cfg.Labels),
		excursion.WithSilent(cfg.Silent),
		excursion.WithMapFile(cfg.MapFile),
		excursion.WithDeleteConcurrency(cfg.DeleteConcurrency),
		excursion.WithLockTTL(cfg.LockTTL),
	}
	if svc.redis != nil {
		engineOpts = append(engineOpts, excursion.WithLocker(redisAdapter.NewLocker(svc.redis, cfg.Redis.Prefix)))
	}

	svc.Engine, err = excursion.New(tour.Repo, tour.Resolver, transport, engineOpts...)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}

	svc.Dispatcher = dispatch.New(svc.Engine,
		dispatch.WithJournal(svc.Journal),
		dispatch.WithObserver(svc.Metrics),
		dispatch.WithMessages(cfg.Messages),
		dispatch.WithMaxInputSize(cfg.MaxInputSize),
		dispatch.WithLogger(logger),
	)
	return svc, nil
}

func (s *Services) openJournal(cfg *config.Config) error {
	var store ports.Journal
	switch cfg.Journal.Backend {
	case config.JournalFile:
		store = file.NewJournal(cfg.Journal.Path)
	case config.JournalRedis:
		if s.redis == nil {
			return errors.New("redis journal requires redis.addr")
		}
		store = redisAdapter.NewJournal(s.redis, cfg.Redis.Prefix, cfg.Journal.MaxLen)
	default:
		s.Journal = ports.NopJournal{}
		return nil
	}

	mws, err := journalMiddleware(cfg.Journal)
	if err != nil {
		return err
	}
	store = middleware.Chain(store, mws...)
	s.Journal, s.Actions = store, store

	s.logger.Debug("journal ready",
		"backend", cfg.Journal.Backend,
		"redact", len(cfg.Journal.Redact),
		"encrypted", cfg.Journal.Key != "",
	)
	return nil
}

// journalMiddleware redacts before it encrypts.
func journalMiddleware(cfg config.JournalConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}
	if cfg.Key != "" {
		enc := middleware.EncryptionConfig{}
		var err error
		if enc.ActiveKey, err = middleware.ParseKey(cfg.Key); err != nil {
			return nil, err
		}
		for _, k := range cfg.FallbackKeys {
			key, err := middleware.ParseKey(k)
			if err != nil {
				return nil, fmt.Errorf("fallback key: %w", err)
			}
			enc.FallbackKeys = append(enc.FallbackKeys, key)
		}
		mw, err := middleware.NewEncryptionMiddleware(enc)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return mws, nil
}

// Handler returns the operations API over the wired services.
func (s *Services) Handler() http.Handler {
	return httpAdapter.NewHandler(httpAdapter.Config{
		Engine:     s.Engine,
		Repository: s.Tour.Repo,
		Journal:    s.Actions,
		Metrics:    s.Metrics.Handler(),
		Version:    excursion.Version,
		Logger:     s.logger,
	})
}

// Close releases the Redis connection, if any.
func (s *Services) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
