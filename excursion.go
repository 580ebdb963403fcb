package excursion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/excursion/internal/logging"
	"github.com/aretw0/excursion/internal/runtime"
	"github.com/aretw0/excursion/pkg/domain"
	"github.com/aretw0/excursion/pkg/ports"
	"github.com/aretw0/excursion/pkg/route"
	"github.com/aretw0/excursion/pkg/session"
)

// Version is the release of the module, overridden at link time.
var Version = "dev"

// Labels are the captions of rendered controls.
type Labels = runtime.Labels

// DefaultLabels returns the English captions.
func DefaultLabels() Labels { return runtime.DefaultLabels() }

// Engine is the high-level entry point for the excursion library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	repo        ports.LocationRepository
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	locker      ports.DistributedLocker
	lockTTL     time.Duration
	runtimeOpts []runtime.EngineOption
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLocker serializes each user's navigation across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLockTTL bounds how long a distributed lock survives a crashed holder.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.lockTTL = ttl
	}
}

// WithLabels overrides the control captions.
func WithLabels(labels Labels) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithLabels(labels))
	}
}

// WithSilent toggles notification-free delivery (default true).
func WithSilent(silent bool) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithSilent(silent))
	}
}

// WithMapFile sets the route map image sent by ShowMap.
func WithMapFile(path string) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithMapFile(path))
	}
}

// WithDeleteConcurrency bounds the deletions issued at once when a step is swapped.
func WithDeleteConcurrency(n int) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithDeleteConcurrency(n))
	}
}

// New validates the topology against the repository and builds an Engine.
// Every location the resolver references must exist in repo, otherwise a
// *domain.ConfigurationError is returned.
func New(repo ports.LocationRepository, resolver route.Resolver, transport ports.MessageTransport, opts ...Option) (*Engine, error) {
	if repo == nil || resolver == nil || transport == nil {
		return nil, &domain.ConfigurationError{Reason: "repository, resolver and transport are required"}
	}

	eng := &Engine{repo: repo}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	known, err := repo.ListAll()
	if err != nil {
		return nil, &domain.ConfigurationError{Reason: "failed to list locations", Err: err}
	}
	if err := route.Validate(resolver, known); err != nil {
		return nil, fmt.Errorf("invalid topology: %w", err)
	}

	eng.logger = eng.logger.With("variant", string(resolver.Variant()))

	sessionOpts := []session.Option{
		session.WithLogger(eng.logger),
		session.WithLockTTL(eng.lockTTL),
	}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	sessions := session.NewRegistry(resolver.Variant() == route.VariantGraph, sessionOpts...)

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	eng.runtime = runtime.NewEngine(repo, resolver, transport, sessions, runtimeOpts...)
	return eng, nil
}

// Welcome greets the user and offers the begin control, clearing the previous step.
func (e *Engine) Welcome(ctx context.Context, t domain.Target, greeting domain.Text) error {
	return e.runtime.Welcome(ctx, t, greeting)
}

// Start resets the user's session and renders the start location.
func (e *Engine) Start(ctx context.Context, t domain.Target) (domain.View, error) {
	return e.runtime.Start(ctx, t)
}

// Restart behaves like Start. It is offered once the tour reaches its end.
func (e *Engine) Restart(ctx context.Context, t domain.Target) (domain.View, error) {
	return e.runtime.Restart(ctx, t)
}

// Select moves the user to target, which may be an adjacent option or any known location.
func (e *Engine) Select(ctx context.Context, t domain.Target, target string) (domain.View, error) {
	return e.runtime.Select(ctx, t, target)
}

// Back returns to the previous location of the graph variant.
func (e *Engine) Back(ctx context.Context, t domain.Target) (domain.View, error) {
	return e.runtime.Back(ctx, t)
}

// ShowAll lists every location as a jump control.
func (e *Engine) ShowAll(ctx context.Context, t domain.Target, header domain.Text) error {
	return e.runtime.ShowAll(ctx, t, header)
}

// ShowMap sends the route map image.
func (e *Engine) ShowMap(ctx context.Context, t domain.Target) error {
	return e.runtime.ShowMap(ctx, t)
}

// Notify sends a short notice that disappears with the next step.
func (e *Engine) Notify(ctx context.Context, t domain.Target, text domain.Text) error {
	return e.runtime.Notify(ctx, t, text)
}

// Inspect returns a copy of the user's navigation session.
func (e *Engine) Inspect(ctx context.Context, userID int64) (session.Snapshot, error) {
	return e.runtime.Inspect(ctx, userID)
}

// Sessions returns the session registry.
func (e *Engine) Sessions() *session.Registry {
	return e.runtime.Sessions()
}

// Resolver returns the active navigation policy.
func (e *Engine) Resolver() route.Resolver {
	return e.runtime.Resolver()
}

// Repository returns the location repository the engine reads from.
func (e *Engine) Repository() ports.LocationRepository {
	return e.repo
}
