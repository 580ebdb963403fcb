package runtime

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/excursion/internal/logging"
	"github.com/aretw0/excursion/pkg/domain"
	"github.com/aretw0/excursion/pkg/ports"
	"github.com/aretw0/excursion/pkg/route"
	"github.com/aretw0/excursion/pkg/session"
)

// DefaultDeleteConcurrency bounds the number of deletions issued at once.
const DefaultDeleteConcurrency = 4

// Transition names recorded in lifecycle events.
const (
	TransitionStart   = "start"
	TransitionRestart = "restart"
	TransitionSelect  = "select"
	TransitionJump    = "jump"
	TransitionBack    = "back"
)

// Labels are the captions of rendered controls.
// Next and Jump are format strings receiving the location id.
type Labels struct {
	Next    string `yaml:"next"`
	Back    string `yaml:"back"`
	Restart string `yaml:"restart"`
	Begin   string `yaml:"begin"`
	Jump    string `yaml:"jump"`
}

// DefaultLabels returns the English captions.
func DefaultLabels() Labels {
	return Labels{
		Next:    "➡️ Next: %s",
		Back:    "⬅️ Back",
		Restart: "🔄 Start over",
		Begin:   "Let's go! 🚀",
		Jump:    "📍 %s",
	}
}

// Engine is the presentation controller: it resolves content, computes navigation
// affordances, swaps the user's visible messages and updates the navigation session.
type Engine struct {
	repo      ports.LocationRepository
	resolver  route.Resolver
	transport ports.MessageTransport
	sessions  *session.Registry

	hooks             domain.LifecycleHooks
	logger            *slog.Logger
	labels            Labels
	silent            bool
	deleteConcurrency int
	mapFile           string
	now               func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLabels overrides the control captions.
func WithLabels(labels Labels) EngineOption {
	return func(e *Engine) {
		e.labels = labels
	}
}

// WithSilent toggles notification-free delivery (default true).
func WithSilent(silent bool) EngineOption {
	return func(e *Engine) {
		e.silent = silent
	}
}

// WithDeleteConcurrency bounds concurrent deletions.
func WithDeleteConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.deleteConcurrency = n
		}
	}
}

// WithMapFile sets the route map image sent by ShowMap.
func WithMapFile(path string) EngineOption {
	return func(e *Engine) {
		e.mapFile = path
	}
}

// WithClock overrides time.Now (used in tests).
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a controller over an immutable repository and topology.
func NewEngine(
	repo ports.LocationRepository,
	resolver route.Resolver,
	transport ports.MessageTransport,
	sessions *session.Registry,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		repo:              repo,
		resolver:          resolver,
		transport:         transport,
		sessions:          sessions,
		logger:            logging.NewNop(),
		labels:            DefaultLabels(),
		silent:            true,
		deleteConcurrency: DefaultDeleteConcurrency,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolver returns the active navigation policy.
func (e *Engine) Resolver() route.Resolver {
	return e.resolver
}

// known reports whether id names a location of the repository.
func (e *Engine) known(id string) bool {
	ids, err := e.repo.ListAll()
	if err != nil {
		e.logger.Error("failed to list locations", "err", err)
		return false
	}
	_, found := slices.BinarySearch(ids, id)
	return found
}

// resolve loads the content bundle of a location.
func (e *Engine) resolve(id string) (domain.Location, error) {
	text, ok := e.repo.GetText(id)
	if !ok {
		return domain.Location{}, &domain.ContentMissingError{LocationID: id}
	}
	audio, _ := e.repo.GetAudio(id)
	return domain.Location{
		ID:     id,
		Text:   text,
		Images: e.repo.GetImages(id),
		Audio:  audio,
	}, nil
}

func (e *Engine) sendOptions() domain.SendOptions {
	return domain.SendOptions{Silent: e.silent}
}

// Inspect returns a copy of the user's session, waiting for any render in progress.
func (e *Engine) Inspect(ctx context.Context, userID int64) (session.Snapshot, error) {
	var snap session.Snapshot
	err := e.sessions.WithSession(ctx, userID, func(_ context.Context, nav *session.Navigation) error {
		snap = nav.Snapshot()
		return nil
	})
	return snap, err
}

// Sessions returns the session registry.
func (e *Engine) Sessions() *session.Registry {
	return e.sessions
}
