package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/excursion/internal/logging"
	"github.com/aretw0/excursion/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Registry maps user ids to their Navigation and serializes access per user.
// It uses Reference Counting to garbage collect unused locks.
type Registry struct {
	trackBack bool

	mu       sync.Mutex // guards sessions and locks
	sessions map[int64]*Navigation
	locks    map[int64]*lockEntry

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Registry.
type Option func(*Registry)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(r *Registry) {
		r.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry. trackBack enables back stacks in new sessions.
func NewRegistry(trackBack bool, opts ...Option) *Registry {
	r := &Registry{
		trackBack: trackBack,
		sessions:  make(map[int64]*Navigation),
		locks:     make(map[int64]*lockEntry),
		lockTTL:   DefaultLockTTL,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(userID) after unlocking.
func (r *Registry) acquire(userID int64) *lockEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.locks[userID]
	if !exists {
		entry = &lockEntry{}
		r.locks[userID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (r *Registry) release(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.locks[userID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(r.locks, userID)
	}
}

// session returns the user's Navigation, creating it on first use.
func (r *Registry) session(userID int64) *Navigation {
	r.mu.Lock()
	defer r.mu.Unlock()

	nav, ok := r.sessions[userID]
	if !ok {
		nav = NewNavigation(userID, r.trackBack)
		r.sessions[userID] = nav
		r.logger.Debug("session created", "user_id", userID)
	}
	return nav
}

// WithSession runs fn with exclusive access to the user's Navigation.
// A second call for the same user waits until the first returns.
func (r *Registry) WithSession(ctx context.Context, userID int64, fn func(context.Context, *Navigation) error) error {
	entry := r.acquire(userID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		r.release(userID)
	}()

	if r.locker != nil {
		unlock, err := r.locker.Lock(ctx, strconv.FormatInt(userID, 10), r.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// Release even when the request was cancelled, otherwise the key lingers until the TTL.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				r.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"user_id", userID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx, r.session(userID))
}

// Len returns the number of sessions created so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// UserIDs returns the ids of every known session, sorted.
func (r *Registry) UserIDs() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
