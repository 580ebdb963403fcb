package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/excursion/pkg/domain"
)

// LoggingHooks logs every lifecycle event.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLocationEnter: func(ctx context.Context, e *domain.LocationEvent) {
			logger.InfoContext(ctx, "location_enter",
				"user_id", e.UserID,
				"location_id", e.LocationID,
				"transition", e.Transition,
				"degraded", e.Degraded,
				"duration", e.Duration,
			)
		},
		OnRenderFailed: func(ctx context.Context, e *domain.FailureEvent) {
			logger.WarnContext(ctx, "render_failed",
				"user_id", e.UserID,
				"location_id", e.LocationID,
				"err", e.Err,
			)
		},
	}
}

// Combine fans every event out to each hook set in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLocationEnter: func(ctx context.Context, e *domain.LocationEvent) {
			for _, s := range sets {
				if s.OnLocationEnter != nil {
					s.OnLocationEnter(ctx, e)
				}
			}
		},
		OnRenderFailed: func(ctx context.Context, e *domain.FailureEvent) {
			for _, s := range sets {
				if s.OnRenderFailed != nil {
					s.OnRenderFailed(ctx, e)
				}
			}
		},
		OnDeleteFailed: func(ctx context.Context, e *domain.FailureEvent) {
			for _, s := range sets {
				if s.OnDeleteFailed != nil {
					s.OnDeleteFailed(ctx, e)
				}
			}
		},
	}
}
