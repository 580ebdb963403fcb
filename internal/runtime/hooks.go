package runtime

import (
	"context"
	"time"

	"github.com/aretw0/excursion/pkg/domain"
)

// fail reports err through the render-failed hook and returns it unchanged.
func (e *Engine) fail(ctx context.Context, userID int64, locationID string, err error) error {
	if e.hooks.OnRenderFailed != nil {
		e.hooks.OnRenderFailed(ctx, &domain.FailureEvent{
			EventBase: domain.EventBase{
				Timestamp: e.now(),
				Type:      domain.EventRenderFailed,
				UserID:    userID,
			},
			LocationID: locationID,
			Err:        err,
		})
	}
	return err
}

func (e *Engine) emitLocationEnter(ctx context.Context, userID int64, view domain.View, transition string, d time.Duration) {
	if e.hooks.OnLocationEnter == nil {
		return
	}
	e.hooks.OnLocationEnter(ctx, &domain.LocationEvent{
		EventBase: domain.EventBase{
			Timestamp: e.now(),
			Type:      domain.EventLocationEnter,
			UserID:    userID,
		},
		LocationID: view.LocationID,
		Transition: transition,
		Degraded:   view.Degraded,
		Duration:   d,
	})
}

// emitDeleteFailed may run concurrently; hooks must be safe for concurrent use.
func (e *Engine) emitDeleteFailed(ctx context.Context, userID int64, err error) {
	if e.hooks.OnDeleteFailed == nil {
		return
	}
	e.hooks.OnDeleteFailed(ctx, &domain.FailureEvent{
		EventBase: domain.EventBase{
			Timestamp: e.now(),
			Type:      domain.EventDeleteFailed,
			UserID:    userID,
		},
		Err: err,
	})
}
