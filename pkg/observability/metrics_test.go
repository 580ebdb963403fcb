package observability_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/excursion/pkg/domain"
	"github.com/aretw0/excursion/pkg/observability"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics("excursion", false)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnLocationEnter(ctx, &domain.LocationEvent{LocationID: "A", Transition: "start", Duration: 10 * time.Millisecond})
	hooks.OnLocationEnter(ctx, &domain.LocationEvent{LocationID: "A", Transition: "start", Degraded: true})
	hooks.OnRenderFailed(ctx, &domain.FailureEvent{Err: &domain.ContentMissingError{LocationID: "B"}})
	hooks.OnDeleteFailed(ctx, &domain.FailureEvent{Err: errors.New("gone")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LocationVisits.WithLabelValues("A", "start")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DegradedRenders))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RenderFailures.WithLabelValues("content_missing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeleteFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RenderDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics("excursion", false)
	m.ObserveInteraction("command")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `excursion_interactions_total{action="command"} 1`)
}

func TestFailureReason(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&domain.ContentMissingError{LocationID: "x"}, "content_missing"},
		{&domain.ConfigurationError{Reason: "empty"}, "configuration"},
		{&domain.TransportError{Op: "send_text", Err: errors.New("x")}, "transport"},
		{fmt.Errorf("%w: %q", domain.ErrUnknownLocation, "x"), "unknown_location"},
		{errors.New("boom"), "other"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, observability.FailureReason(tc.err), tc.err.Error())
	}
}

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnLocationEnter: func(context.Context, *domain.LocationEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnLocationEnter: func(context.Context, *domain.LocationEvent) { calls = append(calls, "b") },
		OnDeleteFailed:  func(context.Context, *domain.FailureEvent) { calls = append(calls, "b-delete") },
	}

	hooks := observability.Combine(a, b)
	hooks.OnLocationEnter(context.Background(), &domain.LocationEvent{})
	hooks.OnRenderFailed(context.Background(), &domain.FailureEvent{})
	hooks.OnDeleteFailed(context.Background(), &domain.FailureEvent{})

	assert.Equal(t, []string{"a", "b", "b-delete"}, calls)
}
