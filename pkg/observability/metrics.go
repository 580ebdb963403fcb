package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/excursion/pkg/domain"
)

// Metrics holds the controller's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	LocationVisits  *prometheus.CounterVec
	RenderDuration  *prometheus.HistogramVec
	RenderFailures  *prometheus.CounterVec
	DeleteFailures  prometheus.Counter
	DegradedRenders prometheus.Counter
	Interactions    *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors under namespace.
// withRuntime adds the Go and process collectors.
func NewMetrics(namespace string, withRuntime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		LocationVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "location_visits_total",
				Help:      "Total number of rendered locations",
			},
			[]string{"location_id", "transition"},
		),
		RenderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_duration_seconds",
				Help:      "Duration of a location render including message cleanup",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"transition"},
		),
		RenderFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "render_failures_total",
				Help:      "Total number of failed renders by reason",
			},
			[]string{"reason"},
		),
		DeleteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delete_failures_total",
			Help:      "Total number of messages that could not be deleted",
		}),
		DegradedRenders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_renders_total",
			Help:      "Total number of renders that fell back to text only",
		}),
		Interactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "interactions_total",
				Help:      "Total number of inbound interactions by action",
			},
			[]string{"action"},
		),
	}

	m.registry.MustRegister(
		m.LocationVisits,
		m.RenderDuration,
		m.RenderFailures,
		m.DeleteFailures,
		m.DegradedRenders,
		m.Interactions,
	)
	if withRuntime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveInteraction counts one inbound interaction.
func (m *Metrics) ObserveInteraction(action string) {
	m.Interactions.WithLabelValues(action).Inc()
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLocationEnter: func(_ context.Context, e *domain.LocationEvent) {
			m.LocationVisits.WithLabelValues(e.LocationID, e.Transition).Inc()
			m.RenderDuration.WithLabelValues(e.Transition).Observe(e.Duration.Seconds())
			if e.Degraded {
				m.DegradedRenders.Inc()
			}
		},
		OnRenderFailed: func(_ context.Context, e *domain.FailureEvent) {
			m.RenderFailures.WithLabelValues(FailureReason(e.Err)).Inc()
		},
		OnDeleteFailed: func(context.Context, *domain.FailureEvent) {
			m.DeleteFailures.Inc()
		},
	}
}

// FailureReason classifies a render error into a low-cardinality label.
func FailureReason(err error) string {
	var (
		missing   *domain.ContentMissingError
		config    *domain.ConfigurationError
		transport *domain.TransportError
	)
	switch {
	case errors.As(err, &missing):
		return "content_missing"
	case errors.As(err, &config):
		return "configuration"
	case errors.As(err, &transport):
		return "transport"
	case errors.Is(err, domain.ErrUnknownLocation):
		return "unknown_location"
	default:
		return "other"
	}
}
