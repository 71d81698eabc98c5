package observability

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/espalier/pkg/domain"
)

// Metrics records navigation outcomes and viewport activations as
// Prometheus collectors. Attach it to a router through Hooks.
type Metrics struct {
	navigations *prometheus.CounterVec
	activations *prometheus.CounterVec
	duration    prometheus.Histogram

	mu     sync.Mutex
	starts map[string]time.Time
}

// NewMetrics builds the collectors and registers them on reg. Passing
// prometheus.DefaultRegisterer wires them into the default /metrics
// handler.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_navigations_total",
				Help: "Total number of navigation attempts by outcome",
			},
			[]string{"outcome"},
		),
		activations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_viewport_activations_total",
				Help: "Total number of viewport activations",
			},
			[]string{"viewport"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "espalier_navigation_duration_seconds",
				Help: "Duration of navigation attempts from start to settlement",
			},
		),
		starts: make(map[string]time.Time),
	}

	for _, c := range []prometheus.Collector{m.navigations, m.activations, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns the lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNavigationStart: func(_ context.Context, e *domain.NavigationEvent) {
			m.mu.Lock()
			m.starts[e.AttemptID] = e.Timestamp
			m.mu.Unlock()
		},
		OnNavigationComplete: func(_ context.Context, e *domain.NavigationEvent) {
			m.navigations.WithLabelValues("complete").Inc()
			m.observe(e)
		},
		OnNavigationFailed: func(_ context.Context, e *domain.NavigationEvent) {
			m.navigations.WithLabelValues("failed").Inc()
			m.observe(e)
		},
		OnViewportActivated: func(_ context.Context, e *domain.ViewportEvent) {
			m.activations.WithLabelValues(e.Viewport).Inc()
		},
	}
}

// NavigationCounter returns the counter for one navigation outcome,
// "complete" or "failed".
func (m *Metrics) NavigationCounter(outcome string) prometheus.Counter {
	return m.navigations.WithLabelValues(outcome)
}

// ActivationCounter returns the activation counter for one viewport name.
func (m *Metrics) ActivationCounter(viewport string) prometheus.Counter {
	return m.activations.WithLabelValues(viewport)
}

func (m *Metrics) observe(e *domain.NavigationEvent) {
	m.mu.Lock()
	started, ok := m.starts[e.AttemptID]
	delete(m.starts, e.AttemptID)
	m.mu.Unlock()
	if ok {
		m.duration.Observe(e.Timestamp.Sub(started).Seconds())
	}
}
