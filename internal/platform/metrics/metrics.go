package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the application.
type Metrics struct {
	EntitiesCreated *prometheus.CounterVec
	DomainFailures  *prometheus.CounterVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		EntitiesCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "subhub_entities_created_total",
			Help: "Total number of entities created, by entity kind",
		}, []string{"entity"}),
		DomainFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "subhub_domain_failures_total",
			Help: "Total number of domain failures reported to callers, by failure tag",
		}, []string{"tag"}),
	}
}

// IncrementCreated records a successful entity creation. Nil-safe so
// callers can run without metrics wired.
func (m *Metrics) IncrementCreated(entity string) {
	if m != nil {
		m.EntitiesCreated.WithLabelValues(entity).Inc()
	}
}

// IncrementFailure records a domain failure surfaced to a caller.
func (m *Metrics) IncrementFailure(tag string) {
	if m != nil {
		m.DomainFailures.WithLabelValues(tag).Inc()
	}
}
