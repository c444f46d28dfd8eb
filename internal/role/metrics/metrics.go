package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the role derivation engine.
type Metrics struct {
	Derivations       *prometheus.CounterVec
	DerivationLatency prometheus.Histogram
	Invalidations     prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Derivations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "workpaper_role_derivations_total",
			Help: "Total role derivations, partitioned by cache outcome",
		}, []string{"cache"}),
		DerivationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "workpaper_role_derivation_duration_seconds",
			Help:    "Duration of role derivations including storage reads",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		Invalidations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "workpaper_role_cache_invalidations_total",
			Help: "Total synchronous role cache invalidations",
		}),
	}
}

// ObserveDerivation records one derivation and its cache outcome.
func (m *Metrics) ObserveDerivation(start time.Time, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.Derivations.WithLabelValues(outcome).Inc()
	m.DerivationLatency.Observe(time.Since(start).Seconds())
}

// IncrementInvalidations records one cache invalidation.
func (m *Metrics) IncrementInvalidations() {
	m.Invalidations.Inc()
}
