package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for permission resolution.
type Metrics struct {
	Checks       *prometheus.CounterVec
	CheckLatency prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Checks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "workpaper_permission_checks_total",
			Help: "Total permission checks by resource, action, and outcome",
		}, []string{"resource", "action", "outcome"}),
		CheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "workpaper_permission_check_duration_seconds",
			Help:    "Duration of permission checks including role derivation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveCheck records one permission check.
func (m *Metrics) ObserveCheck(resource, action string, granted bool, start time.Time) {
	outcome := "denied"
	if granted {
		outcome = "granted"
	}
	m.Checks.WithLabelValues(resource, action, outcome).Inc()
	m.CheckLatency.Observe(time.Since(start).Seconds())
}
