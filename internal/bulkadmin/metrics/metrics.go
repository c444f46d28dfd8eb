package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for bulk batch execution.
type Metrics struct {
	Batches       *prometheus.CounterVec
	BatchTargets  prometheus.Histogram
	BatchDuration prometheus.Histogram
	TargetResults *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Batches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "workpaper_bulk_batches_total",
			Help: "Total bulk batches by action and outcome",
		}, []string{"action", "outcome"}),
		BatchTargets: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "workpaper_bulk_batch_targets",
			Help:    "Targets per bulk batch",
			Buckets: []float64{1, 5, 10, 25, 50, 100},
		}),
		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "workpaper_bulk_batch_duration_seconds",
			Help:    "Duration of bulk batch execution",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
		TargetResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "workpaper_bulk_targets_total",
			Help: "Per-target results across bulk batches",
		}, []string{"action", "result"}),
	}
}

// ObserveBatch records one completed batch.
func (m *Metrics) ObserveBatch(action, outcome string, targets, successes int, start time.Time) {
	m.Batches.WithLabelValues(action, outcome).Inc()
	m.BatchTargets.Observe(float64(targets))
	m.BatchDuration.Observe(time.Since(start).Seconds())
	m.TargetResults.WithLabelValues(action, "success").Add(float64(successes))
	m.TargetResults.WithLabelValues(action, "failure").Add(float64(targets - successes))
}
