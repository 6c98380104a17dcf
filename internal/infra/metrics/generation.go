package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		generationAttempts,
		generationDuration,
	)
}

var (
	generationAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_attempts_total",
			Help: "Generation attempts per transport and outcome.",
		},
		[]string{"transport", "outcome"}, // success | timeout | provider_failure | missing_result | unavailable
	)

	generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Wall-clock duration of one transport attempt.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 90, 120},
		},
		[]string{"transport"},
	)
)

func ObserveGeneration(transport, outcome string, elapsed time.Duration) {
	generationAttempts.WithLabelValues(transport, outcome).Inc()
	generationDuration.WithLabelValues(transport).Observe(elapsed.Seconds())
}
