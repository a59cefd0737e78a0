package actor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics used in monitoring service.
var (
	attemptsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of submission cycles started",
			Name:      "attempts_total",
			Subsystem: "actor",
			Namespace: "soroban",
		},
	)
	resultsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of final call results by status",
			Name:      "results_total",
			Subsystem: "actor",
			Namespace: "soroban",
		},
		[]string{"status"},
	)
	pollTimes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Help:      "Transaction status polling time",
			Name:      "poll_seconds",
			Subsystem: "actor",
			Namespace: "soroban",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 15, 30, 60},
		},
	)
)

func init() {
	prometheus.MustRegister(
		attemptsCounter,
		resultsCounter,
		pollTimes,
	)
}

func addAttemptMetric() {
	attemptsCounter.Inc()
}

func addResultMetric(s Status) {
	resultsCounter.WithLabelValues(string(s)).Inc()
}

func addPollTimeMetric(t time.Duration) {
	pollTimes.Observe(t.Seconds())
}
