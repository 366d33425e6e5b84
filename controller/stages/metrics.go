package stages

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rebalanceAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "helix",
		Subsystem: "rebalance",
		Name:      "attempts_total",
		Help:      "Rebalancer invocations by rebalancer identifier.",
	}, []string{"rebalancer"})

	rebalanceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "helix",
		Subsystem: "rebalance",
		Name:      "failures_total",
		Help:      "Failed rebalancer invocations by reason.",
	}, []string{"reason"})

	rebalanceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "helix",
		Subsystem: "rebalance",
		Name:      "duration_seconds",
		Help:      "Time to resolve, init and run a rebalancer for one resource.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	idealStateWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "helix",
		Subsystem: "rebalance",
		Name:      "persist_failures_total",
		Help:      "Ideal states that could not be written back.",
	})
)
