package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "helix",
	Subsystem: "pipeline",
	Name:      "stage_duration_seconds",
	Help:      "Time spent in each controller pipeline stage.",
}, []string{"stage"})
