package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Classification outcome labels
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// ClassificationsTotal counts classification pipeline runs by outcome
var ClassificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "snakewatch_classifications_total",
		Help: "Total classification pipeline runs by outcome.",
	},
	[]string{"outcome"},
)

// DetectionsIngestedTotal counts detections reported by the sensor pipeline
var DetectionsIngestedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "snakewatch_detections_ingested_total",
		Help: "Total detections ingested from the sensor pipeline.",
	},
)
