package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	traversalStepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "story_engine_traversal_steps_total",
		Help: "Traversal operations handled, by operation and outcome.",
	}, []string{"operation", "outcome"})

	playsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "story_engine_plays_recorded_total",
		Help: "Play rows created (confirmed first arrivals at an ending).",
	})

	endingDuplicatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "story_engine_ending_duplicates_total",
		Help: "Ending arrivals suppressed by the dedup marker.",
	})
)
