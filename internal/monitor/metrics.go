package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "overtake_evaluations_total",
			Help: "Total number of snapshots evaluated",
		},
	)

	failuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overtake_poll_failures_total",
			Help: "Total number of polls that left the metrics unchanged",
		},
		[]string{"stage"},
	)

	avgTireTemperature = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "overtake_average_tire_temperature_celsius",
			Help: "Average tyre temperature of the latest snapshot",
		},
	)

	predictedPlacement = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "overtake_predicted_placement",
			Help: "Predicted finishing position of the latest snapshot",
		},
	)

	pitLaps = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "overtake_pit_laps_remaining",
			Help: "Estimated laps before a pit stop",
		},
	)
)
