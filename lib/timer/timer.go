package timer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var stageDuration = promauto.NewSummaryVec(prometheus.SummaryOpts{
	Name: "lispy_stage_duration_seconds",
	Help: "Duration of reading, evaluating and persisting one request",
	Objectives: map[float64]float64{
		0.50: 0.05,
		0.90: 0.05,
		0.99: 0.01,
	},
}, []string{"stage"})

// Timer observes the time between Start and Stop under one stage label.
type Timer struct {
	timer *prometheus.Timer
}

func (t Timer) Stop() {
	t.timer.ObserveDuration()
}

func Start(stage string) Timer {
	return Timer{
		timer: prometheus.NewTimer(stageDuration.WithLabelValues(stage)),
	}
}
