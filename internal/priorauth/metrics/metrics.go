package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the prior-auth pipeline.
type Metrics struct {
	// Capability call latencies by step
	StepLatency *prometheus.HistogramVec

	// Final decisions by outcome
	Determinations *prometheus.CounterVec

	// Overall pipeline latency including all capability calls
	PipelineLatency prometheus.Histogram
}

// New creates a Metrics instance with all pipeline metrics registered.
func New() *Metrics {
	return &Metrics{
		StepLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "priorauth_step_duration_seconds",
			Help:    "Duration of capability calls by pipeline step",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"step"}), // step: "sanctions", "coding", "eligibility", "policy", "regulatory"

		Determinations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "priorauth_determinations_total",
			Help: "Total determinations by final decision",
		}, []string{"decision"}),

		PipelineLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "priorauth_pipeline_duration_seconds",
			Help:    "Duration of a full pipeline run including all capability calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}

// ObserveStepLatency records the duration of one capability call.
func (m *Metrics) ObserveStepLatency(step string, d time.Duration) {
	if m != nil {
		m.StepLatency.WithLabelValues(step).Observe(d.Seconds())
	}
}

// IncrementDetermination records a final decision.
func (m *Metrics) IncrementDetermination(decision string) {
	if m != nil {
		m.Determinations.WithLabelValues(decision).Inc()
	}
}

// ObservePipelineLatency records the total run duration.
func (m *Metrics) ObservePipelineLatency(d time.Duration) {
	if m != nil {
		m.PipelineLatency.Observe(d.Seconds())
	}
}
