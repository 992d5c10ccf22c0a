package builder

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomeInvalid = "invalid"
)

var (
	modelCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_builder_model_calls_total",
			Help: "Model calls by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	modelLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "site_builder_model_call_duration_seconds",
			Help:    "Duration of model calls in seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90, 120},
		},
		[]string{"op"},
	)

	publishes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_builder_publishes_total",
			Help: "Publish attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(modelCalls, modelLatency, publishes)
}
