package observability

import (
	"context"

	"github.com/aretw0/flowgen/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generation outcomes used as the "outcome" label.
const (
	OutcomeGenerated = "generated"
	OutcomeNoStart   = "no_start"
	OutcomeRejected  = "rejected"
)

// Metrics holds the generator's Prometheus collectors.
type Metrics struct {
	generations *prometheus.CounterVec
	duration    prometheus.Histogram
	scriptBytes prometheus.Histogram
	graphNodes  prometheus.Histogram
}

// NewMetrics creates and registers the collectors with reg.
// A nil reg registers with the global default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowgen",
			Name:      "generations_total",
			Help:      "Generation requests by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flowgen",
			Name:      "generation_duration_seconds",
			Help:      "Time spent generating a script.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		scriptBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flowgen",
			Name:      "script_bytes",
			Help:      "Size of generated scripts.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
		graphNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flowgen",
			Name:      "graph_nodes",
			Help:      "Number of nodes in generated graphs.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

// ObserveGeneration records a completed generation.
func (m *Metrics) ObserveGeneration(e *domain.GenerationEvent) {
	outcome := OutcomeGenerated
	if !e.HasStart {
		outcome = OutcomeNoStart
	}
	m.generations.WithLabelValues(outcome).Inc()
	m.duration.Observe(e.Duration.Seconds())
	m.scriptBytes.Observe(float64(e.Bytes))
	m.graphNodes.Observe(float64(e.Nodes))
}

// ObserveRejection records a request that produced no script.
func (m *Metrics) ObserveRejection(*domain.RejectionEvent) {
	m.generations.WithLabelValues(OutcomeRejected).Inc()
}

// Hooks adapts the metrics to generator hooks.
func (m *Metrics) Hooks() domain.GenerationHooks {
	return domain.GenerationHooks{
		OnGenerate: func(_ context.Context, e *domain.GenerationEvent) {
			m.ObserveGeneration(e)
		},
		OnReject: func(_ context.Context, e *domain.RejectionEvent) {
			m.ObserveRejection(e)
		},
	}
}
