package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/flowgen/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnGenerate(ctx, &domain.GenerationEvent{HasStart: true, Nodes: 3, Bytes: 120, Duration: time.Millisecond})
	hooks.OnGenerate(ctx, &domain.GenerationEvent{HasStart: true, Nodes: 5, Bytes: 200})
	hooks.OnGenerate(ctx, &domain.GenerationEvent{HasStart: false, Nodes: 1, Bytes: 40})
	hooks.OnReject(ctx, &domain.RejectionEvent{Err: errors.New("bad json")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.generations.WithLabelValues(OutcomeGenerated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues(OutcomeNoStart)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues(OutcomeRejected)))

	n, err := testutil.GatherAndCount(reg,
		"flowgen_generation_duration_seconds",
		"flowgen_script_bytes",
		"flowgen_graph_nodes",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}
