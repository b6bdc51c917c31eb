package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveCollectorRecordsSolve(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector, err := NewSolveCollector(registry)
	require.NoError(t, err)

	collector.ObserveSolve("exact", true, 3, 40, 12, 25*time.Millisecond)
	collector.ObserveSolve("exact", false, 4, 10, 2, time.Millisecond)
	collector.ObserveCrossValidation("maxsat", "agree")

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.Solves.WithLabelValues("exact", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.Solves.WithLabelValues("exact", "false")))
	assert.Equal(t, float64(50), testutil.ToFloat64(collector.NodesExplored))
	assert.Equal(t, float64(14), testutil.ToFloat64(collector.NodesPruned))
	assert.Equal(t, float64(4), testutil.ToFloat64(collector.SelectedSize))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.CrossValidation.WithLabelValues("maxsat", "agree")))
}

func TestSolveCollectorReusesRegisteredCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first, err := NewSolveCollector(registry)
	require.NoError(t, err)
	second, err := NewSolveCollector(registry)
	require.NoError(t, err)

	second.ObserveSolve("greedy", false, 1, 0, 0, time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(first.Solves.WithLabelValues("greedy", "false")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var collector *SolveCollector
	assert.NotPanics(t, func() {
		collector.ObserveSolve("exact", true, 1, 1, 1, time.Second)
		collector.ObserveCrossValidation("maxsat", "error")
	})
}

func TestInitTracingStdout(t *testing.T) {
	var buffer bytes.Buffer
	shutdown, err := InitTracing(context.Background(), TracingConfig{Enabled: true, Exporter: "stdout", Output: &buffer}, nil)
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "coverage-matrix")
	span.End()
	ShutdownWithTimeout(context.Background(), shutdown, nil)

	assert.Contains(t, buffer.String(), "coverage-matrix")
}

func TestInitTracingRejectsUnknownExporter(t *testing.T) {
	_, err := InitTracing(context.Background(), TracingConfig{Enabled: true, Exporter: "zipkin"}, nil)
	assert.Error(t, err)
}
