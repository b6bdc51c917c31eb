package observability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SolveCollector bundles the Prometheus metrics recorded by placement solves.
// A nil *SolveCollector is valid and records nothing.
type SolveCollector struct {
	Solves          *prometheus.CounterVec
	NodesExplored   prometheus.Counter
	NodesPruned     prometheus.Counter
	Durations       *prometheus.HistogramVec
	SelectedSize    prometheus.Gauge
	CrossValidation *prometheus.CounterVec
}

// NewSolveCollector registers the solve metrics against reg, defaulting to the
// global registry when reg is nil. Registering twice returns the existing
// collectors.
func NewSolveCollector(reg prometheus.Registerer) (*SolveCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	solves, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placement_solves_total",
		Help: "Completed placement solves, labeled by strategy and exactness.",
	}, []string{"strategy", "exact"}))
	if err != nil {
		return nil, err
	}

	explored, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placement_search_nodes_explored_total",
		Help: "Branch-and-bound nodes explored.",
	}))
	if err != nil {
		return nil, err
	}

	pruned, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placement_search_nodes_pruned_total",
		Help: "Branch-and-bound nodes pruned by the size, memo or optimistic bounds.",
	}))
	if err != nil {
		return nil, err
	}

	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "placement_solve_duration_seconds",
		Help:    "Wall-clock duration of placement solves.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	}, []string{"strategy"}))
	if err != nil {
		return nil, err
	}

	selected, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "placement_selected_facilities",
		Help: "Number of facilities selected by the last solve.",
	}))
	if err != nil {
		return nil, err
	}

	crossValidation, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placement_cross_validation_total",
		Help: "Cross-validation runs, labeled by collaborator and outcome (agree, disagree, error).",
	}, []string{"solver", "outcome"}))
	if err != nil {
		return nil, err
	}

	return &SolveCollector{
		Solves:          solves,
		NodesExplored:   explored,
		NodesPruned:     pruned,
		Durations:       durations,
		SelectedSize:    selected,
		CrossValidation: crossValidation,
	}, nil
}

// ObserveSolve records the outcome of a single solve.
func (c *SolveCollector) ObserveSolve(strategy string, exact bool, selected int, explored, pruned uint64, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Solves.WithLabelValues(strategy, strconv.FormatBool(exact)).Inc()
	c.NodesExplored.Add(float64(explored))
	c.NodesPruned.Add(float64(pruned))
	c.Durations.WithLabelValues(strategy).Observe(elapsed.Seconds())
	c.SelectedSize.Set(float64(selected))
}

// ObserveCrossValidation records one collaborator run.
func (c *SolveCollector) ObserveCrossValidation(solver, outcome string) {
	if c == nil {
		return
	}
	c.CrossValidation.WithLabelValues(solver, outcome).Inc()
}

func register[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	if err := reg.Register(collector); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector already registered with incompatible type: %v", err)
		}
		var zero T
		return zero, err
	}
	return collector, nil
}
