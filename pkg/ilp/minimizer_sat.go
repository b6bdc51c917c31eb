package ilp

import (
	"context"
	"fmt"
	"slices"

	"github.com/limaJavier/placement/pkg/sat"
)

// satMinimizer binary-searches the smallest k for which "cover every row with
// at most k variables" is satisfiable, querying a SAT solver at each step.
type satMinimizer struct {
	name   string
	solver sat.SATSolver
}

func NewSATMinimizer(name string, solver sat.SATSolver) Minimizer {
	return &satMinimizer{name: name, solver: solver}
}

func (m *satMinimizer) Name() string { return m.name }

func (m *satMinimizer) Minimize(ctx context.Context, instance Instance) (Solution, error) {
	if err := instance.Validate(); err != nil {
		return Solution{}, err
	}
	if len(instance.Rows) == 0 {
		return Solution{Selected: []int{}, Optimal: true}, nil
	}

	low, high := 1, instance.trivialUpperBound()
	if instance.UpperBound > 0 && instance.UpperBound < high {
		high = instance.UpperBound
	}

	best, feasible, err := m.feasible(ctx, instance, high)
	if err != nil {
		return Solution{}, err
	} else if !feasible {
		// A selection of size high is known to exist, so the hint was wrong; retry with the trivial bound
		high = instance.trivialUpperBound()
		if best, feasible, err = m.feasible(ctx, instance, high); err != nil {
			return Solution{}, err
		} else if !feasible {
			return Solution{}, fmt.Errorf("%v reported the trivial selection of size %d as unsatisfiable", m.name, high)
		}
	}
	high = len(best)

	for high > low {
		k := low + (high-low)/2
		selected, feasible, err := m.feasible(ctx, instance, k)
		if err != nil {
			return Solution{}, err
		}
		if feasible {
			best = selected
			high = len(selected)
		} else {
			low = k + 1
		}
	}

	return Solution{Selected: best, Optimal: true}, nil
}

func (m *satMinimizer) feasible(ctx context.Context, instance Instance, k int) ([]int, bool, error) {
	bounded := boundedCover(instance, k)

	solution, err := m.solver.Solve(ctx, bounded)
	if err != nil {
		return nil, false, fmt.Errorf("%v failed for k = %d: %w", m.name, k, err)
	} else if solution == nil {
		return nil, false, nil
	}

	selected := make([]int, 0, k)
	for _, variable := range solution.TrueVariables() {
		if variable <= uint64(instance.Variables) {
			selected = append(selected, int(variable)-1)
		}
	}
	slices.Sort(selected)
	if !instance.Satisfied(selected) || len(selected) > k {
		return nil, false, fmt.Errorf("%v returned an assignment violating the bounded cover for k = %d", m.name, k)
	}
	return selected, true, nil
}
