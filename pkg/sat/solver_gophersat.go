package sat

import (
	"context"
	"fmt"

	"github.com/crillab/gophersat/solver"
	"github.com/samber/lo"
)

// gophersatSolver solves the instance in-process, so it needs no executable nor config.json entry
type gophersatSolver struct{}

func NewGophersatSolver() SATSolver {
	return &gophersatSolver{}
}

func (s *gophersatSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("gophersat execution interrupted: %w", err)
	}

	clauses := lo.Map(sat.Clauses, func(clause []int64, _ int) []int {
		return lo.Map(clause, func(literal int64, _ int) int { return int(literal) })
	})
	problem := solver.ParseSliceNb(clauses, int(sat.Variables))

	instance := solver.New(problem)
	if instance.Solve() != solver.Sat {
		return nil, nil
	}

	model := instance.Model()
	solution := make(SATSolution, 0, len(model))
	for i, value := range model {
		literal := int64(i + 1)
		if !value {
			literal = -literal
		}
		solution = append(solution, literal)
	}
	return solution, nil
}
