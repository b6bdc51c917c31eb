package ilp

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/crillab/gophersat/maxsat"
	"github.com/samber/lo"
)

// maxsatMinimizer encodes the covering program as weighted MaxSAT: one hard
// clause per row and one unit soft clause "not x_j" per variable, so the
// optimal cost is the number of selected variables.
type maxsatMinimizer struct{}

func NewMaxSATMinimizer() Minimizer {
	return &maxsatMinimizer{}
}

func (m *maxsatMinimizer) Name() string { return "maxsat" }

func (m *maxsatMinimizer) Minimize(ctx context.Context, instance Instance) (Solution, error) {
	if err := instance.Validate(); err != nil {
		return Solution{}, err
	}
	if len(instance.Rows) == 0 {
		return Solution{Selected: []int{}, Optimal: true}, nil
	}

	//** Build constraints
	constraints := make([]maxsat.Constr, 0, len(instance.Rows)+instance.Variables)
	for _, row := range instance.Rows {
		constraints = append(constraints, maxsat.HardClause(lo.Map(row, func(variable int, _ int) maxsat.Lit {
			return maxsat.Var(variableName(variable))
		})...))
	}
	for _, variable := range referencedVariables(instance) {
		constraints = append(constraints, maxsat.SoftClause(maxsat.Not(variableName(variable))))
	}

	//** Solve on a separate goroutine so cancellation can be honoured
	type outcome struct {
		model maxsat.Model
		cost  int
	}
	done := make(chan outcome, 1)
	go func() {
		model, cost := maxsat.New(constraints...).Solve()
		done <- outcome{model, cost}
	}()

	var result outcome
	select {
	case <-ctx.Done():
		return Solution{}, fmt.Errorf("maxsat minimization interrupted: %w", ctx.Err())
	case result = <-done:
	}

	if result.model == nil {
		return Solution{}, ErrInfeasible
	}

	selected := make([]int, 0, result.cost)
	for name, value := range result.model {
		if !value {
			continue
		}
		variable, err := strconv.Atoi(name[1:])
		if err != nil {
			return Solution{}, fmt.Errorf("unexpected variable %q in maxsat model: %v", name, err)
		}
		selected = append(selected, variable)
	}
	slices.Sort(selected)

	return Solution{Selected: selected, Optimal: true}, nil
}

func variableName(variable int) string {
	return "x" + strconv.Itoa(variable)
}

// referencedVariables lists, in ascending order, the variables appearing in some row
func referencedVariables(instance Instance) []int {
	variables := lo.Uniq(lo.Flatten(instance.Rows))
	slices.Sort(variables)
	return variables
}
