// Package ilp hosts the 0-1 covering-program collaborators used to cross-check
// placement selections:
//
//	minimize    sum_j x_j
//	subject to  sum_{j in row} x_j >= 1   for every row
//	            x_j in {0, 1}
//
// Implementations are backed by SAT technology: a MaxSAT formulation solved
// in-process, or a cardinality-bounded SAT descent that can drive any
// sat.SATSolver, including the external executables.
package ilp

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// ErrInfeasible is returned when some row has no variable able to satisfy it.
var ErrInfeasible = errors.New("covering program is infeasible")

// Instance is a 0-1 covering program. Variables are indexed 0..Variables-1 and
// every row lists the variables that satisfy it.
type Instance struct {
	Variables int
	Rows      [][]int
	// UpperBound is the size of a known feasible selection, 0 when unknown.
	UpperBound int
}

// Solution is a selection of variables satisfying every row.
type Solution struct {
	Selected []int
	// Optimal is true when the collaborator proved no smaller selection exists.
	Optimal bool
}

type Minimizer interface {
	Name() string
	Minimize(ctx context.Context, instance Instance) (Solution, error)
}

// Validate checks that every row is non-empty and references existing variables.
func (instance Instance) Validate() error {
	if instance.Variables < 0 {
		return fmt.Errorf("negative variable count: %d", instance.Variables)
	}
	for i, row := range instance.Rows {
		if len(row) == 0 {
			return fmt.Errorf("%w: row %d has no variables", ErrInfeasible, i)
		}
		for _, variable := range row {
			if variable < 0 || variable >= instance.Variables {
				return fmt.Errorf("row %d references unknown variable %d", i, variable)
			}
		}
	}
	return nil
}

// Satisfied checks that the selection covers every row.
func (instance Instance) Satisfied(selected []int) bool {
	chosen := make(map[int]bool, len(selected))
	for _, variable := range selected {
		chosen[variable] = true
	}
	for _, row := range instance.Rows {
		if !slices.ContainsFunc(row, func(variable int) bool { return chosen[variable] }) {
			return false
		}
	}
	return true
}

// trivialUpperBound is the size of the selection picking the first variable of every row.
func (instance Instance) trivialUpperBound() int {
	seen := make(map[int]bool)
	for _, row := range instance.Rows {
		seen[row[0]] = true
	}
	return len(seen)
}
