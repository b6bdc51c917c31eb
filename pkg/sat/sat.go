package sat

import (
	"context"
	"fmt"
	"strings"
)

// SATSolution holds the literals of a model: positive literals are true variables, negative ones false variables
type SATSolution []int64

// SAT is a CNF instance over variables 1..Variables
type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

type SATSolver interface {
	// Returns a solution of the SAT instance if satisfiable, else returns nil (both are valid outputs where error shall be nil)
	Solve(ctx context.Context, sat SAT) (SATSolution, error)
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// Satisfies checks that the solution is consistent (no duplicates nor contradictions) and satisfies every clause
func (s SAT) Satisfies(solution SATSolution) bool {
	literals := make(map[int64]bool)
	for _, literal := range solution {
		if literals[literal] || literals[-literal] {
			return false
		}
		literals[literal] = true
	}

	for _, clause := range s.Clauses {
		satisfied := false
		for _, literal := range clause {
			if literals[literal] {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

// TrueVariables returns the variables assigned to true in the solution
func (solution SATSolution) TrueVariables() []uint64 {
	variables := make([]uint64, 0, len(solution))
	for _, literal := range solution {
		if literal > 0 {
			variables = append(variables, uint64(literal))
		}
	}
	return variables
}
