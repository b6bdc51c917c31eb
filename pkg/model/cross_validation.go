package model

import (
	"context"

	"github.com/limaJavier/placement/pkg/ilp"
)

// coveringProgram is the 0-1 program "cover every coverable point with the fewest candidates".
// Variable j is candidate j.
func coveringProgram(matrix *coverageMatrix, upperBound int) ilp.Instance {
	rows := make([][]int, 0, matrix.coverable())
	for _, candidates := range matrix.coveredBy {
		if len(candidates) > 0 {
			rows = append(rows, candidates)
		}
	}
	return ilp.Instance{
		Variables:  matrix.candidates(),
		Rows:       rows,
		UpperBound: upperBound,
	}
}

// crossValidate solves the covering program independently and compares its size with the
// selection. A failing minimizer is reported, never returned as an error.
func crossValidate(ctx context.Context, minimizer ilp.Minimizer, matrix *coverageMatrix, selection []int, exact bool) CrossValidationReport {
	report := CrossValidationReport{Solver: minimizer.Name()}

	solution, err := minimizer.Minimize(ctx, coveringProgram(matrix, len(selection)))
	if err != nil {
		report.Error = err.Error()
		return report
	}

	report.Size = len(solution.Selected)
	report.Optimal = solution.Optimal
	switch {
	case solution.Optimal && exact:
		report.Agrees = report.Size == len(selection)
	case solution.Optimal:
		report.Agrees = report.Size <= len(selection)
	case exact:
		report.Agrees = report.Size >= len(selection)
	default:
		report.Agrees = true
	}
	return report
}

func (report CrossValidationReport) outcome() string {
	switch {
	case report.Error != "":
		return "error"
	case report.Agrees:
		return "agree"
	default:
		return "disagree"
	}
}
