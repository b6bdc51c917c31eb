package model

import "context"

// branchAndBoundPlacer seeds an exact branch-and-bound search with the greedy selection.
// A search stopped by its budget returns the best selection found so far as non-exact.
type branchAndBoundPlacer struct {
	options Options
}

func NewBranchAndBoundPlacer(options Options) Placer {
	return &branchAndBoundPlacer{
		options: options,
	}
}

func (placer *branchAndBoundPlacer) Place(ctx context.Context, modelInput ModelInput) (SolveResult, error) {
	workers := max(placer.options.Workers, 1)
	return place(ctx, placer.options, "exact", modelInput, func(ctx context.Context, matrix *coverageMatrix, seed []int, budget SearchBudget) searchOutcome {
		return branchAndBound(ctx, matrix, seed, budget, workers)
	})
}

func (placer *branchAndBoundPlacer) Verify(result SolveResult, modelInput ModelInput) bool {
	return verify(result, modelInput)
}
