package model

import "context"

// greedyPlacer returns the greedy selection as is, never claiming exactness
type greedyPlacer struct {
	options Options
}

func NewGreedyPlacer(options Options) Placer {
	return &greedyPlacer{
		options: options,
	}
}

func (placer *greedyPlacer) Place(ctx context.Context, modelInput ModelInput) (SolveResult, error) {
	return place(ctx, placer.options, "greedy", modelInput, func(_ context.Context, matrix *coverageMatrix, seed []int, _ SearchBudget) searchOutcome {
		return searchOutcome{selection: seed, covered: matrix.coverable(), exact: false}
	})
}

func (placer *greedyPlacer) Verify(result SolveResult, modelInput ModelInput) bool {
	return verify(result, modelInput)
}
