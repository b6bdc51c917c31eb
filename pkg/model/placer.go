package model

import (
	"context"

	"github.com/limaJavier/placement/internal/logging"
	"github.com/limaJavier/placement/internal/observability"
	"github.com/limaJavier/placement/pkg/ilp"
)

type Placer interface {
	Place(
		ctx context.Context,
		modelInput ModelInput,
	) (SolveResult, error)

	Verify(
		result SolveResult,
		modelInput ModelInput,
	) bool
}

// Options are shared by every placer; the zero value is a silent single-threaded placer
type Options struct {
	Workers        int                           // Goroutines searching top-level subtrees, 1 when unset
	Logger         logging.Logger                // Noop when nil
	Metrics        *observability.SolveCollector // Disabled when nil
	CrossValidator ilp.Minimizer                 // Disabled when nil
}

func (options Options) logger() logging.Logger {
	if options.Logger == nil {
		return logging.Noop()
	}
	return options.Logger
}

// Solve selects the fewest (site, model) placements covering every coverable point
func Solve(ctx context.Context, points []Point, models []EquipmentModel, budget SearchBudget) (SolveResult, error) {
	return NewBranchAndBoundPlacer(Options{}).Place(ctx, ModelInput{
		Points: points,
		Models: models,
		Budget: budget,
	})
}
