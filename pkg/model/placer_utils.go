package model

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/limaJavier/placement/internal/logging"
	"github.com/limaJavier/placement/internal/observability"
)

type strategy func(ctx context.Context, matrix *coverageMatrix, seed []int, budget SearchBudget) searchOutcome

// place runs the pipeline shared by every placer:
// validation -> coverage matrix -> greedy seed -> strategy -> assembly -> cross-validation
func place(ctx context.Context, options Options, name string, modelInput ModelInput, run strategy) (SolveResult, error) {
	start := time.Now()
	log, runId := logging.WithRunId(options.logger())
	log = log.With(logging.String("strategy", name))
	tracer := observability.Tracer()

	ctx, span := tracer.Start(ctx, "solve", trace.WithAttributes(
		attribute.String("strategy", name),
		attribute.String("run.id", runId),
	))
	defer span.End()

	//** Validate input
	if err := Validate(modelInput); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid input")
		log.Warn(ctx, "rejected input", logging.Error(err))
		return SolveResult{}, err
	}

	//** Build coverage matrix
	_, matrixSpan := tracer.Start(ctx, "coverage-matrix")
	matrix := newCoverageMatrix(modelInput.Points, modelInput.Models)
	matrixSpan.SetAttributes(
		attribute.Int("points", len(matrix.points)),
		attribute.Int("sites", len(matrix.sites)),
		attribute.Int("candidates", matrix.candidates()),
		attribute.Int("uncoverable", matrix.uncoverable.count()),
	)
	matrixSpan.End()
	log.Debug(ctx, "coverage matrix built",
		logging.Int("points", len(matrix.points)),
		logging.Int("sites", len(matrix.sites)),
		logging.Int("candidates", matrix.candidates()),
		logging.Int("uncoverable", matrix.uncoverable.count()),
	)

	//** Select
	outcome := searchOutcome{selection: []int{}, exact: true}
	greedySize := 0
	if len(matrix.sites) == 0 {
		log.Info(ctx, "no eligible sites, every point stays uncovered")
	} else {
		_, greedySpan := tracer.Start(ctx, "greedy")
		seed := normalizeSites(matrix, greedyCover(matrix))
		greedySpan.SetAttributes(attribute.Int("size", len(seed)))
		greedySpan.End()
		greedySize = len(seed)
		log.Debug(ctx, "greedy seed found", logging.Int("size", greedySize))

		searchCtx, searchSpan := tracer.Start(ctx, "search")
		outcome = run(searchCtx, matrix, seed, modelInput.Budget)
		outcome.selection = normalizeSites(matrix, outcome.selection)
		searchSpan.SetAttributes(
			attribute.Bool("exact", outcome.exact),
			attribute.Int("size", len(outcome.selection)),
			attribute.Int64("nodes.explored", int64(outcome.explored)),
			attribute.Int64("nodes.pruned", int64(outcome.pruned)),
		)
		searchSpan.End()
		if !outcome.exact && name != "greedy" {
			log.Warn(ctx, "search stopped by its budget, returning the best selection found",
				logging.Uint64("explored", outcome.explored),
				logging.Int("size", len(outcome.selection)),
			)
		}
	}

	//** Assemble result
	_, assembleSpan := tracer.Start(ctx, "assemble")
	result := assemble(matrix, outcome.selection)
	result.Exact = outcome.exact
	result.NodesExplored = outcome.explored
	result.NodesPruned = outcome.pruned
	result.GreedySize = greedySize
	assembleSpan.End()

	//** Cross-validate
	if options.CrossValidator != nil && len(matrix.sites) > 0 {
		validateCtx, validateSpan := tracer.Start(ctx, "cross-validate", trace.WithAttributes(
			attribute.String("solver", options.CrossValidator.Name()),
		))
		report := crossValidate(validateCtx, options.CrossValidator, matrix, outcome.selection, outcome.exact)
		validateSpan.SetAttributes(attribute.String("outcome", report.outcome()))
		validateSpan.End()
		result.CrossValidation = &report
		options.Metrics.ObserveCrossValidation(report.Solver, report.outcome())

		fields := []logging.Field{
			logging.String("solver", report.Solver),
			logging.Int("size", report.Size),
			logging.Int("selected", len(outcome.selection)),
		}
		switch report.outcome() {
		case "error":
			log.Warn(ctx, "cross-validation failed", append(fields, logging.String("error", report.Error))...)
		case "disagree":
			log.Warn(ctx, "cross-validation disagrees with the selection", fields...)
		default:
			log.Debug(ctx, "cross-validation agrees with the selection", fields...)
		}
	}

	elapsed := time.Since(start)
	options.Metrics.ObserveSolve(name, result.Exact, len(result.Selected), result.NodesExplored, result.NodesPruned, elapsed)
	log.Info(ctx, "solve finished",
		logging.Int("selected", len(result.Selected)),
		logging.Int("uncovered", len(result.UncoveredIds)),
		logging.Bool("exact", result.Exact),
		logging.Uint64("explored", result.NodesExplored),
		logging.Uint64("pruned", result.NodesPruned),
		logging.Any("elapsed", elapsed),
	)
	return result, nil
}

// verify recomputes the result from raw coordinates: selected sites exist, are eligible and
// unique, and covered and uncovered ids partition the points according to actual distances.
func verify(result SolveResult, modelInput ModelInput) bool {
	points := make(map[string]Point, len(modelInput.Points))
	for _, point := range modelInput.Points {
		points[point.Id] = point
	}
	models := make(map[string]EquipmentModel, len(modelInput.Models))
	for _, model := range modelInput.Models {
		models[model.Name] = model
	}

	//** Check placements
	sites := make(map[string]bool, len(result.Selected))
	for _, placement := range result.Selected {
		site, ok := points[placement.SiteId]
		if !ok || !site.SiteEligible || sites[placement.SiteId] || site.X != placement.X || site.Y != placement.Y {
			return false
		}
		if _, ok := models[placement.ModelName]; !ok {
			return false
		}
		sites[placement.SiteId] = true
	}

	inRange := func(point Point) bool {
		for _, placement := range result.Selected {
			if distance(points[placement.SiteId], point) <= models[placement.ModelName].Range {
				return true
			}
		}
		return false
	}

	//** Check partition and soundness
	seen := make(map[string]bool, len(points))
	for _, id := range result.CoveredIds {
		point, ok := points[id]
		if !ok || seen[id] || !inRange(point) {
			return false
		}
		seen[id] = true
	}
	for _, id := range result.UncoveredIds {
		point, ok := points[id]
		if !ok || seen[id] || inRange(point) {
			return false
		}
		seen[id] = true
	}
	return len(seen) == len(points)
}
