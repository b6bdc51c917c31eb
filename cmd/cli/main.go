package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path"
	"slices"
	"syscall"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/limaJavier/placement/internal/logging"
	"github.com/limaJavier/placement/internal/observability"
	"github.com/limaJavier/placement/pkg/model"
	"github.com/limaJavier/placement/pkg/sat"
)

const (
	exitExact        = 10
	exitNonExact     = 11
	exitVerification = 15
)

func main() {
	command := newPlaceCommand()
	if err := command.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func newPlaceCommand() *cobra.Command {
	opts := newPlaceOptions()

	cmd := &cobra.Command{
		Use:   "placement",
		Short: "Select the fewest facility placements covering a set of points",
		Long: `Selects (site, equipment model) placements so that every point of the input is within
range of some facility, using as few facilities as possible. Points no site can reach are
reported as uncovered.

Exit codes: 10 when the selection is proven minimal, 11 when it is not (greedy strategy or
exhausted budget), 15 when the selection fails verification.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			code, err := run(ctx, cmd, opts)
			if err != nil {
				return err
			}
			os.Exit(code)
			return nil
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts *placeOptions) (int, error) {
	logger := logging.New(logging.Config{Level: opts.LogLevel, Format: opts.LogFormat})
	if opts.CrossValidate != "none" && opts.CrossValidate != "maxsat" && opts.CrossValidate != "gophersat" {
		setConfigPath(logger)
	}

	//** Initialize tracing
	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:  opts.Trace,
		Exporter: "stdout",
		Output:   os.Stderr,
	}, logger)
	if err != nil {
		return 0, fmt.Errorf("cannot initialize tracing: %v", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, logger)

	//** Initialize metrics
	registry := prometheus.NewRegistry()
	collector, err := observability.NewSolveCollector(registry)
	if err != nil {
		return 0, fmt.Errorf("cannot register metrics: %v", err)
	}

	//** Extract input
	input, err := model.InputFromFile(opts.File)
	if err != nil {
		return 0, fmt.Errorf("cannot parse input file: %v", err)
	}
	input.Budget = opts.budget(cmd.Flags(), input.Budget)

	//** Initialize engines
	minimizer, err := opts.minimizer()
	if err != nil {
		return 0, err
	}
	placer := placers[opts.Strategy](model.Options{
		Workers:        opts.Workers,
		Logger:         logger,
		Metrics:        collector,
		CrossValidator: minimizer,
	})

	//** Place facilities
	result, err := placer.Place(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("an error occurred during placement: %v", err)
	}

	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, registry); err != nil {
			return 0, fmt.Errorf("an error occurred while writing the metrics file: %v", err)
		}
	}

	//** Verify selection correctness
	if !placer.Verify(result, input) {
		printSummary(os.Stderr, result)
		return exitVerification, nil
	}

	//** Write output
	resultJson, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("an error occurred while building output json: %v", err)
	}
	if opts.Out == "" {
		fmt.Println(string(resultJson))
	} else if err := os.WriteFile(opts.Out, resultJson, 0666); err != nil {
		return 0, fmt.Errorf("an error occurred while writing to the output file: %v", err)
	}

	printSummary(os.Stderr, result)
	if !result.Exact {
		return exitNonExact, nil
	}
	return exitExact, nil
}

func printSummary(w io.Writer, result model.SolveResult) {
	status := color.New(color.FgGreen, color.Bold).Sprint("exact")
	if !result.Exact {
		status = color.New(color.FgYellow, color.Bold).Sprint("non-exact")
	}

	fmt.Fprintf(w, "Selected: %v (%v, greedy %v)\n", len(result.Selected), status, result.GreedySize)
	fmt.Fprintf(w, "Coverage: %.1f%%\n", result.CoverageRate*100)
	if len(result.UncoveredIds) > 0 {
		color.New(color.FgRed).Fprintf(w, "Uncovered: %v\n", result.UncoveredIds)
	}
	fmt.Fprintf(w, "Nodes: %v explored, %v pruned\n", result.NodesExplored, result.NodesPruned)

	if report := result.CrossValidation; report != nil {
		switch {
		case report.Error != "":
			color.New(color.FgRed).Fprintf(w, "Cross-validation (%v): %v\n", report.Solver, report.Error)
		case report.Agrees:
			color.New(color.FgGreen).Fprintf(w, "Cross-validation (%v): agrees, size %v\n", report.Solver, report.Size)
		default:
			color.New(color.FgRed).Fprintf(w, "Cross-validation (%v): disagrees, size %v\n", report.Solver, report.Size)
		}
	}
}

// setConfigPath points the SAT adapters at the config.json next to the executable, if any
func setConfigPath(logger logging.Logger) {
	execPath, err := os.Executable()
	if err != nil {
		log.Fatalf("cannot determine executable path: %v", err)
	}
	execPath = path.Dir(execPath)

	files, err := os.ReadDir(execPath)
	if err != nil {
		log.Fatalf("cannot read executable's directory: %v", err)
	}
	fileNames := lo.Map(files, func(file os.DirEntry, _ int) string { return file.Name() })

	if !slices.Contains(fileNames, "config.json") {
		logger.Warn(context.Background(), "config.json file was not found, solvers are resolved through PATH", logging.String("directory", execPath))
		return
	}

	sat.ConfigPath = execPath + "/config.json"
}
