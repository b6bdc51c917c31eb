package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/pflag"

	"github.com/limaJavier/placement/pkg/ilp"
	"github.com/limaJavier/placement/pkg/model"
	"github.com/limaJavier/placement/pkg/sat"
)

var (
	validStrategies = []string{"exact", "greedy"}
	validFormats    = []string{"text", "json"}
	placers         = map[string]func(model.Options) model.Placer{
		"exact":  model.NewBranchAndBoundPlacer,
		"greedy": model.NewGreedyPlacer,
	}
	solvers = map[string]func() sat.SATSolver{
		"gophersat":     sat.NewGophersatSolver,
		"kissat":        sat.NewKissatSolver,
		"cadical":       sat.NewCadicalSolver,
		"minisat":       sat.NewMinisatSolver,
		"cryptominisat": sat.NewCryptominisatSolver,
		"glucosesimp":   sat.NewGlucoseSimpSolver,
		"slime":         sat.NewSlimeSolver,
		"ortoolsat":     sat.NewOrtoolsatSolver,
	}
)

type placeOptions struct {
	File          string
	Out           string
	Strategy      string
	Workers       int
	MaxNodes      uint64
	MaxTimeMs     uint64
	CrossValidate string
	LogLevel      string
	LogFormat     string
	MetricsFile   string
	Trace         bool
}

func newPlaceOptions() *placeOptions {
	return &placeOptions{
		Strategy:      "exact",
		Workers:       1,
		CrossValidate: "none",
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

func (o *placeOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.File, "file", "f", o.File, "Path to the input file (JSON or YAML)")
	fs.StringVarP(&o.Out, "out", "o", o.Out, "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	fs.StringVar(&o.Strategy, "strategy", o.Strategy, `Strategy to select the placements. Allowed values are:
- "exact" (branch-and-bound seeded by the greedy selection, provably minimal unless a budget stops it) and
- "greedy" (largest marginal coverage first, no optimality guarantee)`)
	fs.IntVar(&o.Workers, "workers", o.Workers, "Goroutines searching the top-level subtrees concurrently")
	fs.Uint64Var(&o.MaxNodes, "max-nodes", o.MaxNodes, "Maximum number of search nodes; overrides the input file's budget")
	fs.Uint64Var(&o.MaxTimeMs, "max-time", o.MaxTimeMs, "Maximum search time in milliseconds; overrides the input file's budget")
	fs.StringVar(&o.CrossValidate, "cross-validate", o.CrossValidate, fmt.Sprintf("Covering-program minimizer used to cross-check the selection: none, maxsat or a SAT solver (%v)", strings.Join(solverNames(), ", ")))
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&o.LogFormat, "log-format", o.LogFormat, "Log format: text or json")
	fs.StringVar(&o.MetricsFile, "metrics-file", o.MetricsFile, "Write the solve metrics in Prometheus text format to this file")
	fs.BoolVar(&o.Trace, "trace", o.Trace, "Print the solve spans to the Standard Error")
}

func (o *placeOptions) Validate() error {
	o.Strategy = strings.ToLower(o.Strategy)
	o.CrossValidate = strings.ToLower(o.CrossValidate)

	if o.File == "" {
		return fmt.Errorf("an input file must be specified")
	} else if !slices.Contains(validStrategies, o.Strategy) {
		return fmt.Errorf("%v is not a valid strategy", o.Strategy)
	} else if o.Workers < 1 {
		return fmt.Errorf("workers must be at least 1: %v", o.Workers)
	} else if !slices.Contains(validFormats, strings.ToLower(o.LogFormat)) {
		return fmt.Errorf("%v is not a valid log format", o.LogFormat)
	} else if _, err := o.minimizer(); err != nil {
		return err
	}
	return nil
}

// minimizer builds the cross-validation collaborator; nil when disabled
func (o *placeOptions) minimizer() (ilp.Minimizer, error) {
	switch o.CrossValidate {
	case "none", "":
		return nil, nil
	case "maxsat":
		return ilp.NewMaxSATMinimizer(), nil
	}
	newSolver, ok := solvers[o.CrossValidate]
	if !ok {
		return nil, fmt.Errorf("%v is not a valid cross-validation solver", o.CrossValidate)
	}
	return ilp.NewSATMinimizer(o.CrossValidate, newSolver()), nil
}

// budget applies the budget flags that were set on top of the input file's budget
func (o *placeOptions) budget(fs *pflag.FlagSet, budget model.SearchBudget) model.SearchBudget {
	if fs.Changed("max-nodes") {
		budget.MaxNodes = &o.MaxNodes
	}
	if fs.Changed("max-time") {
		budget.MaxTimeMs = &o.MaxTimeMs
	}
	return budget
}

func solverNames() []string {
	names := lo.Keys(solvers)
	slices.Sort(names)
	return names
}
