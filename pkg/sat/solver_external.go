package sat

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type inputMode int

const (
	stdinInput inputMode = iota // DIMACS is fed through the standard input
	fileInput                   // DIMACS is written to a temporary file passed as argument
)

type outputMode int

const (
	stdoutOutput outputMode = iota // Model is printed as "v ..." lines on the standard output
	fileOutput                     // Model is written to a second temporary file
)

// externalSolver runs a SAT-solver executable following the SAT-competition conventions
type externalSolver struct {
	name       string
	configKey  string // Key of the executable's path in config.json
	arguments  []string
	input      inputMode
	output     outputMode
	headerLine bool // Whether the output file starts with a "SAT"/"UNSAT" line before the model
}

func NewKissatSolver() SATSolver {
	return &externalSolver{name: "kissat", configKey: "kissatPath", arguments: []string{"-q", "--relaxed"}}
}

func NewCadicalSolver() SATSolver {
	return &externalSolver{name: "cadical", configKey: "cadicalPath", arguments: []string{"-q"}}
}

func NewCryptominisatSolver() SATSolver {
	return &externalSolver{name: "cryptominisat", configKey: "cryptominisatPath", arguments: []string{"--verb", "0"}}
}

func NewMinisatSolver() SATSolver {
	return &externalSolver{name: "minisat", configKey: "minisatPath", arguments: []string{"-verb=0"}, input: fileInput, output: fileOutput, headerLine: true}
}

func NewGlucoseSimpSolver() SATSolver {
	return &externalSolver{name: "glucose-simp", configKey: "glucoseSimpPath", arguments: []string{"-verb=0"}, input: fileInput, output: fileOutput}
}

func NewSlimeSolver() SATSolver {
	return &externalSolver{name: "slime", configKey: "slimePath", input: fileInput}
}

func NewOrtoolsatSolver() SATSolver {
	return &externalSolver{name: "ortoolsat", configKey: "ortoolsatPath", input: fileInput}
}

func (solver *externalSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	executable, err := getExecutablePath(solver.configKey, solver.name)
	if err != nil {
		return nil, err
	}
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	arguments := append([]string{}, solver.arguments...)
	var stdIn *strings.Reader
	var outputFile string

	if solver.input == fileInput {
		inputFile, err := writeTempFile("dimacs-*.cnf", dimacs)
		if err != nil {
			return nil, err
		}
		defer os.Remove(inputFile) // Ensure the file is removed after execution
		arguments = append(arguments, inputFile)
	} else {
		stdIn = strings.NewReader(dimacs)
	}

	if solver.output == fileOutput {
		outputFile, err = writeTempFile(solver.name+"_output-*.txt", "")
		if err != nil {
			return nil, err
		}
		defer os.Remove(outputFile)
		arguments = append(arguments, outputFile)
	}

	cmd := exec.CommandContext(ctx, executable, arguments...)
	if stdIn != nil {
		cmd.Stdin = stdIn
	}

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	err = cmd.Run()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%v execution interrupted: %w", solver.name, ctx.Err())
	}
	// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil && exitCode != 10 && exitCode != 20 {
		return nil, fmt.Errorf("an error occurred during %v execution: %v : %v", solver.name, err.Error(), stdErr.String())
	} else if exitCode == 20 {
		return nil, nil
	}

	if solver.output == fileOutput {
		content, err := os.ReadFile(outputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read output file: %v", err)
		}
		return parseModelFile(string(content), solver.headerLine)
	}
	return parseSolution(stdOut.String())
}

func writeTempFile(pattern, content string) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %v", err)
	}
	if _, err := file.WriteString(content); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to write temporary file: %v", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to close temporary file: %v", err)
	}
	return file.Name(), nil
}
