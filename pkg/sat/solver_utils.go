package sat

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// ConfigPath is the location of the JSON file holding the solvers' executable paths
var ConfigPath = "../../config.json"

func parseSolution(solverOutput string) (SATSolution, error) {
	fields := lo.Reduce(
		lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
			return len(line) > 0 && line[0] == 'v'
		}),
		func(values []string, line string, _ int) []string {
			return append(values, strings.Fields(line[1:])...)
		},
		[]string{},
	)
	return parseLiterals(fields)
}

func parseModelFile(content string, headerLine bool) (SATSolution, error) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if headerLine {
		// The first line is the header, we only need the rest
		if len(lines) == 0 || !strings.HasPrefix(strings.TrimSpace(lines[0]), "SAT") {
			return nil, nil
		}
		lines = lines[1:]
	}
	return parseLiterals(strings.Fields(strings.Join(lines, " ")))
}

func parseLiterals(fields []string) (SATSolution, error) {
	solution := make(SATSolution, 0, len(fields))
	for _, field := range fields {
		literal, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal in solver output: %v", err)
		}
		if literal == 0 { // Terminating zero
			break
		}
		solution = append(solution, literal)
	}
	return solution, nil
}

// getExecutablePath looks the solver up in config.json; when the file is absent the solver's name is resolved through PATH
func getExecutablePath(key, fallback string) (string, error) {
	bytes, err := os.ReadFile(ConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fallback, nil
	} else if err != nil {
		return "", fmt.Errorf("cannot read config file: %v", err)
	}

	var configJson map[string]any
	if err := json.Unmarshal(bytes, &configJson); err != nil {
		return "", fmt.Errorf("cannot parse config file: %v", err)
	}

	var config map[string]string
	if err := mapstructure.Decode(configJson, &config); err != nil {
		return "", fmt.Errorf("cannot decode config file: %v", err)
	}

	path, ok := config[key]
	if !ok || path == "" {
		return fallback, nil
	}
	return path, nil
}
