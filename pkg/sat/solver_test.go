package sat

import (
	"context"
	"log"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGophersat(t *testing.T) {
	solver := NewGophersatSolver()
	t.Run("Random instances", func(t *testing.T) {
		randomExecution(t, solver)
	})
	t.Run("Unsatisfiable instance", func(t *testing.T) {
		unsatisfiableExecution(t, solver)
	})
}

func TestKissat(t *testing.T) {
	solver := requireExecutable(t, "kissat", NewKissatSolver)
	t.Run("Random instances", func(t *testing.T) {
		randomExecution(t, solver)
	})
}

func TestCadical(t *testing.T) {
	solver := requireExecutable(t, "cadical", NewCadicalSolver)
	t.Run("Random instances", func(t *testing.T) {
		randomExecution(t, solver)
	})
}

func TestMinisat(t *testing.T) {
	solver := requireExecutable(t, "minisat", NewMinisatSolver)
	t.Run("Random instances", func(t *testing.T) {
		randomExecution(t, solver)
	})
}

func TestToDIMACS(t *testing.T) {
	instance := SAT{Variables: 3, Clauses: [][]int64{{1, -2}, {3}}}
	assert.Equal(t, "p cnf 3 2\n1 -2 0\n3 0\n", instance.ToDIMACS())
}

func TestParseSolution(t *testing.T) {
	solution, err := parseSolution("c comment\ns SATISFIABLE\nv 1 -2 3\nv -4 5 0\n")
	require.NoError(t, err)
	assert.Equal(t, SATSolution{1, -2, 3, -4, 5}, solution)
	assert.Equal(t, []uint64{1, 3, 5}, solution.TrueVariables())

	_, err = parseSolution("v 1 x 0\n")
	assert.Error(t, err)
}

func TestParseModelFile(t *testing.T) {
	solution, err := parseModelFile("SAT\n1 -2 0\n", true)
	require.NoError(t, err)
	assert.Equal(t, SATSolution{1, -2}, solution)

	solution, err = parseModelFile("UNSAT\n", true)
	require.NoError(t, err)
	assert.Nil(t, solution)

	solution, err = parseModelFile("-1 2 0", false)
	require.NoError(t, err)
	assert.Equal(t, SATSolution{-1, 2}, solution)
}

func TestGetExecutablePath(t *testing.T) {
	previous := ConfigPath
	t.Cleanup(func() { ConfigPath = previous })

	directory := t.TempDir()
	ConfigPath = filepath.Join(directory, "missing.json")
	path, err := getExecutablePath("kissatPath", "kissat")
	require.NoError(t, err)
	assert.Equal(t, "kissat", path)

	ConfigPath = filepath.Join(directory, "config.json")
	require.NoError(t, os.WriteFile(ConfigPath, []byte(`{"kissatPath": "/opt/kissat/bin/kissat"}`), 0666))
	path, err = getExecutablePath("kissatPath", "kissat")
	require.NoError(t, err)
	assert.Equal(t, "/opt/kissat/bin/kissat", path)

	path, err = getExecutablePath("cadicalPath", "cadical")
	require.NoError(t, err)
	assert.Equal(t, "cadical", path)

	require.NoError(t, os.WriteFile(ConfigPath, []byte(`{not json`), 0666))
	_, err = getExecutablePath("kissatPath", "kissat")
	assert.Error(t, err)
}

func randomExecution(t *testing.T, solver SATSolver) {
	unsatisfiableCount := 0

	for range 10 {
		//** Arrange
		literals := uint64(rand.IntN(60) + 1)
		clauses := rand.IntN(120) + 1
		instance := generateSATInstance(literals, clauses)

		//** Act
		solution, err := solver.Solve(context.Background(), instance)

		//** Assert
		require.NoError(t, err)
		if solution == nil {
			unsatisfiableCount++
			continue
		}
		assert.True(t, instance.Satisfies(solution))
	}

	log.Printf("Unsatisfiable instances: %v", unsatisfiableCount)
}

func unsatisfiableExecution(t *testing.T, solver SATSolver) {
	instance := SAT{Variables: 2, Clauses: [][]int64{{1, 2}, {-1, 2}, {1, -2}, {-1, -2}}}
	solution, err := solver.Solve(context.Background(), instance)
	require.NoError(t, err)
	assert.Nil(t, solution)
}

func requireExecutable(t *testing.T, name string, constructor func() SATSolver) SATSolver {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%v is not available: %v", name, err)
	}
	previous := ConfigPath
	ConfigPath = filepath.Join(t.TempDir(), "config.json") // Resolve through PATH
	t.Cleanup(func() { ConfigPath = previous })
	return constructor()
}

func generateSATInstance(literals uint64, clauses int) SAT {
	satInstance := SAT{
		Variables: literals,
		Clauses:   make([][]int64, clauses),
	}

	for i := range clauses {
		satInstance.Clauses[i] = make([]int64, 0, literals)
		for j := range literals {
			if rand.Float32() < 0.1 {
				var sign int64 = 1
				if rand.Float32() < 0.5 {
					sign = -1
				}
				satInstance.Clauses[i] = append(satInstance.Clauses[i], sign*(1+int64(j)))
			}
		}

		if len(satInstance.Clauses[i]) == 0 {
			var sign int64 = 1
			if rand.Float32() < 0.5 {
				sign = -1
			}
			satInstance.Clauses[i] = append(satInstance.Clauses[i], sign*(1+rand.Int64N(int64(literals))))
		}
	}

	return satInstance
}
