package model

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// line places points one unit apart on the x axis, every one of them a site
func line(size int) []Point {
	points := make([]Point, size)
	for i := range points {
		points[i] = Point{Id: string(rune('a' + i)), X: float64(i), SiteEligible: true}
	}
	return points
}

func TestBranchAndBoundImprovesOnSeed(t *testing.T) {
	matrix := newCoverageMatrix(line(9), []EquipmentModel{{Name: "m", Range: 1}})
	seed := make([]int, 0, 9) // Every site
	for site := range 9 {
		seed = append(seed, matrix.indexer.Index(site, 0))
	}

	outcome := branchAndBound(context.Background(), matrix, seed, SearchBudget{}, 1)

	assert.True(t, outcome.exact)
	assert.Len(t, outcome.selection, 3) // Sites 1, 4 and 7
	assert.ElementsMatch(t, []int{1, 4, 7}, outcome.selection)
	assert.Equal(t, 9, outcome.covered)
	assert.NotZero(t, outcome.explored)
}

func TestBranchAndBoundKeepsOptimalSeed(t *testing.T) {
	matrix := newCoverageMatrix(line(3), []EquipmentModel{{Name: "m", Range: 1}})

	outcome := branchAndBound(context.Background(), matrix, []int{1}, SearchBudget{}, 1)

	assert.True(t, outcome.exact)
	assert.Equal(t, []int{1}, outcome.selection)
	assert.Equal(t, uint64(1), outcome.explored) // The root is pruned by the optimistic bound
	assert.Equal(t, uint64(1), outcome.pruned)
}

func TestBranchAndBoundHonoursNodeBudget(t *testing.T) {
	matrix := newCoverageMatrix(line(12), []EquipmentModel{{Name: "m", Range: 1}})
	seed := make([]int, 0, 12)
	for site := range 12 {
		seed = append(seed, site)
	}
	maxNodes := uint64(3)

	for _, workers := range []int{1, 4} {
		outcome := branchAndBound(context.Background(), matrix, seed, SearchBudget{MaxNodes: &maxNodes}, workers)

		assert.False(t, outcome.exact)
		assert.Equal(t, maxNodes, outcome.explored)
		assert.LessOrEqual(t, len(outcome.selection), len(seed))
	}
}

func TestGreedyCoverTieBreak(t *testing.T) {
	// Both sites cover both points, the first site wins
	points := []Point{{Id: "a", SiteEligible: true}, {Id: "b", X: 1, SiteEligible: true}}
	matrix := newCoverageMatrix(points, []EquipmentModel{{Name: "small", Range: 0.5}, {Name: "large", Range: 1}})

	assert.Equal(t, []int{matrix.indexer.Index(0, 1)}, greedyCover(matrix))
}

func TestGreedyCoverSkipsUncoverable(t *testing.T) {
	points := append(line(5), Point{Id: "far", X: 100})
	matrix := newCoverageMatrix(points, []EquipmentModel{{Name: "m", Range: 1}})

	selection := greedyCover(matrix)

	covered := matrix.replay(selection)
	assert.Equal(t, []bool{true, true, true, true, true, false}, covered)
	assert.Len(t, selection, 2)
}

func TestHardestPoint(t *testing.T) {
	// The end points of a line have fewer covering candidates than the inner ones
	matrix := newCoverageMatrix(line(5), []EquipmentModel{{Name: "m", Range: 1}})
	s := newSearcher(matrix, newBudgetGuard(context.Background(), SearchBudget{}, &searchCounters{}), &searchCounters{}, newSharedBound(5))

	assert.Equal(t, 0, s.hardestPoint())
	s.state.mark(0)
	assert.Equal(t, 4, s.hardestPoint())
}

func TestSharedBound(t *testing.T) {
	bound := newSharedBound(10)

	var wg sync.WaitGroup
	for size := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bound.improve(size)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, bound.load())
	assert.False(t, bound.improve(0))
}
