package model

import "math"

// coverageMatrix holds the covers(site, point, model) relation of one solve together with the
// views the search needs: per-candidate coverage masks and per-point covering candidates.
type coverageMatrix struct {
	points      []Point
	models      []EquipmentModel
	sites       []int      // Point index of every eligible site, in point order
	covers      [][][]bool // covers[site][point][model]
	indexer     indexer
	masks       []bitset // Points covered by each candidate
	coveredBy   [][]int  // Candidates covering each point, ascending
	uncoverable bitset   // Points no candidate covers
}

func newCoverageMatrix(points []Point, models []EquipmentModel) *coverageMatrix {
	sites := make([]int, 0, len(points))
	for i, point := range points {
		if point.SiteEligible {
			sites = append(sites, i)
		}
	}

	matrix := &coverageMatrix{
		points:      points,
		models:      models,
		sites:       sites,
		covers:      make([][][]bool, len(sites)),
		indexer:     newIndexer(len(sites), len(models)),
		coveredBy:   make([][]int, len(points)),
		uncoverable: newBitset(len(points)),
	}
	matrix.masks = make([]bitset, matrix.indexer.Candidates())
	for candidate := range matrix.masks {
		matrix.masks[candidate] = newBitset(len(points))
	}

	for site, siteIndex := range sites {
		matrix.covers[site] = make([][]bool, len(points))
		for point := range points {
			matrix.covers[site][point] = make([]bool, len(models))
			d := distance(points[siteIndex], points[point])
			for model := range models {
				if d <= models[model].Range {
					matrix.covers[site][point][model] = true
					matrix.masks[matrix.indexer.Index(site, model)].set(point)
				}
			}
		}
	}

	// Built in a second pass so that every list is in candidate order
	for candidate, mask := range matrix.masks {
		for point := range points {
			if mask.has(point) {
				matrix.coveredBy[point] = append(matrix.coveredBy[point], candidate)
			}
		}
	}

	for point := range points {
		if len(matrix.coveredBy[point]) == 0 {
			matrix.uncoverable.set(point)
		}
	}

	return matrix
}

func (matrix *coverageMatrix) candidates() int { return matrix.indexer.Candidates() }

// coverable is the number of points some candidate covers
func (matrix *coverageMatrix) coverable() int {
	return len(matrix.points) - matrix.uncoverable.count()
}

// initialState marks every uncoverable point as covered so the search ignores them
func (matrix *coverageMatrix) initialState() *coverageState {
	state := newCoverageState(len(matrix.points))
	state.acquire(matrix.uncoverable)
	return state
}

// site returns the point index hosting a candidate
func (matrix *coverageMatrix) site(candidate int) int {
	site, _ := matrix.indexer.Attributes(candidate)
	return matrix.sites[site]
}

func (matrix *coverageMatrix) model(candidate int) int {
	_, model := matrix.indexer.Attributes(candidate)
	return model
}

// replay recomputes the points covered by a selection from the relation itself
func (matrix *coverageMatrix) replay(selection []int) []bool {
	covered := make([]bool, len(matrix.points))
	for point := range matrix.points {
		for _, candidate := range selection {
			site, model := matrix.indexer.Attributes(candidate)
			if matrix.covers[site][point][model] {
				covered[point] = true
				break
			}
		}
	}
	return covered
}

// distance is the planar Euclidean distance between two points
func distance(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
