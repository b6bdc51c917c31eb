package model

// greedyCover repeatedly selects the candidate covering the most still uncovered points,
// the first in enumeration order on ties, until nothing coverable is left uncovered.
func greedyCover(matrix *coverageMatrix) []int {
	state := matrix.initialState()
	selection := make([]int, 0)

	for state.remaining() > 0 {
		best, bestMarginal := -1, 0
		for candidate, mask := range matrix.masks {
			if marginal := state.marginal(mask); marginal > bestMarginal {
				best, bestMarginal = candidate, marginal
			}
		}
		if best < 0 { // Only reachable when the remaining points have no covering candidate
			break
		}
		state.acquire(matrix.masks[best])
		selection = append(selection, best)
	}

	return selection
}

// normalizeSites keeps a single facility per site. A site chosen with several models keeps
// the one with the largest range (the first in model order on ties), whose coverage is a
// superset of the others'. Sites keep the order of their first appearance.
func normalizeSites(matrix *coverageMatrix, selection []int) []int {
	chosen := make(map[int]int, len(selection)) // Site -> position in normalized
	normalized := make([]int, 0, len(selection))

	for _, candidate := range selection {
		site, model := matrix.indexer.Attributes(candidate)
		position, ok := chosen[site]
		if !ok {
			chosen[site] = len(normalized)
			normalized = append(normalized, candidate)
			continue
		}
		_, current := matrix.indexer.Attributes(normalized[position])
		if matrix.models[model].Range > matrix.models[current].Range ||
			(matrix.models[model].Range == matrix.models[current].Range && model < current) {
			normalized[position] = candidate
		}
	}

	return normalized
}
