package model

type Placement struct {
	SiteId    string  `json:"siteId"`
	ModelName string  `json:"modelName"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// CrossValidationReport compares the selection with an independent covering-program minimizer
type CrossValidationReport struct {
	Solver  string `json:"solver"`
	Size    int    `json:"size,omitempty"`
	Optimal bool   `json:"optimal,omitempty"`
	Agrees  bool   `json:"agrees"`
	Error   string `json:"error,omitempty"`
}

type SolveResult struct {
	Selected        []Placement            `json:"selected"`
	CoveredIds      []string               `json:"coveredIds"`
	UncoveredIds    []string               `json:"uncoveredIds"`
	Exact           bool                   `json:"exact"`
	NodesExplored   uint64                 `json:"nodesExplored"`
	NodesPruned     uint64                 `json:"nodesPruned"`
	CoverageRate    float64                `json:"coverageRate"`
	GreedySize      int                    `json:"greedySize"`
	CrossValidation *CrossValidationReport `json:"crossValidation,omitempty"`
}

// assemble maps a selection back to caller identities. The covered/uncovered partition is
// replayed from the coverage relation rather than taken from any search state.
func assemble(matrix *coverageMatrix, selection []int) SolveResult {
	result := SolveResult{
		Selected:     make([]Placement, 0, len(selection)),
		CoveredIds:   make([]string, 0, len(matrix.points)),
		UncoveredIds: make([]string, 0),
	}

	for _, candidate := range selection {
		site := matrix.points[matrix.site(candidate)]
		result.Selected = append(result.Selected, Placement{
			SiteId:    site.Id,
			ModelName: matrix.models[matrix.model(candidate)].Name,
			X:         site.X,
			Y:         site.Y,
		})
	}

	for point, covered := range matrix.replay(selection) {
		if covered {
			result.CoveredIds = append(result.CoveredIds, matrix.points[point].Id)
		} else {
			result.UncoveredIds = append(result.UncoveredIds, matrix.points[point].Id)
		}
	}

	if len(matrix.points) > 0 {
		result.CoverageRate = float64(len(result.CoveredIds)) / float64(len(matrix.points))
	}
	return result
}
