package ilp

import "github.com/limaJavier/placement/pkg/sat"

// atMostClauses returns the sequential-counter encoding (Sinz, 2005) of
// "at most k of the literals 1..n are true". Auxiliary register variables are
// allocated after firstAuxiliary-1; the returned count is the number of
// auxiliary variables used.
//
// Register s(i, j), for 1 <= i < n and 1 <= j <= k, is true when at least j of
// the first i literals are true.
func atMostClauses(n, k int, firstAuxiliary int64) (clauses [][]int64, auxiliaries int64) {
	if k >= n {
		return nil, 0
	}
	if k == 0 {
		clauses = make([][]int64, 0, n)
		for i := 1; i <= n; i++ {
			clauses = append(clauses, []int64{-int64(i)})
		}
		return clauses, 0
	}

	register := func(i, j int) int64 {
		return firstAuxiliary + int64((i-1)*k+(j-1))
	}
	literal := func(i int) int64 { return int64(i) }

	// i = 1
	clauses = append(clauses, []int64{-literal(1), register(1, 1)})
	for j := 2; j <= k; j++ {
		clauses = append(clauses, []int64{-register(1, j)})
	}

	// 1 < i < n
	for i := 2; i < n; i++ {
		clauses = append(clauses,
			[]int64{-literal(i), register(i, 1)},
			[]int64{-register(i-1, 1), register(i, 1)},
		)
		for j := 2; j <= k; j++ {
			clauses = append(clauses,
				[]int64{-literal(i), -register(i-1, j-1), register(i, j)},
				[]int64{-register(i-1, j), register(i, j)},
			)
		}
		clauses = append(clauses, []int64{-literal(i), -register(i-1, k)})
	}

	// i = n
	clauses = append(clauses, []int64{-literal(n), -register(n-1, k)})

	return clauses, int64((n - 1) * k)
}

// boundedCover builds the SAT instance "every row is covered using at most k variables".
// Variable j of the instance is SAT variable j+1.
func boundedCover(instance Instance, k int) sat.SAT {
	clauses := make([][]int64, 0, len(instance.Rows))
	for _, row := range instance.Rows {
		clause := make([]int64, 0, len(row))
		for _, variable := range row {
			clause = append(clause, int64(variable)+1)
		}
		clauses = append(clauses, clause)
	}

	cardinality, auxiliaries := atMostClauses(instance.Variables, k, int64(instance.Variables)+1)
	clauses = append(clauses, cardinality...)

	return sat.SAT{
		Variables: uint64(int64(instance.Variables) + auxiliaries),
		Clauses:   clauses,
	}
}
