package model

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// searchCounters are shared by every searcher of one solve
type searchCounters struct {
	explored atomic.Uint64
	pruned   atomic.Uint64
}

// budgetGuard decides whether the search may expand one more node
type budgetGuard struct {
	ctx      context.Context
	maxNodes *uint64
	deadline time.Time // Zero when unbounded
	counters *searchCounters
	tripped  atomic.Bool
}

func newBudgetGuard(ctx context.Context, budget SearchBudget, counters *searchCounters) *budgetGuard {
	guard := &budgetGuard{ctx: ctx, maxNodes: budget.MaxNodes, counters: counters}
	if budget.MaxTimeMs != nil {
		guard.deadline = time.Now().Add(time.Duration(*budget.MaxTimeMs) * time.Millisecond)
	}
	return guard
}

// enter reserves one node of the budget; once it refuses, it refuses for good
func (guard *budgetGuard) enter() bool {
	if guard.tripped.Load() {
		return false
	}
	if guard.ctx.Err() != nil || (!guard.deadline.IsZero() && !time.Now().Before(guard.deadline)) {
		guard.tripped.Store(true)
		return false
	}
	for {
		explored := guard.counters.explored.Load()
		if guard.maxNodes != nil && explored >= *guard.maxNodes {
			guard.tripped.Store(true)
			return false
		}
		if guard.counters.explored.CompareAndSwap(explored, explored+1) {
			return true
		}
	}
}

// sharedBound is the size of the best complete selection known to any searcher. It only decreases.
type sharedBound struct {
	size atomic.Int64
}

func newSharedBound(size int) *sharedBound {
	bound := &sharedBound{}
	bound.size.Store(int64(size))
	return bound
}

func (bound *sharedBound) load() int { return int(bound.size.Load()) }

// improve lowers the bound to size, reporting whether size was strictly better
func (bound *sharedBound) improve(size int) bool {
	for {
		current := bound.size.Load()
		if int64(size) >= current {
			return false
		}
		if bound.size.CompareAndSwap(current, int64(size)) {
			return true
		}
	}
}

type searcher struct {
	matrix   *coverageMatrix
	state    *coverageState
	guard    *budgetGuard
	counters *searchCounters
	bound    *sharedBound
	memo     map[string]int // Covered bitset -> smallest selection size it was expanded with

	current         []int
	best            []int // Nil until this searcher finds something better than the seed
	bestCovered     int
	lateUncoverable int
	aborted         bool
}

func newSearcher(matrix *coverageMatrix, guard *budgetGuard, counters *searchCounters, bound *sharedBound) *searcher {
	return &searcher{
		matrix:      matrix,
		state:       matrix.initialState(),
		guard:       guard,
		counters:    counters,
		bound:       bound,
		memo:        make(map[string]int),
		current:     make([]int, 0),
		bestCovered: matrix.coverable(),
	}
}

// fork copies the mutable search state so that a subtree can be searched on another goroutine
func (s *searcher) fork() *searcher {
	return &searcher{
		matrix:          s.matrix,
		state:           s.state.clone(),
		guard:           s.guard,
		counters:        s.counters,
		bound:           s.bound,
		memo:            maps.Clone(s.memo),
		current:         slices.Clone(s.current),
		bestCovered:     s.bestCovered,
		lateUncoverable: s.lateUncoverable,
	}
}

func (s *searcher) search() {
	candidates, ok := s.expand()
	if !ok {
		return
	}
	for _, candidate := range candidates {
		if s.aborted {
			break
		}
		s.branch(candidate)
	}
}

// branch covers the points of candidate, searches below it, and restores the state on return
func (s *searcher) branch(candidate int) {
	delta := s.state.acquire(s.matrix.masks[candidate])
	s.current = append(s.current, candidate)
	defer func() {
		s.current = s.current[:len(s.current)-1]
		s.state.release(delta)
	}()

	s.search()
}

// expand runs the checks of the current node and returns the ordered candidates to branch on.
// It returns false when the node is terminal, pruned or over budget.
func (s *searcher) expand() ([]int, bool) {
	if !s.guard.enter() {
		s.aborted = true
		return nil, false
	}

	//** Goal test
	if s.state.remaining() == 0 {
		s.record()
		return nil, false
	}

	//** Cannot improve on the best-known size
	if len(s.current) >= s.bound.load() {
		s.counters.pruned.Add(1)
		return nil, false
	}

	//** Memoization
	key := s.state.covered.key()
	if size, ok := s.memo[key]; ok && size <= len(s.current) {
		s.counters.pruned.Add(1)
		return nil, false
	}
	s.memo[key] = len(s.current)

	//** Optimistic bound
	maxMarginal := 0
	for _, mask := range s.matrix.masks {
		maxMarginal = max(maxMarginal, s.state.marginal(mask))
	}
	if maxMarginal > 0 {
		remaining := s.state.remaining()
		if len(s.current)+(remaining+maxMarginal-1)/maxMarginal >= s.bound.load() {
			s.counters.pruned.Add(1)
			return nil, false
		}
	}

	//** Hardest uncovered point
	point := s.hardestPoint()
	if len(s.matrix.coveredBy[point]) == 0 {
		// Never selectable: keep it covered for the rest of the search and score this partial state
		s.state.mark(point)
		s.lateUncoverable++
		s.record()
		return nil, false
	}

	type option struct {
		candidate int
		marginal  int
	}
	options := make([]option, 0, len(s.matrix.coveredBy[point]))
	for _, candidate := range s.matrix.coveredBy[point] {
		options = append(options, option{candidate, s.state.marginal(s.matrix.masks[candidate])})
	}
	slices.SortStableFunc(options, func(a, b option) int { return cmp.Compare(b.marginal, a.marginal) })

	candidates := make([]int, len(options))
	for i, option := range options {
		candidates[i] = option.candidate
	}
	return candidates, true
}

// hardestPoint is the uncovered point with the fewest covering candidates, the first on ties
func (s *searcher) hardestPoint() int {
	hardest := -1
	for point := range s.matrix.points {
		if s.state.covered.has(point) {
			continue
		}
		if hardest < 0 || len(s.matrix.coveredBy[point]) < len(s.matrix.coveredBy[hardest]) {
			hardest = point
		}
	}
	return hardest
}

// record keeps the current selection if it beats the best one by (covered desc, size asc)
func (s *searcher) record() {
	covered := s.state.count - s.matrix.uncoverable.count() - s.lateUncoverable
	if covered < s.bestCovered {
		return
	}
	if covered == s.bestCovered && !s.bound.improve(len(s.current)) {
		return
	}
	s.best = slices.Clone(s.current)
	s.bestCovered = covered
}

type searchOutcome struct {
	selection []int
	covered   int
	exact     bool
	explored  uint64
	pruned    uint64
}

// branchAndBound searches for a selection better than seed, which must cover every coverable
// point. With more than one worker the subtrees below the root are searched concurrently.
func branchAndBound(ctx context.Context, matrix *coverageMatrix, seed []int, budget SearchBudget, workers int) searchOutcome {
	counters := &searchCounters{}
	guard := newBudgetGuard(ctx, budget, counters)
	bound := newSharedBound(len(seed))
	root := newSearcher(matrix, guard, counters, bound)

	var searchers []*searcher
	if workers <= 1 {
		root.search()
		searchers = []*searcher{root}
	} else {
		searchers = searchInParallel(root, workers)
	}

	outcome := searchOutcome{selection: seed, covered: matrix.coverable(), exact: true}
	for _, s := range searchers {
		if s.aborted {
			outcome.exact = false
		}
		if s.best == nil {
			continue
		}
		if s.bestCovered > outcome.covered || (s.bestCovered == outcome.covered && len(s.best) < len(outcome.selection)) {
			outcome.selection, outcome.covered = s.best, s.bestCovered
		}
	}
	outcome.explored = counters.explored.Load()
	outcome.pruned = counters.pruned.Load()
	return outcome
}

// searchInParallel expands the root and searches each of its branches on a fork. The returned
// searchers are the root followed by the forks in branch order.
func searchInParallel(root *searcher, workers int) []*searcher {
	candidates, ok := root.expand()
	if !ok {
		return []*searcher{root}
	}

	forks := make([]*searcher, len(candidates))
	var group errgroup.Group
	group.SetLimit(workers)
	for i, candidate := range candidates {
		forks[i] = root.fork()
		group.Go(func() error {
			forks[i].branch(candidate)
			return nil
		})
	}
	group.Wait()

	return append([]*searcher{root}, forks...)
}
