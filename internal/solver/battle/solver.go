package battle

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/napolitain/battle-solver/internal/models"
)

// Standard battle layout
const (
	StandardLanes = 5
	// How many search nodes are visited between cancellation checks
	checkInterval = 1024
)

// MajorityThreshold returns the wins needed out of lanes: ceil((lanes+1)/2).
// For the standard five lanes this is 3.
func MajorityThreshold(lanes int) int {
	return (lanes + 2) / 2
}

// Option configures a Solver
type Option func(s *Solver)

// WithRules replaces the built-in advantage table and terrain multipliers
func WithRules(rules *models.Rules) Option {
	return func(s *Solver) {
		if rules != nil {
			s.rules = rules
		}
	}
}

// WithWorkers searches the subtrees of each first-lane choice on n goroutines
func WithWorkers(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithThreshold overrides the number of lane wins needed.
// Values outside 1..lanes fall back to the majority threshold.
func WithThreshold(wins int) Option {
	return func(s *Solver) {
		if wins > 0 {
			s.threshold = wins
		}
	}
}

// Solver finds an arrangement of the attacker's platoons that wins enough lanes.
//
// The search is exhaustive over the n! orderings of the attacker, so it is meant
// for small armies (five lanes in the standard game). Orderings are visited in
// lexicographic order of the attacker's original platoon indices and the first
// winning one is returned. Branches that can no longer reach the threshold are
// pruned; this never changes which ordering is returned.
type Solver struct {
	rules     *models.Rules
	workers   int
	threshold int
}

// NewSolver creates a solver with the built-in rules, one worker and the majority threshold
func NewSolver(options ...Option) *Solver {
	s := &Solver{
		rules:   models.DefaultRules(),
		workers: 1,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Rules returns the rules the solver resolves engagements with
func (s *Solver) Rules() *models.Rules {
	return s.rules
}

// Threshold returns the lane wins needed for a battle with the given number of lanes
func (s *Solver) Threshold(lanes int) int {
	if s.threshold >= 1 && s.threshold <= lanes {
		return s.threshold
	}
	return MajorityThreshold(lanes)
}

// Evaluate fights every lane of a fixed arrangement
func (s *Solver) Evaluate(mine, theirs models.Army, terrains models.Terrains) []Lane {
	n := min(len(mine), len(theirs))
	lanes := make([]Lane, n)
	for i := 0; i < n; i++ {
		lanes[i] = Resolve(s.rules, mine[i], theirs[i], terrains.At(i))
		lanes[i].Index = i
	}
	return lanes
}

// Solve searches for the first winning arrangement of mine against theirs.
// Armies of different sizes yield OutcomeSizeMismatch without searching.
// The only error returned is the context's, when it is done before the search ends.
func (s *Solver) Solve(ctx context.Context, mine, theirs models.Army, terrains models.Terrains) (*Result, error) {
	n := len(mine)
	result := &Result{
		Lanes:     n,
		Threshold: s.Threshold(n),
	}

	if len(mine) != len(theirs) {
		log.Debug().Int("mine", len(mine)).Int("theirs", len(theirs)).Msg("armies differ in size")
		result.Outcome = OutcomeSizeMismatch
		return result, nil
	}

	wins := s.winMatrix(mine, theirs, terrains)

	var (
		order []int
		found bool
		err   error
	)
	if s.workers > 1 && n > 1 {
		order, found, result.Visited, err = searchParallel(ctx, wins, result.Threshold, s.workers)
	} else {
		sr := newSearch(ctx, wins, result.Threshold)
		found = sr.run()
		order, result.Visited, err = sr.order, sr.visited, sr.err
	}
	if err != nil {
		return nil, err
	}

	if !found {
		result.Outcome = OutcomeNoSolution
		return result, nil
	}

	result.Outcome = OutcomeFound
	result.Order = order
	result.Arrangement = make(models.Army, n)
	for lane, idx := range order {
		result.Arrangement[lane] = mine[idx]
	}
	result.Engagements = s.Evaluate(result.Arrangement, theirs, terrains)
	for _, l := range result.Engagements {
		if l.Won {
			result.Wins++
		}
	}

	log.Debug().
		Str("arrangement", result.Arrangement.String()).
		Int("wins", result.Wins).
		Int64("visited", result.Visited).
		Msg("winning arrangement found")

	return result, nil
}

// winMatrix resolves every attacker platoon in every lane once.
// wins[i][lane] is true when mine[i] wins lane against theirs[lane].
func (s *Solver) winMatrix(mine, theirs models.Army, terrains models.Terrains) [][]bool {
	n := len(mine)
	wins := make([][]bool, n)
	for i, attacker := range mine {
		wins[i] = make([]bool, n)
		for lane, defender := range theirs {
			l := Resolve(s.rules, attacker, defender, terrains.At(lane))
			wins[i][lane] = l.Won
			log.Debug().
				Int("lane", lane).
				Str("terrain", string(l.Terrain)).
				Str("attacker", attacker.String()).
				Str("defender", defender.String()).
				Float64("attacker_strength", l.AttackerStrength).
				Float64("defender_strength", l.DefenderStrength).
				Bool("won", l.Won).
				Msg("engagement")
		}
	}
	return wins
}

// search is a depth-first walk over attacker orderings, lane by lane
type search struct {
	ctx       context.Context
	wins      [][]bool
	n         int
	threshold int
	used      []bool
	order     []int
	visited   int64
	err       error
	halted    bool

	// abort stops the walk early without an error (parallel search only)
	abort func() bool
}

func newSearch(ctx context.Context, wins [][]bool, threshold int) *search {
	n := len(wins)
	return &search{
		ctx:       ctx,
		wins:      wins,
		n:         n,
		threshold: threshold,
		used:      make([]bool, n),
		order:     make([]int, n),
	}
}

// run searches every ordering
func (sr *search) run() bool {
	if sr.cancelled() {
		return false
	}
	return sr.dfs(0, 0)
}

// runFrom searches only the orderings whose first lane holds platoon root
func (sr *search) runFrom(root int) bool {
	if sr.cancelled() {
		return false
	}
	sr.used[root] = true
	sr.order[0] = root
	won := 0
	if sr.wins[root][0] {
		won = 1
	}
	return sr.dfs(1, won)
}

func (sr *search) cancelled() bool {
	if err := sr.ctx.Err(); err != nil {
		sr.err = err
		sr.halted = true
	}
	return sr.halted
}

// stopped reports whether the walk must end. Checks are periodic and sticky.
func (sr *search) stopped() bool {
	if sr.halted {
		return true
	}
	if sr.visited%checkInterval == 0 {
		if sr.cancelled() {
			return true
		}
		if sr.abort != nil && sr.abort() {
			sr.halted = true
		}
	}
	return sr.halted
}

func (sr *search) dfs(lane, won int) bool {
	sr.visited++
	if sr.stopped() {
		return false
	}

	if lane == sr.n {
		return won >= sr.threshold
	}

	// Not enough lanes left to reach the threshold
	if won+(sr.n-lane) < sr.threshold {
		return false
	}

	// Already winning: any completion qualifies, and the first one in
	// lexicographic order is the unused platoons in ascending index order
	if won >= sr.threshold {
		for i := 0; i < sr.n; i++ {
			if !sr.used[i] {
				sr.used[i] = true
				sr.order[lane] = i
				lane++
			}
		}
		return true
	}

	for i := 0; i < sr.n; i++ {
		if sr.used[i] {
			continue
		}
		sr.used[i] = true
		sr.order[lane] = i
		w := won
		if sr.wins[i][lane] {
			w++
		}
		if sr.dfs(lane+1, w) {
			return true
		}
		sr.used[i] = false
		if sr.halted {
			return false
		}
	}
	return false
}

type subtreeStatus int

const (
	subtreePending subtreeStatus = iota
	subtreeFound
	subtreeExhausted
	subtreeCancelled
)

// searchParallel splits the search by first-lane platoon. The answer is the one
// from the lowest root that has a winning ordering, which is what the sequential
// walk would return. Roots above the best known answer are abandoned.
func searchParallel(ctx context.Context, wins [][]bool, threshold, workers int) ([]int, bool, int64, error) {
	n := len(wins)
	status := make([]subtreeStatus, n)
	orders := make([][]int, n)

	var best atomic.Int64
	best.Store(int64(n))
	var visited atomic.Int64

	tasks := make(chan int, n)
	for root := 0; root < n; root++ {
		tasks <- root
	}
	close(tasks)

	var wg sync.WaitGroup
	for w := 0; w < min(workers, n); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for root := range tasks {
				if int64(root) > best.Load() {
					continue
				}

				sr := newSearch(ctx, wins, threshold)
				sr.abort = func() bool {
					return best.Load() < int64(root)
				}
				found := sr.runFrom(root)
				visited.Add(sr.visited)

				switch {
				case found:
					status[root] = subtreeFound
					orders[root] = sr.order
					for {
						cur := best.Load()
						if int64(root) >= cur || best.CompareAndSwap(cur, int64(root)) {
							break
						}
					}
				case sr.err != nil:
					status[root] = subtreeCancelled
				default:
					status[root] = subtreeExhausted
				}
			}
		}()
	}
	wg.Wait()

	for root := 0; root < n; root++ {
		switch status[root] {
		case subtreeFound:
			return orders[root], true, visited.Load(), nil
		case subtreeCancelled:
			return nil, false, visited.Load(), ctx.Err()
		}
	}

	return nil, false, visited.Load(), nil
}
