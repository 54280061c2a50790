// internal/pairgen/pairgen.go
//
// Start/target pair generation for puzzles.
//
// Pairs are rejection-sampled from the graph's word set until one
// satisfies every difficulty constraint:
//   1. both words have enough neighbors (cheap filter, checked first),
//   2. the shortest path exists and its move count is within range,
//   3. the words are far enough apart in layout space (guards against
//      pairs that are path-distant but visually co-located),
//   4. the target has an alternate approach: some neighbor of the
//      penultimate path word, other than the target, is itself a
//      neighbor of the target, so the final step is never a forced
//      unique bottleneck.
//
// The random source is injected so daily puzzles reproduce across all
// players for a given calendar date (see DailySeed).

package pairgen

import (
	"errors"
	"math/rand"

	"github.com/wordtrek/go-server/internal/pathfind"
	"github.com/wordtrek/go-server/internal/wordgraph"
)

// ErrExhausted indicates no satisfying pair was found within the attempt
// budget. Recoverable: retry with relaxed constraints or a larger budget.
var ErrExhausted = errors.New("pairgen: attempt budget exhausted")

// Defaults from the production pair-generation pipeline.
const (
	DefaultMinMoves       = 4
	DefaultMaxMoves       = 5
	DefaultMinDegree      = 3
	DefaultMinCoordDistSq = 20 * 20
	DefaultMaxAttempts    = 200
)

// Constraints is the immutable difficulty envelope for a puzzle pair.
type Constraints struct {
	MinMoves       int     // minimum optimal path length in moves
	MaxMoves       int     // maximum optimal path length in moves
	MinDegree      int     // minimum neighbor count for start and target
	MinCoordDistSq float64 // minimum squared layout distance start↔target
	// RequireAltApproach demands a second route into the target besides
	// the single penultimate edge.
	RequireAltApproach bool
}

// DefaultConstraints returns the standard puzzle difficulty envelope.
func DefaultConstraints() Constraints {
	return Constraints{
		MinMoves:           DefaultMinMoves,
		MaxMoves:           DefaultMaxMoves,
		MinDegree:          DefaultMinDegree,
		MinCoordDistSq:     DefaultMinCoordDistSq,
		RequireAltApproach: true,
	}
}

// Pair is an accepted puzzle: the words plus the optimal solution
// computed during validation, so callers never recompute it.
type Pair struct {
	StartWord   string
	EndWord     string
	OptimalPath pathfind.Path
	OptimalCost float64
}

// Generate rejection-samples up to maxAttempts candidate pairs and
// returns the first one satisfying all constraints. Returns ErrExhausted
// when the budget runs out; callers treat that as a normal, recoverable
// outcome. maxAttempts <= 0 selects DefaultMaxAttempts.
func Generate(g *wordgraph.Graph, c Constraints, maxAttempts int, rng *rand.Rand) (*Pair, error) {
	words := g.Words()
	if len(words) < 2 {
		return nil, ErrExhausted
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		start := words[rng.Intn(len(words))]
		end := words[rng.Intn(len(words))]
		if start == end {
			continue
		}

		// Cheap degree filter before any path computation.
		if g.Degree(start) < c.MinDegree || g.Degree(end) < c.MinDegree {
			continue
		}

		path, ok, err := pathfind.Find(g, start, end)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if moves := path.Moves(); moves < c.MinMoves || moves > c.MaxMoves {
			continue
		}

		if g.LayoutDistSq(start, end) < c.MinCoordDistSq {
			continue
		}

		if c.RequireAltApproach && !hasAltApproach(g, path) {
			continue
		}

		return &Pair{
			StartWord:   start,
			EndWord:     end,
			OptimalPath: path,
			OptimalCost: path.Cost(g),
		}, nil
	}
	return nil, ErrExhausted
}

// hasAltApproach reports whether some neighbor of the penultimate path
// word, other than the target itself, is also a neighbor of the target.
func hasAltApproach(g *wordgraph.Graph, path pathfind.Path) bool {
	if len(path) < 2 {
		return false
	}
	end := path[len(path)-1]
	penultimate := path[len(path)-2]
	for n := range g.Neighbors(penultimate) {
		if n == end {
			continue
		}
		if g.HasEdge(end, n) {
			return true
		}
	}
	return false
}
