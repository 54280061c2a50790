// internal/report/report.go
//
// End-of-game analytics. Generate is a pure function of a terminal
// session and the graph: it categorizes each move, compares the player's
// route against the optimal one, and produces the read-only report shown
// on the results screen. Nothing here mutates the session.
//
// Move categories:
//   - greedy: the player picked the neighbor with (near-)maximum
//     similarity to the current word, regardless of path optimality.
//   - repositioning: the move looked like it increased straight-line
//     distance to the target, yet unlocked a next hop strictly closer
//     than the previous position was.

package report

import (
	"errors"

	"github.com/wordtrek/go-server/internal/pathfind"
	"github.com/wordtrek/go-server/internal/session"
	"github.com/wordtrek/go-server/internal/wordgraph"
)

// ErrNotTerminal indicates the session is still in progress.
var ErrNotTerminal = errors.New("report: session is not in a terminal state")

// greedyEpsilon is the tolerance when comparing a chosen similarity
// against the maximum available similarity at that step.
const greedyEpsilon = 1e-9

// Report is a derived, read-only snapshot of a finished run.
// Accuracy is nil when the player made no moves.
type Report struct {
	SessionID string        `json:"sessionId"`
	Outcome   session.State `json:"outcome"`
	StartWord string        `json:"startWord"`
	EndWord   string        `json:"endWord"`

	PlayerMoves  int `json:"playerMoves"`
	OptimalMoves int `json:"optimalMoves"`

	// Accuracy is the percentage of globally optimal moves in [0,100].
	Accuracy *float64 `json:"accuracy,omitempty"`

	AverageSimilarity  float64 `json:"averageSimilarity"`
	GreedyMoves        int     `json:"greedyMoves"`
	RepositioningMoves int     `json:"repositioningMoves"`

	PlayerDistance  float64 `json:"playerDistance"`
	OptimalDistance float64 `json:"optimalDistance"`

	Moves         []session.MoveRecord `json:"moves"`
	PlayerPath    []string             `json:"playerPath"`
	OptimalPath   pathfind.Path        `json:"optimalPath"`
	SuggestedPath pathfind.Path        `json:"suggestedPath,omitempty"`
}

// Generate builds the analytics report for a terminal session.
func Generate(g *wordgraph.Graph, s *session.Session) (*Report, error) {
	if !s.State.Terminal() {
		return nil, ErrNotTerminal
	}

	r := &Report{
		SessionID:       s.ID,
		Outcome:         s.State,
		StartWord:       s.StartWord,
		EndWord:         s.EndWord,
		PlayerMoves:     s.PlayerMoves(),
		OptimalMoves:    s.OptimalPath.Moves(),
		PlayerDistance:  s.SemanticDistance,
		OptimalDistance: s.OptimalPath.Cost(g),
		Moves:           s.Moves,
		PlayerPath:      s.PlayerPath,
		OptimalPath:     s.OptimalPath,
		SuggestedPath:   s.SuggestedPath,
	}

	if r.PlayerMoves > 0 {
		optimal := 0
		var simSum float64
		for _, m := range s.Moves {
			if m.GlobalOptimal {
				optimal++
			}
			sim, _ := g.Similarity(m.FromWord, m.ToWord)
			simSum += sim
			if isGreedy(g, m) {
				r.GreedyMoves++
			}
		}
		acc := float64(optimal) / float64(r.PlayerMoves) * 100
		r.Accuracy = &acc
		r.AverageSimilarity = simSum / float64(r.PlayerMoves)
		r.RepositioningMoves = countRepositioning(g, s.PlayerPath, s.EndWord)
	}

	return r, nil
}

// isGreedy reports whether the chosen word's similarity is within
// greedyEpsilon of the maximum similarity among FromWord's neighbors.
func isGreedy(g *wordgraph.Graph, m session.MoveRecord) bool {
	chosen, ok := g.Similarity(m.FromWord, m.ToWord)
	if !ok {
		return false
	}
	var best float64
	for _, sim := range g.Neighbors(m.FromWord) {
		if sim > best {
			best = sim
		}
	}
	return chosen >= best-greedyEpsilon
}

// countRepositioning counts moves satisfying the repositioning predicate
// over the player's path: for A → B → C, the chosen word C lies farther
// from the target than B by straight-line distance, yet some neighbor of
// C is strictly closer than B was. The first move has no A and is never
// counted.
func countRepositioning(g *wordgraph.Graph, playerPath []string, end string) int {
	count := 0
	for i := 1; i+1 < len(playerPath); i++ {
		b := playerPath[i]
		c := playerPath[i+1]
		bDist := g.LayoutDist(b, end)
		if g.LayoutDist(c, end) <= bDist {
			continue
		}
		for n := range g.Neighbors(c) {
			if g.LayoutDist(n, end) < bDist {
				count++
				break
			}
		}
	}
	return count
}
