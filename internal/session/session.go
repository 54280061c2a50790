// internal/session/session.go
//
// State machine for a single player's navigation run.
// Responsibilities:
//   - Start a run from a generated puzzle pair.
//   - Validate and apply moves (neighbor check, optimality bookkeeping,
//     cumulative semantic distance).
//   - Track state transitions: playing → won / gave_up.
//
// Notes:
//   - Every move triggers a fresh shortest-path computation from the
//     current position to classify local optimality. Graphs are small
//     (low thousands of nodes) so the recomputation is not memoized.
//   - Move application is atomic: all validation and path work happens
//     before any field is mutated, so a failed Select leaves the session
//     untouched.

package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	mrand "math/rand"

	"github.com/wordtrek/go-server/internal/pairgen"
	"github.com/wordtrek/go-server/internal/pathfind"
	"github.com/wordtrek/go-server/internal/wordgraph"
)

// Sentinel errors for session operations.
var (
	// ErrNotPlaying indicates an operation that is only valid mid-run.
	ErrNotPlaying = errors.New("session: not in playing state")

	// ErrInvalidMove indicates the selected word is not a neighbor of the
	// current word. Local and recoverable: state is unchanged.
	ErrInvalidMove = errors.New("session: word is not a neighbor of current word")
)

// New returns an idle session with a fresh identifier.
func New() *Session {
	return &Session{ID: randomID(), State: StateIdle}
}

// Start draws a puzzle pair and begins a run. Valid from Idle or any
// terminal state. On pairgen.ErrExhausted the session transitions to
// Errored with the cause retained; callers may retry with relaxed
// constraints. Any previous run state is reset.
func (s *Session) Start(g *wordgraph.Graph, c pairgen.Constraints, maxAttempts int, rng *mrand.Rand) error {
	if s.State == StatePlaying || s.State == StateLoading {
		return ErrNotPlaying
	}
	s.State = StateLoading

	pair, err := pairgen.Generate(g, c, maxAttempts, rng)
	if err != nil {
		s.State = StateErrored
		s.Cause = err
		return err
	}
	s.StartPair(pair)
	return nil
}

// StartPair begins a run from an already-generated pair (used for daily
// puzzles, where the pair is derived from the date seed).
func (s *Session) StartPair(pair *pairgen.Pair) {
	s.StartWord = pair.StartWord
	s.EndWord = pair.EndWord
	s.CurrentWord = pair.StartWord
	s.PlayerPath = []string{pair.StartWord}
	s.OptimalPath = pair.OptimalPath
	s.OptimalCost = pair.OptimalCost
	s.Moves = nil
	s.SemanticDistance = 0
	s.SuggestedPath = nil
	s.Cause = nil
	s.State = StatePlaying
}

// Select applies one move. Valid only in Playing.
//
// Fails with ErrInvalidMove (no state change) when word is not an edge
// neighbor of the current word. Otherwise records global/local optimality,
// accumulates semantic distance, advances the player, and transitions to
// Won when the target is reached.
func (s *Session) Select(g *wordgraph.Graph, word string) error {
	if s.State != StatePlaying {
		return ErrNotPlaying
	}
	sim, ok := g.Similarity(s.CurrentWord, word)
	if !ok {
		return ErrInvalidMove
	}

	// Compute everything before mutating anything.
	rec := MoveRecord{
		FromWord:      s.CurrentWord,
		ToWord:        word,
		GlobalOptimal: s.globalOptimal(word),
	}
	if local, found, err := pathfind.Find(g, s.CurrentWord, s.EndWord); err != nil {
		return err
	} else if found && len(local) > 1 {
		rec.LocalOptimal = word == local[1]
	}

	s.Moves = append(s.Moves, rec)
	s.SemanticDistance += 1 - sim
	s.PlayerPath = append(s.PlayerPath, word)
	s.CurrentWord = word
	if s.CurrentWord == s.EndWord {
		s.State = StateWon
	}
	return nil
}

// GiveUp abandons the run. Valid only in Playing. The shortest path from
// the current position is stored as a suggestion for display; when the
// target is unreachable from here the suggestion is simply absent.
func (s *Session) GiveUp(g *wordgraph.Graph) error {
	if s.State != StatePlaying {
		return ErrNotPlaying
	}
	if suggested, found, err := pathfind.Find(g, s.CurrentWord, s.EndWord); err != nil {
		return err
	} else if found {
		s.SuggestedPath = suggested
	}
	s.State = StateGaveUp
	return nil
}

// PlayerMoves returns the number of moves taken so far.
func (s *Session) PlayerMoves() int {
	if len(s.PlayerPath) == 0 {
		return 0
	}
	return len(s.PlayerPath) - 1
}

// globalOptimal reports whether word immediately follows the current
// word on the path computed at session start.
func (s *Session) globalOptimal(word string) bool {
	for i := 0; i+1 < len(s.OptimalPath); i++ {
		if s.OptimalPath[i] == s.CurrentWord {
			return s.OptimalPath[i+1] == word
		}
	}
	return false
}

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
