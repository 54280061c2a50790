// internal/session/types.go
//
// Core type definitions for the navigation session state machine.
// Defines:
//   - State: coarse lifecycle state of a run.
//   - MoveRecord: immutable per-move optimality bookkeeping.
//   - Session: state for a single in-progress or finished run.

package session

import (
	"github.com/wordtrek/go-server/internal/pathfind"
)

// State represents the lifecycle state of a session.
// Transitions: Idle → Loading → Playing → Won | GaveUp | Errored.
// Idle and the terminal states are valid entry points for a new Start.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateGaveUp  State = "gave_up"
	StateErrored State = "error"
)

// Terminal reports whether st admits no further moves.
func (st State) Terminal() bool {
	return st == StateWon || st == StateGaveUp || st == StateErrored
}

// MoveRecord captures one accepted move. Immutable once appended.
//
// GlobalOptimal means ToWord is the successor of FromWord on the path
// computed once when the session started. LocalOptimal means ToWord is
// the first step of the shortest path recomputed from FromWord at the
// moment of the move. The two disagree once the player has deviated.
type MoveRecord struct {
	FromWord      string `json:"fromWord"`
	ToWord        string `json:"toWord"`
	GlobalOptimal bool   `json:"isGlobalOptimal"`
	LocalOptimal  bool   `json:"isLocalOptimal"`
}

// Session holds the state of a single navigation run. It is not
// thread-safe: exactly one logical player owns it at a time.
type Session struct {
	ID          string        // unique session identifier (random hex)
	StartWord   string        // puzzle start
	EndWord     string        // puzzle target
	CurrentWord string        // player's position
	PlayerPath  []string      // words visited, starting with StartWord
	OptimalPath pathfind.Path // computed once at Start
	OptimalCost float64       // cost of OptimalPath
	Moves       []MoveRecord  // per-move bookkeeping, in order
	// SemanticDistance accumulates 1 − similarity over the player's moves.
	SemanticDistance float64
	State            State
	// SuggestedPath is the shortest path from the position where the
	// player gave up; nil when the target was unreachable from there.
	SuggestedPath pathfind.Path
	// Cause holds the generation failure when State == StateErrored.
	Cause error
}
