package session

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordtrek/go-server/internal/pairgen"
	"github.com/wordtrek/go-server/internal/pathfind"
	"github.com/wordtrek/go-server/internal/wordgraph"
)

// testGraph is a small arena with one clear optimal route start→end
// (start–mid1–mid2–end) plus a detour through side.
func testGraph(t *testing.T) *wordgraph.Graph {
	t.Helper()
	nodes := map[string]wordgraph.Node{
		"start": {Edges: map[string]float64{"mid1": 0.9, "side": 0.5}, X: 0, Y: 0},
		"mid1":  {Edges: map[string]float64{"start": 0.9, "mid2": 0.85, "side": 0.6}, X: 10, Y: 0},
		"mid2":  {Edges: map[string]float64{"mid1": 0.85, "end": 0.9, "side": 0.55}, X: 20, Y: 0},
		"side":  {Edges: map[string]float64{"start": 0.5, "mid1": 0.6, "mid2": 0.55}, X: 10, Y: 10},
		"end":   {Edges: map[string]float64{"mid2": 0.9}, X: 30, Y: 0},
	}
	g, err := wordgraph.New(nodes)
	require.NoError(t, err)
	return g
}

// playing returns a session mid-run on the start→end puzzle.
func playing(t *testing.T, g *wordgraph.Graph) *Session {
	t.Helper()
	path, ok, err := pathfind.Find(g, "start", "end")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, pathfind.Path{"start", "mid1", "mid2", "end"}, path)

	s := New()
	s.StartPair(&pairgen.Pair{
		StartWord:   "start",
		EndWord:     "end",
		OptimalPath: path,
		OptimalCost: path.Cost(g),
	})
	return s
}

func TestNew_StartsIdle(t *testing.T) {
	s := New()
	assert.Equal(t, StateIdle, s.State)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.State.Terminal())
}

func TestStart_GeneratesAndTransitions(t *testing.T) {
	g := testGraph(t)
	s := New()
	c := pairgen.Constraints{MinMoves: 2, MaxMoves: 4, MinDegree: 1}
	err := s.Start(g, c, 200, rand.New(rand.NewSource(11)))
	require.NoError(t, err)

	assert.Equal(t, StatePlaying, s.State)
	assert.Equal(t, s.StartWord, s.CurrentWord)
	assert.Equal(t, []string{s.StartWord}, s.PlayerPath)
	assert.NotEmpty(t, s.OptimalPath)
	assert.Empty(t, s.Moves)
	assert.Zero(t, s.SemanticDistance)
}

func TestStart_ExhaustionEntersErrorState(t *testing.T) {
	g := testGraph(t)
	s := New()
	c := pairgen.Constraints{MinMoves: 40, MaxMoves: 50, MinDegree: 1}
	err := s.Start(g, c, 100, rand.New(rand.NewSource(11)))
	require.ErrorIs(t, err, pairgen.ErrExhausted)

	assert.Equal(t, StateErrored, s.State)
	assert.ErrorIs(t, s.Cause, pairgen.ErrExhausted)
	assert.True(t, s.State.Terminal())

	// Terminal states are valid entry points for a fresh Start.
	c = pairgen.Constraints{MinMoves: 2, MaxMoves: 4, MinDegree: 1}
	require.NoError(t, s.Start(g, c, 200, rand.New(rand.NewSource(11))))
	assert.Equal(t, StatePlaying, s.State)
	assert.NoError(t, s.Cause)
}

func TestSelect_InvalidMoveLeavesStateUntouched(t *testing.T) {
	g := testGraph(t)
	s := playing(t, g)

	// "end" is not a neighbor of "start".
	err := s.Select(g, "end")
	assert.ErrorIs(t, err, ErrInvalidMove)

	// Nothing may have changed: move application is atomic.
	assert.Equal(t, StatePlaying, s.State)
	assert.Equal(t, "start", s.CurrentWord)
	assert.Equal(t, []string{"start"}, s.PlayerPath)
	assert.Empty(t, s.Moves)
	assert.Zero(t, s.SemanticDistance)
}

func TestSelect_RecordsOptimalityAndDistance(t *testing.T) {
	g := testGraph(t)
	s := playing(t, g)

	require.NoError(t, s.Select(g, "mid1"))
	require.Len(t, s.Moves, 1)
	assert.True(t, s.Moves[0].GlobalOptimal)
	assert.True(t, s.Moves[0].LocalOptimal)
	assert.InDelta(t, 0.1, s.SemanticDistance, 1e-9)
	assert.Equal(t, "mid1", s.CurrentWord)
	assert.Equal(t, StatePlaying, s.State)

	// Deviate to side: neither globally nor locally optimal.
	require.NoError(t, s.Select(g, "side"))
	require.Len(t, s.Moves, 2)
	assert.False(t, s.Moves[1].GlobalOptimal)
	assert.False(t, s.Moves[1].LocalOptimal)
	assert.InDelta(t, 0.1+0.4, s.SemanticDistance, 1e-9)

	// From side, mid2 is the local best next hop, but side has no
	// successor on the original optimal path, so global stays false.
	require.NoError(t, s.Select(g, "mid2"))
	require.Len(t, s.Moves, 3)
	assert.False(t, s.Moves[2].GlobalOptimal)
	assert.True(t, s.Moves[2].LocalOptimal)

	require.NoError(t, s.Select(g, "end"))
	assert.Equal(t, StateWon, s.State)
	assert.Equal(t, []string{"start", "mid1", "side", "mid2", "end"}, s.PlayerPath)
	assert.Equal(t, 4, s.PlayerMoves())
}

func TestSelect_WonExactlyWhenTargetReached(t *testing.T) {
	g := testGraph(t)
	s := playing(t, g)

	for _, w := range []string{"mid1", "mid2"} {
		require.NoError(t, s.Select(g, w))
		assert.Equal(t, StatePlaying, s.State)
	}
	require.NoError(t, s.Select(g, "end"))
	assert.Equal(t, StateWon, s.State)

	// No further moves once terminal.
	assert.ErrorIs(t, s.Select(g, "mid2"), ErrNotPlaying)
}

func TestGiveUp_StoresSuggestedPath(t *testing.T) {
	g := testGraph(t)
	s := playing(t, g)
	require.NoError(t, s.Select(g, "side"))

	require.NoError(t, s.GiveUp(g))
	assert.Equal(t, StateGaveUp, s.State)
	assert.Equal(t, pathfind.Path{"side", "mid2", "end"}, s.SuggestedPath)

	assert.ErrorIs(t, s.GiveUp(g), ErrNotPlaying)
	assert.ErrorIs(t, s.Select(g, "mid1"), ErrNotPlaying)
}

func TestGiveUp_UnreachableTargetMeansNoSuggestion(t *testing.T) {
	nodes := map[string]wordgraph.Node{
		"a": {Edges: map[string]float64{"b": 0.9}},
		"b": {Edges: map[string]float64{"a": 0.9}},
		"x": {Edges: map[string]float64{"y": 0.8}},
		"y": {Edges: map[string]float64{"x": 0.8}},
	}
	g, err := wordgraph.New(nodes)
	require.NoError(t, err)

	s := New()
	s.StartPair(&pairgen.Pair{
		StartWord:   "a",
		EndWord:     "x", // disconnected target; pathological pair
		OptimalPath: pathfind.Path{"a", "x"},
	})
	require.NoError(t, s.GiveUp(g))
	assert.Equal(t, StateGaveUp, s.State)
	assert.Nil(t, s.SuggestedPath)
}
