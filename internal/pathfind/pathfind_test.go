package pathfind

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordtrek/go-server/internal/wordgraph"
)

// buildGraph wires symmetric edges from a sparse edge list, zero coordinates.
func buildGraph(t *testing.T, edges map[[2]string]float64) *wordgraph.Graph {
	t.Helper()
	nodes := map[string]wordgraph.Node{}
	ensure := func(w string) {
		if _, ok := nodes[w]; !ok {
			nodes[w] = wordgraph.Node{Edges: map[string]float64{}}
		}
	}
	for pair, sim := range edges {
		ensure(pair[0])
		ensure(pair[1])
		nodes[pair[0]].Edges[pair[1]] = sim
		nodes[pair[1]].Edges[pair[0]] = sim
	}
	g, err := wordgraph.New(nodes)
	require.NoError(t, err)
	return g
}

func TestFind_UnknownWord(t *testing.T) {
	g := buildGraph(t, map[[2]string]float64{{"a", "b"}: 0.5})
	_, _, err := Find(g, "a", "ghost")
	assert.ErrorIs(t, err, ErrUnknownWord)
	_, _, err = Find(g, "ghost", "a")
	assert.ErrorIs(t, err, ErrUnknownWord)
}

func TestFind_TrivialSelfPath(t *testing.T) {
	g := buildGraph(t, map[[2]string]float64{{"a", "b"}: 0.5})
	path, ok, err := Find(g, "a", "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Path{"a"}, path)
	assert.Equal(t, 0, path.Moves())
	assert.Zero(t, path.Cost(g))
}

func TestFind_Unreachable(t *testing.T) {
	g := buildGraph(t, map[[2]string]float64{
		{"a", "b"}: 0.5,
		{"c", "d"}: 0.5, // separate component
	})
	path, ok, err := Find(g, "a", "c")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, path)
}

// The chain of strong similarities must beat the weak direct edge:
// A–B 0.9, B–C 0.8, C–D 0.7 vs A–D 0.1 → [A B C D], cost 0.1+0.2+0.3.
func TestFind_PrefersLowCostChain(t *testing.T) {
	g := buildGraph(t, map[[2]string]float64{
		{"A", "B"}: 0.9,
		{"B", "C"}: 0.8,
		{"C", "D"}: 0.7,
		{"A", "D"}: 0.1,
	})
	path, ok, err := Find(g, "A", "D")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Path{"A", "B", "C", "D"}, path)
	assert.InDelta(t, 0.6, path.Cost(g), 1e-9)
}

func TestFind_ValidChainAndExactCost(t *testing.T) {
	g := buildGraph(t, map[[2]string]float64{
		{"a", "b"}: 0.9, {"b", "c"}: 0.6, {"a", "c"}: 0.2,
		{"c", "d"}: 0.8, {"b", "d"}: 0.3,
	})
	path, ok, err := Find(g, "a", "d")
	require.NoError(t, err)
	require.True(t, ok)

	// Every consecutive pair must be a real edge.
	var want float64
	for i := 1; i < len(path); i++ {
		sim, connected := g.Similarity(path[i-1], path[i])
		require.True(t, connected, "%s→%s is not an edge", path[i-1], path[i])
		want += 1 - sim
	}
	assert.InDelta(t, want, path.Cost(g), 1e-12)
}

func TestFind_Deterministic(t *testing.T) {
	g := buildGraph(t, map[[2]string]float64{
		{"a", "b"}: 0.5, {"a", "c"}: 0.5,
		{"b", "d"}: 0.5, {"c", "d"}: 0.5,
	})
	first, ok, err := Find(g, "a", "d")
	require.NoError(t, err)
	require.True(t, ok)
	for i := 0; i < 20; i++ {
		path, ok, err := Find(g, "a", "d")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, first, path)
	}
	// Two equal-cost routes exist; the lexicographic rule picks b over c.
	assert.Equal(t, Path{"a", "b", "d"}, first)
}

// Exhaustive check on a small graph: no simple path may beat Find's cost.
func TestFind_OptimalAgainstBruteForce(t *testing.T) {
	g := buildGraph(t, map[[2]string]float64{
		{"a", "b"}: 0.9, {"a", "c"}: 0.4, {"a", "d"}: 0.15,
		{"b", "c"}: 0.7, {"b", "e"}: 0.35,
		{"c", "d"}: 0.85, {"c", "f"}: 0.5,
		{"d", "e"}: 0.6, {"e", "f"}: 0.95,
		{"f", "g"}: 0.8, {"g", "h"}: 0.75, {"d", "h"}: 0.25,
	})

	words := g.Words()
	for _, start := range words {
		for _, end := range words {
			path, ok, err := Find(g, start, end)
			require.NoError(t, err)
			require.True(t, ok, "%s→%s should be reachable", start, end)

			best := bruteForceCost(g, start, end)
			assert.InDelta(t, best, path.Cost(g), 1e-9, "%s→%s", start, end)
		}
	}
}

// bruteForceCost enumerates every simple path and returns the minimum cost.
func bruteForceCost(g *wordgraph.Graph, start, end string) float64 {
	best := math.Inf(1)
	visited := map[string]bool{start: true}
	var walk func(at string, cost float64)
	walk = func(at string, cost float64) {
		if at == end {
			if cost < best {
				best = cost
			}
			return
		}
		for n, sim := range g.Neighbors(at) {
			if visited[n] {
				continue
			}
			visited[n] = true
			walk(n, cost+1-sim)
			visited[n] = false
		}
	}
	walk(start, 0)
	return best
}
