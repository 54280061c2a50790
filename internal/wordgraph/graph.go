// internal/wordgraph/graph.go
//
// Immutable in-memory representation of the semantic word graph.
// Responsibilities:
//   - Hold words, their weighted similarity edges, and 2D layout coordinates.
//   - Validate the dataset once at construction (dangling edges, bad
//     similarity values, bad coordinates) so search code never has to.
//   - Provide read-only accessors used by pathfinding, pair generation,
//     the session state machine, and report analytics.
//
// Notes:
//   - Similarity is a value in [0,1]; higher means more related.
//   - Layout coordinates come from a 2D projection of the embeddings and
//     are only used for straight-line-distance heuristics, never as cost.
//   - A Graph is treated as read-only for the lifetime of the process and
//     may be shared across concurrent sessions.

package wordgraph

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Sentinel errors surfaced during construction.
var (
	// ErrEmptyGraph indicates the dataset contained no nodes at all.
	ErrEmptyGraph = errors.New("wordgraph: graph has no nodes")

	// ErrDanglingEdge indicates an edge whose target word is not a node.
	ErrDanglingEdge = errors.New("wordgraph: edge references unknown word")

	// ErrBadSimilarity indicates a similarity outside [0,1] (or NaN).
	ErrBadSimilarity = errors.New("wordgraph: similarity out of range")

	// ErrBadCoordinate indicates a non-finite layout coordinate.
	ErrBadCoordinate = errors.New("wordgraph: non-finite layout coordinate")
)

// Node holds one word's outgoing similarity edges and its layout position.
type Node struct {
	Edges map[string]float64 // neighbor word → similarity in [0,1]
	X, Y  float64            // 2D layout coordinate
}

// Graph is the immutable word graph. Construct via New (or wordgraph.Load);
// do not mutate after construction.
type Graph struct {
	nodes map[string]Node
	words []string // sorted node keys, for deterministic iteration
}

// New validates the node map and wraps it in a Graph.
// Validation failures are fatal load errors, not runtime search errors:
//   - every edge target must exist as a node,
//   - every similarity must be a finite value in [0,1],
//   - every coordinate must be finite.
func New(nodes map[string]Node) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	words := make([]string, 0, len(nodes))
	for word, n := range nodes {
		if math.IsNaN(n.X) || math.IsInf(n.X, 0) || math.IsNaN(n.Y) || math.IsInf(n.Y, 0) {
			return nil, fmt.Errorf("%w: %q", ErrBadCoordinate, word)
		}
		for target, sim := range n.Edges {
			if _, ok := nodes[target]; !ok {
				return nil, fmt.Errorf("%w: %s→%s", ErrDanglingEdge, word, target)
			}
			if math.IsNaN(sim) || sim < 0 || sim > 1 {
				return nil, fmt.Errorf("%w: %s→%s similarity=%v", ErrBadSimilarity, word, target, sim)
			}
		}
		words = append(words, word)
	}
	sort.Strings(words)
	return &Graph{nodes: nodes, words: words}, nil
}

// Has reports whether word is a node in the graph.
func (g *Graph) Has(word string) bool {
	_, ok := g.nodes[word]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Words returns all node identifiers in sorted order.
// The returned slice is shared; callers must not modify it.
func (g *Graph) Words() []string { return g.words }

// Neighbors returns the edge map (neighbor → similarity) for word,
// or nil if the word is unknown. The returned map is shared; read-only.
func (g *Graph) Neighbors(word string) map[string]float64 {
	return g.nodes[word].Edges
}

// NeighborWords returns word's neighbors in sorted order. Useful where
// iteration order has to be deterministic (tie-breaking, tests).
func (g *Graph) NeighborWords(word string) []string {
	edges := g.nodes[word].Edges
	if len(edges) == 0 {
		return nil
	}
	out := make([]string, 0, len(edges))
	for w := range edges {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Degree returns the number of neighbors of word (0 if unknown).
func (g *Graph) Degree(word string) int { return len(g.nodes[word].Edges) }

// Similarity returns the similarity of the edge from → to.
// ok is false when no such edge exists.
func (g *Graph) Similarity(from, to string) (sim float64, ok bool) {
	sim, ok = g.nodes[from].Edges[to]
	return sim, ok
}

// HasEdge reports whether from has a direct edge to to.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.nodes[from].Edges[to]
	return ok
}

// Coord returns the layout coordinate of word. Zero values for unknown words.
func (g *Graph) Coord(word string) (x, y float64) {
	n := g.nodes[word]
	return n.X, n.Y
}

// LayoutDistSq returns the squared Euclidean layout distance between two words.
func (g *Graph) LayoutDistSq(a, b string) float64 {
	na, nb := g.nodes[a], g.nodes[b]
	dx := na.X - nb.X
	dy := na.Y - nb.Y
	return dx*dx + dy*dy
}

// LayoutDist returns the Euclidean layout distance between two words.
func (g *Graph) LayoutDist(a, b string) float64 {
	return math.Sqrt(g.LayoutDistSq(a, b))
}
