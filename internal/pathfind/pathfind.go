// internal/pathfind/pathfind.go
//
// Shortest semantic paths over the word graph.
//
// Edge cost is 1 − similarity. Similarity lies in [0,1], so all costs are
// non-negative and Dijkstra relaxation is valid. The implementation keeps
// a min-heap frontier with the "lazy decrease-key" pattern: shorter
// distances push duplicate entries, stale entries are skipped when popped.
//
// Determinism: among nodes with equal tentative distance the heap prefers
// the lexicographically smallest word, and neighbors are relaxed in sorted
// order with strict-improvement updates only. Repeated calls with the same
// graph and inputs therefore return identical paths and costs.
//
// Complexity: O((V + E) log V) time, O(V + E) space.

package pathfind

import (
	"container/heap"
	"errors"

	"github.com/wordtrek/go-server/internal/wordgraph"
)

// ErrUnknownWord indicates that start or end is not a node in the graph.
var ErrUnknownWord = errors.New("pathfind: word not in graph")

// Path is an ordered, non-empty word sequence where every consecutive
// pair is connected by a graph edge. A single-word path has zero moves.
type Path []string

// Moves returns the number of edges traversed (len − 1).
func (p Path) Moves() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Cost sums 1 − similarity along the chain.
func (p Path) Cost(g *wordgraph.Graph) float64 {
	var total float64
	for i := 1; i < len(p); i++ {
		sim, _ := g.Similarity(p[i-1], p[i])
		total += 1 - sim
	}
	return total
}

// Find computes the minimum-cost path from start to end.
//
// Returns:
//   - (path, true, nil) when a path exists; path[0] == start, last == end.
//   - (nil, false, nil) when end is unreachable — a normal outcome, not
//     an error; callers must handle it explicitly.
//   - (nil, false, ErrUnknownWord) when either word is absent.
//
// Find(g, w, w) returns the trivial zero-move path [w].
func Find(g *wordgraph.Graph, start, end string) (Path, bool, error) {
	if !g.Has(start) || !g.Has(end) {
		return nil, false, ErrUnknownWord
	}
	if start == end {
		return Path{start}, true, nil
	}

	dist := make(map[string]float64, g.Len())
	prev := make(map[string]string, g.Len())
	visited := make(map[string]bool, g.Len())

	pq := frontier{{word: start, dist: 0}}
	heap.Init(&pq)
	dist[start] = 0

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(entry)
		u := item.word
		if visited[u] {
			continue // stale heap entry
		}
		visited[u] = true
		if u == end {
			break // distance to end is final; stop early
		}
		for _, v := range g.NeighborWords(u) {
			if visited[v] {
				continue
			}
			sim, _ := g.Similarity(u, v)
			nd := dist[u] + (1 - sim)
			if cur, seen := dist[v]; seen && nd >= cur {
				continue
			}
			dist[v] = nd
			prev[v] = u
			heap.Push(&pq, entry{word: v, dist: nd})
		}
	}

	if !visited[end] {
		return nil, false, nil
	}

	// Reconstruct via predecessor links, back to front.
	var rev []string
	for w := end; ; w = prev[w] {
		rev = append(rev, w)
		if w == start {
			break
		}
	}
	path := make(Path, len(rev))
	for i, w := range rev {
		path[len(rev)-1-i] = w
	}
	return path, true, nil
}

// entry is a (word, tentative distance) pair in the frontier heap.
type entry struct {
	word string
	dist float64
}

// frontier is a min-heap of entries ordered by (dist, word); the word
// component pins the tie-break for equal distances.
type frontier []entry

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].word < f[j].word
}
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x interface{}) { *f = append(*f, x.(entry)) }
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
