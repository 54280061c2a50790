// internal/wordgraph/load.go
//
// Dataset loading for the word graph.
//
// Graph files are produced by the embedding build pipeline and have the shape:
//
//	{
//	  "nodes": {
//	    "ocean": { "edges": { "sea": 0.91, "wave": 0.77 }, "tsne": [12.4, -3.1] }
//	  }
//	}
//
// Loading behavior:
//   1. If GRAPH_FILE is set, the graph is read from that path.
//   2. Otherwise a small embedded default graph is used, so the server
//      runs even when no dataset is configured.
//
// All structural validation happens in New; malformed data is rejected
// here, at the load boundary, never deep inside search logic.

package wordgraph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wordtrek/go-server/assets"
)

// rawNode matches the on-disk node shape.
type rawNode struct {
	Edges map[string]float64 `json:"edges"`
	TSNE  []float64          `json:"tsne"`
}

// rawGraph matches the on-disk file shape.
type rawGraph struct {
	Nodes map[string]rawNode `json:"nodes"`
}

// Parse decodes and validates graph JSON.
func Parse(data []byte) (*Graph, error) {
	var raw rawGraph
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("wordgraph: decode graph: %w", err)
	}
	nodes := make(map[string]Node, len(raw.Nodes))
	for word, rn := range raw.Nodes {
		n := Node{Edges: rn.Edges}
		if n.Edges == nil {
			n.Edges = map[string]float64{}
		}
		if len(rn.TSNE) >= 2 {
			n.X, n.Y = rn.TSNE[0], rn.TSNE[1]
		}
		nodes[word] = n
	}
	return New(nodes)
}

// Load reads and parses a graph file from disk.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wordgraph: read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadDefault loads the graph named by GRAPH_FILE, falling back to the
// embedded default dataset when the variable is unset.
func LoadDefault() (*Graph, error) {
	if path := os.Getenv("GRAPH_FILE"); path != "" {
		return Load(path)
	}
	data, err := assets.DefaultGraph()
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
