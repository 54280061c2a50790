package assets

import (
	"embed"
)

// Small default dataset so the server runs without a configured graph.
// Real deployments point GRAPH_FILE / DEFINITIONS_FILE at the full build
// pipeline output.
//
//go:embed default_graph.json default_definitions.json
var FS embed.FS

func DefaultGraph() ([]byte, error) {
	return FS.ReadFile("default_graph.json")
}

func DefaultDefinitions() ([]byte, error) {
	return FS.ReadFile("default_definitions.json")
}
