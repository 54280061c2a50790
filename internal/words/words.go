// internal/words/words.go
//
// Word definition lookup for the presentation layer.
//
// Responsibilities:
//   - Load the word → definitions mapping from an environment-provided
//     file or fall back to the embedded default dataset.
//   - Supply lookup helpers used when rendering the current word and the
//     end-of-game report.
//
// The mapping is keyed by the same case-sensitive identifiers as the
// graph's node keys; the engine itself never reads definition text.
//
// Initialization behavior (Init):
//   1. If DEFINITIONS_FILE is set, load definitions from that path.
//   2. Otherwise, fall back to the embedded default_definitions.json.
//
// Initialization is run once (sync.Once).

package words

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/wordtrek/go-server/assets"
)

var (
	initOnce    sync.Once
	definitions map[string][]string // word → short definition texts
	initialErr  error
)

// Init loads the definitions mapping exactly once.
// Returns an error if the mapping ends up empty.
func Init() error {
	initOnce.Do(func() {
		var data []byte
		var err error
		if path := os.Getenv("DEFINITIONS_FILE"); path != "" {
			data, err = os.ReadFile(path)
			if err != nil {
				initialErr = fmt.Errorf("words: read %s: %w", path, err)
				return
			}
		} else {
			data, err = assets.DefaultDefinitions()
			if err != nil {
				initialErr = err
				return
			}
		}
		if err := json.Unmarshal(data, &definitions); err != nil {
			initialErr = fmt.Errorf("words: decode definitions: %w", err)
			return
		}
		if len(definitions) == 0 {
			initialErr = errors.New("words: definitions mapping is empty")
		}
	})
	return initialErr
}

// Definitions returns the definition texts for word (nil when unknown).
func Definitions(word string) []string {
	return definitions[word]
}

// Has reports whether word has at least one definition.
func Has(word string) bool {
	return len(definitions[word]) > 0
}

// Stats returns the number of defined words.
func Stats() int {
	return len(definitions)
}
