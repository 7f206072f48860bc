// Package games is the registry of benchmark implementations. Each game
// package registers a constructor from its init function; the CLI creates
// instances by id.
package games

import (
	"fmt"
	"sort"

	"katana/internal/bench"
	"katana/internal/config"
	"katana/internal/logger"
)

// Constructor builds a game benchmark from the app config
type Constructor func(cfg config.Config, log *logger.LoggerManager) (bench.GameBenchmark, error)

var registry = make(map[string]Constructor)

// Register adds a game constructor under its id. Called from game package
// init functions; duplicate ids panic because that is a programming error.
func Register(gameID string, ctor Constructor) {
	if _, exists := registry[gameID]; exists {
		panic(fmt.Sprintf("game %q registered twice", gameID))
	}
	registry[gameID] = ctor
}

// Available returns the sorted list of registered game ids
func Available() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Create builds the benchmark implementation for a game id
func Create(gameID string, cfg config.Config, log *logger.LoggerManager) (bench.GameBenchmark, error) {
	ctor, ok := registry[gameID]
	if !ok {
		return nil, fmt.Errorf("game %q not supported (available: %v)", gameID, Available())
	}
	return ctor(cfg, log)
}
