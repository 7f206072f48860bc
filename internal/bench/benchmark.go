package bench

import (
	"context"
	"time"
)

// Defaults are the per-game fallback parameters used when the CLI does not
// override them
type Defaults struct {
	Runs     int
	Cooldown time.Duration
}

// GameBenchmark is the per-game workflow. Implementations drive the game
// through its GUI: every step blocks until its precondition is visually
// detected or a timeout elapses.
type GameBenchmark interface {
	// GameID is the identifier used on the command line and in results
	GameID() string
	// GameName is the human-readable name
	GameName() string
	// Defaults returns the game's default run count and cooldown
	Defaults() Defaults

	// Launch starts the game and waits its configured launch time
	Launch(ctx context.Context) error
	// FocusWindow brings the game window to the foreground
	FocusWindow() error
	// WaitUntilReady blocks until the main menu is interactable
	WaitUntilReady(ctx context.Context) error
	// NavigateToBenchmark walks the menus to the benchmark entry
	NavigateToBenchmark(ctx context.Context) error
	// StartBenchmark triggers the benchmark and confirms it visually began
	StartBenchmark(ctx context.Context) error
	// CollectResults waits out the benchmark and captures the results
	// screen. knownDuration is zero on the dry run, where the
	// implementation must measure the duration itself and record it in
	// the result.
	CollectResults(ctx context.Context, runID int, knownDuration time.Duration) (*Result, error)
	// Teardown exits the game
	Teardown(ctx context.Context) error
}

// ResultSink receives every saved result, e.g. a database
type ResultSink interface {
	SaveResult(result *Result) error
}
