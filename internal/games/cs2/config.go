package cs2

import "time"

// Steam application id for Counter-Strike 2
const (
	GameID      = "cs2"
	SteamAppID  = "730"
	GameName    = "Counter-Strike 2"
	WindowTitle = "Counter-Strike 2"
)

// Template assets required for menu navigation
var requiredAssets = []string{
	"play_tab.png",
	"workshop_tab.png",
	"cs2_fps_benchmark.png",
	"go_button.png",
	"benchmark_first_frame.png",
	"benchmark_end_screen.png",
	"power_button.png",
	"quit_button.png",
}

// Workflow timings
const (
	launchWait       = 40 * time.Second
	templateTimeout  = 40 * time.Second
	navigateTimeout  = 20 * time.Second
	goButtonTimeout  = 15 * time.Second
	firstFrameWait   = 20 * time.Second
	endScreenTimeout = 124 * time.Second
	resultsSettle    = 12 * time.Second
	resultsBuffer    = 12 * time.Second

	defaultRuns     = 4
	defaultCooldown = 120 * time.Second
)
