package bench

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"katana/internal/logger"
)

// startCommand is swapped out in tests to avoid spawning real processes
var startCommand = func(url string) error {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("cmd", "/C", "start", "", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// LaunchSteamGame opens the steam run URL for an app id and waits launchWait
// for the game to come up. The wait honours context cancellation.
func LaunchSteamGame(ctx context.Context, appID string, launchWait time.Duration, log *logger.LoggerManager) error {
	url := fmt.Sprintf("steam://rungameid/%s", appID)
	log.Info("🚀 Launching via Steam (ID: %s)...", appID)

	if err := startCommand(url); err != nil {
		return fmt.Errorf("failed to launch steam url %s: %v", url, err)
	}

	timer := time.NewTimer(launchWait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
