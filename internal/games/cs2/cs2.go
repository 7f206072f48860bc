package cs2

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"katana/internal/bench"
	"katana/internal/config"
	"katana/internal/detect"
	"katana/internal/games"
	"katana/internal/input"
	"katana/internal/interact"
	"katana/internal/logger"
)

func init() {
	games.Register(GameID, New)
}

// finder is the slice of the detector the workflow uses
type finder interface {
	CheckAssets(required []string) error
	WaitForTemplate(ctx context.Context, name string, timeout time.Duration, opts detect.Options) (*detect.Match, error)
}

// actor is the slice of the interactor the workflow uses
type actor interface {
	FocusWindow(title string) error
	ClickTemplate(ctx context.Context, name string, opts interact.ClickOptions) (bool, error)
	ClickTemplateRetry(ctx context.Context, name string, maxRetries int, opts interact.ClickOptions) (bool, error)
	PressKey(key string, presses int, interval time.Duration) error
	Hotkey(key string, modifiers ...string) error
	CaptureScreenshot(filename string) (string, error)
}

// Benchmark drives the CS2 FPS Benchmark workshop map
type Benchmark struct {
	log      *logger.LoggerManager
	detector finder
	actor    actor

	// launch and sleep are injection points for tests
	launch func(ctx context.Context) error
	sleep  func(ctx context.Context, d time.Duration) error

	benchStart time.Time
}

// New builds the CS2 benchmark with live detector and input backends
func New(cfg config.Config, log *logger.LoggerManager) (bench.GameBenchmark, error) {
	assetsDir := filepath.Join("assets", GameID)
	detector := detect.NewDetector(assetsDir, cfg.Detection, log)

	ctrl, err := input.NewController(cfg.Input, log)
	if err != nil {
		return nil, err
	}
	it := interact.NewInteractor(detector, ctrl, cfg.ScreenshotsDir, log)

	b := &Benchmark{
		log:      log,
		detector: detector,
		actor:    it,
		launch: func(ctx context.Context) error {
			return bench.LaunchSteamGame(ctx, SteamAppID, launchWait, log)
		},
		sleep: sleepCtx,
	}

	if err := detector.CheckAssets(requiredAssets); err != nil {
		return nil, err
	}
	log.Info("🎮 Initialized %s benchmark", GameName)
	return b, nil
}

func (b *Benchmark) GameID() string   { return GameID }
func (b *Benchmark) GameName() string { return GameName }

func (b *Benchmark) Defaults() bench.Defaults {
	return bench.Defaults{Runs: defaultRuns, Cooldown: defaultCooldown}
}

func (b *Benchmark) Launch(ctx context.Context) error {
	return b.launch(ctx)
}

func (b *Benchmark) FocusWindow() error {
	return b.actor.FocusWindow(WindowTitle)
}

// WaitUntilReady closes any startup dialogs and waits for the main menu
func (b *Benchmark) WaitUntilReady(ctx context.Context) error {
	b.log.Info("⏳ Waiting for CS2 main screen to appear...")

	if err := b.actor.PressKey("esc", 3, time.Second); err != nil {
		return err
	}

	match, err := b.detector.WaitForTemplate(ctx, "play_tab.png", templateTimeout, detect.Options{})
	if err != nil {
		return err
	}
	if match == nil {
		return fmt.Errorf("main screen not detected within %s", templateTimeout)
	}
	b.log.Info("✅ Main screen detected")
	return nil
}

// NavigateToBenchmark walks Play -> Workshop Maps -> CS2 FPS Benchmark
func (b *Benchmark) NavigateToBenchmark(ctx context.Context) error {
	b.log.Info("🧭 Navigating to CS2 benchmark map...")

	b.log.Info("🧭 [Step 1] Clicking PLAY tab")
	clicked, err := b.actor.ClickTemplateRetry(ctx, "play_tab.png", 3, interact.ClickOptions{})
	if err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("failed to click PLAY tab")
	}

	b.log.Info("🧱 [Step 2] Looking for Workshop Maps tab")
	if err := b.waitAndClick(ctx, "workshop_tab.png", navigateTimeout); err != nil {
		return err
	}

	b.log.Info("🗺️ [Step 3] Selecting CS2 FPS Benchmark map")
	return b.waitAndClick(ctx, "cs2_fps_benchmark.png", navigateTimeout)
}

// StartBenchmark clicks GO and waits for the benchmark to visually begin
func (b *Benchmark) StartBenchmark(ctx context.Context) error {
	b.log.Info("🎯 Starting benchmark execution...")

	if err := b.waitAndClick(ctx, "go_button.png", goButtonTimeout); err != nil {
		return err
	}

	b.log.Info("🧠 Waiting for benchmark to visually begin...")
	match, err := b.detector.WaitForTemplate(ctx, "benchmark_first_frame.png", firstFrameWait, detect.Options{})
	if err != nil {
		return err
	}
	if match == nil {
		return fmt.Errorf("failed to detect benchmark start frame")
	}

	b.benchStart = time.Now()
	b.log.Info("✅ Visual benchmark start confirmed")
	return nil
}

// CollectResults waits for the end screen (dry run) or sleeps the known
// duration (timed runs), then screenshots the results screen
func (b *Benchmark) CollectResults(ctx context.Context, runID int, knownDuration time.Duration) (*bench.Result, error) {
	b.log.Info("📥 [Run %d] Capturing benchmark results...", runID)
	result := bench.NewResult(GameID, runID)
	result.RawData["map"] = "cs2_fps_benchmark"

	if knownDuration == 0 {
		match, err := b.detector.WaitForTemplate(ctx, "benchmark_end_screen.png", endScreenTimeout, detect.Options{})
		if err != nil {
			return nil, err
		}
		if match == nil {
			return nil, fmt.Errorf("end screen not detected, cannot measure duration")
		}
		result.Duration = time.Since(b.benchStart).Seconds()
		b.log.Info("⏱️ [Run %d] Benchmark duration: %.2f seconds", runID, result.Duration)

		// Let the results overlay render fully before the screenshot
		if err := b.sleep(ctx, resultsSettle); err != nil {
			return nil, err
		}
	} else {
		b.log.Info("📥 [Run %d] Timed collection: sleeping for %.2fs + %s buffer...",
			runID, knownDuration.Seconds(), resultsBuffer)
		if err := b.sleep(ctx, knownDuration+resultsBuffer); err != nil {
			return nil, err
		}
		result.Duration = knownDuration.Seconds()
	}

	filename := fmt.Sprintf("cs2_benchmark_result_run%d_%s.png", runID, result.Timestamp)
	path, err := b.actor.CaptureScreenshot(filename)
	if err != nil {
		b.log.LogError(err, "Failed to capture results screenshot")
	} else {
		result.ScreenshotPath = path
	}

	return result, nil
}

// Teardown exits CS2 through the power menu, falling back to Alt+F4
func (b *Benchmark) Teardown(ctx context.Context) error {
	b.log.Info("🧹 Initiating CS2 shutdown sequence...")

	if err := b.sleep(ctx, 10*time.Second); err != nil {
		return err
	}

	// The benchmark map leaves the console open
	b.log.Info("🗙 Toggling console off...")
	if err := b.actor.PressKey("`", 1, 0); err != nil {
		return err
	}
	if err := b.sleep(ctx, 3*time.Second); err != nil {
		return err
	}

	b.log.Info("🔋 Clicking the power icon...")
	powerClicked := false
	match, err := b.detector.WaitForTemplate(ctx, "power_button.png", 10*time.Second, detect.Options{})
	if err != nil {
		return err
	}
	if match != nil {
		if powerClicked, err = b.actor.ClickTemplate(ctx, "power_button.png", interact.ClickOptions{}); err != nil {
			return err
		}
		if err := b.sleep(ctx, 2*time.Second); err != nil {
			return err
		}
	} else {
		b.log.Warn("⚠️ Power button not found")
	}

	b.log.Info("🚪 Clicking Quit to exit CS2...")
	quitClicked := false
	if powerClicked {
		match, err = b.detector.WaitForTemplate(ctx, "quit_button.png", 10*time.Second, detect.Options{})
		if err != nil {
			return err
		}
		if match != nil {
			if quitClicked, err = b.actor.ClickTemplate(ctx, "quit_button.png", interact.ClickOptions{}); err != nil {
				return err
			}
		}
	}

	if !quitClicked {
		b.log.Warn("⚠️ Quit button not found, forcing exit with Alt+F4...")
		if err := b.actor.Hotkey("f4", "alt"); err != nil {
			return err
		}
	} else {
		b.log.Info("✅ CS2 exited")
	}

	// Wait for the game process to fully close
	return b.sleep(ctx, 5*time.Second)
}

func (b *Benchmark) waitAndClick(ctx context.Context, name string, timeout time.Duration) error {
	match, err := b.detector.WaitForTemplate(ctx, name, timeout, detect.Options{})
	if err != nil {
		return err
	}
	if match == nil {
		return fmt.Errorf("%s not found within %s", name, timeout)
	}
	clicked, err := b.actor.ClickTemplate(ctx, name, interact.ClickOptions{})
	if err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("failed to click %s", name)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
