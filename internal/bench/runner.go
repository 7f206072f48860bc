package bench

import (
	"context"
	"fmt"
	"time"

	"katana/internal/logger"
)

// Runner executes benchmark series: a dry run that measures the benchmark
// duration, then timed runs separated by cooldowns
type Runner struct {
	log        *logger.LoggerManager
	resultsDir string
	sink       ResultSink // optional

	knownDuration time.Duration
}

// NewRunner creates a runner saving result files into resultsDir. sink may
// be nil.
func NewRunner(resultsDir string, sink ResultSink, log *logger.LoggerManager) *Runner {
	return &Runner{
		log:        log,
		resultsDir: resultsDir,
		sink:       sink,
	}
}

// RunSeries performs the dry run plus runCount timed runs with cooldown
// sleeps in between. Results of successful runs are returned; a failed timed
// run is logged and skipped, a failed dry run aborts the series.
func (r *Runner) RunSeries(ctx context.Context, b GameBenchmark, runCount int, cooldown time.Duration) ([]*Result, error) {
	r.log.Info("📦 ======= Starting %s Benchmark Series ========", b.GameName())
	r.log.Info("📌 Config -> Total Runs: %d, Cooldown: %s", runCount, cooldown)

	r.knownDuration = 0

	// Run 0 measures the benchmark duration
	r.log.Info("⏱️ ===== Starting Run 0 (Duration Measurement) =====")
	dryResult, err := r.executeRun(ctx, b, 0)
	if err != nil {
		return nil, err
	}
	if dryResult == nil || dryResult.Duration <= 0 {
		return nil, fmt.Errorf("failed to determine benchmark duration in dry run")
	}
	r.knownDuration = time.Duration(dryResult.Duration * float64(time.Second))
	r.log.Info("⏱️ Measured benchmark duration: %.2f seconds", dryResult.Duration)

	results := []*Result{dryResult}

	if err := r.cooldown(ctx, cooldown); err != nil {
		return results, err
	}

	for i := 1; i <= runCount; i++ {
		result, err := r.executeRun(ctx, b, i)
		if err != nil {
			return results, err
		}
		if result != nil {
			results = append(results, result)
		}

		if i < runCount {
			if err := r.cooldown(ctx, cooldown); err != nil {
				return results, err
			}
		}
	}

	r.log.Info("✅ All %d runs completed for %s.", runCount, b.GameName())
	return results, nil
}

// executeRun performs one full launch-to-teardown cycle. A step failure is
// logged and yields a nil result; context cancellation propagates as an
// error.
func (r *Runner) executeRun(ctx context.Context, b GameBenchmark, runID int) (*Result, error) {
	r.log.Info("📊 ===== Starting Run %d =====", runID)

	runErr := func() error {
		if err := b.Launch(ctx); err != nil {
			return fmt.Errorf("launch: %v", err)
		}
		if err := b.FocusWindow(); err != nil {
			return fmt.Errorf("focus window: %v", err)
		}
		if err := b.WaitUntilReady(ctx); err != nil {
			return fmt.Errorf("wait until ready: %v", err)
		}
		if err := b.NavigateToBenchmark(ctx); err != nil {
			return fmt.Errorf("navigate to benchmark: %v", err)
		}
		if err := b.StartBenchmark(ctx); err != nil {
			return fmt.Errorf("start benchmark: %v", err)
		}
		return nil
	}()

	var result *Result
	if runErr == nil {
		var collectErr error
		result, collectErr = b.CollectResults(ctx, runID, r.knownDuration)
		if collectErr != nil {
			if ctx.Err() == nil {
				r.log.Error("❌ Error collecting results for run %d: %v", runID, collectErr)
			}
			result = nil
		}
	} else if ctx.Err() == nil {
		r.log.Error("❌ Error during benchmark run %d: %v", runID, runErr)
	}

	// Teardown runs even when a step failed or the series was aborted, so
	// the game does not stay open. An aborted run gets a fresh grace
	// context, the cancelled one would fail every teardown step.
	teardownCtx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		teardownCtx, cancel = context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
	}
	if err := b.Teardown(teardownCtx); err != nil {
		r.log.Warn("⚠️ Teardown error after run %d: %v", runID, err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if runErr != nil {
		return nil, nil
	}

	if result != nil {
		path, err := result.Save(r.resultsDir)
		if err != nil {
			r.log.LogError(err, "Failed to save result file")
		} else {
			r.log.Info("✅ Results saved to: %s", path)
		}
		if r.sink != nil {
			if err := r.sink.SaveResult(result); err != nil {
				r.log.LogError(err, "Failed to store result in database")
			}
		}
	}

	return result, nil
}

func (r *Runner) cooldown(ctx context.Context, cooldown time.Duration) error {
	if cooldown <= 0 {
		return nil
	}
	r.log.Info("🧊 Cooling down for %s...", cooldown)
	timer := time.NewTimer(cooldown)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
