package bench

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katana/internal/logger"
)

// fakeGame records the lifecycle calls and fabricates results
type fakeGame struct {
	steps          []string
	durations      []time.Duration // knownDuration seen per CollectResults call
	measured       float64
	failNavigate   bool
	failDryCollect bool
}

func (g *fakeGame) GameID() string     { return "cs2" }
func (g *fakeGame) GameName() string   { return "Counter-Strike 2" }
func (g *fakeGame) Defaults() Defaults { return Defaults{Runs: 4, Cooldown: 120 * time.Second} }

func (g *fakeGame) Launch(ctx context.Context) error {
	g.steps = append(g.steps, "launch")
	return nil
}

func (g *fakeGame) FocusWindow() error {
	g.steps = append(g.steps, "focus")
	return nil
}

func (g *fakeGame) WaitUntilReady(ctx context.Context) error {
	g.steps = append(g.steps, "ready")
	return nil
}

func (g *fakeGame) NavigateToBenchmark(ctx context.Context) error {
	g.steps = append(g.steps, "navigate")
	if g.failNavigate {
		return errors.New("workshop tab not found")
	}
	return nil
}

func (g *fakeGame) StartBenchmark(ctx context.Context) error {
	g.steps = append(g.steps, "start")
	return nil
}

func (g *fakeGame) CollectResults(ctx context.Context, runID int, knownDuration time.Duration) (*Result, error) {
	g.steps = append(g.steps, "collect")
	g.durations = append(g.durations, knownDuration)
	if runID == 0 && g.failDryCollect {
		return nil, errors.New("end screen not detected")
	}
	result := NewResult(g.GameID(), runID)
	if knownDuration == 0 {
		result.Duration = g.measured
	} else {
		result.Duration = knownDuration.Seconds()
	}
	return result, nil
}

func (g *fakeGame) Teardown(ctx context.Context) error {
	g.steps = append(g.steps, "teardown")
	return nil
}

type memorySink struct {
	saved []*Result
}

func (s *memorySink) SaveResult(result *Result) error {
	s.saved = append(s.saved, result)
	return nil
}

func testLogger(t *testing.T) *logger.LoggerManager {
	t.Helper()
	log, err := logger.NewLoggerManager(filepath.Join(t.TempDir(), "test.log"))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestRunSeriesMeasuresThenReplays(t *testing.T) {
	game := &fakeGame{measured: 97.5}
	sink := &memorySink{}
	dir := t.TempDir()
	r := NewRunner(dir, sink, testLogger(t))

	results, err := r.RunSeries(context.Background(), game, 2, time.Millisecond)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Dry run collects with no known duration, later runs get the measured one
	require.Len(t, game.durations, 3)
	assert.Equal(t, time.Duration(0), game.durations[0])
	assert.InDelta(t, 97.5, game.durations[1].Seconds(), 0.01)
	assert.InDelta(t, 97.5, game.durations[2].Seconds(), 0.01)

	// Every saved result also hit the sink
	assert.Len(t, sink.saved, 3)

	// Result files exist on disk
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRunSeriesStepOrder(t *testing.T) {
	game := &fakeGame{measured: 10}
	r := NewRunner(t.TempDir(), nil, testLogger(t))

	_, err := r.RunSeries(context.Background(), game, 1, 0)
	require.NoError(t, err)

	perRun := []string{"launch", "focus", "ready", "navigate", "start", "collect", "teardown"}
	expected := append(append([]string{}, perRun...), perRun...)
	assert.Equal(t, expected, game.steps)
}

func TestRunSeriesAbortsWhenDryRunFails(t *testing.T) {
	game := &fakeGame{failDryCollect: true}
	r := NewRunner(t.TempDir(), nil, testLogger(t))

	_, err := r.RunSeries(context.Background(), game, 3, 0)
	assert.ErrorContains(t, err, "duration")
	// Teardown still ran after the failed collection
	assert.Equal(t, "teardown", game.steps[len(game.steps)-1])
}

func TestRunSeriesStepFailureSkipsRun(t *testing.T) {
	game := &fakeGame{failNavigate: true}
	r := NewRunner(t.TempDir(), nil, testLogger(t))

	_, err := r.RunSeries(context.Background(), game, 1, 0)
	// Dry run produced no duration, so the series aborts
	assert.Error(t, err)
}

func TestRunSeriesCancelled(t *testing.T) {
	game := &fakeGame{measured: 10}
	r := NewRunner(t.TempDir(), nil, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.RunSeries(ctx, game, 1, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	// The aborted run still tore the game down
	assert.Contains(t, game.steps, "teardown")
}

func TestResultSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	result := NewResult("cs2", 2)
	result.Duration = 101.3
	result.AvgFPS = 240.5
	result.ScreenshotPath = "results/screenshots/cs2_run2.png"
	result.RawData["map"] = "cs2_fps_benchmark"

	path, err := result.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, result.Filename()), path)

	loaded, err := LoadResult(path)
	require.NoError(t, err)
	assert.Equal(t, "cs2", loaded.GameID)
	assert.Equal(t, 2, loaded.RunID)
	assert.Equal(t, 101.3, loaded.Duration)
	assert.Equal(t, 240.5, loaded.AvgFPS)
	assert.Equal(t, "cs2_fps_benchmark", loaded.RawData["map"])
}

func TestLaunchSteamGameWaits(t *testing.T) {
	orig := startCommand
	var launched string
	startCommand = func(url string) error {
		launched = url
		return nil
	}
	defer func() { startCommand = orig }()

	start := time.Now()
	err := LaunchSteamGame(context.Background(), "730", 20*time.Millisecond, testLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "steam://rungameid/730", launched)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestLaunchSteamGameCancelled(t *testing.T) {
	orig := startCommand
	startCommand = func(url string) error { return nil }
	defer func() { startCommand = orig }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := LaunchSteamGame(ctx, "730", time.Minute, testLogger(t))
	assert.ErrorIs(t, err, context.Canceled)
}
