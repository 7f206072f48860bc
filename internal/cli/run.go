package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"katana/internal/bench"
	"katana/internal/config"
	"katana/internal/database"
	"katana/internal/games"
	"katana/internal/games/cs2"
	"katana/internal/interrupt"
	"katana/internal/logger"
	"katana/internal/preset"
)

var (
	gameFlag     string
	presetFlag   string
	runsFlag     int
	cooldownFlag int
	noBackupFlag bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a benchmark series",
	Long: `Runs the benchmark series for a game: a measurement run to determine
the benchmark duration, then the configured number of timed runs with
cooldown pauses in between. Missing options are asked interactively.

Press Q at any time to abort the series.`,
	RunE: runBenchmark,
}

func init() {
	runCmd.Flags().StringVarP(&gameFlag, "game", "g", "", "game id to benchmark")
	runCmd.Flags().StringVarP(&presetFlag, "preset", "p", "", "graphics preset id to apply before the series")
	runCmd.Flags().IntVarP(&runsFlag, "runs", "n", 0, "number of timed runs (0 asks interactively)")
	runCmd.Flags().IntVarP(&cooldownFlag, "cooldown", "c", -1, "cooldown between runs in seconds (-1 asks interactively)")
	runCmd.Flags().BoolVar(&noBackupFlag, "no-backup", false, "skip backing up the game's video config before applying a preset")
	rootCmd.AddCommand(runCmd)
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := config.InitConfig()
	if err != nil {
		return err
	}
	log, err := logger.NewLoggerManager(cfg.LogFilePath)
	if err != nil {
		return err
	}

	p := newPrompter(os.Stdin, os.Stdout)

	gameID := gameFlag
	if gameID == "" && len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		available := games.Available()
		if len(available) == 0 {
			return errors.New("no games registered")
		}
		options := make(map[string]string, len(available))
		for _, id := range available {
			options[id] = id
		}
		if gameID, err = p.askChoice("Select a game", options, ""); err != nil {
			return err
		}
	}

	pm := preset.NewManager(cfg.PresetsDir, log)
	registerAdapters(pm, log)

	if err := selectAndApplyPreset(p, pm, gameID); err != nil {
		return err
	}

	game, err := games.Create(gameID, cfg, log)
	if err != nil {
		return err
	}
	defaults := game.Defaults()

	runs := runsFlag
	if runs == 0 {
		if runs, err = p.askInt("Number of timed runs", defaults.Runs, 1, 20); err != nil {
			return err
		}
	}
	cooldownSec := cooldownFlag
	if cooldownSec < 0 {
		def := int(defaults.Cooldown / time.Second)
		if cooldownSec, err = p.askInt("Cooldown between runs (seconds)", def, 0, 3600); err != nil {
			return err
		}
	}

	var sink bench.ResultSink
	if cfg.Database.SaveToDB == 1 && cfg.Database.DSN != "" {
		db, err := database.Connect(cfg.Database.DSN, log)
		if err != nil {
			log.LogError(err, "Database unavailable, results will only be saved to disk")
		} else {
			sink = db
			defer func() {
				db.WaitForAsyncOperations()
				db.Close()
			}()
		}
	}

	ctx, cancel := interrupt.NewManager(log).WithCancel(context.Background())
	defer cancel()

	runner := bench.NewRunner(cfg.ResultsDir, sink, log)
	results, err := runner.RunSeries(ctx, game, runs, time.Duration(cooldownSec)*time.Second)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println(errorStyle.Render("Benchmark series aborted"))
			return nil
		}
		return err
	}

	fmt.Println(successStyle.Render(
		fmt.Sprintf("Done: %d of %d runs collected results", len(results), runs+1)))
	fmt.Println(dimStyle.Render("Result files are in " + cfg.ResultsDir))
	return nil
}

// registerAdapters wires each game's preset adapter into the manager
func registerAdapters(pm *preset.Manager, log *logger.LoggerManager) {
	pm.RegisterAdapter(cs2.GameID, cs2.NewPresetAdapter(log))
}

// selectAndApplyPreset resolves the preset to use and applies it. Choosing
// none keeps the game's current settings.
func selectAndApplyPreset(p *prompter, pm *preset.Manager, gameID string) error {
	presetID := presetFlag
	if presetID == "" {
		available, err := pm.AvailablePresets(gameID)
		if err != nil {
			return err
		}
		if len(available) == 0 {
			return nil
		}
		if presetID, err = p.askChoice("Select a graphics preset", available, "Keep current settings"); err != nil {
			return err
		}
		if presetID == "" {
			return nil
		}
	}
	return pm.ApplyPreset(gameID, presetID, !noBackupFlag)
}
