package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"katana/internal/config"
	"katana/internal/games"
	"katana/internal/logger"
	"katana/internal/preset"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the supported games",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(headerStyle.Render("Supported games"))
		for _, id := range games.Available() {
			fmt.Printf("  %s\n", id)
		}
		return nil
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets <game>",
	Short: "List the graphics presets available for a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.InitConfig()
		if err != nil {
			return err
		}
		log, err := logger.NewLoggerManager(cfg.LogFilePath)
		if err != nil {
			return err
		}

		pm := preset.NewManager(cfg.PresetsDir, log)
		available, err := pm.AvailablePresets(args[0])
		if err != nil {
			return err
		}
		if len(available) == 0 {
			fmt.Println(dimStyle.Render("No presets found for " + args[0]))
			return nil
		}

		ids := make([]string, 0, len(available))
		for id := range available {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Println(headerStyle.Render("Presets for " + args[0]))
		for _, id := range ids {
			fmt.Printf("  %-16s %s\n", id, available[id])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(presetsCmd)
}
