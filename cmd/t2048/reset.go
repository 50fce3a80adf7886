package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/stats"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagResetPlayer string
	flagResetStats  bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the saved game",
	Long: `Delete the player's unfinished game so the next start begins fresh.
With --stats the player's statistics are zeroed as well. Best scores and
the high score table are kept.

Examples:
  t2048 reset
  t2048 reset --stats
  t2048 reset --player alice`,
	Args: cobra.NoArgs,
	Run:  runReset,
}

func init() {
	resetCmd.Flags().StringVar(&flagResetPlayer, "player", storage.LocalPlayer, "Player name")
	resetCmd.Flags().BoolVar(&flagResetStats, "stats", false, "Also reset statistics")
}

func runReset(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fail("%v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		fail("opening storage: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	err = store.ClearGameState(ctx, flagResetPlayer)
	if err == nil && flagResetStats {
		err = store.SaveStats(ctx, flagResetPlayer, stats.Stats{})
	}
	cancel()
	store.Close()

	if err != nil {
		fail("reset: %v", err)
	}

	fmt.Printf("Saved game for %s discarded.\n", flagResetPlayer)
	if flagResetStats {
		fmt.Println("Statistics reset.")
	}
}
