package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

var flagPlayer string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime statistics",
	Long: `Display games played, games won, the highest tile reached and total
play time for a player. Local games are stored under the player "local";
SSH games under the SSH user name.

Examples:
  t2048 stats
  t2048 stats --player alice`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&flagPlayer, "player", storage.LocalPlayer, "Player name")
}

func runStats(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fail("%v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		fail("opening storage: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	st, statsErr := store.Stats(ctx, flagPlayer)
	best, bestErr := store.BestScore(ctx, flagPlayer)
	cancel()
	store.Close()

	if statsErr != nil {
		fail("retrieving stats: %v", statsErr)
	}
	if bestErr != nil {
		fail("retrieving best score: %v", bestErr)
	}

	fmt.Printf("Statistics - %s\n", flagPlayer)
	fmt.Println()
	fmt.Printf("  %-14s %d\n", "Games played", st.GamesPlayed)
	fmt.Printf("  %-14s %d (%.0f%%)\n", "Games won", st.GamesWon, st.WinRate()*100)
	fmt.Printf("  %-14s %d\n", "Highest tile", st.HighestTile)
	fmt.Printf("  %-14s %d\n", "Best score", best)
	fmt.Printf("  %-14s %s\n", "Play time", st.PlayTime.Round(time.Second))
}
