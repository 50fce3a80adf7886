// t2048 is the 2048 sliding-tile puzzle for the terminal, playable locally or over SSH.
//
// Usage:
//
//	t2048 play               - Play (resumes the saved game)
//	t2048 serve              - Start SSH server for remote play
//	t2048 scores             - Show the high score table
//	t2048 stats              - Show lifetime statistics
//	t2048 reset              - Discard the saved game
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.t2048, ./configs)
//	--seed <value>      - RNG seed for reproducible games
//	--db <path>         - SQLite database path
//	--log-level <level> - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// storeTimeout bounds one-shot store calls made by the CLI.
const storeTimeout = 5 * time.Second

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 in your terminal",
	Long: `t2048 is the 2048 sliding-tile puzzle for the terminal.

Slide tiles with the arrow keys, WASD or hjkl. Equal tiles merge; reach
2048 to win, then keep going for a higher score. Games are saved after
every move and resumed on the next start.

Available commands:
  play     - Play locally
  serve    - Start SSH server for remote play
  scores   - View high scores
  stats    - View lifetime statistics
  reset    - Discard the saved game

Examples:
  t2048 play
  t2048 play --seed 42
  t2048 serve --ssh :2222
  t2048 scores`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to SQLite database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
}

// loadConfig loads the configuration and applies the global flags that were set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Game.Seed = flagSeed
	}
	if flags.Changed("db") {
		cfg.Storage.Backend = config.BackendSQLite
		cfg.Storage.Path = flagDBPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, cfg.Validate()
}

// openStore opens the configured backend with a bounded connect time.
func openStore(cfg config.Config) (storage.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	return storage.Open(ctx, cfg.Storage)
}

// fail prints err and exits with status 1.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
