package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/logging"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagMono  bool
	flagFresh bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048",
	Long: `Start playing. The last unfinished game is resumed unless --new is given.

Controls:
  Arrows/WASD/hjkl - Slide tiles
  U/Backspace      - Undo (up to 20 moves)
  C                - Keep going after reaching 2048
  N/R              - New game
  T                - High scores
  ?                - Toggle help
  Q/Esc/Ctrl+C     - Quit (the game is saved)

Examples:
  t2048 play
  t2048 play --new --seed 7
  t2048 play --mono
  t2048 play --config ./my-2048.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagMono, "mono", false, "Use the grayscale theme")
	playCmd.Flags().BoolVar(&flagFresh, "new", false, "Start a new game instead of resuming")
}

func runPlay(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fail("%v", err)
	}

	// The TUI owns the terminal, so logs go to a file
	var logOut io.Writer = io.Discard
	if f, fileErr := logging.OpenFile(cfg.Log); fileErr == nil {
		defer f.Close()
		logOut = f
	} else {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", fileErr)
	}
	logger := logging.New(logOut, cfg.Log, "t2048")

	// Get terminal size early so the first frame fits
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, err := openStore(cfg)
	if err != nil {
		fail("could not open storage: %v", err)
	}

	sess := newLocalSession(cmd.Context(), store, cfg.Game, logger)
	if flagFresh {
		sess.NewGame()
	}

	opts := tui.DefaultOptions()
	if flagMono {
		opts.Theme = tui.MonochromeTheme()
	}
	opts.Width = width
	opts.Height = height

	runErr := tui.Run(sess, store, opts)

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := sess.Close(ctx); err != nil {
		logger.Error("cannot save session", "err", err)
	}
	store.Close()

	if runErr != nil {
		fail("running game: %v", runErr)
	}

	e := sess.Engine()
	fmt.Printf("Score %d  Best %d  Max tile %d\n", e.Score(), e.BestScore(), e.MaxTile())
}

// newLocalSession builds the terminal player's session with persistence and
// statistics attached, then resumes the saved game.
func newLocalSession(ctx context.Context, store storage.Store, game config.GameConfig, logger *log.Logger) *session.Session {
	sess := session.New(session.Options{
		Player: storage.LocalPlayer,
		Store:  store,
		Logger: logger,
		Engine: session.EngineOptions(game),
	},
		session.NewPersistence(store, storage.LocalPlayer, logger),
		session.NewStatsRecorder(ctx, store, storage.LocalPlayer, logger),
	)

	sess.Resume(ctx)
	return sess
}
