// Package storage persists games in progress, best scores, player statistics and
// finished-game score records. Two backends are provided: SQLite (default, via the
// pure-Go modernc.org/sqlite driver) and Redis.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/stats"
)

// ErrUnknownBackend is returned by Open for an unsupported storage.backend value.
var ErrUnknownBackend = errors.New("storage: unknown backend")

// LocalPlayer is the player key used for local (non-SSH) play.
const LocalPlayer = "local"

// Store is the persistence contract used by sessions and the CLI.
// Implementations are safe for concurrent use.
type Store interface {
	// LoadGameState returns the saved game for player, or nil if none exists.
	LoadGameState(ctx context.Context, player string) (*t2048.SerializedGame, error)
	SaveGameState(ctx context.Context, player string, game *t2048.SerializedGame) error
	ClearGameState(ctx context.Context, player string) error

	// BestScore returns 0 when no best score has been saved.
	BestScore(ctx context.Context, player string) (int, error)
	// SaveBestScore stores score if it is higher than the saved one.
	SaveBestScore(ctx context.Context, player string, score int) error

	Stats(ctx context.Context, player string) (stats.Stats, error)
	SaveStats(ctx context.Context, player string, s stats.Stats) error

	RecordScore(ctx context.Context, entry ScoreEntry) error
	// TopScores returns the best finished games across all players, highest first.
	TopScores(ctx context.Context, limit int) ([]ScoreEntry, error)

	Close() error
}

// ScoreEntry is a finished game.
type ScoreEntry struct {
	ID        string    `json:"id"`
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	MaxTile   int       `json:"maxTile"`
	Moves     int       `json:"moves"`
	Won       bool      `json:"won"`
	CreatedAt time.Time `json:"createdAt"`
}

const defaultTopLimit = 10

// Open creates the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		return OpenSQLite(ctx, cfg.Path)
	case config.BackendRedis:
		return OpenRedis(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
