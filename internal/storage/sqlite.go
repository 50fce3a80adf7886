package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/stats"
)

// sqliteTime is the layout of SQLite's CURRENT_TIMESTAMP.
const sqliteTime = "2006-01-02 15:04:05"

// SQLiteStore is the default Store, backed by a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	dbPath, err := config.ExpandPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer at a time; SSH sessions share this handle.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *SQLiteStore) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS game_states (
			player TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS best_scores (
			player TEXT PRIMARY KEY,
			score INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS player_stats (
			player TEXT PRIMARY KEY,
			games_played INTEGER NOT NULL DEFAULT 0,
			games_won INTEGER NOT NULL DEFAULT 0,
			highest_tile INTEGER NOT NULL DEFAULT 0,
			play_time_ms INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS scores (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			max_tile INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			won INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);
		CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadGameState implements Store.
func (s *SQLiteStore) LoadGameState(ctx context.Context, player string) (*t2048.SerializedGame, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM game_states WHERE player = ?", player,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load game state: %w", err)
	}

	var game t2048.SerializedGame
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, fmt.Errorf("storage: cannot decode game state: %w", err)
	}
	return &game, nil
}

// SaveGameState implements Store.
func (s *SQLiteStore) SaveGameState(ctx context.Context, player string, game *t2048.SerializedGame) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("storage: cannot encode game state: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO game_states (player, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(player) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		player, string(data),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save game state: %w", err)
	}
	return nil
}

// ClearGameState implements Store.
func (s *SQLiteStore) ClearGameState(ctx context.Context, player string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM game_states WHERE player = ?", player); err != nil {
		return fmt.Errorf("storage: cannot clear game state: %w", err)
	}
	return nil
}

// BestScore implements Store.
func (s *SQLiteStore) BestScore(ctx context.Context, player string) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx,
		"SELECT score FROM best_scores WHERE player = ?", player,
	).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	return score, nil
}

// SaveBestScore implements Store.
func (s *SQLiteStore) SaveBestScore(ctx context.Context, player string, score int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO best_scores (player, score) VALUES (?, ?)
		 ON CONFLICT(player) DO UPDATE SET score = MAX(score, excluded.score)`,
		player, score,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save best score: %w", err)
	}
	return nil
}

// Stats implements Store.
func (s *SQLiteStore) Stats(ctx context.Context, player string) (stats.Stats, error) {
	var st stats.Stats
	var playMS int64
	err := s.db.QueryRowContext(ctx,
		`SELECT games_played, games_won, highest_tile, play_time_ms
		 FROM player_stats WHERE player = ?`,
		player,
	).Scan(&st.GamesPlayed, &st.GamesWon, &st.HighestTile, &playMS)
	if errors.Is(err, sql.ErrNoRows) {
		return stats.Stats{}, nil
	}
	if err != nil {
		return stats.Stats{}, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	st.PlayTime = time.Duration(playMS) * time.Millisecond
	return st, nil
}

// SaveStats implements Store.
func (s *SQLiteStore) SaveStats(ctx context.Context, player string, st stats.Stats) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO player_stats (player, games_played, games_won, highest_tile, play_time_ms)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(player) DO UPDATE SET
		   games_played = excluded.games_played,
		   games_won = excluded.games_won,
		   highest_tile = excluded.highest_tile,
		   play_time_ms = excluded.play_time_ms`,
		player, st.GamesPlayed, st.GamesWon, st.HighestTile, st.PlayTime.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save stats: %w", err)
	}
	return nil
}

// RecordScore implements Store. A missing ID or timestamp is filled in.
func (s *SQLiteStore) RecordScore(ctx context.Context, entry ScoreEntry) error {
	entry = withDefaults(entry)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (id, player, score, max_tile, moves, won, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Player, entry.Score, entry.MaxTile, entry.Moves, entry.Won,
		entry.CreatedAt.UTC().Format(sqliteTime),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}
	return nil
}

// TopScores implements Store.
func (s *SQLiteStore) TopScores(ctx context.Context, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player, score, max_tile, moves, won, created_at
		 FROM scores
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Player, &e.Score, &e.MaxTile, &e.Moves, &e.Won, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime handles both time.Time and string datetime values from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(sqliteTime, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func withDefaults(e ScoreEntry) ScoreEntry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return e
}
