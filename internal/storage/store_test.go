package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/stats"
)

// runStoreContract exercises the behaviour every Store must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("GameStateRoundTrip", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		got, err := store.LoadGameState(ctx, "alice")
		if err != nil {
			t.Fatalf("LoadGameState() failed: %v", err)
		}
		if got != nil {
			t.Fatalf("LoadGameState() on empty store = %+v, want nil", got)
		}

		engine := t2048.New(t2048.WithSeed(7))
		engine.Move(t2048.DirLeft)
		engine.Move(t2048.DirUp)
		want := engine.Serialize()

		if err := store.SaveGameState(ctx, "alice", want); err != nil {
			t.Fatalf("SaveGameState() failed: %v", err)
		}
		got, err = store.LoadGameState(ctx, "alice")
		if err != nil {
			t.Fatalf("LoadGameState() failed: %v", err)
		}
		if got == nil || !got.Grid.Equal(want.Grid) || got.Score != want.Score || got.MoveID != want.MoveID {
			t.Fatalf("LoadGameState() = %+v, want %+v", got, want)
		}
		if len(got.History) != len(want.History) {
			t.Errorf("history length = %d, want %d", len(got.History), len(want.History))
		}

		restored := t2048.New(t2048.WithSeed(1))
		if !restored.Deserialize(got) {
			t.Error("Deserialize() of loaded state failed")
		}

		// Other players are isolated
		other, err := store.LoadGameState(ctx, "bob")
		if err != nil || other != nil {
			t.Errorf("LoadGameState(bob) = %v, %v; want nil, nil", other, err)
		}

		// Overwrite
		engine.Move(t2048.DirRight)
		if err := store.SaveGameState(ctx, "alice", engine.Serialize()); err != nil {
			t.Fatalf("SaveGameState() failed: %v", err)
		}
		got, _ = store.LoadGameState(ctx, "alice")
		if got.MoveID != engine.MoveID() {
			t.Errorf("MoveID after overwrite = %d, want %d", got.MoveID, engine.MoveID())
		}

		if err := store.ClearGameState(ctx, "alice"); err != nil {
			t.Fatalf("ClearGameState() failed: %v", err)
		}
		got, err = store.LoadGameState(ctx, "alice")
		if err != nil || got != nil {
			t.Errorf("LoadGameState() after clear = %v, %v; want nil, nil", got, err)
		}
	})

	t.Run("BestScoreKeepsMax", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		best, err := store.BestScore(ctx, "alice")
		if err != nil || best != 0 {
			t.Fatalf("BestScore() on empty store = %d, %v; want 0, nil", best, err)
		}

		for _, score := range []int{120, 80, 300, 299} {
			if err := store.SaveBestScore(ctx, "alice", score); err != nil {
				t.Fatalf("SaveBestScore(%d) failed: %v", score, err)
			}
		}
		best, err = store.BestScore(ctx, "alice")
		if err != nil {
			t.Fatalf("BestScore() failed: %v", err)
		}
		if best != 300 {
			t.Errorf("BestScore() = %d, want 300", best)
		}

		if best, _ := store.BestScore(ctx, "bob"); best != 0 {
			t.Errorf("BestScore(bob) = %d, want 0", best)
		}
	})

	t.Run("StatsRoundTrip", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		got, err := store.Stats(ctx, "alice")
		if err != nil {
			t.Fatalf("Stats() failed: %v", err)
		}
		if got != (stats.Stats{}) {
			t.Errorf("Stats() on empty store = %+v, want zero", got)
		}

		want := stats.Stats{GamesPlayed: 12, GamesWon: 2, HighestTile: 4096, PlayTime: 95 * time.Minute}
		if err := store.SaveStats(ctx, "alice", want); err != nil {
			t.Fatalf("SaveStats() failed: %v", err)
		}
		got, err = store.Stats(ctx, "alice")
		if err != nil {
			t.Fatalf("Stats() failed: %v", err)
		}
		if got != want {
			t.Errorf("Stats() = %+v, want %+v", got, want)
		}

		want.GamesPlayed++
		if err := store.SaveStats(ctx, "alice", want); err != nil {
			t.Fatalf("SaveStats() failed: %v", err)
		}
		if got, _ := store.Stats(ctx, "alice"); got.GamesPlayed != 13 {
			t.Errorf("GamesPlayed after update = %d, want 13", got.GamesPlayed)
		}
	})

	t.Run("TopScores", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		entries, err := store.TopScores(ctx, 10)
		if err != nil {
			t.Fatalf("TopScores() failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("TopScores() on empty store returned %d entries", len(entries))
		}

		for _, e := range []ScoreEntry{
			{Player: "alice", Score: 100, MaxTile: 16, Moves: 40},
			{Player: "bob", Score: 50, MaxTile: 8, Moves: 20},
			{Player: "alice", Score: 2400, MaxTile: 256, Moves: 200, Won: true},
			{Player: "carol", Score: 700, MaxTile: 64, Moves: 90},
		} {
			if err := store.RecordScore(ctx, e); err != nil {
				t.Fatalf("RecordScore() failed: %v", err)
			}
		}

		entries, err = store.TopScores(ctx, 3)
		if err != nil {
			t.Fatalf("TopScores() failed: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("Expected 3 scores, got %d", len(entries))
		}

		wantScores := []int{2400, 700, 100}
		for i, want := range wantScores {
			if entries[i].Score != want {
				t.Errorf("entries[%d].Score = %d, want %d", i, entries[i].Score, want)
			}
		}

		top := entries[0]
		if top.ID == "" {
			t.Error("RecordScore() did not assign an ID")
		}
		if top.Player != "alice" || top.MaxTile != 256 || top.Moves != 200 || !top.Won {
			t.Errorf("top entry = %+v", top)
		}
		if time.Since(top.CreatedAt) > time.Hour || top.CreatedAt.IsZero() {
			t.Errorf("CreatedAt = %v, want about now", top.CreatedAt)
		}
	})
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Backend: "mongo"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open() error = %v, want ErrUnknownBackend", err)
	}
}

func TestWithDefaults(t *testing.T) {
	e := withDefaults(ScoreEntry{Score: 10})
	if e.ID == "" {
		t.Error("ID not filled in")
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt not filled in")
	}

	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	e = withDefaults(ScoreEntry{ID: "fixed", CreatedAt: at})
	if e.ID != "fixed" || !e.CreatedAt.Equal(at) {
		t.Errorf("withDefaults() overwrote explicit fields: %+v", e)
	}
}
