// Package stats tracks per-player lifetime statistics: games played, games won,
// the highest tile ever reached and cumulative play time.
package stats

import (
	"sync"
	"time"
)

// Stats is a snapshot of a player's lifetime statistics.
type Stats struct {
	GamesPlayed int           `json:"gamesPlayed"`
	GamesWon    int           `json:"gamesWon"`
	HighestTile int           `json:"highestTile"`
	PlayTime    time.Duration `json:"playTime"`
}

// WinRate returns the fraction of played games that were won.
func (s Stats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.GamesWon) / float64(s.GamesPlayed)
}

// Tracker accumulates Stats while a game is being played.
type Tracker struct {
	mu sync.Mutex

	stats Stats
	now   func() time.Time

	running   bool
	startedAt time.Time
	wonGame   bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker creates a tracker seeded with previously persisted stats.
func NewTracker(initial Stats, opts ...Option) *Tracker {
	t := &Tracker{stats: initial, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins counting play time. Calling Start on a running tracker is a no-op.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.startedAt = t.now()
}

// Stop pauses the play time clock and folds the elapsed time into the totals.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flush()
	t.running = false
}

// flush adds time elapsed since startedAt. Caller holds mu.
func (t *Tracker) flush() {
	if !t.running {
		return
	}
	now := t.now()
	if elapsed := now.Sub(t.startedAt); elapsed > 0 {
		t.stats.PlayTime += elapsed
	}
	t.startedAt = now
}

// BeginGame marks the start of a new or resumed game.
// alreadyWon is true when a resumed game had reached the win tile before.
func (t *Tracker) BeginGame(alreadyWon bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.wonGame = alreadyWon
}

// RecordMove updates the counters after an accepted move.
// moveID is the engine's move counter after the move; 1 means the game just started.
func (t *Tracker) RecordMove(moveID, maxTile int, won bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if moveID == 1 {
		t.stats.GamesPlayed++
	}
	if won && !t.wonGame {
		t.wonGame = true
		t.stats.GamesWon++
	}
	if maxTile > t.stats.HighestTile {
		t.stats.HighestTile = maxTile
	}
}

// Stats returns the current totals, including play time of a running clock.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flush()
	return t.stats
}
