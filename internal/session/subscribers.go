package session

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/stats"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// storeTimeout bounds each best-effort store call made from a subscriber.
const storeTimeout = 3 * time.Second

// Persistence saves the game after every change so it can be resumed.
// When a game is lost the final score is recorded and the save is cleared.
// A game is recorded at most once, even when it is lost again after an undo.
// All writes are best-effort: failures are logged and never reach the engine.
type Persistence struct {
	store    storage.Store
	player   string
	logger   *log.Logger
	recorded bool // score entry written for the current game
}

var _ Subscriber = (*Persistence)(nil)

// NewPersistence creates a persistence subscriber for player.
func NewPersistence(store storage.Store, player string, logger *log.Logger) *Persistence {
	if logger == nil {
		logger = log.Default()
	}
	return &Persistence{store: store, player: player, logger: logger}
}

func (p *Persistence) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

// OnMove implements Subscriber.
func (p *Persistence) OnMove(res *t2048.MoveResult, e *t2048.Engine) {
	ctx, cancel := p.ctx()
	defer cancel()

	if res.ScoreGain > 0 && e.Score() >= e.BestScore() {
		if err := p.store.SaveBestScore(ctx, p.player, e.BestScore()); err != nil {
			p.logger.Warn("cannot save best score", "err", err)
		}
	}

	if res.State != t2048.StateLost {
		p.save(ctx, e)
		return
	}
	if p.recorded {
		if err := p.store.ClearGameState(ctx, p.player); err != nil {
			p.logger.Warn("cannot clear saved game", "err", err)
		}
		return
	}

	entry := storage.ScoreEntry{
		Player:  p.player,
		Score:   e.Score(),
		MaxTile: e.MaxTile(),
		Moves:   e.MoveID(),
		Won:     reachedWin(e),
	}
	if err := p.store.RecordScore(ctx, entry); err != nil {
		p.logger.Warn("cannot record score", "err", err)
	}
	p.recorded = true
	if err := p.store.ClearGameState(ctx, p.player); err != nil {
		p.logger.Warn("cannot clear saved game", "err", err)
	}
	p.logger.Info("game over", "score", entry.Score, "maxTile", entry.MaxTile, "moves", entry.Moves)
}

// OnChange implements Subscriber.
func (p *Persistence) OnChange(e *t2048.Engine) {
	ctx, cancel := p.ctx()
	defer cancel()
	p.save(ctx, e)
}

// OnReset implements Subscriber.
func (p *Persistence) OnReset(e *t2048.Engine) {
	p.recorded = false
	ctx, cancel := p.ctx()
	defer cancel()
	p.save(ctx, e)
}

func (p *Persistence) save(ctx context.Context, e *t2048.Engine) {
	if err := p.store.SaveGameState(ctx, p.player, e.Serialize()); err != nil {
		p.logger.Warn("cannot save game", "err", err)
	}
}

// StatsRecorder feeds accepted moves into a stats.Tracker and persists the totals
// whenever a game ends and on Flush.
type StatsRecorder struct {
	tracker *stats.Tracker
	store   storage.Store
	player  string
	logger  *log.Logger
}

var (
	_ Subscriber = (*StatsRecorder)(nil)
	_ Flusher    = (*StatsRecorder)(nil)
)

// NewStatsRecorder loads the player's stats from store and starts the play clock.
// A failed load starts from zero.
func NewStatsRecorder(ctx context.Context, store storage.Store, player string, logger *log.Logger, opts ...stats.Option) *StatsRecorder {
	if logger == nil {
		logger = log.Default()
	}
	initial, err := store.Stats(ctx, player)
	if err != nil {
		logger.Warn("cannot load stats", "err", err)
	}
	tr := stats.NewTracker(initial, opts...)
	tr.Start()
	return &StatsRecorder{tracker: tr, store: store, player: player, logger: logger}
}

// Stats returns the current totals.
func (r *StatsRecorder) Stats() stats.Stats {
	return r.tracker.Stats()
}

// OnMove implements Subscriber.
func (r *StatsRecorder) OnMove(res *t2048.MoveResult, e *t2048.Engine) {
	r.tracker.RecordMove(e.MoveID(), e.MaxTile(), reachedWin(e))
	if res.State == t2048.StateLost {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := r.save(ctx); err != nil {
			r.logger.Warn("cannot save stats", "err", err)
		}
	}
}

// OnChange implements Subscriber.
func (r *StatsRecorder) OnChange(*t2048.Engine) {}

// OnReset implements Subscriber.
func (r *StatsRecorder) OnReset(e *t2048.Engine) {
	r.tracker.BeginGame(e.WonBefore() || reachedWin(e))
}

// Flush stops the play clock and writes the totals.
func (r *StatsRecorder) Flush(ctx context.Context) error {
	r.tracker.Stop()
	return r.save(ctx)
}

func (r *StatsRecorder) save(ctx context.Context) error {
	return r.store.SaveStats(ctx, r.player, r.tracker.Stats())
}

// reachedWin reports whether the board holds the win tile. A winning move that also
// locks the board ends Lost but still counts as a won game.
func reachedWin(e *t2048.Engine) bool {
	return e.MaxTile() >= e.WinTile()
}
