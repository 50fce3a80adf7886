// Package session binds one 2048 engine to its subscribers. Every accepted move,
// undo, continue and reset flows one way: engine -> session -> subscribers.
// Subscribers never feed back into the engine.
package session

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Subscriber observes engine changes. Implementations must not mutate the engine.
type Subscriber interface {
	// OnMove is called after every accepted move.
	OnMove(res *t2048.MoveResult, e *t2048.Engine)
	// OnChange is called after an undo or a continue.
	OnChange(e *t2048.Engine)
	// OnReset is called after a new game starts or a saved game is resumed.
	OnReset(e *t2048.Engine)
}

// Flusher is implemented by subscribers that hold state to write on Close.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Options configures a Session.
type Options struct {
	// Player namespaces saved data; defaults to storage.LocalPlayer.
	Player string
	Store  storage.Store
	Logger *log.Logger
	// Engine options applied when the engine is created.
	Engine []t2048.Option
}

// Session is one player's game. It is not safe for concurrent use.
type Session struct {
	id     string
	player string
	store  storage.Store
	logger *log.Logger
	engine *t2048.Engine
	subs   []Subscriber
}

// New creates a session with a fresh game. Subscribers are not notified of the
// initial game; call Resume or NewGame once they are attached.
func New(opts Options, subs ...Subscriber) *Session {
	player := opts.Player
	if player == "" {
		player = storage.LocalPlayer
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Session{
		id:     uuid.NewString(),
		player: player,
		store:  opts.Store,
		logger: logger.With("player", player),
		engine: t2048.New(opts.Engine...),
		subs:   subs,
	}
}

// ID returns the unique session identifier.
func (s *Session) ID() string { return s.id }

// Player returns the player key.
func (s *Session) Player() string { return s.player }

// Engine exposes the engine for read-only queries.
func (s *Session) Engine() *t2048.Engine { return s.engine }

// Subscribe attaches another subscriber.
func (s *Session) Subscribe(sub Subscriber) {
	s.subs = append(s.subs, sub)
}

// Move applies a move and notifies subscribers. Returns nil if the move was rejected
// or changed nothing.
func (s *Session) Move(dir t2048.Direction) *t2048.MoveResult {
	res := s.engine.Move(dir)
	if res == nil {
		return nil
	}
	s.logger.Debug("move", "dir", dir, "gain", res.ScoreGain, "state", res.State, "moveId", s.engine.MoveID())
	for _, sub := range s.subs {
		sub.OnMove(res, s.engine)
	}
	return res
}

// Undo reverts the last move. Returns false if there was nothing to undo.
func (s *Session) Undo() bool {
	if !s.engine.Undo() {
		return false
	}
	s.logger.Debug("undo", "score", s.engine.Score(), "history", s.engine.HistoryLen())
	s.notifyChange()
	return true
}

// Continue keeps playing after a win. Returns false outside the won state.
func (s *Session) Continue() bool {
	if s.engine.State() != t2048.StateWon {
		return false
	}
	s.engine.Continue()
	s.logger.Debug("continue after win")
	s.notifyChange()
	return true
}

// NewGame discards the current game and starts a fresh one of the same size.
func (s *Session) NewGame() {
	s.engine.Init(s.engine.Size())
	s.logger.Debug("new game", "size", s.engine.Size())
	s.notifyReset()
}

// Resume restores the player's saved game and best score from the store.
// It falls back to a new game when nothing is saved or the save is unusable,
// and reports whether a saved game was restored. Store failures are logged.
func (s *Session) Resume(ctx context.Context) bool {
	if s.store == nil {
		s.NewGame()
		return false
	}

	best, err := s.store.BestScore(ctx, s.player)
	if err != nil {
		s.logger.Warn("cannot load best score", "err", err)
	}

	resumed := false
	saved, err := s.store.LoadGameState(ctx, s.player)
	switch {
	case err != nil:
		s.logger.Warn("cannot load saved game", "err", err)
	case saved == nil:
	case !s.engine.Deserialize(saved):
		s.logger.Warn("discarding unusable saved game")
	default:
		resumed = true
	}

	if !resumed {
		s.engine.Init(s.engine.Size())
	}
	s.engine.SetBestScore(best)

	s.logger.Info("session started", "resumed", resumed, "score", s.engine.Score(), "best", s.engine.BestScore())
	s.notifyReset()
	return resumed
}

// Close flushes subscribers that buffer state.
func (s *Session) Close(ctx context.Context) error {
	var errs []error
	for _, sub := range s.subs {
		if f, ok := sub.(Flusher); ok {
			if err := f.Flush(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Session) notifyChange() {
	for _, sub := range s.subs {
		sub.OnChange(s.engine)
	}
}

func (s *Session) notifyReset() {
	for _, sub := range s.subs {
		sub.OnReset(s.engine)
	}
}
