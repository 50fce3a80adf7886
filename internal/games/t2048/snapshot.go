package t2048

import "fmt"

// GameState represents the current game state.
type GameState string

const (
	StatePlaying GameState = "playing"
	StateWon     GameState = "won"
	StateLost    GameState = "lost"
)

// Valid reports whether s is one of the known states.
func (s GameState) Valid() bool {
	switch s {
	case StatePlaying, StateWon, StateLost:
		return true
	}
	return false
}

// SerializedGame is the persisted form of a game in progress.
// Older saves may lack every field but grid; missing fields take their zero value.
type SerializedGame struct {
	Grid      Grid              `json:"grid"`
	Score     int               `json:"score"`
	BestScore int               `json:"bestScore"`
	History   []HistorySnapshot `json:"history"`
	State     GameState         `json:"gameState"`
	WonBefore bool              `json:"wonBefore"`
	MoveID    int               `json:"moveId"`
}

// Serialize captures the full engine state. The result shares no memory with the engine.
func (e *Engine) Serialize() *SerializedGame {
	return &SerializedGame{
		Grid:      e.grid.Clone(),
		Score:     e.score,
		BestScore: e.bestScore,
		History:   e.history.Snapshots(),
		State:     e.state,
		WonBefore: e.wonBefore,
		MoveID:    e.moveID,
	}
}

// Deserialize replaces the engine state with data.
// It returns false and leaves the engine untouched if data has no usable grid.
func (e *Engine) Deserialize(data *SerializedGame) bool {
	if data == nil {
		return false
	}
	if err := data.Grid.Validate(); err != nil {
		return false
	}
	state, err := normalizeState(data.State)
	if err != nil {
		return false
	}

	history := NewHistory(e.history.Cap())
	n := data.Grid.Size()
	snaps := data.History
	if len(snaps) > history.Cap() {
		snaps = snaps[len(snaps)-history.Cap():]
	}
	for _, s := range snaps {
		if s.Grid.Size() != n || s.Grid.Validate() != nil {
			continue
		}
		st, err := normalizeState(s.State)
		if err != nil {
			continue
		}
		s.State = st
		history.Push(s)
	}

	e.size = n
	e.grid = data.Grid.Clone()
	e.score = data.Score
	e.bestScore = data.BestScore
	e.history = history
	e.state = state
	e.wonBefore = data.WonBefore
	e.moveID = data.MoveID
	return true
}

func normalizeState(s GameState) (GameState, error) {
	if s == "" {
		return StatePlaying, nil
	}
	if !s.Valid() {
		return "", fmt.Errorf("t2048: unknown game state %q", s)
	}
	return s, nil
}
