// Package t2048 implements the 2048 sliding-tile engine: slide/merge/rotate on an N×N grid,
// bounded undo history, win/lose tracking and a serialization contract for resuming games.
//
// The engine performs no I/O. Randomness comes from an injected Source so that whole move
// sequences can be replayed from a seed.
package t2048

const (
	// DefaultWinTile is the tile value that wins the game.
	DefaultWinTile = 2048

	// DefaultSpawn4Probability is the chance a spawned tile is a 4 instead of a 2.
	DefaultSpawn4Probability = 0.1
)

// Engine owns one game: grid, score, state and history.
// It is not safe for concurrent use; callers serialize Move/Undo/Init calls.
type Engine struct {
	size       int
	winTile    int
	spawn4Prob float64
	src        Source

	grid      Grid
	score     int
	bestScore int
	state     GameState
	wonBefore bool
	moveID    int
	history   *History
}

// Option configures an Engine.
type Option func(*Engine)

// WithSize sets the board dimension used by Init. Sizes below 2 are ignored.
func WithSize(n int) Option {
	return func(e *Engine) {
		if n >= 2 {
			e.size = n
		}
	}
}

// WithSource injects the random source used for tile spawns.
func WithSource(src Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.src = src
		}
	}
}

// WithSeed uses a math/rand source seeded with seed.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.src = NewRandSource(seed)
	}
}

// WithWinTile overrides the winning tile value.
func WithWinTile(v int) Option {
	return func(e *Engine) {
		if v >= 4 && v&(v-1) == 0 {
			e.winTile = v
		}
	}
}

// WithSpawn4Probability overrides the chance of spawning a 4.
func WithSpawn4Probability(p float64) Option {
	return func(e *Engine) {
		if p >= 0 && p <= 1 {
			e.spawn4Prob = p
		}
	}
}

// WithBestScore seeds the best score, usually from storage.
func WithBestScore(best int) Option {
	return func(e *Engine) {
		e.bestScore = best
	}
}

// New creates an engine and starts a fresh game.
func New(opts ...Option) *Engine {
	e := &Engine{
		size:       BoardSize,
		winTile:    DefaultWinTile,
		spawn4Prob: DefaultSpawn4Probability,
		history:    NewHistory(HistoryCapacity),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = NewRandSource(0)
	}
	e.Init(e.size)
	return e
}

// Init starts a new game on an n×n board with two random tiles.
// The best score survives; everything else is reset.
func (e *Engine) Init(n int) {
	if n < 2 {
		n = e.size
	}
	e.size = n
	e.grid = NewGrid(n)
	e.score = 0
	e.state = StatePlaying
	e.wonBefore = false
	e.moveID = 0
	e.history.Clear()

	e.spawnTile()
	e.spawnTile()
}

// spawnTile places a 2 or 4 in a random empty cell. Returns nil if the grid is full.
func (e *Engine) spawnTile() *NewTile {
	empty := EmptyCells(e.grid)
	if len(empty) == 0 {
		return nil
	}

	cell := empty[pick(e.src, len(empty))]

	value := 2
	if e.src.NextFloat() < e.spawn4Prob {
		value = 4
	}

	e.grid[cell.R][cell.C] = value
	return &NewTile{R: cell.R, C: cell.C, Value: value}
}

// canMove reports whether Move may be attempted in the current state.
func (e *Engine) canMove() bool {
	switch e.state {
	case StateLost:
		return false
	case StateWon:
		return e.wonBefore
	default:
		return true
	}
}

// Move slides the grid in dir, spawns a tile and updates win/lose state.
// It returns nil when the move is rejected (game lost, or won and not continued) or
// when nothing would slide; in both cases the engine is unchanged.
func (e *Engine) Move(dir Direction) *MoveResult {
	if !e.canMove() {
		return nil
	}

	// Slide before snapshotting: pushing onto a full history evicts the oldest entry,
	// which a later pop could not bring back.
	out := slide(e.grid, dir)
	if !out.changed {
		return nil
	}
	e.history.Push(e.snapshot())

	e.grid = out.grid
	e.score += out.gain
	if e.score > e.bestScore {
		e.bestScore = e.score
	}
	e.moveID++

	newTile := e.spawnTile()

	won := MaxTile(e.grid) >= e.winTile
	for _, v := range out.merges {
		if v >= e.winTile {
			won = true
		}
	}
	if won && !e.wonBefore {
		e.state = StateWon
	}

	// Checked after the win so a winning move that locks the board ends the game.
	if !HasEmptyCell(e.grid) && !HasPossibleMerge(e.grid) {
		e.state = StateLost
	}

	merged := out.merges
	if merged == nil {
		merged = []int{}
	}
	return &MoveResult{
		Moved:       true,
		Movements:   out.movements,
		MergedTiles: merged,
		NewTile:     newTile,
		ScoreGain:   out.gain,
		State:       e.state,
	}
}

// Undo restores the state captured before the most recent move.
// Returns false if there is nothing to undo. MoveID and best score are not rolled back.
func (e *Engine) Undo() bool {
	snap, ok := e.history.Pop()
	if !ok {
		return false
	}
	e.grid = snap.Grid
	e.size = snap.Grid.Size()
	e.score = snap.Score
	e.state = snap.State
	e.wonBefore = snap.WonBefore
	return true
}

// Continue lets the player keep going after a win. It is a no-op outside StateWon.
func (e *Engine) Continue() {
	if e.state != StateWon {
		return
	}
	e.wonBefore = true
	e.state = StatePlaying
}

func (e *Engine) snapshot() HistorySnapshot {
	return HistorySnapshot{
		Grid:      e.grid.Clone(),
		Score:     e.score,
		State:     e.state,
		WonBefore: e.wonBefore,
	}
}

// SetBestScore raises the best score to best if it is higher.
func (e *Engine) SetBestScore(best int) {
	if best > e.bestScore {
		e.bestScore = best
	}
}

// Grid returns a copy of the current grid.
func (e *Engine) Grid() Grid { return e.grid.Clone() }

// Size returns the board dimension.
func (e *Engine) Size() int { return e.size }

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// BestScore returns the best score seen by this engine.
func (e *Engine) BestScore() int { return e.bestScore }

// State returns the current game state.
func (e *Engine) State() GameState { return e.state }

// WonBefore reports whether the player already continued past a win.
func (e *Engine) WonBefore() bool { return e.wonBefore }

// MoveID returns the number of accepted moves since Init.
func (e *Engine) MoveID() int { return e.moveID }

// WinTile returns the tile value that wins the game.
func (e *Engine) WinTile() int { return e.winTile }

// MaxTile returns the highest tile on the grid.
func (e *Engine) MaxTile() int { return MaxTile(e.grid) }

// HistoryLen returns the number of undo snapshots.
func (e *Engine) HistoryLen() int { return e.history.Len() }

// History returns the undo snapshots, oldest first.
func (e *Engine) History() []HistorySnapshot { return e.history.Snapshots() }

// CanUndo reports whether Undo would succeed.
func (e *Engine) CanUndo() bool { return e.history.Len() > 0 }
