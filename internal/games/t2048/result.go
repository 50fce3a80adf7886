package t2048

// TileMove traces one source tile from its pre-move cell to its post-move cell.
// Two tiles that merge share the same To cell and both carry Merged and MergedValue.
type TileMove struct {
	From        Pos  `json:"from"`
	To          Pos  `json:"to"`
	Value       int  `json:"value"`
	Merged      bool `json:"merged"`
	MergedValue int  `json:"mergedValue,omitempty"`
}

// NewTile is the tile spawned after a move.
type NewTile struct {
	R     int `json:"r"`
	C     int `json:"c"`
	Value int `json:"value"`
}

// MoveResult describes one accepted move. Presentation, persistence and statistics
// read it after Move returns; it never references engine internals.
type MoveResult struct {
	Moved       bool       `json:"moved"`
	Movements   []TileMove `json:"movements"`
	MergedTiles []int      `json:"mergedTiles"`
	NewTile     *NewTile   `json:"newTile,omitempty"`
	ScoreGain   int        `json:"scoreGain"`
	State       GameState  `json:"gameState"`
}
