package t2048

import "fmt"

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection converts "up", "down", "left" or "right" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	}
	return 0, fmt.Errorf("t2048: unknown direction %q", s)
}

// quarterTurns is the number of clockwise rotations that turns dir into a left slide.
func (d Direction) quarterTurns() int {
	switch d {
	case DirUp:
		return 3
	case DirRight:
		return 2
	case DirDown:
		return 1
	default:
		return 0
	}
}

// BoardSize is the default board dimension.
const BoardSize = 4

// Grid is a square matrix of tile values indexed as grid[row][col]. Zero is an empty cell.
type Grid [][]int

// NewGrid returns an all-empty n×n grid.
func NewGrid(n int) Grid {
	g := make(Grid, n)
	for r := range g {
		g[r] = make([]int, n)
	}
	return g
}

// Size returns the grid dimension.
func (g Grid) Size() int {
	return len(g)
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	c := make(Grid, len(g))
	for r := range g {
		c[r] = append([]int(nil), g[r]...)
	}
	return c
}

// Equal reports whether both grids have the same shape and values.
func (g Grid) Equal(o Grid) bool {
	if len(g) != len(o) {
		return false
	}
	for r := range g {
		if len(g[r]) != len(o[r]) {
			return false
		}
		for c := range g[r] {
			if g[r][c] != o[r][c] {
				return false
			}
		}
	}
	return true
}

// Sum returns the total of all tile values.
func (g Grid) Sum() int {
	total := 0
	for _, row := range g {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// Validate checks that the grid is square, at least 2×2, and every cell is empty or a
// power of two ≥ 2.
func (g Grid) Validate() error {
	n := len(g)
	if n < 2 {
		return fmt.Errorf("t2048: grid size %d, want at least 2", n)
	}
	for r, row := range g {
		if len(row) != n {
			return fmt.Errorf("t2048: row %d has %d cells, want %d", r, len(row), n)
		}
		for c, v := range row {
			if v == 0 {
				continue
			}
			if v < 2 || v&(v-1) != 0 {
				return fmt.Errorf("t2048: cell (%d,%d) holds %d, not a power of two", r, c, v)
			}
		}
	}
	return nil
}

// Pos is a cell coordinate.
type Pos struct {
	R int `json:"r"`
	C int `json:"c"`
}

// RotateCoord maps (r, c) through times clockwise quarter turns of an n×n grid.
func RotateCoord(r, c, n, times int) (int, int) {
	times = ((times % 4) + 4) % 4
	for range times {
		r, c = c, n-1-r
	}
	return r, c
}

// Rotate returns a copy of grid turned clockwise times quarter turns.
func Rotate(grid Grid, times int) Grid {
	n := len(grid)
	out := NewGrid(n)
	for r := range n {
		for c := range n {
			nr, nc := RotateCoord(r, c, n, times)
			out[nr][nc] = grid[r][c]
		}
	}
	return out
}

// rowMove traces one source cell of a row through a left slide.
type rowMove struct {
	from, to    int
	value       int
	merged      bool
	mergedValue int
}

// rowSlide is the outcome of sliding one row to the left.
type rowSlide struct {
	row     []int
	moves   []rowMove
	merges  []int
	gain    int
	changed bool
}

// slideRow compacts a row to the left and merges equal neighbours once each.
func slideRow(row []int) rowSlide {
	n := len(row)
	type tile struct{ value, col int }
	tiles := make([]tile, 0, n)
	for col, v := range row {
		if v != 0 {
			tiles = append(tiles, tile{v, col})
		}
	}

	res := rowSlide{row: make([]int, n)}
	dest := 0
	for i := 0; i < len(tiles); {
		t := tiles[i]
		if i+1 < len(tiles) && tiles[i+1].value == t.value {
			// Merge with right neighbour; the result is never merged again this pass
			merged := t.value * 2
			res.row[dest] = merged
			res.gain += merged
			res.merges = append(res.merges, merged)
			res.moves = append(res.moves,
				rowMove{from: t.col, to: dest, value: t.value, merged: true, mergedValue: merged},
				rowMove{from: tiles[i+1].col, to: dest, value: t.value, merged: true, mergedValue: merged},
			)
			i += 2
		} else {
			res.row[dest] = t.value
			res.moves = append(res.moves, rowMove{from: t.col, to: dest, value: t.value})
			i++
		}
		dest++
	}

	for c := range n {
		if res.row[c] != row[c] {
			res.changed = true
			break
		}
	}
	return res
}

// SlideRow slides a single row to the left.
// Returns the new row and the score gained from merges.
func SlideRow(row []int) ([]int, int) {
	res := slideRow(row)
	return res.row, res.gain
}

// slideOutcome is a whole-grid slide before the new tile is spawned.
type slideOutcome struct {
	grid      Grid
	movements []TileMove
	merges    []int
	gain      int
	changed   bool
}

// slide performs a move in the given direction without spawning.
func slide(grid Grid, dir Direction) slideOutcome {
	n := len(grid)
	turns := dir.quarterTurns()
	inverse := (4 - turns) % 4

	rotated := Rotate(grid, turns)
	out := slideOutcome{grid: NewGrid(n)}
	for r := range n {
		res := slideRow(rotated[r])
		out.grid[r] = res.row
		out.gain += res.gain
		out.merges = append(out.merges, res.merges...)
		if res.changed {
			out.changed = true
		}
		for _, m := range res.moves {
			fr, fc := RotateCoord(r, m.from, n, inverse)
			tr, tc := RotateCoord(r, m.to, n, inverse)
			out.movements = append(out.movements, TileMove{
				From:        Pos{R: fr, C: fc},
				To:          Pos{R: tr, C: tc},
				Value:       m.value,
				Merged:      m.merged,
				MergedValue: m.mergedValue,
			})
		}
	}
	out.grid = Rotate(out.grid, inverse)
	return out
}

// Slide performs a move in the given direction.
// Returns the new grid, score gained, and whether the grid changed.
func Slide(grid Grid, dir Direction) (Grid, int, bool) {
	out := slide(grid, dir)
	return out.grid, out.gain, out.changed
}

// EmptyCells returns coordinates of all empty cells in row-major order.
func EmptyCells(grid Grid) []Pos {
	var cells []Pos
	for r, row := range grid {
		for c, v := range row {
			if v == 0 {
				cells = append(cells, Pos{R: r, C: c})
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func HasEmptyCell(grid Grid) bool {
	for _, row := range grid {
		for _, v := range row {
			if v == 0 {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if any orthogonally adjacent tiles are equal.
func HasPossibleMerge(grid Grid) bool {
	n := len(grid)
	for r := range n {
		for c := range n {
			val := grid[r][c]
			if val == 0 {
				continue
			}
			if c < n-1 && grid[r][c+1] == val {
				return true
			}
			if r < n-1 && grid[r+1][c] == val {
				return true
			}
		}
	}
	return false
}

// HasMoves returns true if any move is possible.
func HasMoves(grid Grid) bool {
	return HasEmptyCell(grid) || HasPossibleMerge(grid)
}

// MaxTile returns the maximum tile value on the grid.
func MaxTile(grid Grid) int {
	maxVal := 0
	for _, row := range grid {
		for _, v := range row {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}
