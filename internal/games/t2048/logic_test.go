package t2048

import (
	"slices"
	"testing"
)

func TestSlideRowMerge(t *testing.T) {
	tests := []struct {
		name     string
		input    []int
		expected []int
		score    int
	}{
		{
			name:     "simple merge",
			input:    []int{2, 2, 0, 0},
			expected: []int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "merge with trailing tile",
			input:    []int{2, 2, 2, 0},
			expected: []int{4, 2, 0, 0},
			score:    4,
		},
		{
			name:     "double merge",
			input:    []int{2, 2, 2, 2},
			expected: []int{4, 4, 0, 0},
			score:    8,
		},
		{
			name:     "no merge possible",
			input:    []int{2, 4, 8, 16},
			expected: []int{2, 4, 8, 16},
			score:    0,
		},
		{
			name:     "slide with gap",
			input:    []int{0, 0, 2, 2},
			expected: []int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "slide with multiple gaps",
			input:    []int{2, 0, 0, 2},
			expected: []int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "merged tile does not merge again",
			input:    []int{4, 2, 2, 0},
			expected: []int{4, 4, 0, 0},
			score:    4,
		},
		{
			name:     "no change needed",
			input:    []int{4, 2, 0, 0},
			expected: []int{4, 2, 0, 0},
			score:    0,
		},
		{
			name:     "empty row",
			input:    []int{0, 0, 0, 0},
			expected: []int{0, 0, 0, 0},
			score:    0,
		},
		{
			name:     "single tile",
			input:    []int{0, 4, 0, 0},
			expected: []int{4, 0, 0, 0},
			score:    0,
		},
		{
			name:     "five wide",
			input:    []int{8, 8, 8, 0, 8},
			expected: []int{16, 16, 0, 0, 0},
			score:    32,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, score := SlideRow(tt.input)
			if !slices.Equal(result, tt.expected) {
				t.Errorf("SlideRow(%v) = %v, want %v", tt.input, result, tt.expected)
			}
			if score != tt.score {
				t.Errorf("SlideRow(%v) score = %d, want %d", tt.input, score, tt.score)
			}
		})
	}
}

func TestSlideRowIdempotent(t *testing.T) {
	rows := [][]int{
		{2, 4, 8, 16},
		{4, 2, 0, 0},
		{2, 0, 0, 0},
		{0, 0, 0, 0},
	}
	for _, row := range rows {
		res := slideRow(row)
		if res.changed {
			t.Errorf("slideRow(%v) reported a change on a compacted row", row)
		}
		if !slices.Equal(res.row, row) {
			t.Errorf("slideRow(%v) = %v, want unchanged", row, res.row)
		}
	}
}

func TestSlideLeft(t *testing.T) {
	grid := Grid{
		{2, 2, 0, 0},
		{4, 0, 4, 0},
		{2, 2, 2, 2},
		{0, 0, 0, 2},
	}

	expected := Grid{
		{4, 0, 0, 0},
		{8, 0, 0, 0},
		{4, 4, 0, 0},
		{2, 0, 0, 0},
	}

	result, score, changed := Slide(grid, DirLeft)

	if !result.Equal(expected) {
		t.Errorf("Slide left: got\n%v\nwant\n%v", result, expected)
	}

	if !changed {
		t.Error("Slide left should indicate grid changed")
	}

	expectedScore := 4 + 8 + 4 + 4
	if score != expectedScore {
		t.Errorf("Slide left score = %d, want %d", score, expectedScore)
	}
}

func TestSlideRight(t *testing.T) {
	grid := Grid{
		{2, 2, 0, 0},
		{4, 0, 4, 0},
		{2, 2, 2, 2},
		{0, 2, 2, 2},
	}

	expected := Grid{
		{0, 0, 0, 4},
		{0, 0, 0, 8},
		{0, 0, 4, 4},
		{0, 0, 2, 4},
	}

	result, _, changed := Slide(grid, DirRight)

	if !result.Equal(expected) {
		t.Errorf("Slide right: got\n%v\nwant\n%v", result, expected)
	}

	if !changed {
		t.Error("Slide right should indicate grid changed")
	}
}

func TestSlideUp(t *testing.T) {
	grid := Grid{
		{2, 4, 2, 0},
		{2, 0, 2, 0},
		{0, 4, 2, 0},
		{0, 0, 2, 2},
	}

	expected := Grid{
		{4, 8, 4, 2},
		{0, 0, 4, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	result, _, changed := Slide(grid, DirUp)

	if !result.Equal(expected) {
		t.Errorf("Slide up: got\n%v\nwant\n%v", result, expected)
	}

	if !changed {
		t.Error("Slide up should indicate grid changed")
	}
}

func TestSlideDown(t *testing.T) {
	grid := Grid{
		{2, 4, 2, 2},
		{2, 0, 2, 0},
		{0, 4, 2, 0},
		{0, 0, 2, 0},
	}

	expected := Grid{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 4, 0},
		{4, 8, 4, 2},
	}

	result, _, changed := Slide(grid, DirDown)

	if !result.Equal(expected) {
		t.Errorf("Slide down: got\n%v\nwant\n%v", result, expected)
	}

	if !changed {
		t.Error("Slide down should indicate grid changed")
	}
}

func TestNoChangeNoSpawn(t *testing.T) {
	grid := Grid{
		{4, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	// Sliding left when tiles are already left-aligned
	_, _, changed := Slide(grid, DirLeft)

	if changed {
		t.Error("Slide left should not change already left-aligned tiles")
	}
}

func TestRotateCoordCanonical(t *testing.T) {
	tests := []struct {
		dir    Direction
		r, c   int
		wantR  int
		wantC  int
		reason string
	}{
		{DirLeft, 1, 2, 1, 2, "identity"},
		{DirDown, 3, 0, 0, 0, "bottom of column 0 becomes head of row 0"},
		{DirRight, 0, 3, 3, 0, "right end of row 0 becomes head of row 3"},
		{DirUp, 0, 0, 3, 0, "top of column 0 becomes head of row 3"},
		{DirUp, 0, 3, 0, 0, "top of column 3 becomes head of row 0"},
	}

	for _, tt := range tests {
		r, c := RotateCoord(tt.r, tt.c, 4, tt.dir.quarterTurns())
		if r != tt.wantR || c != tt.wantC {
			t.Errorf("%s: RotateCoord(%d,%d) = (%d,%d), want (%d,%d) (%s)",
				tt.dir, tt.r, tt.c, r, c, tt.wantR, tt.wantC, tt.reason)
		}
	}
}

func TestRotateRoundTrip(t *testing.T) {
	grid := Grid{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4},
		{0, 2, 0, 8},
	}

	if got := Rotate(Rotate(Rotate(Rotate(grid, 1), 1), 1), 1); !got.Equal(grid) {
		t.Errorf("four quarter turns changed the grid:\n%v", got)
	}

	for _, dir := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		turns := dir.quarterTurns()
		back := Rotate(Rotate(grid, turns), (4-turns)%4)
		if !back.Equal(grid) {
			t.Errorf("%s: rotate and inverse changed the grid:\n%v", dir, back)
		}
	}
}

func TestRotateMatchesRotateCoord(t *testing.T) {
	for n := 2; n <= 5; n++ {
		grid := NewGrid(n)
		v := 2
		for r := range n {
			for c := range n {
				grid[r][c] = v
				v *= 2
			}
		}
		for times := range 4 {
			rotated := Rotate(grid, times)
			for r := range n {
				for c := range n {
					nr, nc := RotateCoord(r, c, n, times)
					if rotated[nr][nc] != grid[r][c] {
						t.Fatalf("n=%d times=%d: cell (%d,%d) landed wrong", n, times, r, c)
					}
				}
			}
		}
	}
}

func TestSlideMovements(t *testing.T) {
	grid := Grid{
		{2, 2, 2, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	out := slide(grid, DirLeft)
	want := []TileMove{
		{From: Pos{0, 0}, To: Pos{0, 0}, Value: 2, Merged: true, MergedValue: 4},
		{From: Pos{0, 1}, To: Pos{0, 0}, Value: 2, Merged: true, MergedValue: 4},
		{From: Pos{0, 2}, To: Pos{0, 1}, Value: 2, Merged: true, MergedValue: 4},
		{From: Pos{0, 3}, To: Pos{0, 1}, Value: 2, Merged: true, MergedValue: 4},
	}
	if !slices.Equal(out.movements, want) {
		t.Errorf("movements = %+v, want %+v", out.movements, want)
	}
	if !slices.Equal(out.merges, []int{4, 4}) {
		t.Errorf("merges = %v, want [4 4]", out.merges)
	}
}

func TestSlideMovementsUp(t *testing.T) {
	grid := Grid{
		{0, 0, 0, 0},
		{2, 0, 0, 0},
		{0, 0, 0, 8},
		{2, 0, 0, 0},
	}

	out := slide(grid, DirUp)

	moves := map[Pos]TileMove{}
	for _, m := range out.movements {
		moves[m.From] = m
	}
	if len(moves) != 3 {
		t.Fatalf("expected 3 traced tiles, got %d", len(moves))
	}
	if m := moves[Pos{1, 0}]; m.To != (Pos{0, 0}) || !m.Merged || m.MergedValue != 4 {
		t.Errorf("tile at (1,0) = %+v, want merge into (0,0)", m)
	}
	if m := moves[Pos{3, 0}]; m.To != (Pos{0, 0}) || !m.Merged {
		t.Errorf("tile at (3,0) = %+v, want merge into (0,0)", m)
	}
	if m := moves[Pos{2, 3}]; m.To != (Pos{0, 3}) || m.Merged {
		t.Errorf("tile at (2,3) = %+v, want plain move to (0,3)", m)
	}
}

func TestGameOver(t *testing.T) {
	// Grid with no empty cells and no possible merges
	grid := Grid{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{8192, 16384, 32768, 65536},
	}

	if HasMoves(grid) {
		t.Error("Grid with no moves should have no moves")
	}

	// Grid with no empty cells but possible merges
	gridWithMerge := Grid{
		{2, 2, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{8192, 16384, 32768, 65536},
	}

	if !HasMoves(gridWithMerge) {
		t.Error("Grid with possible merge should have moves")
	}

	// Grid with empty cells
	gridWithEmpty := Grid{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 0, 4096},
		{8192, 16384, 32768, 65536},
	}

	if !HasMoves(gridWithEmpty) {
		t.Error("Grid with empty cell should have moves")
	}
}

func TestMaxTile(t *testing.T) {
	grid := Grid{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4},
		{8, 16, 32, 64},
	}

	if got := MaxTile(grid); got != 2048 {
		t.Errorf("MaxTile = %d, want 2048", got)
	}
	if got := MaxTile(NewGrid(4)); got != 0 {
		t.Errorf("MaxTile(empty) = %d, want 0", got)
	}
}

func TestEmptyCells(t *testing.T) {
	grid := Grid{
		{2, 0, 8, 0},
		{0, 64, 0, 256},
		{512, 0, 2048, 0},
		{0, 16, 0, 64},
	}

	cells := EmptyCells(grid)
	if len(cells) != 8 {
		t.Errorf("EmptyCells count = %d, want 8", len(cells))
	}
	if cells[0] != (Pos{0, 1}) {
		t.Errorf("first empty cell = %v, want (0,1)", cells[0])
	}
}

func TestGridValidate(t *testing.T) {
	tests := []struct {
		name    string
		grid    Grid
		wantErr bool
	}{
		{"valid", Grid{{2, 0}, {0, 4}}, false},
		{"empty", Grid{}, true},
		{"single cell", Grid{{2}}, true},
		{"ragged", Grid{{2, 0}, {0}}, true},
		{"odd value", Grid{{3, 0}, {0, 0}}, true},
		{"one", Grid{{1, 0}, {0, 0}}, true},
		{"negative", Grid{{-2, 0}, {0, 0}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	for _, dir := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		got, err := ParseDirection(dir.String())
		if err != nil || got != dir {
			t.Errorf("ParseDirection(%q) = %v, %v", dir.String(), got, err)
		}
	}
	if _, err := ParseDirection("diagonal"); err == nil {
		t.Error("ParseDirection should reject unknown names")
	}
}
