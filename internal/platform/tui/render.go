package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// Cell sizes for the two board layouts.
const (
	wideCellW    = 8
	wideCellH    = 3
	compactCellW = 6
	compactCellH = 1
)

// cellSize picks the largest cell that fits an n×n board in the given terminal width.
// A zero width (size unknown) uses the wide layout.
func cellSize(n, width int) (int, int) {
	if width == 0 || n*(wideCellW+1)+3 <= width {
		return wideCellW, wideCellH
	}
	return compactCellW, compactCellH
}

// RenderBoard draws the grid as rows of colored tiles inside a border.
func RenderBoard(grid t2048.Grid, theme Theme, width int) string {
	cw, ch := cellSize(grid.Size(), width)

	rows := make([]string, 0, grid.Size()*2)
	for r, row := range grid {
		cells := make([]string, 0, len(row)*2)
		for c, v := range row {
			if c > 0 {
				cells = append(cells, " ")
			}
			text := ""
			if v != 0 {
				text = strconv.Itoa(v)
			}
			cells = append(cells, theme.TileStyle(v).
				Width(cw).
				Height(ch).
				Align(lipgloss.Center, lipgloss.Center).
				Render(text))
		}
		if r > 0 && ch > 1 {
			rows = append(rows, "")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return theme.Board.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// RenderHUD draws the title and score line.
func RenderHUD(e *t2048.Engine, theme Theme) string {
	item := func(label string, value int) string {
		return theme.HUDLabel.Render(label+" ") + theme.HUDValue.Render(strconv.Itoa(value))
	}
	sep := theme.HUDLabel.Render("  │  ")

	parts := []string{
		item("SCORE", e.Score()),
		item("BEST", e.BestScore()),
		item("TILE", e.MaxTile()),
		item("MOVES", e.MoveID()),
	}
	if e.CanUndo() {
		parts = append(parts, item("UNDO", e.HistoryLen()))
	}

	title := theme.HUDTitle.Render(strconv.Itoa(e.WinTile()))
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(parts, sep))
}

// RenderOverlay returns the win or game over box, or "" while playing.
func RenderOverlay(e *t2048.Engine, theme Theme) string {
	var title, body string
	switch e.State() {
	case t2048.StateWon:
		title = fmt.Sprintf("You reached %d!", e.WinTile())
		body = "c: keep going   n: new game   u: undo"
	case t2048.StateLost:
		title = "Game over"
		body = fmt.Sprintf("Final score %d\n\nn: new game   u: undo", e.Score())
	default:
		return ""
	}
	return theme.OverlayBorder.Render(
		lipgloss.JoinVertical(lipgloss.Center,
			theme.OverlayTitle.Render(title),
			"",
			theme.OverlayText.Render(body),
		),
	)
}
