package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the visual styles of the game screen.
type Theme struct {
	// Tile backgrounds keyed by value; values above the largest key use Huge.
	Tiles     map[int]lipgloss.Style
	Huge      lipgloss.Style
	EmptyCell lipgloss.Style
	Board     lipgloss.Style

	// HUD styles
	HUDTitle    lipgloss.Style
	HUDLabel    lipgloss.Style
	HUDValue    lipgloss.Style
	HUDMessage  lipgloss.Style
	HUDControls lipgloss.Style

	// Overlay styles
	OverlayBorder lipgloss.Style
	OverlayTitle  lipgloss.Style
	OverlayText   lipgloss.Style
}

func tile(bg, fg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg)).
		Bold(true)
}

// DefaultTheme returns the classic warm palette.
func DefaultTheme() Theme {
	return Theme{
		Tiles: map[int]lipgloss.Style{
			2:    tile("255", "239"),
			4:    tile("230", "239"),
			8:    tile("216", "255"),
			16:   tile("209", "255"),
			32:   tile("203", "255"),
			64:   tile("196", "255"),
			128:  tile("222", "255"),
			256:  tile("221", "255"),
			512:  tile("220", "255"),
			1024: tile("214", "255"),
			2048: tile("226", "255"),
		},
		Huge:      tile("235", "226"),
		EmptyCell: lipgloss.NewStyle().Background(lipgloss.Color("250")).Foreground(lipgloss.Color("250")),
		Board: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")),

		HUDTitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		HUDLabel:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDValue:    lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		HUDMessage:  lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Italic(true),
		HUDControls: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		OverlayBorder: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 3),
		OverlayTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		OverlayText:  lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	}
}

// MonochromeTheme returns a grayscale theme for terminals with few colors.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	shades := []string{"255", "252", "250", "248", "246", "244", "242", "240", "238", "236", "234"}
	for i, v := 0, 2; i < len(shades); i, v = i+1, v*2 {
		fg := "232"
		if i >= 5 {
			fg = "255"
		}
		theme.Tiles[v] = tile(shades[i], fg)
	}
	theme.Huge = tile("232", "255")
	return theme
}

// TileStyle returns the style for a tile value.
func (t Theme) TileStyle(v int) lipgloss.Style {
	if v == 0 {
		return t.EmptyCell
	}
	if s, ok := t.Tiles[v]; ok {
		return s
	}
	return t.Huge
}
