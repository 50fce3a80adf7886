// Package tui provides the Bubble Tea front end for tui-2048: the game screen,
// the high score table and the Wish SSH server that serves both remotely.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// messageTTL is how long a status message stays on screen.
const messageTTL = 2 * time.Second

// messageExpiredMsg clears the status message with the matching id.
type messageExpiredMsg struct {
	id int
}

// expireMessage returns a command that expires message id after d.
func expireMessage(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return messageExpiredMsg{id: id}
	})
}
