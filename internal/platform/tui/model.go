package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Options tunes the game screen.
type Options struct {
	Theme  Theme
	Keys   KeyMap
	Width  int
	Height int
}

// DefaultOptions returns the colored theme with the default key bindings.
func DefaultOptions() Options {
	return Options{
		Theme: DefaultTheme(),
		Keys:  DefaultKeyMap(),
	}
}

// Model is the Bubble Tea model for one 2048 session.
type Model struct {
	sess   *session.Session
	store  storage.Store
	keys   KeyMap
	help   help.Model
	theme  Theme
	width  int
	height int

	message   string
	messageID int
	last      *t2048.MoveResult

	scores   *ScoreboardModel // non-nil while the high score table is open
	quitting bool
}

// NewModel creates the game screen for sess. The session must already be resumed
// or started; the model only forwards input to it.
func NewModel(sess *session.Session, store storage.Store, opts Options) Model {
	h := help.New()
	h.Width = opts.Width

	return Model{
		sess:   sess,
		store:  store,
		keys:   opts.Keys,
		help:   h,
		theme:  opts.Theme,
		width:  opts.Width,
		height: opts.Height,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.scores != nil {
			return m.updateScores(msg)
		}
		return m, nil

	case messageExpiredMsg:
		if msg.id == m.messageID {
			m.message = ""
		}
		return m, nil

	case scoreboardClosedMsg:
		m.scores = nil
		return m, nil
	}

	if m.scores != nil {
		return m.updateScores(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

// updateScores forwards msg to the open high score table.
func (m Model) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	sb := next.(ScoreboardModel)
	if sb.IsQuitting() {
		m.quitting = true
	}
	m.scores = &sb
	return m, cmd
}

// handleKey processes keyboard input on the game screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if dir, ok := m.keys.Direction(msg); ok {
		return m.move(dir)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Undo):
		m.last = nil
		if m.sess.Undo() {
			return m.flash("Undone")
		}
		return m.flash("Nothing to undo")

	case key.Matches(msg, m.keys.Continue):
		if m.sess.Continue() {
			return m.flash("Keep going!")
		}
		return m, nil

	case key.Matches(msg, m.keys.NewGame):
		m.last = nil
		m.sess.NewGame()
		return m.flash("New game")

	case key.Matches(msg, m.keys.Scores):
		sb := NewScoreboardModel(m.store, m.sess.Player(), m.width, m.height)
		sb.embedded = true
		m.scores = &sb
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

// move applies dir and reports merges or the end of the game.
func (m Model) move(dir t2048.Direction) (tea.Model, tea.Cmd) {
	res := m.sess.Move(dir)
	if res == nil {
		return m, nil
	}
	m.last = res

	switch res.State {
	case t2048.StateWon:
		return m.flash(fmt.Sprintf("%d!", m.sess.Engine().WinTile()))
	case t2048.StateLost:
		return m.flash("No moves left")
	}
	if res.ScoreGain > 0 {
		return m.flash(fmt.Sprintf("+%d", res.ScoreGain))
	}
	return m, nil
}

// flash shows a status message that expires after messageTTL.
func (m Model) flash(text string) (tea.Model, tea.Cmd) {
	m.messageID++
	m.message = text
	return m, expireMessage(m.messageID, messageTTL)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.scores != nil {
		return m.scores.View()
	}

	e := m.sess.Engine()

	var b strings.Builder
	b.WriteString(RenderHUD(e, m.theme))
	b.WriteString("\n\n")

	board := RenderBoard(e.Grid(), m.theme, m.width)
	if overlay := RenderOverlay(e, m.theme); overlay != "" {
		board = lipgloss.JoinHorizontal(lipgloss.Center, board, "  ", overlay)
	}
	b.WriteString(board)
	b.WriteString("\n")

	b.WriteString(m.theme.HUDMessage.Render(m.message))
	b.WriteString("\n")
	b.WriteString(m.theme.HUDControls.Render(m.help.View(m.keys)))

	view := b.String()
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
	}
	return view
}

// Session returns the session driven by this model.
func (m Model) Session() *session.Session {
	return m.sess
}

// Run starts the Bubble Tea program for sess on the local terminal.
func Run(sess *session.Session, store storage.Store, opts Options) error {
	model := NewModel(sess, store, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
