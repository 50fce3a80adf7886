package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const (
	shutdownTimeout = 10 * time.Second
	closeTimeout    = 5 * time.Second
	guestPlayer     = "guest"
)

// sessionKey stores the player's game session in the SSH context.
type sessionKey struct{}

// SSHServer serves the game over SSH. Every connection plays its own session,
// keyed by the SSH user name and persisted to the shared store.
type SSHServer struct {
	cfg      config.SSHConfig
	game     config.GameConfig
	server   *ssh.Server
	store    storage.Store
	sessions *session.Registry
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server. The caller keeps ownership of store.
func NewSSHServer(cfg config.Config, store storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "t2048-ssh",
		})
	}

	srv := &SSHServer{
		cfg:      cfg.SSH,
		game:     cfg.Game,
		store:    store,
		sessions: session.NewRegistry(),
		logger:   logger,
	}

	hostKeyPath, err := config.ExpandPath(cfg.SSH.HostKey)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve host key path: %w", err)
	}

	// Ensure host key directory exists; wish generates the key on first start
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.SSH.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.SSH.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// playerName returns the storage key for an SSH user.
func playerName(user string) string {
	if user == "" {
		return guestPlayer
	}
	return user
}

// teaHandler creates a game program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		wish.Println(sshSession, "2048 needs an interactive terminal; connect with ssh -t.")
		return nil, nil
	}

	player := playerName(sshSession.User())
	sess := session.New(session.Options{
		Player: player,
		Store:  s.store,
		Logger: s.logger,
		Engine: session.EngineOptions(s.game),
	})

	if err := s.sessions.Register(sess); err != nil {
		s.logger.Warn("rejecting second session", "user", player)
		wish.Println(sshSession, "You already have a game running in another terminal.")
		return nil, nil
	}
	sshSession.Context().SetValue(sessionKey{}, sess)

	ctx := sshSession.Context()
	sess.Subscribe(session.NewPersistence(s.store, player, s.logger))
	sess.Subscribe(session.NewStatsRecorder(ctx, s.store, player, s.logger))
	sess.Resume(ctx)

	opts := DefaultOptions()
	opts.Width = pty.Window.Width
	opts.Height = pty.Window.Height

	return NewModel(sess, s.store, opts), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events and releases the player's game afterwards.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("connection opened",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)

		if sess, ok := sshSession.Context().Value(sessionKey{}).(*session.Session); ok {
			s.closeSession(sess)
		}
		s.logger.Info("connection closed",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// closeSession flushes sess and frees its player slot.
func (s *SSHServer) closeSession(sess *session.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := sess.Close(ctx); err != nil {
		s.logger.Error("cannot flush session", "user", sess.Player(), "err", err)
	}
	s.sessions.Unregister(sess)
}

// ListenAndServe starts the SSH server and blocks until SIGINT/SIGTERM or a listen failure.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.cfg.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ssh server: %w", err)
	case <-done:
	}

	s.logger.Info("shutting down...", "sessions", s.sessions.Count())
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.cfg.Address
}
