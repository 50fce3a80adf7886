// Package logging builds the charmbracelet/log loggers used by the CLI and the SSH server.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/config"
)

// New returns a logger writing to w at the configured level.
// An unknown level falls back to info.
func New(w io.Writer, cfg config.LogConfig, prefix string) *log.Logger {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}

// OpenFile opens the log file from cfg for appending, creating parent directories.
// It is used while a TUI owns the terminal.
func OpenFile(cfg config.LogConfig) (*os.File, error) {
	path, err := config.ExpandPath(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: cannot create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: cannot open %s: %w", path, err)
	}
	return f, nil
}
