// Package logging builds the slog loggers used by the CLI and the TUI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// FileName is the TUI log file inside the data directory.
const FileName = "studyhub.log"

// New returns a text logger writing to w at level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OpenFile returns a logger appending to dataDir/studyhub.log. The TUI owns
// the terminal, so it cannot log to stderr. Close the returned file on exit.
func OpenFile(dataDir string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dataDir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return New(f, level), f, nil
}
