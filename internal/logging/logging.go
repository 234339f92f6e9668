// Package logging builds the loggers the rest of the program shares.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the named level. An empty or
// unrecognized level means info.
func New(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           lvl,
	})
}

// Nop returns a logger that discards everything. Tests use it so package
// code can log unconditionally.
func Nop() *log.Logger {
	return log.New(io.Discard)
}

// OpenFile opens (creating if needed) an append-mode log file at path and
// writes a session header line. The parent directory is created too.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	fmt.Fprintf(f, "----- session %s -----\n", time.Now().Format(time.RFC3339))
	return f, nil
}
