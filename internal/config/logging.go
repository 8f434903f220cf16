package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// ParseLevel maps a level name to a log.Level.
func ParseLevel(name string) (log.Level, error) {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, name)
	}
	return lvl, nil
}

// NewLogger creates a structured logger writing to w.
func NewLogger(w io.Writer, level string) *log.Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
}

// OpenLogger creates a logger for c. With no LogFile the logger discards
// output if quiet is set and writes to stderr otherwise. The returned closer
// releases the log file.
func (c Config) OpenLogger(quiet bool) (*log.Logger, io.Closer, error) {
	if c.LogFile == "" {
		if quiet {
			return log.New(io.Discard), nopCloser{}, nil
		}
		return NewLogger(os.Stderr, c.LogLevel), nopCloser{}, nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewLogger(f, c.LogLevel), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
