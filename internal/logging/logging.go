package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Options selects the level and destination of the logger.
type Options struct {
	Level string
	// File is a path, "auto" for a dated file in StateDir, or empty for stderr.
	File     string
	StateDir string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup creates a slog.Logger per opts. The caller is responsible for closing
// the returned closer.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	path := opts.File
	if path == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts)), nopCloser{}, nil
	}
	if path == "auto" {
		if opts.StateDir == "" {
			return nil, nil, fmt.Errorf("state dir is required for automatic log files")
		}
		path = filepath.Join(opts.StateDir, fmt.Sprintf("scrobstash-%s.log", time.Now().Format("20060102")))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, handlerOpts)), f, nil
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
