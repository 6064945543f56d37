// Package logging configures the process-wide slog logger. The scraper keeps
// the terminal for prompts and the run summary, so log records go to a
// console.log file in the collection root, matching what frontends expect to
// find next to the store file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const logFileName = "console.log"

// Options describes logger construction parameters.
type Options struct {
	// Dir is the directory receiving console.log. Empty means stderr only.
	Dir string
	// Level is the minimum record level: debug, info, warn or error.
	Level string
	// Verbose mirrors records to stderr in addition to the log file.
	Verbose bool
}

// New constructs a slog logger and returns it together with a close function
// for the underlying log file.
func New(opts Options) (*slog.Logger, func() error, error) {
	var writers []io.Writer
	closeFn := func() error { return nil }

	if opts.Dir != "" {
		path := filepath.Join(opts.Dir, logFileName)
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, file)
		closeFn = file.Close
	}
	if opts.Verbose || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: parseLevel(opts.Level),
	})
	return slog.New(handler), closeFn, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops every record. Used by tests and by
// components constructed without an explicit logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
