package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/reshetovitsme/autopost/internal/shared/config"
	"github.com/samber/oops"
	slogmulti "github.com/samber/slog-multi"
)

// newLogger writes human-readable logs to stderr and, when a log file is configured,
// a JSON copy of every record to that file.
func newLogger(cfg config.LogConfig, stderr io.Writer) (*slog.Logger, func() error, error) {
	level := parseLevel(cfg.Level)
	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
	}

	closer := func() error { return nil }
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, oops.With("log_file", cfg.File).Wrap(err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closer = f.Close
	}

	// Use Fanout to send logs to every handler
	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
