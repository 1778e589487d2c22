package lib

import (
	"log/slog"
	"os"
)

// logger writes key=value records to stderr so they stay apart from the
// status lines on stdout. Setting DEBUG to any value adds per-field parse
// failures and created page IDs.
var logger *slog.Logger

func init() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
}
