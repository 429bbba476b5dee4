package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON stdout logger as the slog default and returns its
// handler so it can later be combined with the database sink.
func Setup(debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	return handler
}
