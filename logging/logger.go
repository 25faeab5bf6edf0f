package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// New builds the process logger: a colorized text handler for local
// development, JSON elsewhere.
func New(appEnv string) *slog.Logger {
	if appEnv == "dev" {
		h := tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", "station-viewer")
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h).With("app", "station-viewer", "env", appEnv)
}
