package logger

import (
	"log/slog"
	"os"

	"photo-portfolio-platform/internal/config"
)

// InitLogger installs a JSON slog handler as the process default.
// Debug mode adds source locations.
func InitLogger(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.GinMode == "debug" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.GinMode == "debug",
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	slog.SetDefault(slog.New(handler))

	slog.Info("structured logging initialized", "level", level.String())
}
