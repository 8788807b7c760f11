package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide JSON logger. Dev runs verbose with
// source attribution; prod keeps the output lean for log shipping.
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{}

	switch env {
	case "prod":
		opts.Level = slog.LevelInfo
	default:
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
