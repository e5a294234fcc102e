package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger: structured JSON on stdout.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
