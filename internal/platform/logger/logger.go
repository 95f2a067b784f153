package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. JSON output so log shippers can index the
// structured attributes handlers and services attach.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
