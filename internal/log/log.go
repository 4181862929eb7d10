// Package log configures structured logging for scouteval using log/slog.
package log

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Setup configures the default slog logger based on verbosity flags.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above
//
// Output is written to stderr using slog.TextHandler.
func Setup(verbose, quiet bool) {
	SetupWriter(os.Stderr, verbose, quiet)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, verbose, quiet bool) {
	var level slog.Level
	switch {
	case quiet:
		level = slog.LevelWarn
	case verbose:
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// RunKey is the attribute that tags every record of one command invocation.
const RunKey = "run"

// ForRun returns the default logger tagged with a fresh run id, and the id.
func ForRun() (*slog.Logger, string) {
	id := uuid.NewString()
	return slog.Default().With(RunKey, id), id
}
