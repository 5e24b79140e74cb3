package logging

import (
	"log/slog"
	"os"
)

// Init configures the package-level default slog logger. Logs go to
// stderr so they never mix with report output on stdout.
func Init(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
