package cli

import (
	"log/slog"
	"os"
)

// setupLogging configures the global slog default logger at the given
// level, writing text-formatted records to os.Stderr so stdout stays
// clean for piped search output.
func setupLogging(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// resolveLogLevel applies the same verbose/quiet precedence as the rest of
// the corpus: TIDELINE_DEBUG=1 always wins, then --verbose, then --quiet,
// defaulting to info.
func resolveLogLevel(verbose, quiet bool) slog.Level {
	if os.Getenv("TIDELINE_DEBUG") == "1" {
		return slog.LevelDebug
	}
	if verbose {
		return slog.LevelDebug
	}
	if quiet {
		return slog.LevelError
	}
	return slog.LevelInfo
}
