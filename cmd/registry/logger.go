package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds the process logger: human-readable console output on
// stderr, info level by default, debug when verbose.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
