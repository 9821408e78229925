package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup configures the logger for CLI use. Debug mode switches to the
// human-readable console writer and enables debug-level request logging.
func Setup(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	if debug {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
			Level(level).With().Caller().Logger()
	}

	return logger
}
