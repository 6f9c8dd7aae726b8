package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuelReschke/SubFox/internal/pkg/env"
)

var logger zerolog.Logger

// SetupLogger initializes the global zerolog logger. Output goes to stdout
// and, when LOG_FILE is configured, additionally to that file (append mode).
func SetupLogger() {
	level := parseLevel(env.GetEnv("LOG_LEVEL", "info"))

	writers := []io.Writer{}
	if env.IsDev() {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		writers = append(writers, os.Stdout)
	}

	if path := env.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			// Keep running with stdout only; the service is more important
			// than its log file.
			logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
			logger.Warn().Err(err).Str("path", path).Msg("could not open log file")
		} else {
			writers = append(writers, f)
		}
	}

	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// GetLogger returns the global logger instance.
func GetLogger() zerolog.Logger {
	return logger
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
