package logger

import (
	"os"

	"boxscore-tracker/internal/config"

	"github.com/rs/zerolog"
)

// New builds the application logger at the level the config names.
// Unknown names fall back to info.
func New(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	return logger.Level(level)
}
