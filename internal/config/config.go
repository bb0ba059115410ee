package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"boxscore-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	DBPath          string
	ServerPort      string
	LogLevel        string
	SwipeThreshold  float64
	TeamSize        int
	ConfirmationTTL time.Duration
}

// Load reads the environment into a Config. It runs before the leveled
// logger exists (the logger's level comes from the Config it produces),
// so it logs through a plain bootstrap logger.
func Load() (*Config, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:          getEnv("DB_PATH", "boxscore.db"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		SwipeThreshold:  constants.DefaultSwipeThreshold,
		TeamSize:        constants.DefaultTeamSize,
		ConfirmationTTL: constants.ConfirmationTTL,
	}

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}

	if v := os.Getenv("SWIPE_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil || threshold <= 0 {
			return nil, fmt.Errorf("invalid SWIPE_THRESHOLD %q", v)
		}
		cfg.SwipeThreshold = threshold
	}

	if v := os.Getenv("TEAM_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("invalid TEAM_SIZE %q", v)
		}
		cfg.TeamSize = size
	}

	if v := os.Getenv("CONFIRMATION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid CONFIRMATION_TTL %q", v)
		}
		cfg.ConfirmationTTL = ttl
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Float64("swipe_threshold", cfg.SwipeThreshold).
		Int("team_size", cfg.TeamSize).
		Dur("confirmation_ttl", cfg.ConfirmationTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
