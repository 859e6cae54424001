package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OutputPath     string
	ReplayDir      string
	ListenAddr     string
	SpectateURL    string
	RedisURL       string
	RedisChannel   string
	DatabaseURL    string
	SponsorDisplay bool
	SkinDisplay    bool
	PollInterval   time.Duration
	LogLevel       string
}

// Load reads an optional .env file, then the environment. Variables already
// set in the environment win over the file.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		OutputPath:   getEnv("OUTPUT_PATH", ""),
		ReplayDir:    getEnv("REPLAY_DIR", ""),
		ListenAddr:   getEnv("LISTEN_ADDR", ":8080"),
		SpectateURL:  getEnv("SPECTATE_URL", ""),
		RedisURL:     getEnv("REDIS_URL", ""),
		RedisChannel: getEnv("REDIS_CHANNEL", "scoreboard"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.SponsorDisplay, err = getBool("SPONSOR_DISPLAY", true); err != nil {
		return Config{}, err
	}
	if cfg.SkinDisplay, err = getBool("SKIN_DISPLAY", true); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval, err = getDuration("POLL_INTERVAL", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
