package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken       string
	DatabasePath   string
	DeckAPIURL     string
	DeckCount      int
	ReshuffleBelow int
	HTTPTimeout    time.Duration
	HTTPAddr       string
	LogLevel       string
}

// Load reads the given env files (".env" when none are given) and then the
// process environment. A missing env file is not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		BotToken:     strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		DatabasePath: getenv("DATABASE_PATH", "./deckjack.db"),
		DeckAPIURL:   getenv("DECK_API_URL", "https://deckofcardsapi.com"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.DeckCount, err = getInt("DECK_COUNT", 1); err != nil {
		return nil, err
	}
	if cfg.DeckCount < 1 || cfg.DeckCount > 20 {
		return nil, fmt.Errorf("DECK_COUNT must be between 1 and 20, got %d", cfg.DeckCount)
	}
	if cfg.ReshuffleBelow, err = getInt("RESHUFFLE_BELOW", 10); err != nil {
		return nil, err
	}
	if cfg.ReshuffleBelow < 0 {
		return nil, fmt.Errorf("RESHUFFLE_BELOW must not be negative, got %d", cfg.ReshuffleBelow)
	}
	if cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

// RequireBotToken is checked by the bot front end only.
func (c *Config) RequireBotToken() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is not set")
	}
	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
