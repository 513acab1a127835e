package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BOT_TOKEN", "DATABASE_PATH", "DECK_API_URL", "DECK_COUNT",
		"RESHUFFLE_BELOW", "HTTP_TIMEOUT", "HTTP_ADDR", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, &Config{
		DatabasePath:   "./deckjack.db",
		DeckAPIURL:     "https://deckofcardsapi.com",
		DeckCount:      1,
		ReshuffleBelow: 10,
		HTTPTimeout:    10 * time.Second,
		HTTPAddr:       ":8080",
		LogLevel:       "info",
	}, cfg)
	assert.Error(t, cfg.RequireBotToken())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DECK_COUNT", "6")
	t.Setenv("RESHUFFLE_BELOW", "0")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("DECK_API_URL", "http://localhost:8000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, 6, cfg.DeckCount)
	assert.Zero(t, cfg.ReshuffleBelow)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "http://localhost:8000", cfg.DeckAPIURL)
	assert.NoError(t, cfg.RequireBotToken())
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=:9999\nLOG_LEVEL=debug\n"), 0o600))

	// godotenv never overrides variables that are already set, so make sure
	// the keys are absent rather than empty.
	os.Unsetenv("HTTP_ADDR")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := map[string]string{
		"DECK_COUNT":      "many",
		"RESHUFFLE_BELOW": "-1",
		"HTTP_TIMEOUT":    "soon",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.ErrorContains(t, err, key)
		})
	}

	t.Run("deck count range", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DECK_COUNT", "0")

		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "DECK_COUNT")
	})
}
