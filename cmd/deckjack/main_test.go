package main

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("deckjack"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestParseServe(t *testing.T) {
	cli, ctx := parse(t, "--log-level", "debug", "serve", "--addr", ":9090")

	assert.Equal(t, "serve", ctx.Command())
	assert.Equal(t, ":9090", cli.Serve.Addr)
	assert.Equal(t, "debug", cli.LogLevel)
}

func TestParseBot(t *testing.T) {
	cli, ctx := parse(t, "bot", "--http")

	assert.Equal(t, "bot", ctx.Command())
	assert.True(t, cli.Bot.HTTP)
}

func TestSetupRejectsBadLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	cli := &CLI{EnvFile: []string{t.TempDir() + "/none.env"}, LogLevel: "loud"}

	_, err := cli.setup()
	assert.ErrorContains(t, err, "invalid log level")
}

func TestSetup(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DECK_COUNT", "2")
	cli := &CLI{EnvFile: []string{t.TempDir() + "/none.env"}}

	a, err := cli.setup()
	require.NoError(t, err)
	assert.Equal(t, 2, a.cfg.DeckCount)
	assert.Len(t, a.opts, 1)
	assert.NotNil(t, a.source)
}
