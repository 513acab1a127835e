package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deckjack/internal/config"
	"deckjack/internal/deckapi"
	"deckjack/internal/game"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	EnvFile  []string         `name:"env-file" help:"Env files to load (default .env)" type:"path"`
	LogLevel string           `name:"log-level" help:"Override LOG_LEVEL (debug, info, warn, error)"`

	Bot   BotCmd   `cmd:"" help:"Run the Telegram bot"`
	Serve ServeCmd `cmd:"" help:"Serve the JSON game API for a browser front end"`
}

// app is what every subcommand needs, built once from the config.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	source *deckapi.Client
	opts   []game.Option
}

func (c *CLI) setup() (*app, error) {
	cfg, err := config.Load(c.EnvFile...)
	if err != nil {
		return nil, err
	}

	levelName := cfg.LogLevel
	if c.LogLevel != "" {
		levelName = c.LogLevel
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	source := deckapi.New(cfg.DeckAPIURL, logger,
		deckapi.WithDeckCount(cfg.DeckCount),
		deckapi.WithTimeout(cfg.HTTPTimeout),
	)

	return &app{
		cfg:    cfg,
		logger: logger,
		source: source,
		opts:   []game.Option{game.WithReshuffleBelow(cfg.ReshuffleBelow)},
	}, nil
}

// run executes the front ends side by side until one fails or the process
// is interrupted.
func run(fns ...func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		g.Go(func() error {
			return fn(ctx)
		})
	}
	return g.Wait()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("deckjack"),
		kong.Description("Blackjack against a remote deck-of-cards service"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
