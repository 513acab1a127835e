package main

import (
	"context"

	"deckjack/internal/bot"
	"deckjack/internal/database"
	"deckjack/internal/seat"
	"deckjack/internal/web"

	"github.com/coder/quartz"
)

type BotCmd struct {
	HTTP bool `help:"Also serve the JSON game API on HTTP_ADDR"`
}

func (c *BotCmd) Run(cli *CLI) error {
	a, err := cli.setup()
	if err != nil {
		return err
	}
	if err := a.cfg.RequireBotToken(); err != nil {
		return err
	}

	db, err := database.New(a.cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	a.logger.Info("Database connected", "path", a.cfg.DatabasePath)

	seats := seat.NewRepository(db.DB, quartz.NewReal())

	b, err := bot.New(a.cfg.BotToken, a.source, seats, a.logger, a.opts...)
	if err != nil {
		return err
	}

	fns := []func(ctx context.Context) error{b.Run}
	if c.HTTP {
		srv := web.NewServer(a.source, a.logger, a.opts...)
		fns = append(fns, func(ctx context.Context) error {
			return srv.ListenAndServe(ctx, a.cfg.HTTPAddr)
		})
	}
	return run(fns...)
}
