package main

import (
	"context"

	"deckjack/internal/web"
)

type ServeCmd struct {
	Addr string `help:"Listen address (overrides HTTP_ADDR)"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	a, err := cli.setup()
	if err != nil {
		return err
	}

	addr := a.cfg.HTTPAddr
	if c.Addr != "" {
		addr = c.Addr
	}

	srv := web.NewServer(a.source, a.logger, a.opts...)
	return run(func(ctx context.Context) error {
		return srv.ListenAndServe(ctx, addr)
	})
}
