package bot

import (
	"context"
	"sync"

	"deckjack/internal/game"
	"deckjack/internal/seat"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	logger  *log.Logger
}

func New(token string, source game.CardSource, seats seat.Repository, logger *log.Logger, opts ...game.Option) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger = logger.WithPrefix("bot")
	return &Bot{
		api:     api,
		handler: NewHandler(api, source, seats, logger, opts...),
		logger:  logger,
	}, nil
}

// Run polls for updates until ctx is cancelled and then waits for the
// handlers still in flight.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Bot started", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("Bot stopping")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(ctx, &wg, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, wg *sync.WaitGroup, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.handler.HandleCallback(ctx, update.CallbackQuery)
		}()
	case update.Message != nil:
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.handler.HandleMessage(ctx, update.Message)
		}()
	}
}
