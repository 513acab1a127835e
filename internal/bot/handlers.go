package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"deckjack/internal/deckapi"
	"deckjack/internal/game"
	"deckjack/internal/seat"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of the Telegram API the handler needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	bot    Sender
	source game.CardSource
	seats  seat.Repository
	games  *game.Manager[int64]
	opts   []game.Option
	logger *log.Logger
}

func NewHandler(bot Sender, source game.CardSource, seats seat.Repository, logger *log.Logger, opts ...game.Option) *Handler {
	return &Handler{
		bot:    bot,
		source: source,
		seats:  seats,
		games:  game.NewManager[int64](),
		opts:   opts,
		logger: logger,
	}
}

// ============== HELPERS ==============

func (h *Handler) send(chatID int64, text string) {
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.logger.Error("Failed to send message", "chat", chatID, "error", err)
	}
}

func (h *Handler) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("Failed to send message", "chat", chatID, "error", err)
	}
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("Failed to answer callback", "error", err)
	}
}

// sendCardImages shows the cards as a photo album. Telegram albums hold 2 to
// 10 items, so anything else is skipped.
func (h *Handler) sendCardImages(chatID int64, cards game.Hand) {
	if len(cards) < 2 || len(cards) > 10 {
		return
	}
	media := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		if c.Image == "" {
			return
		}
		media = append(media, tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(c.Image)))
	}
	if _, err := h.bot.Request(tgbotapi.NewMediaGroup(chatID, media)); err != nil {
		h.logger.Debug("Failed to send card images", "chat", chatID, "error", err)
	}
}

// openSeat makes sure the chat has a session, resuming its stored deck when
// there is one.
func (h *Handler) openSeat(ctx context.Context, chatID int64) error {
	if h.games.Get(chatID) != nil {
		return nil
	}

	st, err := h.seats.Get(chatID)
	switch {
	case err == nil:
		deck := game.Deck{ID: st.DeckID, Remaining: st.Remaining}
		h.games.SetIfAbsent(chatID, game.ResumeSession(h.source, deck, h.opts...))
		h.logger.Debug("Resumed seat", "chat", chatID, "deck", st.DeckID)
		return nil
	case !errors.Is(err, seat.ErrNotFound):
		h.logger.Warn("Failed to load seat, using a new deck", "chat", chatID, "error", err)
	}

	s, err := game.NewSession(ctx, h.source, h.opts...)
	if err != nil {
		return err
	}
	// snapshot before publishing: once stored, another tap may be dealing
	deck := s.Deck()
	if h.games.SetIfAbsent(chatID, s) {
		h.saveSeat(chatID, deck)
	}
	return nil
}

func (h *Handler) saveSeat(chatID int64, deck game.Deck) {
	if err := h.seats.Save(&seat.Seat{ChatID: chatID, DeckID: deck.ID, Remaining: deck.Remaining}); err != nil {
		h.logger.Error("Failed to save seat", "chat", chatID, "error", err)
	}
}

// acquire returns the chat's session for the duration of one action.
func (h *Handler) acquire(ctx context.Context, chatID int64) (*game.Session, func(), error) {
	if err := h.openSeat(ctx, chatID); err != nil {
		return nil, nil, err
	}
	return h.games.Acquire(chatID)
}

func (h *Handler) reportError(chatID int64, action string, err error) {
	h.logger.Warn("Action failed", "chat", chatID, "action", action, "error", err)
	h.send(chatID, errorText(err))
}

func errorText(err error) string {
	var initErr *game.DeckInitError
	var drawErr *game.DrawError
	switch {
	case errors.As(err, &initErr):
		return "❌ Couldn't get a shuffled deck. Try again later."
	case errors.Is(err, deckapi.ErrDeckNotFound):
		return "❌ Your deck is gone from the card service. Use /newdeck to get a fresh one."
	case errors.Is(err, game.ErrDeckExhausted):
		return "❌ The deck ran out of cards. Deal again to reshuffle, or use /newdeck."
	case errors.As(err, &drawErr):
		return "❌ Couldn't draw cards. Nothing changed, try again."
	}
	return "❌ Something went wrong. Try again."
}

func callbackRefusal(err error) (string, bool) {
	switch {
	case errors.Is(err, game.ErrBusy):
		return "⏳ Hold on, drawing cards…", true
	case errors.Is(err, game.ErrNotInProgress):
		return "Deal a hand first", true
	case errors.Is(err, game.ErrStaying):
		return "This round is over", true
	}
	return "", false
}

// ============== FORMATTING ==============

func formatHand(cards game.Hand) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func formatVerdict(w game.Winner) string {
	if w == game.WinnerPlayer {
		return "🎉 You win!"
	}
	return "🏠 House wins"
}

func formatTable(v game.View) string {
	var sb strings.Builder

	if v.Staying {
		fmt.Fprintf(&sb, "🃏 House: %s (%d)\n", formatHand(v.Dealer), v.DealerScore)
	} else {
		fmt.Fprintf(&sb, "🃏 House: %d cards face down\n", v.DealerCards)
	}
	fmt.Fprintf(&sb, "🎴 You: %s (%d)", formatHand(v.Player), v.PlayerScore)

	if v.State == game.Resolved {
		sb.WriteString("\n\n")
		sb.WriteString(formatVerdict(v.Winner))
	}
	return sb.String()
}

// ============== COMMANDS ==============

func (h *Handler) HandleStart(ctx context.Context, chatID int64) {
	if err := h.openSeat(ctx, chatID); err != nil {
		h.reportError(chatID, "start", err)
		return
	}

	h.sendWithKeyboard(chatID,
		"🎰 Welcome to Blackjack!\n\n"+
			"/deal — deal a new round\n"+
			"/newdeck — switch to a freshly shuffled deck\n"+
			"/help — rules",
		DealKeyboard())
}

func (h *Handler) HandleHelp(chatID int64) {
	h.send(chatID,
		"📖 Rules:\n\n"+
			"🎯 Beat the house without going over 21\n\n"+
			"📊 Points:\n"+
			"• 2-10 — face value\n"+
			"• J, Q, K — 10\n"+
			"• A — 11, or 1 if 11 would take you over 21\n\n"+
			"🎮 Actions:\n"+
			"• Get a Hit — take a card\n"+
			"• Stay — the house draws to 17 and the hands are compared\n\n"+
			"⚖️ Ties go to the house.")
}

func (h *Handler) HandleDeal(ctx context.Context, chatID int64) error {
	s, release, err := h.acquire(ctx, chatID)
	if err != nil {
		return err
	}
	defer release()

	// the remote deck moves even when the deal fails
	err = s.Deal(ctx)
	h.saveSeat(chatID, s.Deck())
	if err != nil {
		return err
	}

	v := s.View()
	h.sendCardImages(chatID, v.Player)
	h.sendWithKeyboard(chatID, formatTable(v), GameKeyboard(v))
	return nil
}

func (h *Handler) HandleNewDeck(ctx context.Context, chatID int64) {
	if _, release, err := h.games.Acquire(chatID); err == nil {
		defer release()
	} else if errors.Is(err, game.ErrBusy) {
		h.send(chatID, "⏳ Hold on, drawing cards…")
		return
	}

	s, err := game.NewSession(ctx, h.source, h.opts...)
	if err != nil {
		h.reportError(chatID, "newdeck", err)
		return
	}
	deck := s.Deck()
	h.games.Set(chatID, s)
	h.saveSeat(chatID, deck)

	h.logger.Info("New deck", "chat", chatID, "deck", deck.ID)
	h.sendWithKeyboard(chatID, "🔀 Fresh deck shuffled.", DealKeyboard())
}

func (h *Handler) handleHit(ctx context.Context, chatID int64) error {
	s, release, err := h.acquire(ctx, chatID)
	if err != nil {
		return err
	}
	defer release()

	_, err = s.Hit(ctx)
	h.saveSeat(chatID, s.Deck())
	if err != nil {
		return err
	}

	v := s.View()
	h.sendCardImages(chatID, v.Player)
	h.sendWithKeyboard(chatID, formatTable(v), GameKeyboard(v))
	return nil
}

func (h *Handler) handleStay(ctx context.Context, chatID int64) error {
	s, release, err := h.acquire(ctx, chatID)
	if err != nil {
		return err
	}
	defer release()

	winner, err := s.Stay(ctx)
	h.saveSeat(chatID, s.Deck())
	if err != nil {
		return err
	}

	h.logger.Info("Round resolved", "chat", chatID,
		"player", s.PlayerHand().Score(), "house", s.DealerHand().Score(), "winner", winner)

	v := s.View()
	h.sendCardImages(chatID, v.Dealer)
	h.sendWithKeyboard(chatID, formatTable(v), GameKeyboard(v))
	return nil
}

// ============== CALLBACKS ==============

func (h *Handler) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		h.answerCallback(callback.ID, "")
		return
	}
	chatID := callback.Message.Chat.ID

	var err error
	switch callback.Data {
	case CallbackDeal:
		err = h.HandleDeal(ctx, chatID)
	case CallbackHit:
		err = h.handleHit(ctx, chatID)
	case CallbackStay:
		err = h.handleStay(ctx, chatID)
	default:
		h.answerCallback(callback.ID, "")
		return
	}

	if text, ok := callbackRefusal(err); ok {
		h.answerCallback(callback.ID, text)
		return
	}
	h.answerCallback(callback.ID, "")
	if err != nil {
		h.reportError(chatID, callback.Data, err)
	}
}

// ============== MESSAGES ==============

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	parts := strings.Fields(msg.Text)

	if len(parts) == 0 {
		return
	}

	// commands may carry the bot's name: /deal@deckjack_bot
	cmd, _, _ := strings.Cut(strings.ToLower(parts[0]), "@")

	switch cmd {
	case "/start":
		h.HandleStart(ctx, chatID)
	case "/help":
		h.HandleHelp(chatID)
	case "/deal":
		if err := h.HandleDeal(ctx, chatID); err != nil {
			if text, ok := callbackRefusal(err); ok {
				h.send(chatID, text)
				return
			}
			h.reportError(chatID, "deal", err)
		}
	case "/newdeck":
		h.HandleNewDeck(ctx, chatID)
	}
}
