package bot

import (
	"deckjack/internal/game"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	CallbackDeal = "deal"
	CallbackHit  = "hit"
	CallbackStay = "stay"
)

// GameKeyboard offers hit and stay only while the player still has a turn.
func GameKeyboard(v game.View) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 2)

	if v.State == game.InProgress && !v.Staying {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👊 Get a Hit", CallbackHit),
			tgbotapi.NewInlineKeyboardButtonData("✋ Stay", CallbackStay),
		))
	}

	rows = append(rows, DealKeyboard().InlineKeyboard...)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func DealKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🃏 Deal Hands", CallbackDeal),
		),
	)
}
