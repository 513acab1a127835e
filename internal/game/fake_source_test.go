package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// scriptedSource deals a fixed sequence of cards and records every request.
type scriptedSource struct {
	deckID    string
	cards     []Card
	remaining int

	newDeckErr error
	shuffleErr error
	// failOn makes the n-th Draw call (1-based) fail.
	failOn  int
	drawErr error

	draws    []int
	shuffles int
}

func newScriptedSource(codes ...string) *scriptedSource {
	return &scriptedSource{
		deckID:    "deck-1",
		cards:     cardsOf(codes...),
		remaining: 52,
	}
}

func (s *scriptedSource) NewShuffledDeck(ctx context.Context) (Deck, error) {
	if s.newDeckErr != nil {
		return Deck{}, s.newDeckErr
	}
	return Deck{ID: s.deckID, Remaining: s.remaining}, nil
}

func (s *scriptedSource) Draw(ctx context.Context, deckID string, count int) ([]Card, error) {
	s.draws = append(s.draws, count)
	if s.failOn == len(s.draws) {
		if s.drawErr != nil {
			return nil, s.drawErr
		}
		return nil, errors.New("connection reset")
	}
	if count > len(s.cards) {
		return nil, ErrDeckExhausted
	}
	out := s.cards[:count]
	s.cards = s.cards[count:]
	s.remaining -= count
	return out, nil
}

func (s *scriptedSource) Shuffle(ctx context.Context, deckID string) (Deck, error) {
	s.shuffles++
	if s.shuffleErr != nil {
		return Deck{}, s.shuffleErr
	}
	s.remaining = 52
	return Deck{ID: deckID, Remaining: s.remaining}, nil
}

// cardsOf builds cards from short codes such as "AS", "10H", "KD".
func cardsOf(codes ...string) []Card {
	suits := map[byte]Suit{'S': Spades, 'H': Hearts, 'D': Diamonds, 'C': Clubs}
	out := make([]Card, 0, len(codes))
	for _, code := range codes {
		rank := Rank(code[:len(code)-1])
		suit, ok := suits[code[len(code)-1]]
		if !ok {
			panic(fmt.Sprintf("bad card code %q", code))
		}
		out = append(out, Card{
			Rank:  rank,
			Suit:  suit,
			Code:  strings.Replace(code, "10", "0", 1),
			Image: "https://cards.test/" + code + ".png",
		})
	}
	return out
}
