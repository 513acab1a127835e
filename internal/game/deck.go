package game

import "context"

type Rank string

const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

var CardValues = map[Rank]int{
	Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7, Eight: 8, Nine: 9, Ten: 10,
	Jack: 10, Queen: 10, King: 10, Ace: 11,
}

type Suit string

const (
	Spades   Suit = "SPADES"
	Hearts   Suit = "HEARTS"
	Diamonds Suit = "DIAMONDS"
	Clubs    Suit = "CLUBS"
)

// Card is a card as handed out by the card source. Image is a display
// reference that the engine never looks at.
type Card struct {
	Rank  Rank
	Suit  Suit
	Code  string
	Image string
}

func (c Card) String() string {
	suit := "?"
	switch c.Suit {
	case Hearts:
		suit = "♥"
	case Diamonds:
		suit = "♦"
	case Clubs:
		suit = "♣"
	case Spades:
		suit = "♠"
	}
	return string(c.Rank) + suit
}

// Deck identifies a shuffled deck living on the card source.
type Deck struct {
	ID        string
	Remaining int
}

// CardSource shuffles and deals on behalf of the engine.
//
// Draw must return exactly count cards or an error, never a partial set.
// Shuffle returns every drawn card to the deck.
type CardSource interface {
	NewShuffledDeck(ctx context.Context) (Deck, error)
	Draw(ctx context.Context, deckID string, count int) ([]Card, error)
	Shuffle(ctx context.Context, deckID string) (Deck, error)
}
