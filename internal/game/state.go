package game

import (
	"context"
	"errors"
	"fmt"
)

type State int

const (
	NotStarted State = iota
	InProgress
	Resolved
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Winner int

const (
	WinnerNone Winner = iota
	WinnerPlayer
	WinnerHouse
)

func (w Winner) String() string {
	switch w {
	case WinnerPlayer:
		return "player"
	case WinnerHouse:
		return "house"
	default:
		return "none"
	}
}

func (w Winner) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// Resolve picks the winner of a finished round. The player has to beat the
// dealer without going over 21; everything else, ties included, goes to the
// house.
func Resolve(playerScore, dealerScore int) Winner {
	if playerScore > dealerScore && playerScore <= 21 {
		return WinnerPlayer
	}
	return WinnerHouse
}

// Below this many cards the deck is reshuffled before the next deal.
const DefaultReshuffleBelow = 10

type Option func(*Session)

// WithReshuffleBelow sets the reshuffle threshold. Zero disables reshuffling.
func WithReshuffleBelow(n int) Option {
	return func(s *Session) {
		s.reshuffleBelow = n
	}
}

// Session is one player's game against the house on a single remote deck.
// It is not safe for concurrent use; see Manager.
type Session struct {
	source         CardSource
	deck           Deck
	reshuffleBelow int

	player  Hand
	dealer  Hand
	state   State
	staying bool
	winner  Winner
}

func NewSession(ctx context.Context, source CardSource, opts ...Option) (*Session, error) {
	deck, err := source.NewShuffledDeck(ctx)
	if err != nil {
		return nil, &DeckInitError{Err: err}
	}
	if deck.ID == "" {
		return nil, &DeckInitError{Err: errors.New("card source returned an empty deck id")}
	}
	return ResumeSession(source, deck, opts...), nil
}

// ResumeSession starts a session on a deck created earlier.
func ResumeSession(source CardSource, deck Deck, opts ...Option) *Session {
	s := &Session{
		source:         source,
		deck:           deck,
		reshuffleBelow: DefaultReshuffleBelow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Deck() Deck       { return s.deck }
func (s *Session) State() State     { return s.state }
func (s *Session) Staying() bool    { return s.staying }
func (s *Session) Winner() Winner   { return s.winner }
func (s *Session) PlayerHand() Hand { return s.player.With() }
func (s *Session) DealerHand() Hand { return s.dealer.With() }

// Deal starts a new round: two cards to the player, then two to the dealer.
// Hands are only replaced once both draws have succeeded.
func (s *Session) Deal(ctx context.Context) error {
	if s.reshuffleBelow > 0 && s.deck.Remaining < s.reshuffleBelow {
		deck, err := s.source.Shuffle(ctx, s.deck.ID)
		if err != nil {
			return &DrawError{Op: "shuffle", Err: err}
		}
		s.deck.Remaining = deck.Remaining

		// the cards in hand are back in the deck, so the old round is over
		s.player = nil
		s.dealer = nil
		s.state = NotStarted
		s.staying = false
		s.winner = WinnerNone
	}

	player, err := s.draw(ctx, "deal", 2)
	if err != nil {
		return err
	}
	dealer, err := s.draw(ctx, "deal", 2)
	if err != nil {
		return err
	}

	s.player = Hand(nil).With(player...)
	s.dealer = Hand(nil).With(dealer...)
	s.state = InProgress
	s.staying = false
	s.winner = WinnerNone
	return nil
}

// Hit draws one card for the player. Going over 21 does not end the round.
func (s *Session) Hit(ctx context.Context) (Card, error) {
	if err := s.checkPlayerTurn(); err != nil {
		return Card{}, err
	}

	cards, err := s.draw(ctx, "hit", 1)
	if err != nil {
		return Card{}, err
	}

	s.player = s.player.With(cards...)
	return cards[0], nil
}

// Stay ends the player's turn, lets the dealer play out and resolves the
// round.
func (s *Session) Stay(ctx context.Context) (Winner, error) {
	if err := s.checkPlayerTurn(); err != nil {
		return WinnerNone, err
	}

	dealer, err := s.dealerPlay(ctx, s.dealer)
	if err != nil {
		return WinnerNone, err
	}

	s.dealer = dealer
	s.staying = true
	s.state = Resolved
	s.winner = Resolve(s.player.Score(), s.dealer.Score())
	return s.winner, nil
}

// dealerPlay draws one card at a time while the hand is on 16 or less.
func (s *Session) dealerPlay(ctx context.Context, hand Hand) (Hand, error) {
	for hand.Score() <= 16 {
		cards, err := s.draw(ctx, "dealer", 1)
		if err != nil {
			return nil, err
		}
		hand = hand.With(cards...)
	}
	return hand, nil
}

func (s *Session) checkPlayerTurn() error {
	if s.state != InProgress {
		return ErrNotInProgress
	}
	if s.staying {
		return ErrStaying
	}
	return nil
}

func (s *Session) draw(ctx context.Context, op string, count int) ([]Card, error) {
	cards, err := s.source.Draw(ctx, s.deck.ID, count)
	if err != nil {
		return nil, &DrawError{Op: op, Count: count, Err: err}
	}
	if len(cards) != count {
		return nil, &DrawError{
			Op:    op,
			Count: count,
			Err:   fmt.Errorf("%w: want %d, got %d", ErrShortDraw, count, len(cards)),
		}
	}

	// the cards are gone from the remote deck whether or not the caller keeps them
	s.deck.Remaining = max(s.deck.Remaining-count, 0)
	return cards, nil
}

// View is a read-only snapshot of a session for rendering. The dealer's
// cards stay hidden until the player stays.
type View struct {
	State       State
	Staying     bool
	Deck        Deck
	Player      Hand
	PlayerScore int
	Dealer      Hand
	DealerScore int
	DealerCards int
	Winner      Winner
}

func (s *Session) View() View {
	v := View{
		State:       s.state,
		Staying:     s.staying,
		Deck:        s.deck,
		Player:      s.player.With(),
		PlayerScore: s.player.Score(),
		DealerCards: len(s.dealer),
		Winner:      s.winner,
	}
	if s.staying {
		v.Dealer = s.dealer.With()
		v.DealerScore = s.dealer.Score()
	}
	return v
}
