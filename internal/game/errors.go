package game

import (
	"errors"
	"fmt"
)

var (
	ErrNotInProgress = errors.New("no round in progress")
	ErrStaying       = errors.New("player is already staying")
	ErrDeckExhausted = errors.New("not enough cards left in deck")
	ErrShortDraw     = errors.New("card source returned the wrong number of cards")
	ErrNoSession     = errors.New("no game session")
	ErrBusy          = errors.New("a draw is still pending")
)

// DeckInitError means the shuffled deck could not be created and the session
// cannot start.
type DeckInitError struct {
	Err error
}

func (e *DeckInitError) Error() string {
	return fmt.Sprintf("failed to create deck: %v", e.Err)
}

func (e *DeckInitError) Unwrap() error { return e.Err }

// DrawError means a draw (or reshuffle) request failed. The session that
// issued it is unchanged.
type DrawError struct {
	Op    string
	Count int
	Err   error
}

func (e *DrawError) Error() string {
	if e.Count > 0 {
		return fmt.Sprintf("%s: failed to draw %d card(s): %v", e.Op, e.Count, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DrawError) Unwrap() error { return e.Err }
