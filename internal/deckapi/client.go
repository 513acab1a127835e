package deckapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"deckjack/internal/game"

	"github.com/charmbracelet/log"
)

const DefaultBaseURL = "https://deckofcardsapi.com"

var ErrDeckNotFound = errors.New("deck does not exist")

// APIError is a failed response from the deck service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("deck api http %d", e.Status)
	}
	return fmt.Sprintf("deck api http %d: %s", e.Status, e.Message)
}

// Client talks to a deckofcardsapi.com compatible service and implements
// game.CardSource.
type Client struct {
	baseURL   string
	deckCount int
	http      *http.Client
	logger    *log.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithDeckCount(n int) Option {
	return func(c *Client) { c.deckCount = n }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

func New(baseURL string, logger *log.Logger, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		deckCount: 1,
		http:      &http.Client{Timeout: 10 * time.Second},
		logger:    logger.WithPrefix("deckapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiCard struct {
	Code  string `json:"code"`
	Image string `json:"image"`
	Value string `json:"value"`
	Suit  string `json:"suit"`
}

type apiResponse struct {
	Success   bool      `json:"success"`
	DeckID    string    `json:"deck_id"`
	Shuffled  bool      `json:"shuffled"`
	Remaining int       `json:"remaining"`
	Cards     []apiCard `json:"cards"`
	Error     string    `json:"error"`
}

func (c *Client) NewShuffledDeck(ctx context.Context) (game.Deck, error) {
	q := url.Values{"deck_count": {strconv.Itoa(c.deckCount)}}
	resp, err := c.get(ctx, "/api/deck/new/shuffle/", q)
	if err != nil {
		return game.Deck{}, err
	}
	if resp.DeckID == "" {
		return game.Deck{}, errors.New("deck api returned no deck_id")
	}

	c.logger.Info("Shuffled new deck", "deck", resp.DeckID, "remaining", resp.Remaining)
	return game.Deck{ID: resp.DeckID, Remaining: resp.Remaining}, nil
}

// Draw returns exactly count cards. A response with fewer cards, even one the
// service marks successful, is an error and its cards are discarded.
func (c *Client) Draw(ctx context.Context, deckID string, count int) ([]game.Card, error) {
	if count < 1 {
		return nil, fmt.Errorf("invalid draw count %d", count)
	}

	q := url.Values{"count": {strconv.Itoa(count)}}
	resp, err := c.get(ctx, "/api/deck/"+url.PathEscape(deckID)+"/draw/", q)
	if err != nil {
		return nil, err
	}
	if len(resp.Cards) != count {
		return nil, fmt.Errorf("%w: want %d, got %d", game.ErrShortDraw, count, len(resp.Cards))
	}

	cards := make([]game.Card, 0, count)
	for _, ac := range resp.Cards {
		card, err := toCard(ac)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	c.logger.Debug("Drew cards", "deck", deckID, "count", count, "remaining", resp.Remaining)
	return cards, nil
}

func (c *Client) Shuffle(ctx context.Context, deckID string) (game.Deck, error) {
	resp, err := c.get(ctx, "/api/deck/"+url.PathEscape(deckID)+"/shuffle/", nil)
	if err != nil {
		return game.Deck{}, err
	}

	c.logger.Info("Reshuffled deck", "deck", deckID, "remaining", resp.Remaining)
	return game.Deck{ID: deckID, Remaining: resp.Remaining}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (*apiResponse, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deck api request: %w", err)
	}
	defer res.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(res.Body); err != nil {
		return nil, fmt.Errorf("deck api read body: %w", err)
	}

	var resp apiResponse
	decodeErr := json.Unmarshal(buf.Bytes(), &resp)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, classify(&APIError{Status: res.StatusCode, Message: resp.Error})
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("deck api decode: %w", decodeErr)
	}
	if !resp.Success {
		return nil, classify(&APIError{Status: res.StatusCode, Message: resp.Error})
	}
	return &resp, nil
}

func classify(apiErr *APIError) error {
	msg := strings.ToLower(apiErr.Message)
	switch {
	case strings.Contains(msg, "not enough cards"):
		return fmt.Errorf("%w: %w", game.ErrDeckExhausted, apiErr)
	case strings.Contains(msg, "does not exist") || apiErr.Status == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrDeckNotFound, apiErr)
	}
	return apiErr
}

var ranks = map[string]game.Rank{
	"2": game.Two, "3": game.Three, "4": game.Four, "5": game.Five, "6": game.Six,
	"7": game.Seven, "8": game.Eight, "9": game.Nine, "10": game.Ten,
	"JACK": game.Jack, "QUEEN": game.Queen, "KING": game.King, "ACE": game.Ace,
}

func toCard(ac apiCard) (game.Card, error) {
	rank, ok := ranks[strings.ToUpper(ac.Value)]
	if !ok {
		return game.Card{}, fmt.Errorf("unknown card value %q", ac.Value)
	}
	return game.Card{
		Rank:  rank,
		Suit:  game.Suit(strings.ToUpper(ac.Suit)),
		Code:  ac.Code,
		Image: ac.Image,
	}, nil
}
