package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"deckjack/internal/game"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes game sessions over a small JSON API for a browser front end.
type Server struct {
	source game.CardSource
	games  *game.Manager[string]
	opts   []game.Option
	logger *log.Logger
	newID  func() string
}

func NewServer(source game.CardSource, logger *log.Logger, opts ...game.Option) *Server {
	return &Server{
		source: source,
		games:  game.NewManager[string](),
		opts:   opts,
		logger: logger.WithPrefix("web"),
		newID:  randomID,
	}
}

func randomID() string {
	b := make([]byte, 12)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "games": s.games.Len()})
	})

	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", s.createGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getGame)
			r.Delete("/", s.deleteGame)
			r.Post("/deal", s.act(func(ctx context.Context, g *game.Session) error {
				return g.Deal(ctx)
			}))
			r.Post("/hit", s.act(func(ctx context.Context, g *game.Session) error {
				_, err := g.Hit(ctx)
				return err
			}))
			r.Post("/stay", s.act(func(ctx context.Context, g *game.Session) error {
				_, err := g.Stay(ctx)
				return err
			}))
		})
	})

	return r
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

type gameResponse struct {
	ID          string      `json:"id"`
	State       game.State  `json:"state"`
	Staying     bool        `json:"staying"`
	DeckID      string      `json:"deck_id"`
	Remaining   int         `json:"remaining"`
	Player      []cardJSON  `json:"player"`
	PlayerScore int         `json:"player_score"`
	Dealer      []cardJSON  `json:"dealer"`
	DealerScore *int        `json:"dealer_score"`
	DealerCards int         `json:"dealer_cards"`
	Winner      game.Winner `json:"winner"`
}

type cardJSON struct {
	Code  string `json:"code"`
	Rank  string `json:"rank"`
	Suit  string `json:"suit"`
	Image string `json:"image"`
}

func toCards(h game.Hand) []cardJSON {
	out := make([]cardJSON, len(h))
	for i, c := range h {
		out[i] = cardJSON{Code: c.Code, Rank: string(c.Rank), Suit: string(c.Suit), Image: c.Image}
	}
	return out
}

func toResponse(id string, v game.View) gameResponse {
	resp := gameResponse{
		ID:          id,
		State:       v.State,
		Staying:     v.Staying,
		DeckID:      v.Deck.ID,
		Remaining:   v.Deck.Remaining,
		Player:      toCards(v.Player),
		PlayerScore: v.PlayerScore,
		Dealer:      toCards(v.Dealer),
		DealerCards: v.DealerCards,
		Winner:      v.Winner,
	}
	if v.Staying {
		score := v.DealerScore
		resp.DealerScore = &score
	}
	return resp
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	g, err := game.NewSession(r.Context(), s.source, s.opts...)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id := s.newID()
	v := g.View()
	s.games.Set(id, g)
	s.logger.Info("Game created", "game", id, "deck", v.Deck.ID)
	writeJSON(w, http.StatusCreated, toResponse(id, v))
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := s.games.View(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(id, v))
}

func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.games.Get(id) == nil {
		s.writeError(w, game.ErrNoSession)
		return
	}
	s.games.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) act(fn func(ctx context.Context, g *game.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		g, release, err := s.games.Acquire(id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		defer release()

		if err := fn(r.Context(), g); err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(id, g.View()))
	}
}

func statusFor(err error) int {
	var initErr *game.DeckInitError
	var drawErr *game.DrawError
	switch {
	case errors.Is(err, game.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, game.ErrBusy),
		errors.Is(err, game.ErrNotInProgress),
		errors.Is(err, game.ErrStaying):
		return http.StatusConflict
	case errors.As(err, &initErr), errors.As(err, &drawErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("Request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
