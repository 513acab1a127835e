package seat

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"
)

var ErrNotFound = errors.New("seat not found")

// Seat binds a chat to the remote deck it plays on.
type Seat struct {
	ChatID    int64
	DeckID    string
	Remaining int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	Get(chatID int64) (*Seat, error)
	Save(seat *Seat) error
	Delete(chatID int64) error
}

type SQLiteRepository struct {
	db    *sql.DB
	clock quartz.Clock
}

func NewRepository(db *sql.DB, clock quartz.Clock) *SQLiteRepository {
	return &SQLiteRepository{db: db, clock: clock}
}

func (r *SQLiteRepository) Get(chatID int64) (*Seat, error) {
	s := &Seat{ChatID: chatID}

	err := r.db.QueryRow(`
		SELECT deck_id, remaining, created_at, updated_at
		FROM seats WHERE chat_id = ?
	`, chatID).Scan(&s.DeckID, &s.Remaining, &s.CreatedAt, &s.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}
	return s, nil
}

// Save inserts or updates the seat and stamps its timestamps.
func (r *SQLiteRepository) Save(s *Seat) error {
	now := r.clock.Now().UTC()

	_, err := r.db.Exec(`
		INSERT INTO seats (chat_id, deck_id, remaining, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			deck_id = excluded.deck_id,
			remaining = excluded.remaining,
			updated_at = excluded.updated_at
	`, s.ChatID, s.DeckID, s.Remaining, now, now)
	if err != nil {
		return fmt.Errorf("failed to save seat: %w", err)
	}

	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	return nil
}

func (r *SQLiteRepository) Delete(chatID int64) error {
	if _, err := r.db.Exec(`DELETE FROM seats WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("failed to delete seat: %w", err)
	}
	return nil
}
