package repository

import (
	"context"
	"errors"
	"fmt"

	"food_marketplace/internal/model"

	"github.com/jackc/pgx/v5"
)

// SessionRepository is the server-side session store
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	FindByID(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type sessionRepository struct {
	db DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *model.Session) error {
	sql := `INSERT INTO sessions (id, user_id, role, created_at, expires_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(ctx, sql, s.ID, s.UserID, s.Role, s.CreatedAt, s.ExpiresAt); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID returns a live session. Missing or expired sessions yield (nil, nil).
func (r *sessionRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	s := &model.Session{}
	sql := `SELECT id, user_id, role, created_at, expires_at FROM sessions WHERE id = $1 AND expires_at > NOW()`
	err := r.db.QueryRow(ctx, sql, id).Scan(&s.ID, &s.UserID, &s.Role, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return s, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
