package service

import (
	"context"
	"fmt"
	"time"

	"food_marketplace/internal/logger"
	"food_marketplace/internal/model"
	"food_marketplace/internal/repository"
	"food_marketplace/internal/utils"

	"github.com/google/uuid"
)

// AccessGuard turns session tokens into actors. Every token points at a
// server-side session, so deleting the session revokes the token.
type AccessGuard struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	jwtUtil  *utils.JWTUtil
	log      *logger.Logger
}

func NewAccessGuard(sessions repository.SessionRepository, users repository.UserRepository, jwtUtil *utils.JWTUtil, log *logger.Logger) *AccessGuard {
	return &AccessGuard{
		sessions: sessions,
		users:    users,
		jwtUtil:  jwtUtil,
		log:      log,
	}
}

// StartSession stores a new session for user and returns its signed token.
func (g *AccessGuard) StartSession(ctx context.Context, user *model.User) (string, error) {
	now := time.Now().UTC()
	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(g.jwtUtil.TTL()),
	}
	if err := g.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	token, err := g.jwtUtil.GenerateToken(session.ID, user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// EndSession destroys the session behind token. Unknown or invalid tokens
// are ignored.
func (g *AccessGuard) EndSession(ctx context.Context, token string) error {
	claims, err := g.jwtUtil.ValidateToken(token)
	if err != nil {
		return nil
	}
	if err := g.sessions.Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// Authenticate resolves token to an actor. A session whose user reference
// is malformed or dangling is destroyed before the request is rejected.
func (g *AccessGuard) Authenticate(ctx context.Context, token string) (*model.Actor, error) {
	if token == "" {
		return nil, ErrNotLoggedIn
	}
	claims, err := g.jwtUtil.ValidateToken(token)
	if err != nil {
		return nil, ErrNotLoggedIn
	}

	session, err := g.sessions.FindByID(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrNotLoggedIn
	}

	if session.UserID != claims.UserID || !isUUID(session.UserID) {
		return nil, g.invalidate(ctx, session, "malformed user reference")
	}
	user, err := g.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	if user == nil {
		return nil, g.invalidate(ctx, session, "user no longer exists")
	}

	return &model.Actor{UserID: user.ID, Role: session.Role}, nil
}

func (g *AccessGuard) invalidate(ctx context.Context, session *model.Session, why string) error {
	g.log.Warn(ctx, "session_invalidated", "Destroying session with unresolvable user",
		"session_id", session.ID, "user_id", session.UserID, "reason", why)
	if err := g.sessions.Delete(ctx, session.ID); err != nil {
		g.log.Error(ctx, "session_invalidate_failed", "Failed to destroy invalid session", err, "session_id", session.ID)
	}
	return ErrSessionInvalid
}

// RequireRole fails with Forbidden unless actor holds one of roles.
func (g *AccessGuard) RequireRole(actor *model.Actor, roles ...string) error {
	if actor == nil {
		return ErrNotLoggedIn
	}
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return ErrAccessDenied
}

// PurgeExpired drops sessions past their expiry.
func (g *AccessGuard) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := g.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return n, nil
}
