package service

import (
	"context"

	"github.com/mboulet/authcore/internal/models"
)

// UserStore is what AuthService needs from the user record store.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionStore is what AuthService needs from the refresh session store.
type SessionStore interface {
	CreateSession(ctx context.Context, session models.RefreshSession) error
	FindSessionByToken(ctx context.Context, tokenValue string) (*models.RefreshSession, error)
	RotateSession(ctx context.Context, oldTokenValue string, next models.RefreshSession) error
	DeleteSession(ctx context.Context, tokenValue string) error
	DeleteAllUserSessions(ctx context.Context, userID int64) error
}
