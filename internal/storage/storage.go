package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mboulet/authcore/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email is already taken")
	ErrSessionNotFound = errors.New("session not found")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run
// standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type UserRepository interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	GetRoles(ctx context.Context, userID int64) ([]models.Role, error)
	AssignRole(ctx context.Context, userID, roleID int64) error
	RemoveRole(ctx context.Context, userID, roleID int64) error
}

// SessionRepository persists refresh sessions keyed by token value.
// Rotate must admit exactly one winner when the same token is presented
// concurrently; the loser gets ErrSessionNotFound.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.RefreshSession) error
	FindSessionByToken(ctx context.Context, tokenValue string) (*models.RefreshSession, error)
	RotateSession(ctx context.Context, oldTokenValue string, next models.RefreshSession) error
	DeleteSession(ctx context.Context, tokenValue string) error
	DeleteAllUserSessions(ctx context.Context, userID int64) error
}

type Storage interface {
	UserRepository
	SessionRepository
}
