package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mboulet/authcore/internal/models"
	"github.com/mboulet/authcore/internal/storage"
)

type SessionRepository struct {
	db storage.DBTX
}

func NewSessionRepository(db storage.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateSession(ctx context.Context, session models.RefreshSession) error {
	query := `INSERT INTO refresh_sessions (user_id, token_value, ip_address, user_agent, expires_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		session.UserID,
		session.TokenValue,
		session.IPAddress,
		session.UserAgent,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert refresh session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindSessionByToken(ctx context.Context, tokenValue string) (*models.RefreshSession, error) {
	var session models.RefreshSession
	query := `SELECT id, user_id, token_value, ip_address, user_agent, expires_at, consumed_at, created_at, updated_at
	          FROM refresh_sessions WHERE token_value = $1`
	err := r.db.QueryRowContext(ctx, query, tokenValue).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenValue,
		&session.IPAddress,
		&session.UserAgent,
		&session.ExpiresAt,
		&session.ConsumedAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get refresh session: %w", err)
	}
	return &session, nil
}

// consumeSession marks an active session as consumed. The WHERE guard makes
// concurrent consumption of the same token admit exactly one winner.
func (r *SessionRepository) consumeSession(ctx context.Context, tokenValue string) error {
	query := `UPDATE refresh_sessions SET consumed_at = now(), updated_at = now()
	          WHERE token_value = $1 AND consumed_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, tokenValue)
	if err != nil {
		return fmt.Errorf("failed to consume refresh session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read consume result: %w", err)
	}
	if affected == 0 {
		return storage.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteSession(ctx context.Context, tokenValue string) error {
	query := `DELETE FROM refresh_sessions WHERE token_value = $1`
	if _, err := r.db.ExecContext(ctx, query, tokenValue); err != nil {
		return fmt.Errorf("failed to delete refresh session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteAllUserSessions(ctx context.Context, userID int64) error {
	query := `DELETE FROM refresh_sessions WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
