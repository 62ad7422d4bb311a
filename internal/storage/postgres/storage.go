package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mboulet/authcore/internal/models"
)

type Storage struct {
	db *sql.DB
	*UserRepository
	*SessionRepository
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		db:                db,
		UserRepository:    NewUserRepository(db),
		SessionRepository: NewSessionRepository(db),
	}
}

// RotateSession consumes the old refresh session and inserts its replacement
// in a single transaction, so a presented token can never be redeemed twice
// and a replacement can never exist without its predecessor being dead.
func (s *Storage) RotateSession(ctx context.Context, oldTokenValue string, next models.RefreshSession) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	sessionRepoTx := NewSessionRepository(tx)

	if err := sessionRepoTx.consumeSession(ctx, oldTokenValue); err != nil {
		return err
	}
	if err := sessionRepoTx.CreateSession(ctx, next); err != nil {
		return fmt.Errorf("failed to create replacement session in tx: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
