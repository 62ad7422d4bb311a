package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mboulet/authcore/internal/models"
	"github.com/mboulet/authcore/internal/storage"
)

const (
	sessionKeyPrefix = "refresh:session:"
	userKeyPrefix    = "refresh:user:"
)

// SessionStore keeps refresh sessions in Redis, one key per token value with
// a TTL matching the session expiry, plus a per-user set for bulk revocation.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(tokenValue string) string { return sessionKeyPrefix + tokenValue }

func userKey(userID int64) string { return userKeyPrefix + strconv.FormatInt(userID, 10) }

func (s *SessionStore) CreateSession(ctx context.Context, session models.RefreshSession) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refresh session already expired")
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal refresh session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.TokenValue), payload, ttl)
	pipe.SAdd(ctx, userKey(session.UserID), session.TokenValue)
	// the user index only needs to outlive the longest session in it
	pipe.Expire(ctx, userKey(session.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store refresh session: %w", err)
	}
	return nil
}

func (s *SessionStore) FindSessionByToken(ctx context.Context, tokenValue string) (*models.RefreshSession, error) {
	payload, err := s.client.Get(ctx, sessionKey(tokenValue)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh session: %w", err)
	}

	var session models.RefreshSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal refresh session: %w", err)
	}
	return &session, nil
}

// RotateSession relies on GETDEL being atomic: of any number of concurrent
// rotations of the same token, exactly one observes the old session.
func (s *SessionStore) RotateSession(ctx context.Context, oldTokenValue string, next models.RefreshSession) error {
	payload, err := s.client.GetDel(ctx, sessionKey(oldTokenValue)).Result()
	if errors.Is(err, redis.Nil) {
		return storage.ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to consume refresh session: %w", err)
	}

	var old models.RefreshSession
	if err := json.Unmarshal([]byte(payload), &old); err != nil {
		return fmt.Errorf("failed to unmarshal refresh session: %w", err)
	}
	if err := s.client.SRem(ctx, userKey(old.UserID), oldTokenValue).Err(); err != nil {
		return fmt.Errorf("failed to unindex refresh session: %w", err)
	}

	return s.CreateSession(ctx, next)
}

func (s *SessionStore) DeleteSession(ctx context.Context, tokenValue string) error {
	payload, err := s.client.GetDel(ctx, sessionKey(tokenValue)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete refresh session: %w", err)
	}

	var session models.RefreshSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil
	}
	return s.client.SRem(ctx, userKey(session.UserID), tokenValue).Err()
}

func (s *SessionStore) DeleteAllUserSessions(ctx context.Context, userID int64) error {
	tokens, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, sessionKey(token))
	}
	pipe.Del(ctx, userKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
