package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mboulet/authcore/internal/models"
	"github.com/mboulet/authcore/internal/storage"
	redisstore "github.com/mboulet/authcore/internal/storage/redis"
)

func newTestStore(t *testing.T) (*redisstore.SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redisstore.NewSessionStore(client), mr
}

func newSession(userID int64, tokenValue string, ttl time.Duration) models.RefreshSession {
	now := time.Now()
	return models.RefreshSession{
		UserID:     userID,
		TokenValue: tokenValue,
		IPAddress:  "192.0.2.1",
		UserAgent:  "test-agent",
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestSessionStoreCreateAndFind(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	session := newSession(1, "token-a", time.Hour)
	require.NoError(t, store.CreateSession(ctx, session))

	found, err := store.FindSessionByToken(ctx, "token-a")
	require.NoError(t, err)
	require.Equal(t, session.UserID, found.UserID)
	require.Equal(t, session.TokenValue, found.TokenValue)

	_, err = store.FindSessionByToken(ctx, "token-unknown")
	require.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSessionStoreRejectsExpired(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.CreateSession(context.Background(), newSession(1, "token-a", -time.Minute))
	require.Error(t, err)
}

func TestSessionStoreRotate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateSession(ctx, newSession(1, "token-old", time.Hour)))
	require.NoError(t, store.RotateSession(ctx, "token-old", newSession(1, "token-new", time.Hour)))

	_, err := store.FindSessionByToken(ctx, "token-old")
	require.ErrorIs(t, err, storage.ErrSessionNotFound)

	found, err := store.FindSessionByToken(ctx, "token-new")
	require.NoError(t, err)
	require.Equal(t, int64(1), found.UserID)

	// the consumed token cannot be rotated a second time
	err = store.RotateSession(ctx, "token-old", newSession(1, "token-newer", time.Hour))
	require.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSessionStoreTTLExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateSession(ctx, newSession(1, "token-a", time.Hour)))

	mr.FastForward(2 * time.Hour)

	_, err := store.FindSessionByToken(ctx, "token-a")
	require.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSessionStoreDeleteAllForUser(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateSession(ctx, newSession(1, "token-a", time.Hour)))
	require.NoError(t, store.CreateSession(ctx, newSession(1, "token-b", time.Hour)))
	require.NoError(t, store.CreateSession(ctx, newSession(2, "token-c", time.Hour)))

	require.NoError(t, store.DeleteAllUserSessions(ctx, 1))

	_, err := store.FindSessionByToken(ctx, "token-a")
	require.ErrorIs(t, err, storage.ErrSessionNotFound)
	_, err = store.FindSessionByToken(ctx, "token-b")
	require.ErrorIs(t, err, storage.ErrSessionNotFound)

	// another user's session is untouched
	_, err = store.FindSessionByToken(ctx, "token-c")
	require.NoError(t, err)
}

func TestSessionStoreDeleteIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateSession(ctx, newSession(1, "token-a", time.Hour)))
	require.NoError(t, store.DeleteSession(ctx, "token-a"))
	require.NoError(t, store.DeleteSession(ctx, "token-a"))
}
