package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mboulet/authcore/internal/models"
	"github.com/mboulet/authcore/internal/storage"
	"github.com/mboulet/authcore/internal/storage/memory"
)

func TestSessionStoreRotateSingleUse(t *testing.T) {
	store := memory.NewSessionStore()
	ctx := context.Background()

	session := models.RefreshSession{UserID: 1, TokenValue: "token-old", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.CreateSession(ctx, session))

	next := models.RefreshSession{UserID: 1, TokenValue: "token-new", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.RotateSession(ctx, "token-old", next))

	_, err := store.FindSessionByToken(ctx, "token-old")
	require.ErrorIs(t, err, storage.ErrSessionNotFound)

	err = store.RotateSession(ctx, "token-old", next)
	require.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSessionStoreDeleteAllForUser(t *testing.T) {
	store := memory.NewSessionStore()
	ctx := context.Background()

	expires := time.Now().Add(time.Hour)
	require.NoError(t, store.CreateSession(ctx, models.RefreshSession{UserID: 1, TokenValue: "a", ExpiresAt: expires}))
	require.NoError(t, store.CreateSession(ctx, models.RefreshSession{UserID: 1, TokenValue: "b", ExpiresAt: expires}))
	require.NoError(t, store.CreateSession(ctx, models.RefreshSession{UserID: 2, TokenValue: "c", ExpiresAt: expires}))

	require.NoError(t, store.DeleteAllUserSessions(ctx, 1))

	_, err := store.FindSessionByToken(ctx, "a")
	require.ErrorIs(t, err, storage.ErrSessionNotFound)
	_, err = store.FindSessionByToken(ctx, "b")
	require.ErrorIs(t, err, storage.ErrSessionNotFound)
	_, err = store.FindSessionByToken(ctx, "c")
	require.NoError(t, err)
}
