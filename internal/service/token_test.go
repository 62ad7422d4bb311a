package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/mboulet/authcore/internal/models"
	"github.com/mboulet/authcore/internal/service"
	"github.com/mboulet/authcore/internal/util"
)

func newTokenService(secret string) *service.TokenService {
	return service.NewTokenService(&util.TokenConfig{
		JwtSecretKey: []byte(secret),
		AccessTTL:    15 * time.Minute,
		RefreshTTL:   7 * 24 * time.Hour,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	ts := newTokenService("test-secret")
	identity := models.Identity{ID: 42, Email: "a@example.com"}

	token, err := ts.Sign(identity, time.Now(), ts.AccessTTL())
	require.NoError(t, err)

	claims, err := ts.Verify(token)
	require.NoError(t, err)
	require.Equal(t, identity, claims.Identity())
}

func TestTokenExpiryBoundary(t *testing.T) {
	ts := newTokenService("test-secret")
	identity := models.Identity{ID: 1, Email: "a@example.com"}
	ttl := 30 * time.Second

	// just inside the validity window
	fresh, err := ts.Sign(identity, time.Now(), ttl)
	require.NoError(t, err)
	_, err = ts.Verify(fresh)
	require.NoError(t, err)

	// past expiry by more than the parser leeway
	stale, err := ts.Sign(identity, time.Now().Add(-ttl-2*util.JWTLeeway), ttl)
	require.NoError(t, err)
	_, err = ts.Verify(stale)
	require.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestTokenWrongKeyRejected(t *testing.T) {
	signer := newTokenService("key-one")
	verifier := newTokenService("key-two")

	token, err := signer.Sign(models.Identity{ID: 1, Email: "a@example.com"}, time.Now(), time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, service.ErrTokenSignatureInvalid)
}

func TestTokenAlgConfusionRejected(t *testing.T) {
	ts := newTokenService("test-secret")
	claims := jwt.MapClaims{
		"id":    int64(1),
		"email": "a@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}

	t.Run("different HMAC variant", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = ts.Verify(token)
		require.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ts.Verify(token)
		require.Error(t, err)
	})
}

func TestTokenMalformedRejected(t *testing.T) {
	ts := newTokenService("test-secret")

	for _, token := range []string{"", "garbage", "a.b.c", "ey.ey.ey"} {
		_, err := ts.Verify(token)
		require.ErrorIs(t, err, service.ErrTokenMalformed, "token %q", token)
	}
}

func TestTokenWithoutExpiryRejected(t *testing.T) {
	ts := newTokenService("test-secret")
	claims := jwt.MapClaims{"id": int64(1), "email": "a@example.com"}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ts.Verify(token)
	require.Error(t, err)
}
