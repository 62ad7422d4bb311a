package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDurationOrDefault(t *testing.T) {
	const key = "TEST_DURATION_VAR"

	t.Run("unset uses default", func(t *testing.T) {
		require.Equal(t, time.Minute, parseDurationOrDefault(key, time.Minute))
	})

	t.Run("go duration syntax", func(t *testing.T) {
		t.Setenv(key, "15m")
		require.Equal(t, 15*time.Minute, parseDurationOrDefault(key, time.Minute))
	})

	t.Run("bare number is seconds", func(t *testing.T) {
		t.Setenv(key, "900")
		require.Equal(t, 900*time.Second, parseDurationOrDefault(key, time.Minute))
	})

	t.Run("garbage falls back", func(t *testing.T) {
		t.Setenv(key, "soon")
		require.Equal(t, time.Minute, parseDurationOrDefault(key, time.Minute))
	})
}

func TestNewTokenConfigSecondsTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "900")
	t.Setenv("REFRESH_TOKEN_TTL", "604800")

	cfg := NewTokenConfig()
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
}
