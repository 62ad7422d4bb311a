package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mboulet/authcore/internal/service"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hasher := service.NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hash)

	ok, err := hasher.Verify("password123", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = hasher.Verify("wrong-password", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPasswordHashSalted(t *testing.T) {
	hasher := service.NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("password123")
	require.NoError(t, err)
	second, err := hasher.Hash("password123")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestPasswordMalformedHash(t *testing.T) {
	hasher := service.NewPasswordHasher(bcrypt.MinCost)

	_, err := hasher.Verify("password123", "not-a-bcrypt-hash")
	require.ErrorIs(t, err, service.ErrInvalidHashFormat)
}

func TestPasswordCostClamped(t *testing.T) {
	// out-of-range work factors fall back to the bcrypt default
	hasher := service.NewPasswordHasher(99)

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, cost)
}
