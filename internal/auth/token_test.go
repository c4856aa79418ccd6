package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerent/carfleet/internal/auth"
)

func TestTokenManager(t *testing.T) {
	tm := auth.NewTokenManager("test_secret", time.Hour)
	userID := uuid.New().String()

	t.Run("generate and validate", func(t *testing.T) {
		token, err := tm.Generate(userID, "owner@example.com", "owner")
		require.NoError(t, err)

		claims, err := tm.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "owner@example.com", claims.Email)
		assert.Equal(t, "owner", claims.Role)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := tm.Generate(userID, "owner@example.com", "owner")
		require.NoError(t, err)

		other := auth.NewTokenManager("different_secret", time.Hour)
		_, err = other.Validate(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		short := auth.NewTokenManager("test_secret", -time.Minute)
		token, err := short.Generate(userID, "owner@example.com", "owner")
		require.NoError(t, err)

		_, err = short.Validate(token)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := tm.Validate("garbage")
		assert.Error(t, err)
	})
}
