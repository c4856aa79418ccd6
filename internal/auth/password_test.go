package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerent/carfleet/internal/auth"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hasher := auth.NewPasswordHasher()

	t.Run("round trip", func(t *testing.T) {
		encoded, err := hasher.Hash("correct_password")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

		ok, err := hasher.Verify("correct_password", encoded)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password", func(t *testing.T) {
		encoded, err := hasher.Hash("correct_password")
		require.NoError(t, err)

		ok, err := hasher.Verify("wrong_password", encoded)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		first, err := hasher.Hash("correct_password")
		require.NoError(t, err)
		second, err := hasher.Hash("correct_password")
		require.NoError(t, err)

		assert.NotEqual(t, first, second, "salts must differ")
	})

	t.Run("malformed hash", func(t *testing.T) {
		_, err := hasher.Verify("anything", "not-a-hash")
		assert.Error(t, err)
	})
}
