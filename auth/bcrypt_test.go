package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notable-io/notable/auth"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes and verifies", func(t *testing.T) {
		hash, err := auth.HashPassword("123")
		require.NoError(t, err)
		assert.NotEqual(t, "123", hash)

		assert.NoError(t, auth.ComparePasswordAndHash("123", hash))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := auth.HashPassword("")
		assert.ErrorIs(t, err, auth.ErrNoEmptyString)
	})

	t.Run("hashes are salted", func(t *testing.T) {
		first, err := auth.HashPassword("123")
		require.NoError(t, err)

		second, err := auth.HashPassword("123")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := auth.HashPassword("123")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		err := auth.ComparePasswordAndHash("456", hash)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("not a hash", func(t *testing.T) {
		err := auth.ComparePasswordAndHash("123", "not-a-hash")
		assert.Error(t, err)
	})
}
