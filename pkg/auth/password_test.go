package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	t.Run("produces phc formatted hash", func(t *testing.T) {
		t.Parallel()

		hash, err := HashPassword("SecurePass123!")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
		assert.Len(t, strings.Split(hash, "$"), 6)
	})

	t.Run("salts every hash", func(t *testing.T) {
		t.Parallel()

		first, err := HashPassword("SecurePass123!")
		require.NoError(t, err)
		second, err := HashPassword("SecurePass123!")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	t.Run("accepts matching password", func(t *testing.T) {
		t.Parallel()

		hash, err := HashPassword("SecurePass123!")
		require.NoError(t, err)

		ok, err := VerifyPassword(hash, "SecurePass123!")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		t.Parallel()

		hash, err := HashPassword("SecurePass123!")
		require.NoError(t, err)

		ok, err := VerifyPassword(hash, "WrongPass123!")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed hash is an error not a mismatch", func(t *testing.T) {
		t.Parallel()

		for _, hash := range []string{
			"",
			"not-a-hash",
			"$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$a2V5",
			"$argon2id$v=18$m=65536,t=3,p=4$c2FsdA$a2V5",
			"$argon2id$v=19$m=65536,t=3,p=4$!!!$a2V5",
		} {
			ok, err := VerifyPassword(hash, "SecurePass123!")
			require.Error(t, err, "hash %q", hash)
			assert.False(t, ok)
		}
	})
}
