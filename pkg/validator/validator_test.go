package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/validator"
)

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{
		"user@example.com",
		"first.last@sub.example.co",
		"user+tag@example.org",
	}
	for _, email := range valid {
		assert.NoError(t, validator.Apply(validator.ValidEmail("email", email)), email)
	}

	invalid := []string{
		"",
		"   ",
		"plainaddress",
		"@example.com",
		"user@localhost",
		"Name <user@example.com>",
	}
	for _, email := range invalid {
		assert.Error(t, validator.Apply(validator.ValidEmail("email", email)), email)
	}
}

func TestStrongPassword(t *testing.T) {
	t.Parallel()

	cfg := validator.DefaultPasswordStrength()

	assert.NoError(t, validator.Apply(validator.StrongPassword("password", "correct-horse1", cfg)))
	assert.Error(t, validator.Apply(validator.StrongPassword("password", "short1", cfg)), "too short")
	assert.Error(t, validator.Apply(validator.StrongPassword("password", "lowercaseonly", cfg)), "one class")

	t.Run("max length enforced", func(t *testing.T) {
		t.Parallel()

		long := make([]byte, 129)
		for i := range long {
			long[i] = 'a'
		}
		assert.Error(t, validator.Apply(validator.StrongPassword("password", string(long)+"1A", cfg)))
	})
}

func TestApply(t *testing.T) {
	t.Parallel()

	err := validator.Apply(
		validator.ValidEmail("email", "bad"),
		validator.StrongPassword("password", "x", validator.DefaultPasswordStrength()),
	)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}
