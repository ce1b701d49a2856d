package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("Hash password successfully", func(t *testing.T) {
		hash, err := HashPassword("password123")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "password123", hash)
	})

	t.Run("Same password produces different hashes", func(t *testing.T) {
		hash1, err := HashPassword("password123")
		require.NoError(t, err)

		hash2, err := HashPassword("password123")
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2, "bcrypt salts should differ")
	})
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	t.Run("Correct password verifies", func(t *testing.T) {
		assert.NoError(t, VerifyPassword("password123", hash))
	})

	t.Run("Wrong password fails", func(t *testing.T) {
		assert.Error(t, VerifyPassword("wrongpassword", hash))
	})

	t.Run("Empty password fails", func(t *testing.T) {
		assert.Error(t, VerifyPassword("", hash))
	})
}

func TestValidatePasswordStrength(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid password", "password123", false},
		{"Too short", "pass1", true},
		{"No numbers", "passwordonly", true},
		{"No letters", "12345678", true},
		{"Exactly eight with both", "abcdefg1", false},
		{"Empty", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tc.password)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
