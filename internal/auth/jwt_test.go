package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	secret := "test-secret-key"
	issuer := "test-issuer"
	expiration := 24 * time.Hour

	t.Run("Generate valid token", func(t *testing.T) {
		token, err := GenerateToken("user123", "testuser", "admin", secret, issuer, expiration)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("Generate token with different user details", func(t *testing.T) {
		token1, err := GenerateToken("user1", "alice", "user", secret, issuer, expiration)
		require.NoError(t, err)

		token2, err := GenerateToken("user2", "bob", "admin", secret, issuer, expiration)
		require.NoError(t, err)

		assert.NotEqual(t, token1, token2, "Tokens for different users should be different")
	})
}

func TestValidateToken(t *testing.T) {
	secret := "test-secret-key"
	issuer := "test-issuer"
	expiration := 24 * time.Hour

	t.Run("Validate valid token", func(t *testing.T) {
		token, err := GenerateToken("user123", "testuser", "admin", secret, issuer, expiration)
		require.NoError(t, err)

		claims, err := ValidateToken(token, secret)
		require.NoError(t, err)
		assert.Equal(t, "user123", claims.UserID)
		assert.Equal(t, "testuser", claims.Username)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, issuer, claims.Issuer)
	})

	t.Run("Validate token with wrong secret", func(t *testing.T) {
		token, err := GenerateToken("user123", "testuser", "admin", secret, issuer, expiration)
		require.NoError(t, err)

		_, err = ValidateToken(token, "wrong-secret")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse token")
	})

	t.Run("Validate expired token", func(t *testing.T) {
		token, err := GenerateToken("user123", "testuser", "admin", secret, issuer, -1*time.Hour)
		require.NoError(t, err)

		_, err = ValidateToken(token, secret)
		assert.Error(t, err)
	})

	t.Run("Validate malformed token", func(t *testing.T) {
		_, err := ValidateToken("not-a-token", secret)
		assert.Error(t, err)
	})
}
