package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	cfg := DefaultConfig("test-secret")

	token, err := GenerateToken(42, "admin@example.com", "admin", cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "42", claims.Subject)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := DefaultConfig("test-secret")
	cfg.AccessExpiry = -time.Minute

	token, err := GenerateToken(1, "user@example.com", "user", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(token, "test-secret")
	assert.Error(t, err)
}

func TestGenerateRequiresConfig(t *testing.T) {
	_, err := GenerateToken(1, "a@b.c", "user", nil)
	assert.Error(t, err)
}
