package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewManager("secret", time.Hour)

	token, err := manager.GenerateToken("652f1a2b3c4d5e6f7a8b9c0d", "teacher")
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "652f1a2b3c4d5e6f7a8b9c0d", claims.UserID)
	assert.Equal(t, "teacher", claims.Role)
	assert.NotEmpty(t, claims.ID, "token must carry a revocable ID")
}

func TestTokenIDsAreUnique(t *testing.T) {
	manager := NewManager("secret", time.Hour)

	first, err := manager.GenerateToken("a", "student")
	require.NoError(t, err)
	second, err := manager.GenerateToken("a", "student")
	require.NoError(t, err)

	c1, err := manager.ValidateToken(first)
	require.NoError(t, err)
	c2, err := manager.ValidateToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("one", time.Hour).GenerateToken("a", "admin")
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	manager := NewManager("secret", -time.Minute)
	token, err := manager.GenerateToken("a", "admin")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewManager("secret", time.Hour).ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
