package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 60)

	token, exp, err := tm.GenerateToken("user-1", "Ada", true)
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	other := NewTokenManager("other-secret", 60)

	token, _, err := tm.GenerateToken("user-1", "Ada", false)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	_, err := tm.ParseToken("not.a.token")
	assert.Error(t, err)
}
