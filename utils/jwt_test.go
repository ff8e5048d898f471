package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateToken("user-1", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	claims, err = ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestParseToken_RejectsExpiredAndForeignTokens(t *testing.T) {
	SetJWTSecret("test-secret")
	expired, err := GenerateToken("user-1", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	SetJWTSecret("other-secret")
	foreign, err := GenerateToken("user-1", time.Hour)
	require.NoError(t, err)
	SetJWTSecret("test-secret")
	_, err = ParseToken(foreign)
	assert.Error(t, err)
}
