package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthLoginAndValidate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("olivo-2024"), bcrypt.MinCost)
	require.NoError(t, err)
	auth := NewAuthService(string(hash), "test-secret", time.Hour)
	require.True(t, auth.Enabled())

	_, err = auth.Login(LoginRequest{Passcode: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidPasscode)

	tok, err := auth.Login(LoginRequest{Passcode: "olivo-2024"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.NoError(t, auth.ValidateToken(tok.Token))

	other := NewAuthService(string(hash), "other-secret", time.Hour)
	assert.Error(t, other.ValidateToken(tok.Token))
	assert.Error(t, auth.ValidateToken("garbage"))
}

func TestAuthExpiredToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("x"), bcrypt.MinCost)
	require.NoError(t, err)
	auth := NewAuthService(string(hash), "s", time.Hour).(*authService)
	auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := auth.Login(LoginRequest{Passcode: "x"})
	require.NoError(t, err)
	assert.Error(t, auth.ValidateToken(tok.Token))
}

func TestAuthDisabled(t *testing.T) {
	auth := NewAuthService("", "", time.Hour)
	assert.False(t, auth.Enabled())
	_, err := auth.Login(LoginRequest{Passcode: "x"})
	assert.ErrorIs(t, err, ErrAuthDisabled)
}
