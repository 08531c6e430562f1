package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m, err := NewTokenManager("secret", "jobnest", time.Hour)
	require.NoError(t, err)

	token, err := m.Issue("user-1")
	require.NoError(t, err)

	sub, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestTokenManager_Rejects(t *testing.T) {
	m, err := NewTokenManager("secret", "jobnest", time.Hour)
	require.NoError(t, err)

	other, err := NewTokenManager("other-secret", "jobnest", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue("user-1")
	require.NoError(t, err)

	wrongIssuer, err := NewTokenManager("secret", "someone-else", time.Hour)
	require.NoError(t, err)
	foreign, err := wrongIssuer.Issue("user-1")
	require.NoError(t, err)

	expiredMgr, err := NewTokenManager("secret", "jobnest", time.Hour)
	require.NoError(t, err)
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredMgr.Issue("user-1")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1", Issuer: "jobnest"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": forged,
		"wrong issuer": foreign,
		"expired":      expired,
		"alg none":     none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", "jobnest", time.Hour)
	assert.Error(t, err)
}
