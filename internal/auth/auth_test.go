package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tk := NewTokens("test-secret", time.Hour)

	raw, err := tk.Make("uid-1", "alice")
	require.NoError(t, err)

	c, err := tk.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", c.UserID)
	assert.Equal(t, "alice", c.Username)

	diff := time.Until(c.ExpiresAt.Time)
	assert.True(t, diff > 59*time.Minute && diff <= time.Hour, "expiry %v", diff)
}

func TestDefaultTTL(t *testing.T) {
	tk := NewTokens("s", 0)
	assert.Equal(t, DefaultTTL, tk.ttl)
}

func TestTokenExpired(t *testing.T) {
	tk := NewTokens("s", time.Minute)
	tk.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err := tk.Make("uid", "bob")
	require.NoError(t, err)

	tk.now = time.Now
	_, err = tk.Parse(raw)
	require.Error(t, err)
}

func TestAlgorithmConfusion(t *testing.T) {
	tk := NewTokens("secret", time.Hour)

	// wrong secret
	raw, _ := NewTokens("other", time.Hour).Make("uid", "x")
	_, err := tk.Parse(raw)
	require.Error(t, err)

	// garbage
	_, err = tk.Parse("not.a.token")
	require.Error(t, err)

	// alg none
	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "uid"})
	raw, err = none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tk.Parse(raw)
	require.Error(t, err)
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "hunter22"))
	assert.False(t, CheckPassword(h, "hunter23"))
}
