package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	t.Run("Should round trip user and role", func(t *testing.T) {
		token, expiresAt, err := m.Issue("user-1", "recruiter")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		claims, err := m.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "recruiter", claims.Role)
	})

	t.Run("Should reject token signed with another secret", func(t *testing.T) {
		other := NewTokenManager("other-secret", time.Hour)
		token, _, err := other.Issue("user-1", "applicant")
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject expired token", func(t *testing.T) {
		expired := NewTokenManager("test-secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := expired.Issue("user-1", "applicant")
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject none algorithm", func(t *testing.T) {
		claims := Claims{UserID: "user-1", Role: "recruiter"}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject garbage", func(t *testing.T) {
		_, err := m.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)

		_, err = m.Verify("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
