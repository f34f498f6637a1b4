package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/config"
	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:          "test-secret-with-enough-length",
		Issuer:             "surat-izin",
		TokenExpiryMinutes: 30,
	}
}

func TestJWTValidator_RoundTrip(t *testing.T) {
	v := NewJWTValidator(testAuthConfig())
	user := &domain.User{ID: 7, Username: "satpam01", DisplayName: "Komandan Regu", Role: domain.RoleSatpam}

	token, err := v.IssueToken(user)
	require.NoError(t, err)

	userCtx, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userCtx.UserID)
	assert.Equal(t, "satpam01", userCtx.Username)
	assert.Equal(t, "Komandan Regu", userCtx.DisplayName)
	assert.Equal(t, domain.RoleSatpam, userCtx.Role)
}

func TestJWTValidator_Expired(t *testing.T) {
	v := NewJWTValidator(testAuthConfig())
	v.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := v.IssueToken(&domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin})
	require.NoError(t, err)

	v.now = time.Now
	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTValidator_RejectsTamperedTokens(t *testing.T) {
	v := NewJWTValidator(testAuthConfig())

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTValidator(&config.AuthConfig{JWTSecret: "another-secret", Issuer: "surat-izin", TokenExpiryMinutes: 30})
		token, err := other.IssueToken(&domain.User{ID: 1, Role: domain.RoleAdmin})
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTValidator(&config.AuthConfig{JWTSecret: "test-secret-with-enough-length", Issuer: "elsewhere", TokenExpiryMinutes: 30})
		token, err := other.IssueToken(&domain.User{ID: 1, Role: domain.RoleAdmin})
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := v.IssueToken(&domain.User{ID: 1, Role: "superuser"})
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("signing method none", func(t *testing.T) {
		claims := Claims{UserID: 1, Role: "admin", RegisteredClaims: jwt.RegisteredClaims{Issuer: "surat-izin"}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTValidator_NoSecret(t *testing.T) {
	v := NewJWTValidator(&config.AuthConfig{Issuer: "surat-izin"})
	_, err := v.IssueToken(&domain.User{ID: 1, Role: domain.RoleAdmin})
	assert.Error(t, err)

	_, err = v.ValidateToken("anything")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
