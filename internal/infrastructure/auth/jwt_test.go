package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhohoweb/shoe-app/internal/infrastructure/config"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars!!",
		Expiration: expiration,
		Issuer:     "shoe-app-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestService(time.Hour)

	token, expiresAt, err := svc.GenerateToken("admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "shoe-app-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	svc := newTestService(-time.Minute)

	token, _, err := svc.GenerateToken("admin")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	svc := newTestService(time.Hour)
	other := NewJWTService(config.JWTConfig{
		Secret:     "a-completely-different-secret-key!!!",
		Expiration: time.Hour,
		Issuer:     "shoe-app-test",
	})

	token, _, err := other.GenerateToken("admin")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateToken_Garbage(t *testing.T) {
	svc := newTestService(time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
