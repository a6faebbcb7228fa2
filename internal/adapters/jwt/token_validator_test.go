package token_adapter

import (
	"context"
	"session-service/internal/core/domain"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwtCustomClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims(userID uuid.UUID, ttl time.Duration) jwtCustomClaims {
	now := time.Now()
	return jwtCustomClaims{
		UserID: userID,
		Email:  "buyer@example.com",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "auth-service",
		},
	}
}

func TestNewTokenValidator_EmptyKey(t *testing.T) {
	_, err := NewTokenValidator("", "")
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	validator, err := NewTokenValidator(testSecret, "auth-service")
	require.NoError(t, err)
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(userID, time.Hour))

		creds, err := validator.ValidateToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), creds.UserID)
		assert.Equal(t, "buyer@example.com", creds.Email)
		assert.Equal(t, "user", creds.Role)
		assert.Equal(t, token, creds.Token)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(userID, -time.Minute))

		_, err := validator.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("wrong key", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte("another-key"), validClaims(userID, time.Hour))

		_, err := validator.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims(userID, time.Hour))

		_, err := validator.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		claims := validClaims(userID, time.Hour)
		claims.Issuer = "someone-else"
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

		_, err := validator.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("missing user id", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(uuid.Nil, time.Hour))

		_, err := validator.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := validator.ValidateToken(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}
