package token_adapter

import (
	"context"
	"errors"
	"fmt"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenValidator проверяет токены, выпущенные сервисом аутентификации.
// Ключ подписи общий с ним (JWT_SECRET), сами токены здесь не выпускаются.
type TokenValidator struct {
	signingKey []byte
	issuer     string
}

func NewTokenValidator(signingKey, issuer string) (*TokenValidator, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("JWT signing key cannot be empty")
	}
	return &TokenValidator{signingKey: []byte(signingKey), issuer: issuer}, nil
}

// jwtCustomClaims повторяет claims сервиса аутентификации.
type jwtCustomClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// ValidateToken проверяет подпись и срок действия и возвращает учетные данные для сессии.
// Любая ошибка проверки оборачивает domain.ErrUnauthenticated.
func (v *TokenValidator) ValidateToken(ctx context.Context, tokenString string) (*domain.Credentials, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "TokenValidator",
		"method":    "ValidateToken",
	})

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Warn("Token has expired", nil)
			return nil, fmt.Errorf("%w: token has expired", domain.ErrUnauthenticated)
		}
		logger.Warn("Invalid token format or signature", port.Fields{"error": err.Error()})
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		logger.Warn("Token was parsed, but claims are unusable", nil)
		return nil, fmt.Errorf("%w: invalid token claims", domain.ErrUnauthenticated)
	}

	logger.Debug("Token validated successfully", port.Fields{"user_id": claims.UserID.String(), "role": claims.Role})
	return &domain.Credentials{
		UserID: claims.UserID.String(),
		Email:  claims.Email,
		Role:   claims.Role,
		Token:  tokenString,
	}, nil
}
