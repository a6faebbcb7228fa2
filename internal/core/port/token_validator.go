package port

import (
	"context"
	"session-service/internal/core/domain"
)

// TokenValidatorPort проверяет bearer-токен и возвращает учетные данные пользователя.
type TokenValidatorPort interface {
	ValidateToken(ctx context.Context, token string) (*domain.Credentials, error)
}
