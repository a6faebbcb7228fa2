package usecases_port

import (
	"context"
	"session-service/internal/core/domain"
)

type GetPropertyDetailsUseCasePort interface {
	Execute(ctx context.Context, propertyID int64) (*domain.Property, error)
}
