package usecases_port

import (
	"context"
	"session-service/internal/core/domain"
)

type SearchPropertiesUseCasePort interface {
	Execute(ctx context.Context, filters domain.PropertyFilters, page, pageSize int) (*domain.PaginatedProperties, error)
}
