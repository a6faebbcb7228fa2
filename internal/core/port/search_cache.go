package port

import (
	"context"
	"session-service/internal/core/domain"
)

// SearchCachePort - кэш страниц результатов поиска.
// Промах кэша - это (nil, false, nil); ошибки кэша не должны ломать поиск.
type SearchCachePort interface {
	Get(ctx context.Context, filters domain.PropertyFilters, page, pageSize int) (*domain.PaginatedProperties, bool, error)
	Set(ctx context.Context, filters domain.PropertyFilters, page, pageSize int, result *domain.PaginatedProperties) error
}
