package usecases_port

import (
	"context"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"

	"github.com/google/uuid"
)

type SavedSearchesUseCasePort interface {
	Save(ctx context.Context, userID, name string, filters domain.PropertyFilters) (*domain.SavedSearch, error)
	List(ctx context.Context, userID string) ([]domain.SavedSearch, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	// Apply загружает фильтр сохраненного поиска в состояние формы сессии
	Apply(ctx context.Context, userID string, id uuid.UUID, state port.FilterStatePort) (domain.PropertyFilters, error)
}
