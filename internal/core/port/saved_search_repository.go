package port

import (
	"context"
	"session-service/internal/core/domain"

	"github.com/google/uuid"
)

// SavedSearchRepositoryPort - хранилище сохраненных поисков пользователя.
type SavedSearchRepositoryPort interface {
	Save(ctx context.Context, search *domain.SavedSearch) error
	ListByUser(ctx context.Context, userID string) ([]domain.SavedSearch, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (*domain.SavedSearch, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}
