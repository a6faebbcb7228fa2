package usecase

import (
	"context"
	"fmt"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxSavedSearchNameLen = 100

// SavedSearchesUseCase управляет сохраненными поисками пользователя.
// Работает только для аутентифицированных сессий: userID обязателен.
type SavedSearchesUseCase struct {
	repo port.SavedSearchRepositoryPort
	now  func() time.Time
}

func NewSavedSearchesUseCase(repo port.SavedSearchRepositoryPort) *SavedSearchesUseCase {
	return &SavedSearchesUseCase{repo: repo, now: time.Now}
}

// Save сохраняет нормализованную копию фильтра под именем.
func (uc *SavedSearchesUseCase) Save(ctx context.Context, userID, name string, filters domain.PropertyFilters) (*domain.SavedSearch, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SaveSearch",
		"user_id":  userID,
	})
	ucLogger.Info("Use case started", nil)

	if userID == "" {
		return nil, fmt.Errorf("save search: %w", domain.ErrUnauthenticated)
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxSavedSearchNameLen {
		return nil, fmt.Errorf("%w: name must be 1..%d characters", domain.ErrValidation, maxSavedSearchNameLen)
	}
	if err := filters.ValidateRanges(); err != nil {
		return nil, err
	}

	search := &domain.SavedSearch{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Filters:   filters.Normalize(),
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.repo.Save(ctx, search); err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"saved_search_id": search.ID})
	return search, nil
}

func (uc *SavedSearchesUseCase) List(ctx context.Context, userID string) ([]domain.SavedSearch, error) {
	if userID == "" {
		return nil, fmt.Errorf("list saved searches: %w", domain.ErrUnauthenticated)
	}
	searches, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Repository returned an error", err, port.Fields{
			"use_case": "ListSavedSearches",
			"user_id":  userID,
		})
		return nil, err
	}
	return searches, nil
}

func (uc *SavedSearchesUseCase) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if userID == "" {
		return fmt.Errorf("delete saved search: %w", domain.ErrUnauthenticated)
	}
	if err := uc.repo.Delete(ctx, userID, id); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Failed to delete saved search", port.Fields{
			"use_case":        "DeleteSavedSearch",
			"user_id":         userID,
			"saved_search_id": id,
			"error":           err.Error(),
		})
		return err
	}
	return nil
}

// Apply загружает сохраненный фильтр в состояние формы сессии, как пресет.
func (uc *SavedSearchesUseCase) Apply(ctx context.Context, userID string, id uuid.UUID, state port.FilterStatePort) (domain.PropertyFilters, error) {
	if userID == "" {
		return domain.PropertyFilters{}, fmt.Errorf("apply saved search: %w", domain.ErrUnauthenticated)
	}
	search, err := uc.repo.Get(ctx, userID, id)
	if err != nil {
		return domain.PropertyFilters{}, err
	}
	state.SetFilters(search.Filters)

	contextkeys.LoggerFromContext(ctx).Info("Saved search applied", port.Fields{
		"use_case":        "ApplySavedSearch",
		"user_id":         userID,
		"saved_search_id": id,
	})
	return state.Filters(), nil
}
