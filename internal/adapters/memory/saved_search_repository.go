package memory_adapter

import (
	"context"
	"fmt"
	"session-service/internal/core/domain"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// SavedSearchRepository хранит сохраненные поиски в памяти процесса.
// Используется, когда DATABASE_URL не задан (локальная разработка): данные теряются при рестарте.
type SavedSearchRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]domain.SavedSearch
}

func NewSavedSearchRepository() *SavedSearchRepository {
	return &SavedSearchRepository{items: make(map[uuid.UUID]domain.SavedSearch)}
}

func (r *SavedSearchRepository) Save(ctx context.Context, search *domain.SavedSearch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.UserID == search.UserID && strings.EqualFold(existing.Name, search.Name) && existing.ID != search.ID {
			return fmt.Errorf("%w: saved search %q already exists", domain.ErrValidation, search.Name)
		}
	}
	stored := *search
	stored.Filters = search.Filters.Clone()
	r.items[search.ID] = stored
	return nil
}

// ListByUser возвращает поиски пользователя, новые первыми.
func (r *SavedSearchRepository) ListByUser(ctx context.Context, userID string) ([]domain.SavedSearch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.SavedSearch{}
	for _, s := range r.items {
		if s.UserID == userID {
			s.Filters = s.Filters.Clone()
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *SavedSearchRepository) Get(ctx context.Context, userID string, id uuid.UUID) (*domain.SavedSearch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	if !ok || s.UserID != userID {
		return nil, fmt.Errorf("%w: saved search %s", domain.ErrNotFound, id)
	}
	s.Filters = s.Filters.Clone()
	return &s, nil
}

func (r *SavedSearchRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok || s.UserID != userID {
		return fmt.Errorf("%w: saved search %s", domain.ErrNotFound, id)
	}
	delete(r.items, id)
	return nil
}
