package usecase

import (
	"context"
	"session-service/internal/core/domain"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSavedSearches_SaveNormalizesFilters(t *testing.T) {
	repo := new(MockSavedSearchRepository)
	uc := NewSavedSearchesUseCase(repo)

	filters := domain.DefaultFilters()
	filters.Amenities = []string{"Gym", "gym"}

	repo.On("Save", mock.Anything, mock.MatchedBy(func(s *domain.SavedSearch) bool {
		return s.UserID == "user-1" && s.Name == "Weekend homes" && len(s.Filters.Amenities) == 1 && s.ID != uuid.Nil
	})).Return(nil).Once()

	saved, err := uc.Save(context.Background(), "user-1", "  Weekend homes ", filters)
	require.NoError(t, err)
	assert.Equal(t, []string{"gym"}, saved.Filters.Amenities)
	repo.AssertExpectations(t)
}

func TestSavedSearches_RequiresUser(t *testing.T) {
	repo := new(MockSavedSearchRepository)
	uc := NewSavedSearchesUseCase(repo)

	_, err := uc.Save(context.Background(), "", "x", domain.DefaultFilters())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = uc.List(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	err = uc.Delete(context.Background(), "", uuid.New())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = uc.Save(context.Background(), "user-1", "   ", domain.DefaultFilters())
	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSavedSearches_ApplyLoadsFilterState(t *testing.T) {
	repo := new(MockSavedSearchRepository)
	uc := NewSavedSearchesUseCase(repo)
	state := NewFilterState(testPriceBounds, testAreaBounds)

	id := uuid.New()
	preset, err := domain.PresetByName(domain.PresetRentalHouses)
	require.NoError(t, err)
	repo.On("Get", mock.Anything, "user-1", id).
		Return(&domain.SavedSearch{ID: id, UserID: "user-1", Name: "Rent", Filters: preset.Filters}, nil).Once()

	filters, err := uc.Apply(context.Background(), "user-1", id, state)
	require.NoError(t, err)
	assert.Equal(t, preset.Filters, filters)
	assert.Equal(t, preset.Filters.ActiveCount(), state.ActiveFilterCount())

	missing := uuid.New()
	repo.On("Get", mock.Anything, "user-1", missing).Return(nil, domain.ErrNotFound).Once()
	_, err = uc.Apply(context.Background(), "user-1", missing, state)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
