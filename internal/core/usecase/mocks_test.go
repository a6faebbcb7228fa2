package usecase

import (
	"context"
	"session-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

/* ==================== MOCKS ==================== */

/* -------- FavoritesAPI -------- */

type MockFavoritesAPI struct {
	mock.Mock
}

func (m *MockFavoritesAPI) GetFavorites(ctx context.Context) ([]domain.Favorite, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Favorite), args.Error(1)
}

func (m *MockFavoritesAPI) AddToFavorites(ctx context.Context, propertyID int64) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}

func (m *MockFavoritesAPI) RemoveFromFavorites(ctx context.Context, propertyID int64) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}

/* -------- PropertiesAPI -------- */

type MockPropertiesAPI struct {
	mock.Mock
}

func (m *MockPropertiesAPI) GetProperties(ctx context.Context, filters domain.PropertyFilters, page, pageSize int) (*domain.PaginatedProperties, error) {
	args := m.Called(ctx, filters, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaginatedProperties), args.Error(1)
}

func (m *MockPropertiesAPI) GetProperty(ctx context.Context, propertyID int64) (*domain.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertiesAPI) CreateProperty(ctx context.Context, submission domain.PropertySubmission) (*domain.Confirmation, error) {
	args := m.Called(ctx, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}

func (m *MockPropertiesAPI) CreateInquiry(ctx context.Context, inquiry domain.Inquiry) (*domain.Confirmation, error) {
	args := m.Called(ctx, inquiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}

func (m *MockPropertiesAPI) CreateSiteVisit(ctx context.Context, visit domain.SiteVisit) (*domain.Confirmation, error) {
	args := m.Called(ctx, visit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}

/* -------- SearchCache -------- */

type MockSearchCache struct {
	mock.Mock
}

func (m *MockSearchCache) Get(ctx context.Context, filters domain.PropertyFilters, page, pageSize int) (*domain.PaginatedProperties, bool, error) {
	args := m.Called(ctx, filters, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.PaginatedProperties), args.Bool(1), args.Error(2)
}

func (m *MockSearchCache) Set(ctx context.Context, filters domain.PropertyFilters, page, pageSize int, result *domain.PaginatedProperties) error {
	args := m.Called(ctx, filters, page, pageSize, result)
	return args.Error(0)
}

/* -------- ActivityPublisher -------- */

type MockActivityPublisher struct {
	mock.Mock
}

func (m *MockActivityPublisher) Publish(ctx context.Context, event domain.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

/* -------- FormValidator -------- */

type MockFormValidator struct {
	mock.Mock
}

func (m *MockFormValidator) Validate(form string, value interface{}) error {
	args := m.Called(form, value)
	return args.Error(0)
}

/* -------- SavedSearchRepository -------- */

type MockSavedSearchRepository struct {
	mock.Mock
}

func (m *MockSavedSearchRepository) Save(ctx context.Context, search *domain.SavedSearch) error {
	args := m.Called(ctx, search)
	return args.Error(0)
}

func (m *MockSavedSearchRepository) ListByUser(ctx context.Context, userID string) ([]domain.SavedSearch, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavedSearch), args.Error(1)
}

func (m *MockSavedSearchRepository) Get(ctx context.Context, userID string, id uuid.UUID) (*domain.SavedSearch, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedSearch), args.Error(1)
}

func (m *MockSavedSearchRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

/* ==================== HELPERS ==================== */

var testCreds = domain.Credentials{UserID: "user-1", Email: "buyer@example.com", Role: "buyer", Token: "token-1"}

func favoriteOf(favoriteID, propertyID int64) domain.Favorite {
	return domain.Favorite{
		ID: favoriteID,
		Property: domain.PropertySnapshot{
			ID:     propertyID,
			Title:  "Sea view apartment",
			Images: []string{"https://cdn.example.com/1.jpg"},
			Price:  7_500_000,
			City:   "Mumbai",
			State:  "MH",
		},
	}
}
