package port

import (
	"context"
	"session-service/internal/core/domain"
)

// FavoritesAPIPort - контракт клиента marketplace API для избранного.
// Токен пользователя берется из контекста (contextkeys.ContextWithAuthToken).
type FavoritesAPIPort interface {
	GetFavorites(ctx context.Context) ([]domain.Favorite, error)
	AddToFavorites(ctx context.Context, propertyID int64) error
	RemoveFromFavorites(ctx context.Context, propertyID int64) error
}

// PropertiesAPIPort - контракт клиента marketplace API для объектов и форм.
type PropertiesAPIPort interface {
	GetProperties(ctx context.Context, filters domain.PropertyFilters, page, pageSize int) (*domain.PaginatedProperties, error)
	GetProperty(ctx context.Context, propertyID int64) (*domain.Property, error)
	CreateProperty(ctx context.Context, submission domain.PropertySubmission) (*domain.Confirmation, error)
	CreateInquiry(ctx context.Context, inquiry domain.Inquiry) (*domain.Confirmation, error)
	CreateSiteVisit(ctx context.Context, visit domain.SiteVisit) (*domain.Confirmation, error)
}
