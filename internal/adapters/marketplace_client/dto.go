package marketplace_client

import (
	"session-service/internal/core/domain"
	"time"
)

// Конверт ответа marketplace API: {"success": true, "data": {...}}
type envelope[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type propertySnapshotDTO struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Images    []string `json:"images"`
	Price     int64    `json:"price"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Bedrooms  int      `json:"bedrooms"`
	Bathrooms int      `json:"bathrooms"`
}

type favoriteDTO struct {
	ID       int64               `json:"id"`
	Property propertySnapshotDTO `json:"property"`
}

type favoritesData struct {
	Favorites []favoriteDTO `json:"favorites"`
}

type addFavoriteRequest struct {
	PropertyID int64 `json:"property_id"`
}

type ownerDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type propertyDTO struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	PropertyType string    `json:"property_type"`
	ListingType  string    `json:"listing_type"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	AreaSqft     int64     `json:"area_sqft"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	Status       string    `json:"status"`
	Images       []string  `json:"images"`
	Amenities    []string  `json:"amenities"`
	IsFeatured   bool      `json:"is_featured"`
	Owner        *ownerDTO `json:"owner,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type propertiesData struct {
	Properties []propertyDTO `json:"properties"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}

type propertyData struct {
	Property propertyDTO `json:"property"`
}

type confirmationDTO struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (dto favoriteDTO) toDomain() domain.Favorite {
	return domain.Favorite{
		ID: dto.ID,
		Property: domain.PropertySnapshot{
			ID:        dto.Property.ID,
			Title:     dto.Property.Title,
			Images:    dto.Property.Images,
			Price:     dto.Property.Price,
			City:      dto.Property.City,
			State:     dto.Property.State,
			Bedrooms:  dto.Property.Bedrooms,
			Bathrooms: dto.Property.Bathrooms,
		},
	}
}

func (dto propertyDTO) toDomain() domain.Property {
	p := domain.Property{
		ID:           dto.ID,
		Title:        dto.Title,
		Description:  dto.Description,
		Price:        dto.Price,
		PropertyType: domain.PropertyType(dto.PropertyType),
		ListingType:  domain.ListingType(dto.ListingType),
		Bedrooms:     dto.Bedrooms,
		Bathrooms:    dto.Bathrooms,
		AreaSqft:     dto.AreaSqft,
		Address:      dto.Address,
		City:         dto.City,
		State:        dto.State,
		PostalCode:   dto.PostalCode,
		Status:       dto.Status,
		Images:       dto.Images,
		Amenities:    dto.Amenities,
		IsFeatured:   dto.IsFeatured,
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
	}
	if dto.Owner != nil {
		p.Owner = &domain.Owner{
			ID:    dto.Owner.ID,
			Name:  dto.Owner.Name,
			Email: dto.Owner.Email,
			Phone: dto.Owner.Phone,
		}
	}
	return p
}

func (dto confirmationDTO) toDomain() *domain.Confirmation {
	return &domain.Confirmation{ID: dto.ID, Status: dto.Status, CreatedAt: dto.CreatedAt}
}
