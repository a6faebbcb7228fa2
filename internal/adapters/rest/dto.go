package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"session-service/internal/core/domain"
	"session-service/internal/core/usecase"
	"time"

	"github.com/google/uuid"
)

// --- Фильтры ---

// FiltersDTO - JSON-представление фильтра. null или отсутствие поля означает "не задано".
type FiltersDTO struct {
	Location      string   `json:"location"`
	PropertyTypes []string `json:"property_types"`
	ListingType   *string  `json:"listing_type"`
	MinPrice      *int64   `json:"min_price"`
	MaxPrice      *int64   `json:"max_price"`
	MinArea       *int64   `json:"min_area"`
	MaxArea       *int64   `json:"max_area"`
	Bedrooms      *int     `json:"bedrooms"`
	Bathrooms     *int     `json:"bathrooms"`
	Amenities     []string `json:"amenities"`
	IsFeatured    *bool    `json:"is_featured"`
	IsActive      *bool    `json:"is_active"`
}

type RangeDTO struct {
	Min *int64 `json:"min"`
	Max *int64 `json:"max"`
}

type FilterStateResponse struct {
	Filters     FiltersDTO `json:"filters"`
	PriceRange  RangeDTO   `json:"price_range"`
	AreaRange   RangeDTO   `json:"area_range"`
	ActiveCount int        `json:"active_filter_count"`
	IsDirty     bool       `json:"is_dirty"`
}

type PresetResponse struct {
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Filters     FiltersDTO `json:"filters"`
	ActiveCount int        `json:"active_filter_count"`
}

func toFiltersDTO(f domain.PropertyFilters) FiltersDTO {
	dto := FiltersDTO{
		Location:      f.Location,
		PropertyTypes: make([]string, len(f.PropertyTypes)),
		MinPrice:      f.MinPrice,
		MaxPrice:      f.MaxPrice,
		MinArea:       f.MinArea,
		MaxArea:       f.MaxArea,
		Bedrooms:      f.Bedrooms,
		Bathrooms:     f.Bathrooms,
		Amenities:     append([]string{}, f.Amenities...),
		IsFeatured:    f.IsFeatured,
		IsActive:      f.IsActive,
	}
	for i, t := range f.PropertyTypes {
		dto.PropertyTypes[i] = string(t)
	}
	if f.ListingType != nil {
		lt := string(*f.ListingType)
		dto.ListingType = &lt
	}
	return dto
}

func (dto FiltersDTO) toDomain() domain.PropertyFilters {
	f := domain.PropertyFilters{
		Location:      dto.Location,
		PropertyTypes: make([]domain.PropertyType, len(dto.PropertyTypes)),
		MinPrice:      dto.MinPrice,
		MaxPrice:      dto.MaxPrice,
		MinArea:       dto.MinArea,
		MaxArea:       dto.MaxArea,
		Bedrooms:      dto.Bedrooms,
		Bathrooms:     dto.Bathrooms,
		Amenities:     append([]string{}, dto.Amenities...),
		IsFeatured:    dto.IsFeatured,
		IsActive:      dto.IsActive,
	}
	for i, t := range dto.PropertyTypes {
		f.PropertyTypes[i] = domain.PropertyType(t)
	}
	if dto.ListingType != nil {
		f.ListingType = domain.Listing(domain.ListingType(*dto.ListingType))
	}
	return f
}

func toFilterStateResponse(s usecase.FilterSnapshot) FilterStateResponse {
	return FilterStateResponse{
		Filters:     toFiltersDTO(s.Filters),
		PriceRange:  RangeDTO{Min: s.PriceRange.Min, Max: s.PriceRange.Max},
		AreaRange:   RangeDTO{Min: s.AreaRange.Min, Max: s.AreaRange.Max},
		ActiveCount: s.ActiveCount,
		IsDirty:     s.Dirty,
	}
}

// decodeFiltersPatch разбирает PATCH-тело: отсутствующий ключ не меняет поле, null очищает его.
func decodeFiltersPatch(body []byte) (domain.FiltersPatch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.FiltersPatch{}, fmt.Errorf("invalid JSON body: %w", err)
	}

	var p domain.FiltersPatch
	var err error
	for key, value := range raw {
		switch key {
		case "location":
			var s *string
			if err = json.Unmarshal(value, &s); err == nil {
				p.Location = domain.Patch("")
				if s != nil {
					p.Location = domain.Patch(*s)
				}
			}
		case "property_types":
			var types []domain.PropertyType
			if err = json.Unmarshal(value, &types); err == nil {
				if types == nil {
					types = []domain.PropertyType{}
				}
				p.PropertyTypes = domain.Patch(types)
			}
		case "listing_type":
			p.ListingType, err = patchPtr[domain.ListingType](value)
		case "min_price":
			p.MinPrice, err = patchPtr[int64](value)
		case "max_price":
			p.MaxPrice, err = patchPtr[int64](value)
		case "min_area":
			p.MinArea, err = patchPtr[int64](value)
		case "max_area":
			p.MaxArea, err = patchPtr[int64](value)
		case "bedrooms":
			p.Bedrooms, err = patchPtr[int](value)
		case "bathrooms":
			p.Bathrooms, err = patchPtr[int](value)
		case "amenities":
			var amenities []string
			if err = json.Unmarshal(value, &amenities); err == nil {
				if amenities == nil {
					amenities = []string{}
				}
				p.Amenities = domain.Patch(amenities)
			}
		case "is_featured":
			p.IsFeatured, err = patchPtr[bool](value)
		case "is_active":
			p.IsActive, err = patchPtr[bool](value)
		default:
			return domain.FiltersPatch{}, fmt.Errorf("unknown filter field %q", key)
		}
		if err != nil {
			return domain.FiltersPatch{}, fmt.Errorf("invalid value for %q: %w", key, err)
		}
	}
	return p, nil
}

func patchPtr[T any](raw json.RawMessage) (domain.PatchField[*T], error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return domain.PatchField[*T]{Set: true}, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return domain.PatchField[*T]{}, err
	}
	return domain.Patch(&v), nil
}

// --- Избранное ---

type PropertySnapshotResponse struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Images    []string `json:"images"`
	Price     int64    `json:"price"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Bedrooms  int      `json:"bedrooms"`
	Bathrooms int      `json:"bathrooms"`
}

type FavoriteResponse struct {
	ID       int64                    `json:"id"`
	Property PropertySnapshotResponse `json:"property"`
}

type FavoritesStateResponse struct {
	Favorites     []FavoriteResponse `json:"favorites"`
	Loading       bool               `json:"loading"`
	Authenticated bool               `json:"authenticated"`
	Error         string             `json:"error,omitempty"`
	LoadedAt      *time.Time         `json:"loaded_at,omitempty"`
}

type AddFavoriteRequest struct {
	PropertyID int64 `json:"property_id"`
}

type IsFavoriteResponse struct {
	PropertyID int64 `json:"property_id"`
	IsFavorite bool  `json:"is_favorite"`
}

func toFavoritesStateResponse(s domain.FavoritesState) FavoritesStateResponse {
	resp := FavoritesStateResponse{
		Favorites:     make([]FavoriteResponse, len(s.Favorites)),
		Loading:       s.Loading,
		Authenticated: s.Authenticated,
	}
	for i, f := range s.Favorites {
		resp.Favorites[i] = FavoriteResponse{
			ID: f.ID,
			Property: PropertySnapshotResponse{
				ID:        f.Property.ID,
				Title:     f.Property.Title,
				Images:    f.Property.Images,
				Price:     f.Property.Price,
				City:      f.Property.City,
				State:     f.Property.State,
				Bedrooms:  f.Property.Bedrooms,
				Bathrooms: f.Property.Bathrooms,
			},
		}
	}
	if s.Err != nil {
		resp.Error = s.Err.Error()
	}
	if !s.LoadedAt.IsZero() {
		loadedAt := s.LoadedAt
		resp.LoadedAt = &loadedAt
	}
	return resp
}

// --- Объекты ---

type OwnerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type PropertyResponse struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Price        int64          `json:"price"`
	PropertyType string         `json:"property_type"`
	ListingType  string         `json:"listing_type"`
	Bedrooms     int            `json:"bedrooms"`
	Bathrooms    int            `json:"bathrooms"`
	AreaSqft     int64          `json:"area_sqft"`
	Address      string         `json:"address,omitempty"`
	City         string         `json:"city"`
	State        string         `json:"state"`
	PostalCode   string         `json:"postal_code,omitempty"`
	Status       string         `json:"status,omitempty"`
	Images       []string       `json:"images"`
	Amenities    []string       `json:"amenities"`
	IsFeatured   bool           `json:"is_featured"`
	IsFavorite   bool           `json:"is_favorite"`
	Owner        *OwnerResponse `json:"owner,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type SearchResponse struct {
	Properties  []PropertyResponse `json:"properties"`
	Total       int64              `json:"total"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
	TotalPages  int                `json:"total_pages"`
	Filters     FiltersDTO         `json:"filters"`
	ActiveCount int                `json:"active_filter_count"`
}

type ConfirmationResponse struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toPropertyResponse(p domain.Property, isFavorite bool) PropertyResponse {
	resp := PropertyResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		PropertyType: string(p.PropertyType),
		ListingType:  string(p.ListingType),
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		AreaSqft:     p.AreaSqft,
		Address:      p.Address,
		City:         p.City,
		State:        p.State,
		PostalCode:   p.PostalCode,
		Status:       p.Status,
		Images:       p.Images,
		Amenities:    p.Amenities,
		IsFeatured:   p.IsFeatured,
		IsFavorite:   isFavorite,
		CreatedAt:    p.CreatedAt,
	}
	if p.Owner != nil {
		resp.Owner = &OwnerResponse{ID: p.Owner.ID, Name: p.Owner.Name, Email: p.Owner.Email, Phone: p.Owner.Phone}
	}
	return resp
}

func toConfirmationResponse(c *domain.Confirmation) ConfirmationResponse {
	return ConfirmationResponse{ID: c.ID, Status: c.Status, CreatedAt: c.CreatedAt}
}

// --- Сохраненные поиски ---

type SaveSearchRequest struct {
	Name    string      `json:"name"`
	Filters *FiltersDTO `json:"filters,omitempty"`
}

type SavedSearchResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Filters   FiltersDTO `json:"filters"`
	CreatedAt time.Time  `json:"created_at"`
}

func toSavedSearchResponse(s domain.SavedSearch) SavedSearchResponse {
	return SavedSearchResponse{
		ID:        s.ID,
		Name:      s.Name,
		Filters:   toFiltersDTO(s.Filters),
		CreatedAt: s.CreatedAt,
	}
}
