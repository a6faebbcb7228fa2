package postgres_adapter

import "session-service/internal/core/domain"

// filtersRecord - JSONB-представление фильтра в колонке saved_searches.filters.
type filtersRecord struct {
	Location      string   `json:"location,omitempty"`
	PropertyTypes []string `json:"property_types,omitempty"`
	ListingType   string   `json:"listing_type,omitempty"`
	MinPrice      *int64   `json:"min_price,omitempty"`
	MaxPrice      *int64   `json:"max_price,omitempty"`
	MinArea       *int64   `json:"min_area,omitempty"`
	MaxArea       *int64   `json:"max_area,omitempty"`
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *int     `json:"bathrooms,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	IsFeatured    *bool    `json:"is_featured,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

func toFiltersRecord(f domain.PropertyFilters) filtersRecord {
	rec := filtersRecord{
		Location:   f.Location,
		MinPrice:   f.MinPrice,
		MaxPrice:   f.MaxPrice,
		MinArea:    f.MinArea,
		MaxArea:    f.MaxArea,
		Bedrooms:   f.Bedrooms,
		Bathrooms:  f.Bathrooms,
		Amenities:  f.Amenities,
		IsFeatured: f.IsFeatured,
		IsActive:   f.IsActive,
	}
	for _, t := range f.PropertyTypes {
		rec.PropertyTypes = append(rec.PropertyTypes, string(t))
	}
	if f.ListingType != nil {
		rec.ListingType = string(*f.ListingType)
	}
	return rec
}

func (rec filtersRecord) toDomain() domain.PropertyFilters {
	f := domain.PropertyFilters{
		Location:      rec.Location,
		PropertyTypes: make([]domain.PropertyType, 0, len(rec.PropertyTypes)),
		MinPrice:      rec.MinPrice,
		MaxPrice:      rec.MaxPrice,
		MinArea:       rec.MinArea,
		MaxArea:       rec.MaxArea,
		Bedrooms:      rec.Bedrooms,
		Bathrooms:     rec.Bathrooms,
		Amenities:     append([]string{}, rec.Amenities...),
		IsFeatured:    rec.IsFeatured,
		IsActive:      rec.IsActive,
	}
	for _, t := range rec.PropertyTypes {
		f.PropertyTypes = append(f.PropertyTypes, domain.PropertyType(t))
	}
	if rec.ListingType != "" {
		f.ListingType = domain.Listing(domain.ListingType(rec.ListingType))
	}
	return f
}
