package domain

import "time"

// ListingType - тип сделки по объявлению.
type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

// IsValid сообщает, известен ли тип сделки.
func (t ListingType) IsValid() bool {
	return t == ListingTypeSale || t == ListingTypeRent
}

// PropertyType - категория объекта недвижимости.
type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeVilla      PropertyType = "villa"
	PropertyTypePlot       PropertyType = "plot"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeOffice     PropertyType = "office"
	PropertyTypePenthouse  PropertyType = "penthouse"
	PropertyTypeStudio     PropertyType = "studio"
)

// AllPropertyTypes задает канонический порядок типов при нормализации фильтров.
var AllPropertyTypes = []PropertyType{
	PropertyTypeApartment,
	PropertyTypeHouse,
	PropertyTypeVilla,
	PropertyTypePlot,
	PropertyTypeCommercial,
	PropertyTypeOffice,
	PropertyTypePenthouse,
	PropertyTypeStudio,
}

// IsValid сообщает, известен ли тип объекта.
func (t PropertyType) IsValid() bool {
	for _, known := range AllPropertyTypes {
		if known == t {
			return true
		}
	}
	return false
}

// Owner - контактные данные владельца объявления.
type Owner struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// Property - проекция объекта, которую мы получаем от marketplace API.
// После получения считается неизменяемой.
type Property struct {
	ID           int64
	Title        string
	Description  string
	Price        int64 // в минимальных единицах валюты
	PropertyType PropertyType
	ListingType  ListingType
	Bedrooms     int
	Bathrooms    int
	AreaSqft     int64
	Address      string
	City         string
	State        string
	PostalCode   string
	Status       string
	Images       []string
	Amenities    []string
	IsFeatured   bool
	Owner        *Owner
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PaginatedProperties - страница результатов поиска.
type PaginatedProperties struct {
	Properties []Property
	TotalCount int64
	Page       int
	PageSize   int
}

// TotalPages считает количество страниц для карусели/пагинации.
func (p *PaginatedProperties) TotalPages() int {
	if p.PageSize <= 0 || p.TotalCount <= 0 {
		return 0
	}
	return int((p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
}
