package domain

import (
	"fmt"
	"sort"
)

// Preset - именованный готовый фильтр для быстрых ссылок на главной странице.
type Preset struct {
	Name    string
	Title   string
	Filters PropertyFilters
}

const (
	PresetBudgetApartments = "budget_apartments"
	PresetLuxuryVillas     = "luxury_villas"
	PresetRentalHouses     = "rental_houses"
	PresetInvestmentPlots  = "investment_plots"
)

// presets возвращает свежие литералы, чтобы вызывающий код не мог испортить общий экземпляр.
func presets() map[string]Preset {
	return map[string]Preset{
		PresetBudgetApartments: {
			Name:  PresetBudgetApartments,
			Title: "Budget apartments",
			Filters: PropertyFilters{
				PropertyTypes: []PropertyType{PropertyTypeApartment, PropertyTypeStudio},
				ListingType:   Listing(ListingTypeSale),
				MaxPrice:      Int64(5_000_000),
				MaxArea:       Int64(1_200),
				Amenities:     []string{"parking", "lift"},
				IsActive:      Bool(true),
			},
		},
		PresetLuxuryVillas: {
			Name:  PresetLuxuryVillas,
			Title: "Luxury villas",
			Filters: PropertyFilters{
				PropertyTypes: []PropertyType{PropertyTypeVilla},
				ListingType:   Listing(ListingTypeSale),
				MinPrice:      Int64(50_000_000),
				MinArea:       Int64(3_000),
				Amenities:     []string{"swimming_pool", "garden", "security", "gym"},
				IsActive:      Bool(true),
			},
		},
		PresetRentalHouses: {
			Name:  PresetRentalHouses,
			Title: "Houses for rent",
			Filters: PropertyFilters{
				PropertyTypes: []PropertyType{PropertyTypeHouse},
				ListingType:   Listing(ListingTypeRent),
				MaxPrice:      Int64(50_000),
				Bedrooms:      Int(2),
				Amenities:     []string{"parking", "garden"},
				IsActive:      Bool(true),
			},
		},
		PresetInvestmentPlots: {
			Name:  PresetInvestmentPlots,
			Title: "Investment plots",
			Filters: PropertyFilters{
				PropertyTypes: []PropertyType{PropertyTypePlot, PropertyTypeCommercial},
				ListingType:   Listing(ListingTypeSale),
				MinArea:       Int64(1_000),
				MaxPrice:      Int64(20_000_000),
				Amenities:     []string{"road_access"},
				IsActive:      Bool(true),
			},
		},
	}
}

// PresetByName возвращает пресет по системному имени.
func PresetByName(name string) (Preset, error) {
	p, ok := presets()[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// ListPresets возвращает все пресеты, отсортированные по имени.
func ListPresets() []Preset {
	all := presets()
	out := make([]Preset, 0, len(all))
	for _, p := range all {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
