package domain

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// PropertyFilters - составной фильтр поиска объектов.
// Необязательные поля - указатели: nil означает "не задано".
type PropertyFilters struct {
	Location      string
	PropertyTypes []PropertyType // множество, порядок не важен
	ListingType   *ListingType
	MinPrice      *int64
	MaxPrice      *int64
	MinArea       *int64
	MaxArea       *int64
	Bedrooms      *int
	Bathrooms     *int
	Amenities     []string // множество, порядок не важен
	IsFeatured    *bool
	IsActive      *bool
}

// DefaultFilters возвращает исходное состояние формы поиска.
func DefaultFilters() PropertyFilters {
	return PropertyFilters{
		Location:      "",
		PropertyTypes: []PropertyType{},
		Amenities:     []string{},
		IsActive:      Bool(true),
	}
}

// PatchField - значение частичного обновления. Set=false означает, что поле не передано,
// Set=true с нулевым указателем очищает поле.
type PatchField[T any] struct {
	Set   bool
	Value T
}

// Patch создает заполненное поле частичного обновления.
func Patch[T any](v T) PatchField[T] {
	return PatchField[T]{Set: true, Value: v}
}

// FiltersPatch - частичный фильтр для UpdateFilters.
type FiltersPatch struct {
	Location      PatchField[string]
	PropertyTypes PatchField[[]PropertyType]
	ListingType   PatchField[*ListingType]
	MinPrice      PatchField[*int64]
	MaxPrice      PatchField[*int64]
	MinArea       PatchField[*int64]
	MaxArea       PatchField[*int64]
	Bedrooms      PatchField[*int]
	Bathrooms     PatchField[*int]
	Amenities     PatchField[[]string]
	IsFeatured    PatchField[*bool]
	IsActive      PatchField[*bool]
}

// Merge накладывает частичный фильтр на текущий. Валидация здесь не выполняется.
func (f PropertyFilters) Merge(p FiltersPatch) PropertyFilters {
	out := f.Clone()
	if p.Location.Set {
		out.Location = p.Location.Value
	}
	if p.PropertyTypes.Set {
		out.PropertyTypes = append([]PropertyType{}, p.PropertyTypes.Value...)
	}
	if p.ListingType.Set {
		out.ListingType = clonePtr(p.ListingType.Value)
	}
	if p.MinPrice.Set {
		out.MinPrice = clonePtr(p.MinPrice.Value)
	}
	if p.MaxPrice.Set {
		out.MaxPrice = clonePtr(p.MaxPrice.Value)
	}
	if p.MinArea.Set {
		out.MinArea = clonePtr(p.MinArea.Value)
	}
	if p.MaxArea.Set {
		out.MaxArea = clonePtr(p.MaxArea.Value)
	}
	if p.Bedrooms.Set {
		out.Bedrooms = clonePtr(p.Bedrooms.Value)
	}
	if p.Bathrooms.Set {
		out.Bathrooms = clonePtr(p.Bathrooms.Value)
	}
	if p.Amenities.Set {
		out.Amenities = append([]string{}, p.Amenities.Value...)
	}
	if p.IsFeatured.Set {
		out.IsFeatured = clonePtr(p.IsFeatured.Value)
	}
	if p.IsActive.Set {
		out.IsActive = clonePtr(p.IsActive.Value)
	}
	return out
}

// Clone делает глубокую копию, чтобы состояние сессии не разделяло память с вызывающим кодом.
func (f PropertyFilters) Clone() PropertyFilters {
	out := f
	if f.PropertyTypes != nil {
		out.PropertyTypes = append([]PropertyType{}, f.PropertyTypes...)
	}
	if f.Amenities != nil {
		out.Amenities = append([]string{}, f.Amenities...)
	}
	out.ListingType = clonePtr(f.ListingType)
	out.MinPrice = clonePtr(f.MinPrice)
	out.MaxPrice = clonePtr(f.MaxPrice)
	out.MinArea = clonePtr(f.MinArea)
	out.MaxArea = clonePtr(f.MaxArea)
	out.Bedrooms = clonePtr(f.Bedrooms)
	out.Bathrooms = clonePtr(f.Bathrooms)
	out.IsFeatured = clonePtr(f.IsFeatured)
	out.IsActive = clonePtr(f.IsActive)
	return out
}

// TogglePropertyType добавляет тип, если его нет, и убирает, если он есть.
// Линейный поиск: типов в фильтре всегда немного.
func (f PropertyFilters) TogglePropertyType(t PropertyType) PropertyFilters {
	out := f.Clone()
	for i, existing := range out.PropertyTypes {
		if existing == t {
			out.PropertyTypes = append(out.PropertyTypes[:i], out.PropertyTypes[i+1:]...)
			return out
		}
	}
	out.PropertyTypes = append(out.PropertyTypes, t)
	return out
}

// ToggleAmenity работает так же, как TogglePropertyType, но для удобств.
// Сравнение без учета регистра, в множество попадает свернутое значение.
func (f PropertyFilters) ToggleAmenity(amenity string) PropertyFilters {
	out := f.Clone()
	key := FoldAmenity(amenity)
	for i, existing := range out.Amenities {
		if FoldAmenity(existing) == key {
			out.Amenities = append(out.Amenities[:i], out.Amenities[i+1:]...)
			return out
		}
	}
	out.Amenities = append(out.Amenities, key)
	return out
}

// HasPropertyType - проверка членства в множестве типов.
func (f PropertyFilters) HasPropertyType(t PropertyType) bool {
	for _, existing := range f.PropertyTypes {
		if existing == t {
			return true
		}
	}
	return false
}

// HasAmenity - проверка членства в множестве удобств.
func (f PropertyFilters) HasAmenity(amenity string) bool {
	key := FoldAmenity(amenity)
	for _, existing := range f.Amenities {
		if FoldAmenity(existing) == key {
			return true
		}
	}
	return false
}

// ActiveCount считает заполненные группы критериев.
// IsActive - базовый флаг формы и не считается; булевы флаги считаются, только когда включены.
func (f PropertyFilters) ActiveCount() int {
	count := 0
	if strings.TrimSpace(f.Location) != "" {
		count++
	}
	if len(f.PropertyTypes) > 0 {
		count++
	}
	if f.ListingType != nil && *f.ListingType != "" {
		count++
	}
	for _, v := range []*int64{f.MinPrice, f.MaxPrice, f.MinArea, f.MaxArea} {
		if v != nil {
			count++
		}
	}
	for _, v := range []*int{f.Bedrooms, f.Bathrooms} {
		if v != nil {
			count++
		}
	}
	if len(f.Amenities) > 0 {
		count++
	}
	if f.IsFeatured != nil && *f.IsFeatured {
		count++
	}
	return count
}

// ValidateRanges проверяет инварианты числовых полей: значения неотрицательны, min <= max.
func (f PropertyFilters) ValidateRanges() error {
	checks := []struct {
		name     string
		min, max *int64
	}{
		{"price", f.MinPrice, f.MaxPrice},
		{"area", f.MinArea, f.MaxArea},
	}
	for _, c := range checks {
		if c.min != nil && *c.min < 0 {
			return fmt.Errorf("%w: min %s must not be negative", ErrInvalidRange, c.name)
		}
		if c.max != nil && *c.max < 0 {
			return fmt.Errorf("%w: max %s must not be negative", ErrInvalidRange, c.name)
		}
		if c.min != nil && c.max != nil && *c.min > *c.max {
			return fmt.Errorf("%w: min %s %d is greater than max %s %d", ErrInvalidRange, c.name, *c.min, c.name, *c.max)
		}
	}
	if f.Bedrooms != nil && *f.Bedrooms < 0 {
		return fmt.Errorf("%w: bedrooms must not be negative", ErrInvalidRange)
	}
	if f.Bathrooms != nil && *f.Bathrooms < 0 {
		return fmt.Errorf("%w: bathrooms must not be negative", ErrInvalidRange)
	}
	if f.ListingType != nil && *f.ListingType != "" && !f.ListingType.IsValid() {
		return fmt.Errorf("%w: unknown listing type %q", ErrValidation, *f.ListingType)
	}
	return nil
}

// Normalize приводит фильтр к каноническому виду для запроса поиска:
// локация без лишних пробелов и в свернутом регистре, множества без дублей и в стабильном порядке.
func (f PropertyFilters) Normalize() PropertyFilters {
	out := f.Clone()
	out.Location = cases.Fold().String(strings.Join(strings.Fields(f.Location), " "))

	seenTypes := make(map[PropertyType]struct{}, len(f.PropertyTypes))
	for _, t := range f.PropertyTypes {
		seenTypes[t] = struct{}{}
	}
	types := make([]PropertyType, 0, len(seenTypes))
	for _, t := range AllPropertyTypes {
		if _, ok := seenTypes[t]; ok {
			types = append(types, t)
			delete(seenTypes, t)
		}
	}
	var unknown []string
	for t := range seenTypes {
		unknown = append(unknown, string(t))
	}
	sort.Strings(unknown)
	for _, t := range unknown {
		types = append(types, PropertyType(t))
	}
	out.PropertyTypes = types

	seenAmenities := make(map[string]struct{}, len(f.Amenities))
	amenities := make([]string, 0, len(f.Amenities))
	for _, a := range f.Amenities {
		key := FoldAmenity(a)
		if key == "" {
			continue
		}
		if _, ok := seenAmenities[key]; ok {
			continue
		}
		seenAmenities[key] = struct{}{}
		amenities = append(amenities, key)
	}
	sort.Strings(amenities)
	out.Amenities = amenities

	if out.ListingType != nil && *out.ListingType == "" {
		out.ListingType = nil
	}
	return out
}

// FoldAmenity - ключ удобства для сравнения: без пробелов по краям и в свернутом регистре.
func FoldAmenity(amenity string) string {
	return cases.Fold().String(strings.TrimSpace(amenity))
}

// Int64 - хелпер для литералов фильтров.
func Int64(v int64) *int64 { return &v }

// Int - хелпер для литералов фильтров.
func Int(v int) *int { return &v }

// Bool - хелпер для литералов фильтров.
func Bool(v bool) *bool { return &v }

// Listing - хелпер для литералов фильтров.
func Listing(v ListingType) *ListingType { return &v }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
