package usecase

import (
	"context"
	"fmt"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"sync"
)

// FilterState - состояние формы поиска одной сессии.
// Диапазоны цены и площади хранятся отдельно от фильтра и вливаются в него только в Submit,
// и только если пользователь их трогал.
type FilterState struct {
	priceBounds domain.RangeBounds
	areaBounds  domain.RangeBounds

	mu           sync.Mutex
	filters      domain.PropertyFilters
	priceRange   domain.Range
	areaRange    domain.Range
	priceTouched bool
	areaTouched  bool
}

// FilterSnapshot - все, что нужно для отрисовки формы.
type FilterSnapshot struct {
	Filters     domain.PropertyFilters
	PriceRange  domain.Range
	AreaRange   domain.Range
	ActiveCount int
	Dirty       bool
}

func NewFilterState(priceBounds, areaBounds domain.RangeBounds) *FilterState {
	return &FilterState{
		priceBounds: priceBounds,
		areaBounds:  areaBounds,
		filters:     domain.DefaultFilters(),
	}
}

// Filters возвращает копию текущего фильтра.
func (s *FilterState) Filters() domain.PropertyFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Clone()
}

// SetFilters полностью заменяет фильтр. Отложенные диапазоны сбрасываются.
func (s *FilterState) SetFilters(filters domain.PropertyFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters.Clone()
	s.clearRangesLocked()
}

// UpdateFilters накладывает частичный фильтр. Непереданные поля не меняются.
// Явно переданные границы цены или площади важнее отложенного диапазона слайдера.
func (s *FilterState) UpdateFilters(patch domain.FiltersPatch) domain.PropertyFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.filters.Merge(patch)
	if patch.MinPrice.Set || patch.MaxPrice.Set {
		s.priceRange = domain.Range{}
		s.priceTouched = false
	}
	if patch.MinArea.Set || patch.MaxArea.Set {
		s.areaRange = domain.Range{}
		s.areaTouched = false
	}
	return s.filters.Clone()
}

func (s *FilterState) TogglePropertyType(t domain.PropertyType) (domain.PropertyFilters, error) {
	if !t.IsValid() {
		return domain.PropertyFilters{}, fmt.Errorf("%w: unknown property type %q", domain.ErrValidation, t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.filters.TogglePropertyType(t)
	return s.filters.Clone(), nil
}

func (s *FilterState) ToggleAmenity(amenity string) (domain.PropertyFilters, error) {
	if domain.FoldAmenity(amenity) == "" {
		return domain.PropertyFilters{}, fmt.Errorf("%w: amenity must not be empty", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.filters.ToggleAmenity(amenity)
	return s.filters.Clone(), nil
}

// ResetFilters возвращает форму в исходное состояние.
func (s *FilterState) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = domain.DefaultFilters()
	s.clearRangesLocked()
}

// ApplyPreset заменяет фильтр пресетом. Неизвестное имя - ErrUnknownPreset, состояние не меняется.
func (s *FilterState) ApplyPreset(ctx context.Context, name string) (domain.PropertyFilters, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "FilterState",
		"method":    "ApplyPreset",
		"preset":    name,
	})

	preset, err := domain.PresetByName(name)
	if err != nil {
		logger.Warn("Unknown preset requested", nil)
		return domain.PropertyFilters{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = preset.Filters.Clone()
	s.clearRangesLocked()
	logger.Debug("Preset applied", port.Fields{"active_filters": s.filters.ActiveCount()})
	return s.filters.Clone(), nil
}

// SetPriceRange запоминает положение слайдера цены. Проверка выполняется в Submit.
func (s *FilterState) SetPriceRange(r domain.Range) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.priceRange = cloneRange(r)
	s.priceTouched = true
}

// SetAreaRange запоминает положение слайдера площади. Проверка выполняется в Submit.
func (s *FilterState) SetAreaRange(r domain.Range) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.areaRange = cloneRange(r)
	s.areaTouched = true
}

// ActiveFilterCount - число заполненных критериев для бейджа на кнопке фильтров.
func (s *FilterState) ActiveFilterCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.ActiveCount()
}

// IsDirty - есть ли хотя бы один активный критерий или непустой отложенный диапазон.
func (s *FilterState) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirtyLocked()
}

func (s *FilterState) dirtyLocked() bool {
	if s.filters.ActiveCount() > 0 {
		return true
	}
	return (s.priceTouched && !s.priceRange.IsEmpty()) || (s.areaTouched && !s.areaRange.IsEmpty())
}

// Snapshot возвращает согласованную копию всего состояния формы.
func (s *FilterState) Snapshot() FilterSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterSnapshot{
		Filters:     s.filters.Clone(),
		PriceRange:  cloneRange(s.priceRange),
		AreaRange:   cloneRange(s.areaRange),
		ActiveCount: s.filters.ActiveCount(),
		Dirty:       s.dirtyLocked(),
	}
}

// Submit вливает тронутые диапазоны в фильтр, проверяет его и возвращает нормализованную копию
// для запроса поиска. При ошибке состояние не меняется.
func (s *FilterState) Submit(ctx context.Context) (domain.PropertyFilters, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "FilterState",
		"method":    "Submit",
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.filters.Clone()
	if s.priceTouched {
		min, max, err := s.priceBounds.Fold(s.priceRange)
		if err != nil {
			logger.Warn("Price range rejected", port.Fields{"error": err.Error()})
			return domain.PropertyFilters{}, fmt.Errorf("price range: %w", err)
		}
		next.MinPrice, next.MaxPrice = min, max
	}
	if s.areaTouched {
		min, max, err := s.areaBounds.Fold(s.areaRange)
		if err != nil {
			logger.Warn("Area range rejected", port.Fields{"error": err.Error()})
			return domain.PropertyFilters{}, fmt.Errorf("area range: %w", err)
		}
		next.MinArea, next.MaxArea = min, max
	}

	if err := next.ValidateRanges(); err != nil {
		logger.Warn("Filters rejected", port.Fields{"error": err.Error()})
		return domain.PropertyFilters{}, err
	}

	s.filters = next
	logger.Debug("Filters submitted", port.Fields{"active_filters": next.ActiveCount()})
	return next.Normalize(), nil
}

func (s *FilterState) clearRangesLocked() {
	s.priceRange = domain.Range{}
	s.areaRange = domain.Range{}
	s.priceTouched = false
	s.areaTouched = false
}

func cloneRange(r domain.Range) domain.Range {
	out := domain.Range{}
	if r.Min != nil {
		out.Min = domain.Int64(*r.Min)
	}
	if r.Max != nil {
		out.Max = domain.Int64(*r.Max)
	}
	return out
}
