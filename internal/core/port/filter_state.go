package port

import "session-service/internal/core/domain"

// FilterStatePort - то, что нужно use case'ам от состояния фильтров сессии.
type FilterStatePort interface {
	Filters() domain.PropertyFilters
	SetFilters(filters domain.PropertyFilters)
}
