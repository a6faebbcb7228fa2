package usecase

import (
	"context"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"time"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

type SearchPropertiesUseCase struct {
	api       port.PropertiesAPIPort
	cache     port.SearchCachePort
	publisher port.ActivityPublisherPort
}

// NewSearchPropertiesUseCase - cache и publisher могут быть nil.
func NewSearchPropertiesUseCase(api port.PropertiesAPIPort, cache port.SearchCachePort, publisher port.ActivityPublisherPort) *SearchPropertiesUseCase {
	return &SearchPropertiesUseCase{api: api, cache: cache, publisher: publisher}
}

func (uc *SearchPropertiesUseCase) Execute(ctx context.Context, filters domain.PropertyFilters, page, pageSize int) (*domain.PaginatedProperties, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	page, pageSize = NormalizePaging(page, pageSize)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "SearchProperties",
		"page":      page,
		"page_size": pageSize,
	})

	ucLogger.Info("Use case started", nil)

	if err := filters.ValidateRanges(); err != nil {
		ucLogger.Warn("Filters rejected", port.Fields{"error": err.Error()})
		return nil, err
	}
	filters = filters.Normalize()

	if uc.cache != nil {
		cached, found, err := uc.cache.Get(ctx, filters, page, pageSize)
		if err != nil {
			ucLogger.Warn("Search cache lookup failed, falling back to API", port.Fields{"error": err.Error()})
		} else if found {
			ucLogger.Info("Use case finished successfully (cache hit)", port.Fields{"total": cached.TotalCount})
			return cached, nil
		}
	}

	result, err := uc.api.GetProperties(ctx, filters, page, pageSize)
	if err != nil {
		ucLogger.Error("Marketplace API returned an error", err, nil)
		return nil, normalizeNetworkError(err)
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, filters, page, pageSize, result); err != nil {
			ucLogger.Warn("Failed to store search page in cache", port.Fields{"error": err.Error()})
		}
	}

	publishActivity(ctx, uc.publisher, domain.ActivityEvent{
		Type: domain.ActivitySearchPerformed,
		Payload: map[string]interface{}{
			"active_filters": filters.ActiveCount(),
			"page":           page,
			"total":          result.TotalCount,
		},
		OccurredAt: time.Now(),
	})

	ucLogger.Info("Use case finished successfully", port.Fields{"total": result.TotalCount})
	return result, nil
}

// NormalizePaging приводит параметры страницы к допустимым значениям.
func NormalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
