package marketplace_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const maxErrorBodyBytes = 4 << 10

// Config - параметры клиента marketplace API.
type Config struct {
	BaseURL string        // Например, "http://marketplace-api:8000"
	Timeout time.Duration // таймаут одного запроса
	RPS     float64       // ограничение исходящих запросов, 0 - без ограничения
	Burst   int
}

// Client - клиент REST API маркетплейса. Реализует FavoritesAPIPort и PropertiesAPIPort.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var (
	_ port.FavoritesAPIPort  = (*Client)(nil)
	_ port.PropertiesAPIPort = (*Client)(nil)
)

// NewClient - конструктор.
func NewClient(cfg Config) *Client {
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// doRequest - внутренний хелпер: лимит, заголовки трассировки и авторизации, сериализация тела.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", domain.ErrNetwork, err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	if token := contextkeys.AuthTokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrNetwork, method, path, err)
	}
	return resp, nil
}

// call выполняет запрос, проверяет статус и декодирует конверт ответа в out (может быть nil).
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	resp, err := c.doRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response of %s %s: %w", domain.ErrNetwork, method, path, err)
	}
	return nil
}

// statusError переводит HTTP-статус в ошибки домена.
func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	message := strings.TrimSpace(string(raw))
	var env envelope[json.RawMessage]
	if json.Unmarshal(raw, &env) == nil && env.Error != nil && env.Error.Message != "" {
		message = env.Error.Message
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w: status %d: %s", domain.ErrNetwork, domain.ErrUnauthenticated, resp.StatusCode, message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %w: status %d: %s", domain.ErrNetwork, domain.ErrValidation, resp.StatusCode, message)
	default:
		return fmt.Errorf("%w: status %d: %s", domain.ErrNetwork, resp.StatusCode, message)
	}
}

func (c *Client) logger(ctx context.Context, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "MarketplaceAPIClient",
		"method":    method,
	})
}

// GetFavorites - GET /api/v1/favorites.
func (c *Client) GetFavorites(ctx context.Context) ([]domain.Favorite, error) {
	clientLogger := c.logger(ctx, "GetFavorites")

	var resp envelope[favoritesData]
	if err := c.call(ctx, http.MethodGet, "/api/v1/favorites", nil, nil, &resp); err != nil {
		clientLogger.Error("Failed to fetch favorites", err, nil)
		return nil, err
	}

	result := make([]domain.Favorite, len(resp.Data.Favorites))
	for i, dto := range resp.Data.Favorites {
		result[i] = dto.toDomain()
	}
	clientLogger.Debug("Favorites received", port.Fields{"count": len(result)})
	return result, nil
}

// AddToFavorites - POST /api/v1/favorites.
func (c *Client) AddToFavorites(ctx context.Context, propertyID int64) error {
	err := c.call(ctx, http.MethodPost, "/api/v1/favorites", nil, addFavoriteRequest{PropertyID: propertyID}, nil)
	if err != nil {
		c.logger(ctx, "AddToFavorites").Error("Failed to add favorite", err, port.Fields{"property_id": propertyID})
	}
	return err
}

// RemoveFromFavorites - DELETE /api/v1/favorites/{id}.
func (c *Client) RemoveFromFavorites(ctx context.Context, propertyID int64) error {
	path := "/api/v1/favorites/" + strconv.FormatInt(propertyID, 10)
	err := c.call(ctx, http.MethodDelete, path, nil, nil, nil)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		c.logger(ctx, "RemoveFromFavorites").Error("Failed to remove favorite", err, port.Fields{"property_id": propertyID})
	}
	return err
}

// GetProperties - GET /api/v1/properties с параметрами фильтра.
func (c *Client) GetProperties(ctx context.Context, filters domain.PropertyFilters, page, pageSize int) (*domain.PaginatedProperties, error) {
	clientLogger := c.logger(ctx, "GetProperties")

	query := FiltersToQuery(filters)
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	var resp envelope[propertiesData]
	if err := c.call(ctx, http.MethodGet, "/api/v1/properties", query, nil, &resp); err != nil {
		clientLogger.Error("Failed to search properties", err, nil)
		return nil, err
	}

	properties := make([]domain.Property, len(resp.Data.Properties))
	for i, dto := range resp.Data.Properties {
		properties[i] = dto.toDomain()
	}
	result := &domain.PaginatedProperties{
		Properties: properties,
		TotalCount: resp.Data.Total,
		Page:       resp.Data.Page,
		PageSize:   resp.Data.PageSize,
	}
	if result.Page == 0 {
		result.Page = page
	}
	if result.PageSize == 0 {
		result.PageSize = pageSize
	}
	clientLogger.Debug("Search page received", port.Fields{"count": len(properties), "total": result.TotalCount})
	return result, nil
}

// GetProperty - GET /api/v1/properties/{id}.
func (c *Client) GetProperty(ctx context.Context, propertyID int64) (*domain.Property, error) {
	var resp envelope[propertyData]
	path := "/api/v1/properties/" + strconv.FormatInt(propertyID, 10)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.logger(ctx, "GetProperty").Error("Failed to fetch property", err, port.Fields{"property_id": propertyID})
		}
		return nil, err
	}
	property := resp.Data.Property.toDomain()
	return &property, nil
}

// CreateProperty - POST /api/v1/properties.
func (c *Client) CreateProperty(ctx context.Context, submission domain.PropertySubmission) (*domain.Confirmation, error) {
	var resp envelope[confirmationDTO]
	if err := c.call(ctx, http.MethodPost, "/api/v1/properties", nil, submission, &resp); err != nil {
		c.logger(ctx, "CreateProperty").Error("Failed to create property", err, nil)
		return nil, err
	}
	return resp.Data.toDomain(), nil
}

// CreateInquiry - POST /api/v1/inquiries.
func (c *Client) CreateInquiry(ctx context.Context, inquiry domain.Inquiry) (*domain.Confirmation, error) {
	var resp envelope[confirmationDTO]
	if err := c.call(ctx, http.MethodPost, "/api/v1/inquiries", nil, inquiry, &resp); err != nil {
		c.logger(ctx, "CreateInquiry").Error("Failed to create inquiry", err, port.Fields{"property_id": inquiry.PropertyID})
		return nil, err
	}
	return resp.Data.toDomain(), nil
}

// CreateSiteVisit - POST /api/v1/site-visits.
func (c *Client) CreateSiteVisit(ctx context.Context, visit domain.SiteVisit) (*domain.Confirmation, error) {
	var resp envelope[confirmationDTO]
	if err := c.call(ctx, http.MethodPost, "/api/v1/site-visits", nil, visit, &resp); err != nil {
		c.logger(ctx, "CreateSiteVisit").Error("Failed to schedule site visit", err, port.Fields{"property_id": visit.PropertyID})
		return nil, err
	}
	return resp.Data.toDomain(), nil
}

// FiltersToQuery кодирует фильтр в параметры запроса поиска. Незаданные поля пропускаются.
func FiltersToQuery(f domain.PropertyFilters) url.Values {
	q := url.Values{}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if len(f.PropertyTypes) > 0 {
		types := make([]string, len(f.PropertyTypes))
		for i, t := range f.PropertyTypes {
			types[i] = string(t)
		}
		q.Set("property_type", strings.Join(types, ","))
	}
	if f.ListingType != nil && *f.ListingType != "" {
		q.Set("listing_type", string(*f.ListingType))
	}
	setInt64 := func(key string, v *int64) {
		if v != nil {
			q.Set(key, strconv.FormatInt(*v, 10))
		}
	}
	setInt64("min_price", f.MinPrice)
	setInt64("max_price", f.MaxPrice)
	setInt64("min_area", f.MinArea)
	setInt64("max_area", f.MaxArea)
	if f.Bedrooms != nil {
		q.Set("bedrooms", strconv.Itoa(*f.Bedrooms))
	}
	if f.Bathrooms != nil {
		q.Set("bathrooms", strconv.Itoa(*f.Bathrooms))
	}
	if len(f.Amenities) > 0 {
		q.Set("amenities", strings.Join(f.Amenities, ","))
	}
	if f.IsFeatured != nil {
		q.Set("is_featured", strconv.FormatBool(*f.IsFeatured))
	}
	if f.IsActive != nil {
		q.Set("is_active", strconv.FormatBool(*f.IsActive))
	}
	return q
}
