package redis_adapter

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"session-service/internal/adapters/marketplace_client"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const searchKeyPrefix = "search"

// Config - настройки подключения к Redis.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient создает клиент и проверяет соединение.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// SearchCache хранит страницы результатов поиска.
// Ключ строится по нормализованному фильтру, поэтому один и тот же поиск
// из разных сессий попадает в одну запись.
type SearchCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSearchCache(client redis.Cmdable, ttl time.Duration) (*SearchCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis adapter: client cannot be nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("redis adapter: ttl must be positive, got %s", ttl)
	}
	return &SearchCache{client: client, ttl: ttl}, nil
}

// Get возвращает (nil, false, nil) при промахе.
func (c *SearchCache) Get(ctx context.Context, filters domain.PropertyFilters, page, pageSize int) (*domain.PaginatedProperties, bool, error) {
	key := SearchKey(filters, page, pageSize)
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "SearchCache",
		"method":    "Get",
		"key":       key,
	})

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.Debug("Cache miss", nil)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var result domain.PaginatedProperties
	if err := json.Unmarshal(data, &result); err != nil {
		// Битая запись считается промахом, следующий Set ее перезапишет.
		logger.Warn("Failed to decode cached page, treating as miss", port.Fields{"error": err.Error()})
		return nil, false, nil
	}
	logger.Debug("Cache hit", nil)
	return &result, true, nil
}

func (c *SearchCache) Set(ctx context.Context, filters domain.PropertyFilters, page, pageSize int, result *domain.PaginatedProperties) error {
	if result == nil {
		return nil
	}
	key := SearchKey(filters, page, pageSize)

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal search page: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// SearchKey - "search:<md5>" от отсортированных параметров запроса к marketplace API.
func SearchKey(filters domain.PropertyFilters, page, pageSize int) string {
	params := marketplace_client.FiltersToQuery(filters)
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(strings.Join(params[k], ","))
	}

	hash := md5.Sum([]byte(builder.String()))
	return searchKeyPrefix + ":" + hex.EncodeToString(hash[:])
}
