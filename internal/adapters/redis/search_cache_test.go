package redis_adapter

import (
	"context"
	"session-service/internal/core/domain"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T, ttl time.Duration) (*SearchCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cache, err := NewSearchCache(client, ttl)
	require.NoError(t, err)
	return cache, mr
}

func samplePage() *domain.PaginatedProperties {
	return &domain.PaginatedProperties{
		Properties: []domain.Property{{
			ID:           42,
			Title:        "Beach villa",
			Price:        75_000_000,
			PropertyType: domain.PropertyTypeVilla,
			ListingType:  domain.ListingTypeSale,
			Amenities:    []string{"garden"},
			Owner:        &domain.Owner{ID: 3, Name: "Ravi"},
			CreatedAt:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		}},
		TotalCount: 1,
		Page:       1,
		PageSize:   12,
	}
}

func TestSearchCache_MissThenHit(t *testing.T) {
	cache, _ := setupCache(t, time.Minute)
	ctx := context.Background()
	filters := domain.PropertyFilters{Location: "Goa", IsActive: domain.Bool(true)}

	got, found, err := cache.Get(ctx, filters, 1, 12)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)

	require.NoError(t, cache.Set(ctx, filters, 1, 12, samplePage()))

	got, found, err = cache.Get(ctx, filters, 1, 12)
	require.NoError(t, err)
	require.True(t, found)
	want := samplePage()
	require.Len(t, got.Properties, 1)
	assert.Equal(t, want.TotalCount, got.TotalCount)
	assert.Equal(t, want.Properties[0].Title, got.Properties[0].Title)
	assert.Equal(t, want.Properties[0].Owner, got.Properties[0].Owner)
	assert.True(t, want.Properties[0].CreatedAt.Equal(got.Properties[0].CreatedAt))

	_, found, err = cache.Get(ctx, filters, 2, 12)
	require.NoError(t, err)
	assert.False(t, found, "another page must not hit")
}

func TestSearchCache_EntryExpires(t *testing.T) {
	cache, mr := setupCache(t, 30*time.Second)
	ctx := context.Background()
	filters := domain.DefaultFilters()

	require.NoError(t, cache.Set(ctx, filters, 1, 12, samplePage()))
	assert.Equal(t, 30*time.Second, mr.TTL(SearchKey(filters, 1, 12)))

	mr.FastForward(31 * time.Second)

	_, found, err := cache.Get(ctx, filters, 1, 12)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSearchCache_CorruptEntryIsMiss(t *testing.T) {
	cache, mr := setupCache(t, time.Minute)
	filters := domain.DefaultFilters()
	require.NoError(t, mr.Set(SearchKey(filters, 1, 12), "{not json"))

	_, found, err := cache.Get(context.Background(), filters, 1, 12)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSearchCache_ServerDown(t *testing.T) {
	cache, mr := setupCache(t, time.Minute)
	mr.Close()

	_, _, err := cache.Get(context.Background(), domain.DefaultFilters(), 1, 12)
	assert.Error(t, err)
}

func TestSearchKey_IgnoresSetOrder(t *testing.T) {
	a := domain.PropertyFilters{
		PropertyTypes: []domain.PropertyType{domain.PropertyTypeVilla, domain.PropertyTypeHouse},
		Amenities:     []string{"gym", "garden"},
	}.Normalize()
	b := domain.PropertyFilters{
		PropertyTypes: []domain.PropertyType{domain.PropertyTypeHouse, domain.PropertyTypeVilla},
		Amenities:     []string{"Garden", "gym"},
	}.Normalize()

	assert.Equal(t, SearchKey(a, 1, 12), SearchKey(b, 1, 12))
	assert.NotEqual(t, SearchKey(a, 1, 12), SearchKey(a, 1, 24))
	assert.True(t, strings.HasPrefix(SearchKey(a, 1, 12), "search:"))
}

func TestNewSearchCache_Validation(t *testing.T) {
	_, err := NewSearchCache(nil, time.Minute)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	_, err = NewSearchCache(client, 0)
	assert.Error(t, err)
}
