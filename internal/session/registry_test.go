package session

import (
	"context"
	"session-service/internal/core/domain"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFavoritesAPI struct{}

func (stubFavoritesAPI) GetFavorites(ctx context.Context) ([]domain.Favorite, error) {
	return []domain.Favorite{{ID: 1, Property: domain.PropertySnapshot{ID: 42}}}, nil
}
func (stubFavoritesAPI) AddToFavorites(ctx context.Context, propertyID int64) error { return nil }
func (stubFavoritesAPI) RemoveFromFavorites(ctx context.Context, propertyID int64) error {
	return nil
}

func newTestRegistry() *Registry {
	return NewRegistry(stubFavoritesAPI{}, nil, domain.RangeBounds{Ceiling: 1000}, domain.RangeBounds{Ceiling: 100})
}

func TestRegistry_GetOrCreateReturnsSameSession(t *testing.T) {
	registry := newTestRegistry()

	first, created := registry.GetOrCreate("abc")
	require.True(t, created)
	second, created := registry.GetOrCreate("abc")
	assert.False(t, created)
	assert.Same(t, first, second)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	registry := newTestRegistry()

	var wg sync.WaitGroup
	sessions := make([]*Session, 32)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], _ = registry.GetOrCreate("shared")
		}(i)
	}
	wg.Wait()

	for _, s := range sessions {
		assert.Same(t, sessions[0], s)
	}
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_AuthenticateAndLogout(t *testing.T) {
	registry := newTestRegistry()
	s, _ := registry.GetOrCreate("abc")

	registry.Authenticate(s, domain.Credentials{UserID: "u1", Token: "t1"})
	require.NoError(t, s.Favorites.Load(context.Background()))
	assert.True(t, s.Favorites.IsFavorite(42))

	registry.Authenticate(s, domain.Credentials{})
	assert.False(t, s.Favorites.IsFavorite(42))
	assert.False(t, s.Favorites.State().Authenticated)
}

func TestRegistry_EvictIdle(t *testing.T) {
	registry := newTestRegistry()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return now }

	registry.GetOrCreate("old")
	now = now.Add(20 * time.Minute)
	registry.GetOrCreate("fresh")
	now = now.Add(5 * time.Minute)

	evicted := registry.EvictIdle(15 * time.Minute)
	assert.Equal(t, 1, evicted)

	_, ok := registry.Get("old")
	assert.False(t, ok)
	_, ok = registry.Get("fresh")
	assert.True(t, ok)
}
