package marketplace_client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL + "/", Timeout: 2 * time.Second})
}

func authContext() context.Context {
	ctx := contextkeys.ContextWithAuthToken(context.Background(), "token-1")
	return contextkeys.ContextWithTraceID(ctx, "trace-1")
}

func TestClient_GetFavorites(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/favorites", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "trace-1", r.Header.Get("X-Trace-ID"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"favorites":[{"id":1,"property":{"id":42,"title":"Villa","images":["a.jpg"],"price":9000000,"city":"Goa","state":"GA","bedrooms":4,"bathrooms":3}}]}}`))
	})

	favorites, err := client.GetFavorites(authContext())
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, int64(1), favorites[0].ID)
	assert.Equal(t, int64(42), favorites[0].Property.ID)
	assert.Equal(t, "Goa", favorites[0].Property.City)
	assert.Equal(t, []string{"a.jpg"}, favorites[0].Property.Images)
}

func TestClient_AddAndRemoveFavorite(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/favorites":
			var body map[string]int64
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, int64(42), body["property_id"])
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/favorites/42":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	})

	require.NoError(t, client.AddToFavorites(authContext(), 42))
	require.NoError(t, client.RemoveFromFavorites(authContext(), 42))
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr []error
		notErr  error
	}{
		{"not found", http.StatusNotFound, `{"success":false,"error":{"code":"NOT_FOUND","message":"property not found"}}`, []error{domain.ErrNotFound}, domain.ErrNetwork},
		{"unauthorized", http.StatusUnauthorized, `{"success":false,"error":{"code":"UNAUTHORIZED","message":"token expired"}}`, []error{domain.ErrNetwork, domain.ErrUnauthenticated}, nil},
		{"bad request", http.StatusBadRequest, `oops`, []error{domain.ErrNetwork, domain.ErrValidation}, nil},
		{"server error", http.StatusInternalServerError, ``, []error{domain.ErrNetwork}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.GetProperty(authContext(), 42)
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
			if tt.notErr != nil {
				assert.NotErrorIs(t, err, tt.notErr)
			}
		})
	}
}

func TestClient_ErrorMessageFromEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"UNAUTHORIZED","message":"token expired"}}`))
	})

	_, err := client.GetFavorites(authContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(Config{BaseURL: server.URL, Timeout: time.Second})
	server.Close()

	err := client.AddToFavorites(authContext(), 1)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestClient_GetPropertiesEncodesFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/v1/properties", r.URL.Path)
		assert.Equal(t, "Goa", q.Get("location"))
		assert.Equal(t, "villa,house", q.Get("property_type"))
		assert.Equal(t, "sale", q.Get("listing_type"))
		assert.Equal(t, "500000", q.Get("min_price"))
		assert.Empty(t, q.Get("max_price"))
		assert.Equal(t, "gym,parking", q.Get("amenities"))
		assert.Equal(t, "true", q.Get("is_active"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "12", q.Get("page_size"))
		assert.Empty(t, r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"success":true,"data":{"properties":[{"id":7,"title":"Beach villa","property_type":"villa","listing_type":"sale","price":12000000,"owner":{"id":3,"name":"Ravi"}}],"total":13,"page":2,"page_size":12}}`))
	})

	filters := domain.DefaultFilters()
	filters.Location = "Goa"
	filters.PropertyTypes = []domain.PropertyType{domain.PropertyTypeVilla, domain.PropertyTypeHouse}
	filters.ListingType = domain.Listing(domain.ListingTypeSale)
	filters.MinPrice = domain.Int64(500_000)
	filters.Amenities = []string{"gym", "parking"}

	result, err := client.GetProperties(context.Background(), filters, 2, 12)
	require.NoError(t, err)
	require.Len(t, result.Properties, 1)
	assert.Equal(t, int64(13), result.TotalCount)
	assert.Equal(t, 2, result.TotalPages())
	assert.Equal(t, domain.PropertyTypeVilla, result.Properties[0].PropertyType)
	require.NotNil(t, result.Properties[0].Owner)
	assert.Equal(t, "Ravi", result.Properties[0].Owner.Name)
}

func TestClient_CreateInquiry(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/inquiries", r.URL.Path)
		var body domain.Inquiry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(42), body.PropertyID)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":5,"status":"new","created_at":"2026-05-10T10:00:00Z"}}`))
	})

	confirmation, err := client.CreateInquiry(authContext(), domain.Inquiry{PropertyID: 42, Name: "Asha", Email: "asha@example.com", Message: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), confirmation.ID)
	assert.Equal(t, "new", confirmation.Status)
	assert.Equal(t, 2026, confirmation.CreatedAt.Year())
}

func TestClient_RateLimiterRespectsContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	client = NewClient(Config{BaseURL: client.baseURL, Timeout: time.Second, RPS: 0.001, Burst: 1})

	require.NoError(t, client.RemoveFromFavorites(authContext(), 1))

	ctx, cancel := context.WithTimeout(authContext(), 50*time.Millisecond)
	defer cancel()
	err := client.RemoveFromFavorites(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}
