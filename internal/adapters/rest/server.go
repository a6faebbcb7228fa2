package rest

import (
	"context"
	"fmt"
	"net/http"
	core_port "session-service/internal/core/port"
	"session-service/internal/session"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// ServerConfig - параметры HTTP-сервера.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// Handlers - все обработчики сессионного API.
type Handlers struct {
	Favorites     *FavoritesHandler
	Filters       *FiltersHandler
	Properties    *PropertiesHandler
	SavedSearches *SavedSearchesHandler
}

// Server - наш REST API сервер.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewRouter собирает роутер с middleware. Вынесен отдельно для тестов через httptest.
func NewRouter(cfg ServerConfig, registry *session.Registry, tokens core_port.TokenValidatorPort, h Handlers, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	// Стандартные middleware
	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Session-ID", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Session-ID", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300, // 5 минут
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1/session", func(r chi.Router) {
		r.Use(SessionMiddleware(registry))
		r.Use(AuthMiddleware(registry, tokens))

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", h.Favorites.GetFavorites)
			r.Post("/", h.Favorites.AddToFavorites)
			r.Post("/load", h.Favorites.LoadFavorites)
			r.Get("/{propertyID}", h.Favorites.IsFavorite)
			r.Delete("/{propertyID}", h.Favorites.RemoveFromFavorites)
			r.Post("/{propertyID}/toggle", h.Favorites.ToggleFavorite)
		})

		r.Route("/filters", func(r chi.Router) {
			r.Get("/", h.Filters.GetFilters)
			r.Put("/", h.Filters.SetFilters)
			r.Patch("/", h.Filters.UpdateFilters)
			r.Post("/reset", h.Filters.ResetFilters)
			r.Post("/property-types/{type}/toggle", h.Filters.TogglePropertyType)
			r.Post("/amenities/{amenity}/toggle", h.Filters.ToggleAmenity)
			r.Get("/presets", h.Filters.ListPresets)
			r.Post("/presets/{preset}", h.Filters.ApplyPreset)
			r.Put("/ranges/price", h.Filters.SetPriceRange)
			r.Put("/ranges/area", h.Filters.SetAreaRange)
		})

		r.Get("/search", h.Properties.Search)

		r.Route("/properties", func(r chi.Router) {
			r.Post("/", h.Properties.SubmitProperty)
			r.Get("/{propertyID}", h.Properties.GetProperty)
			r.Post("/{propertyID}/inquiries", h.Properties.SubmitInquiry)
			r.Post("/{propertyID}/site-visits", h.Properties.ScheduleSiteVisit)
		})

		r.Route("/saved-searches", func(r chi.Router) {
			r.Get("/", h.SavedSearches.ListSavedSearches)
			r.Post("/", h.SavedSearches.SaveSearch)
			r.Delete("/{searchID}", h.SavedSearches.DeleteSavedSearch)
			r.Post("/{searchID}/apply", h.SavedSearches.ApplySavedSearch)
		})
	})

	return r
}

// NewServer создает новый экземпляр сервера.
func NewServer(cfg ServerConfig, handler http.Handler, baseLogger core_port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger,
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
