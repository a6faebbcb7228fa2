package rest

import (
	"net/http"
	"session-service/internal/contextkeys"
	"session-service/internal/core/port"
)

// FavoritesHandler - эндпоинты избранного текущей сессии.
type FavoritesHandler struct{}

func NewFavoritesHandler() *FavoritesHandler {
	return &FavoritesHandler{}
}

// GetFavorites обрабатывает GET /favorites.
// Первое обращение аутентифицированной сессии загружает список с сервера.
func (h *FavoritesHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetFavorites"})
	s := sessionFromContext(r.Context())

	if s.Favorites.State().Authenticated && !s.Favorites.Loaded() {
		if err := s.Favorites.Load(r.Context()); err != nil {
			logger.Error("Initial favorites load failed", err, nil)
			writeDomainError(w, logger, err)
			return
		}
	}

	RespondWithJSON(w, http.StatusOK, toFavoritesStateResponse(s.Favorites.State()))
}

// LoadFavorites обрабатывает POST /favorites/load - явная перезагрузка списка.
func (h *FavoritesHandler) LoadFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "LoadFavorites"})
	s := sessionFromContext(r.Context())

	if err := s.Favorites.Load(r.Context()); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toFavoritesStateResponse(s.Favorites.State()))
}

// AddToFavorites обрабатывает POST /favorites.
func (h *FavoritesHandler) AddToFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AddToFavorites"})
	s := sessionFromContext(r.Context())

	var req AddFavoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("Failed to decode request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"property_id": req.PropertyID})
	handlerLogger.Info("Processing request to add to favorites", nil)

	if err := s.Favorites.Add(r.Context(), req.PropertyID); err != nil {
		writeDomainError(w, handlerLogger, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, toFavoritesStateResponse(s.Favorites.State()))
}

// RemoveFromFavorites обрабатывает DELETE /favorites/{propertyID}.
func (h *FavoritesHandler) RemoveFromFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RemoveFromFavorites"})
	s := sessionFromContext(r.Context())

	propertyID, err := propertyIDParam(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"property_id": propertyID})
	handlerLogger.Info("Processing request to remove from favorites", nil)

	if err := s.Favorites.Remove(r.Context(), propertyID); err != nil {
		writeDomainError(w, handlerLogger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toFavoritesStateResponse(s.Favorites.State()))
}

// ToggleFavorite обрабатывает POST /favorites/{propertyID}/toggle.
func (h *FavoritesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ToggleFavorite"})
	s := sessionFromContext(r.Context())

	propertyID, err := propertyIDParam(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	isFavorite, err := s.Favorites.Toggle(r.Context(), propertyID)
	if err != nil {
		writeDomainError(w, logger.WithFields(port.Fields{"property_id": propertyID}), err)
		return
	}
	RespondWithJSON(w, http.StatusOK, IsFavoriteResponse{PropertyID: propertyID, IsFavorite: isFavorite})
}

// IsFavorite обрабатывает GET /favorites/{propertyID}. Никогда не обращается к сети.
func (h *FavoritesHandler) IsFavorite(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	propertyID, err := propertyIDParam(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, IsFavoriteResponse{PropertyID: propertyID, IsFavorite: s.Favorites.IsFavorite(propertyID)})
}
