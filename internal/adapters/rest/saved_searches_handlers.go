package rest

import (
	"net/http"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"session-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SavedSearchesHandler - сохраненные поиски пользователя.
type SavedSearchesHandler struct {
	uc usecases_port.SavedSearchesUseCasePort
}

func NewSavedSearchesHandler(uc usecases_port.SavedSearchesUseCasePort) *SavedSearchesHandler {
	return &SavedSearchesHandler{uc: uc}
}

// ListSavedSearches обрабатывает GET /saved-searches.
func (h *SavedSearchesHandler) ListSavedSearches(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListSavedSearches"})

	searches, err := h.uc.List(r.Context(), contextkeys.UserIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	resp := make([]SavedSearchResponse, len(searches))
	for i, s := range searches {
		resp[i] = toSavedSearchResponse(s)
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// SaveSearch обрабатывает POST /saved-searches.
// Без поля filters сохраняется текущая форма сессии.
func (h *SavedSearchesHandler) SaveSearch(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SaveSearch"})
	s := sessionFromContext(r.Context())

	var req SaveSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("Failed to decode request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}

	var filters domain.PropertyFilters
	if req.Filters != nil {
		filters = req.Filters.toDomain()
	} else {
		submitted, err := s.Filters.Submit(r.Context())
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		filters = submitted
	}

	saved, err := h.uc.Save(r.Context(), contextkeys.UserIDFromContext(r.Context()), req.Name, filters)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, toSavedSearchResponse(*saved))
}

// DeleteSavedSearch обрабатывает DELETE /saved-searches/{searchID}.
func (h *SavedSearchesHandler) DeleteSavedSearch(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteSavedSearch"})

	id, err := uuid.Parse(chi.URLParam(r, "searchID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, codeValidation, "Invalid saved search id")
		return
	}

	if err := h.uc.Delete(r.Context(), contextkeys.UserIDFromContext(r.Context()), id); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplySavedSearch обрабатывает POST /saved-searches/{searchID}/apply.
func (h *SavedSearchesHandler) ApplySavedSearch(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ApplySavedSearch"})
	s := sessionFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "searchID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, codeValidation, "Invalid saved search id")
		return
	}

	if _, err := h.uc.Apply(r.Context(), contextkeys.UserIDFromContext(r.Context()), id, s.Filters); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toFilterStateResponse(s.Filters.Snapshot()))
}
