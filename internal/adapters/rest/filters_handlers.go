package rest

import (
	"io"
	"net/http"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// FiltersHandler - эндпоинты формы поиска текущей сессии.
type FiltersHandler struct{}

func NewFiltersHandler() *FiltersHandler {
	return &FiltersHandler{}
}

func (h *FiltersHandler) respondState(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	RespondWithJSON(w, http.StatusOK, toFilterStateResponse(s.Filters.Snapshot()))
}

// GetFilters обрабатывает GET /filters.
func (h *FiltersHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, r)
}

// SetFilters обрабатывает PUT /filters - полная замена фильтра.
func (h *FiltersHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SetFilters"})
	s := sessionFromContext(r.Context())

	var dto FiltersDTO
	if err := decodeJSON(r, &dto); err != nil {
		logger.Warn("Failed to decode filters", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}
	s.Filters.SetFilters(dto.toDomain())
	h.respondState(w, r)
}

// UpdateFilters обрабатывает PATCH /filters - слияние частичного фильтра без валидации.
func (h *FiltersHandler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateFilters"})
	s := sessionFromContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, codeBadRequest, "Failed to read request body")
		return
	}
	patch, err := decodeFiltersPatch(body)
	if err != nil {
		logger.Warn("Failed to decode filters patch", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	s.Filters.UpdateFilters(patch)
	h.respondState(w, r)
}

// ResetFilters обрабатывает POST /filters/reset.
func (h *FiltersHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	sessionFromContext(r.Context()).Filters.ResetFilters()
	h.respondState(w, r)
}

// TogglePropertyType обрабатывает POST /filters/property-types/{type}/toggle.
func (h *FiltersHandler) TogglePropertyType(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "TogglePropertyType"})
	s := sessionFromContext(r.Context())

	if _, err := s.Filters.TogglePropertyType(domain.PropertyType(chi.URLParam(r, "type"))); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	h.respondState(w, r)
}

// ToggleAmenity обрабатывает POST /filters/amenities/{amenity}/toggle.
func (h *FiltersHandler) ToggleAmenity(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ToggleAmenity"})
	s := sessionFromContext(r.Context())

	if _, err := s.Filters.ToggleAmenity(chi.URLParam(r, "amenity")); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	h.respondState(w, r)
}

// ApplyPreset обрабатывает POST /filters/presets/{preset}.
func (h *FiltersHandler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ApplyPreset"})
	s := sessionFromContext(r.Context())

	if _, err := s.Filters.ApplyPreset(r.Context(), chi.URLParam(r, "preset")); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	h.respondState(w, r)
}

// ListPresets обрабатывает GET /filters/presets.
func (h *FiltersHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets := domain.ListPresets()
	resp := make([]PresetResponse, len(presets))
	for i, p := range presets {
		resp[i] = PresetResponse{
			Name:        p.Name,
			Title:       p.Title,
			Filters:     toFiltersDTO(p.Filters),
			ActiveCount: p.Filters.ActiveCount(),
		}
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// SetPriceRange обрабатывает PUT /filters/ranges/price.
func (h *FiltersHandler) SetPriceRange(w http.ResponseWriter, r *http.Request) {
	var dto RangeDTO
	if err := decodeJSON(r, &dto); err != nil {
		WriteJSONError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}
	sessionFromContext(r.Context()).Filters.SetPriceRange(domain.Range{Min: dto.Min, Max: dto.Max})
	h.respondState(w, r)
}

// SetAreaRange обрабатывает PUT /filters/ranges/area.
func (h *FiltersHandler) SetAreaRange(w http.ResponseWriter, r *http.Request) {
	var dto RangeDTO
	if err := decodeJSON(r, &dto); err != nil {
		WriteJSONError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}
	sessionFromContext(r.Context()).Filters.SetAreaRange(domain.Range{Min: dto.Min, Max: dto.Max})
	h.respondState(w, r)
}
