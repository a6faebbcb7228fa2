package rest

import (
	"net/http"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"session-service/internal/core/port/usecases_port"
	"session-service/internal/core/usecase"
)

// PropertiesHandler - поиск, карточка объекта и формы.
type PropertiesHandler struct {
	searchUC    usecases_port.SearchPropertiesUseCasePort
	detailsUC   usecases_port.GetPropertyDetailsUseCasePort
	inquiryUC   usecases_port.SubmitInquiryUseCasePort
	siteVisitUC usecases_port.ScheduleSiteVisitUseCasePort
	submitUC    usecases_port.SubmitPropertyUseCasePort
}

func NewPropertiesHandler(
	searchUC usecases_port.SearchPropertiesUseCasePort,
	detailsUC usecases_port.GetPropertyDetailsUseCasePort,
	inquiryUC usecases_port.SubmitInquiryUseCasePort,
	siteVisitUC usecases_port.ScheduleSiteVisitUseCasePort,
	submitUC usecases_port.SubmitPropertyUseCasePort,
) *PropertiesHandler {
	return &PropertiesHandler{
		searchUC:    searchUC,
		detailsUC:   detailsUC,
		inquiryUC:   inquiryUC,
		siteVisitUC: siteVisitUC,
		submitUC:    submitUC,
	}
}

// Search обрабатывает GET /search: отправляет форму сессии и ищет по ней.
func (h *PropertiesHandler) Search(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Search"})
	s := sessionFromContext(r.Context())

	page, err := getIntOrDefault(r, "page", 1)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, codeValidation, "page must be an integer")
		return
	}
	pageSize, err := getIntOrDefault(r, "page_size", usecase.DefaultPageSize)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, codeValidation, "page_size must be an integer")
		return
	}

	filters, err := s.Filters.Submit(r.Context())
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}

	result, err := h.searchUC.Execute(r.Context(), filters, page, pageSize)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}

	resp := SearchResponse{
		Properties:  make([]PropertyResponse, len(result.Properties)),
		Total:       result.TotalCount,
		Page:        result.Page,
		PageSize:    result.PageSize,
		TotalPages:  result.TotalPages(),
		Filters:     toFiltersDTO(filters),
		ActiveCount: filters.ActiveCount(),
	}
	for i, p := range result.Properties {
		resp.Properties[i] = toPropertyResponse(p, s.Favorites.IsFavorite(p.ID))
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// GetProperty обрабатывает GET /properties/{propertyID}.
func (h *PropertiesHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetProperty"})
	s := sessionFromContext(r.Context())

	propertyID, err := propertyIDParam(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	property, err := h.detailsUC.Execute(r.Context(), propertyID)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toPropertyResponse(*property, s.Favorites.IsFavorite(property.ID)))
}

// SubmitProperty обрабатывает POST /properties.
func (h *PropertiesHandler) SubmitProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubmitProperty"})

	var submission domain.PropertySubmission
	if err := decodeJSON(r, &submission); err != nil {
		logger.Warn("Failed to decode request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}

	confirmation, err := h.submitUC.Execute(r.Context(), submission)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, toConfirmationResponse(confirmation))
}

// SubmitInquiry обрабатывает POST /properties/{propertyID}/inquiries.
func (h *PropertiesHandler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubmitInquiry"})

	propertyID, err := propertyIDParam(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	var inquiry domain.Inquiry
	if err := decodeJSON(r, &inquiry); err != nil {
		logger.Warn("Failed to decode request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}
	inquiry.PropertyID = propertyID

	confirmation, err := h.inquiryUC.Execute(r.Context(), inquiry)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, toConfirmationResponse(confirmation))
}

// ScheduleSiteVisit обрабатывает POST /properties/{propertyID}/site-visits.
func (h *PropertiesHandler) ScheduleSiteVisit(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ScheduleSiteVisit"})

	propertyID, err := propertyIDParam(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	var visit domain.SiteVisit
	if err := decodeJSON(r, &visit); err != nil {
		logger.Warn("Failed to decode request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}
	visit.PropertyID = propertyID

	confirmation, err := h.siteVisitUC.Execute(r.Context(), visit)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, toConfirmationResponse(confirmation))
}
