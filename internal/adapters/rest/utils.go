package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// Коды ошибок в конверте ответа.
const (
	codeValidation      = "VALIDATION_ERROR"
	codeInvalidRange    = "INVALID_RANGE"
	codeUnknownPreset   = "UNKNOWN_PRESET"
	codeUnauthenticated = "UNAUTHENTICATED"
	codeNotFound        = "NOT_FOUND"
	codeUpstream        = "UPSTREAM_ERROR"
	codeInternal        = "INTERNAL_ERROR"
	codeBadRequest      = "BAD_REQUEST"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success   bool      `json:"success"`
	Error     errorBody `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// WriteJSONError отправляет конверт ошибки с заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(errorResponse{
		Success:   false,
		Error:     errorBody{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
	})
}

// RespondWithJSON отправляет успешный ответ в конверте {"success": true, "data": ...}
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(successResponse{Success: true, Data: payload})
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// writeDomainError переводит ошибку ядра в HTTP-статус.
// Порядок важен: ответ 401 от marketplace API несет одновременно ErrUnauthenticated и ErrNetwork.
func writeDomainError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		WriteJSONError(w, http.StatusUnauthorized, codeUnauthenticated, err.Error())
	case errors.Is(err, domain.ErrInvalidRange):
		WriteJSONError(w, http.StatusBadRequest, codeInvalidRange, err.Error())
	case errors.Is(err, domain.ErrUnknownPreset):
		WriteJSONError(w, http.StatusBadRequest, codeUnknownPreset, err.Error())
	case errors.Is(err, domain.ErrValidation):
		WriteJSONError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrNetwork):
		WriteJSONError(w, http.StatusBadGateway, codeUpstream, "Marketplace API is unavailable, please retry")
	default:
		logger.Error("Unhandled error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, codeInternal, "Internal server error")
	}
}

// propertyIDParam читает {propertyID} из пути.
func propertyIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "propertyID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("property id must be an integer")
	}
	return id, nil
}

// getIntOrDefault читает целый query-параметр. Пустое значение - def.
func getIntOrDefault(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
