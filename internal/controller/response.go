package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_calendar/internal/service"
)

// Коды ошибок в теле ответа
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeCapacityExceeded   = "CAPACITY_EXCEEDED"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeRateLimited        = "RATE_LIMITED"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to encode response", zap.Error(err))
	}
}

// handleError отображает ошибки сервиса на HTTP статусы.
// Превышение лимита отдаётся как 400, как и некорректный ввод.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *ValidationError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid input",
			Code:    CodeInvalidInput,
			Details: validationErr.Fields,
		}, s.logger)

	case errors.Is(err, service.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  CodeInvalidInput,
		}, s.logger)

	case errors.Is(err, service.ErrCapacityExceeded):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "Maximum 2 slots allowed per day",
			Code:  CodeCapacityExceeded,
		}, s.logger)

	default:
		s.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Storage unavailable",
			Code:  CodeStorageUnavailable,
		}, s.logger)
	}
}

// decodeAndValidate читает JSON тело в dst и проверяет его теги
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", service.ErrInvalidInput, err)
	}
	return s.validator.Validate(dst)
}
