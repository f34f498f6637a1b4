package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	fieldErrors := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fieldErrors[toJSONFieldName(fe.Field())] = formatValidationError(fe)
		}
	}

	respondJSON(w, http.StatusBadRequest, domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: fieldErrors,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must have at least %s entries", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorTypeForbidden
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	default:
		return domain.ErrorTypeInternal
	}
}

// handleServiceError maps service errors onto HTTP responses. Only unexpected
// failures are logged at error level; rejections are the caller's problem.
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrUserContextRequired):
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, service.ErrPermitNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAuditLogNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrNotificationNotOwned):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPreconditionNotMet):
		// shown to the user as a warning, not a failure
		respondJSON(w, http.StatusConflict, domain.APIError{
			Type:   domain.ErrorTypePrecondition,
			Title:  "Precondition Not Met",
			Status: http.StatusConflict,
			Detail: err.Error(),
		})
	case errors.Is(err, service.ErrStageFrozen),
		errors.Is(err, service.ErrConflict):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		logger.Error(msg, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, msg)
	}
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the error response itself and reports whether the caller may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// parseUintParam reads a positive integer path parameter
func parseUintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return uint(id), nil
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

func parseUintQuery(r *http.Request, key string) *uint {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	n, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return nil
	}
	id := uint(n)
	return &id
}
