package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeValidationErrors reports the full structured list of field errors.
func writeValidationErrors(w http.ResponseWriter, errs []domain.FieldError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
}

// handleDomainError maps service-layer errors to HTTP responses. Unexpected
// errors are logged and hidden behind a generic 500.
func handleDomainError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var ve *domain.ValidationError

	switch {
	case errors.As(err, &ve):
		writeValidationErrors(w, ve.Errors)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
