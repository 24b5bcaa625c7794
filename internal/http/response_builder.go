package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"debtplan/internal/core"
	"debtplan/internal/log"
	"debtplan/internal/services"
	"debtplan/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps service and storage errors to status codes. Anything
// unexpected is logged and reported as a 500 without details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.NewFields().
				WithError(err, log.ErrorTypeInternal).
				WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent(), r.Referer()).
				ToSlice()...)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, core.ErrInvalidAmount), services.IsValidation(err):
		return http.StatusUnprocessableEntity, rootCause(err).Error()
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict, "already exists"
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, services.ErrInvalidCredentials.Error()
	case errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized, services.ErrInvalidToken.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// rootCause unwraps a validation error to the message users can act on.
func rootCause(err error) error {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return ve.Err
	}
	return err
}
