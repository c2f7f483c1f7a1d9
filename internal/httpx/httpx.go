// Package httpx holds the JSON request/response helpers shared by the API handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ayush/flowbit/backend/internal/models"
)

// maxBodyBytes bounds request bodies; every payload here is a handful of fields.
const maxBodyBytes = 1 << 20

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "error", err)
	}
}

// WriteMessage writes a {"message": ...} body.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, models.MessageResponse{Message: msg})
}

// Decode reads a JSON body into v. Malformed bodies become validation errors;
// errors raised by field decoders are returned as-is.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, models.ErrValidation) {
			return err
		}
		return models.NewValidationError("", "invalid request body")
	}
	return nil
}

// StatusFor maps a service error onto an HTTP status and client-safe message.
func StatusFor(err error) (int, string) {
	var ve *models.ValidationError
	var nf *notFound
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound, nf.msg
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, models.ErrDuplicateEmail):
		return http.StatusBadRequest, models.ErrDuplicateEmail.Error()
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.ErrInvalidCredentials.Error()
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, models.ErrUnauthenticated.Error()
	case errors.Is(err, models.ErrInvalidToken):
		return http.StatusUnauthorized, models.ErrInvalidToken.Error()
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, models.ErrForbidden.Error()
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, models.ErrNotFound.Error()
	default:
		return http.StatusInternalServerError, "server error"
	}
}

// Error writes err as a {"message": ...} response. Internal errors are
// logged and replaced by a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := StatusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	WriteMessage(w, status, msg)
}

// NotFoundMessage overrides the generic not-found text for a resource.
func NotFoundMessage(err error, msg string) error {
	if errors.Is(err, models.ErrNotFound) {
		return &notFound{msg: msg}
	}
	return err
}

type notFound struct{ msg string }

func (e *notFound) Error() string        { return e.msg }
func (e *notFound) Is(target error) bool { return target == models.ErrNotFound }
