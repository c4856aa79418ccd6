// internal/handler/common.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jerent/carfleet/internal/domain"
)

type BaseResponse struct {
	Ok bool `json:"ok"`
}

type ErrorResponse struct {
	BaseResponse
	Error string `json:"error"`
}

// respondWithError sends an error response with a message
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	// Sets content type header
	w.Header().Set("Content-Type", "application/json")

	// Sets the HTTP status code
	w.WriteHeader(code)

	// Encodes the response
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// If encoding fails, sends a plain text response
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// statusForError maps domain errors to HTTP status codes. Unknown errors are
// reported verbatim with a 500 so the backend's message reaches the client.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrConfirmationRequired),
		errors.Is(err, domain.ErrInvalidConfirmationCode),
		errors.Is(err, domain.ErrAlreadyConfirmed):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrOrganizationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOrganizationUnresolved):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondWithDomainError reports a failed operation, preserving the error's
// own message so the client can display it.
func respondWithDomainError(w http.ResponseWriter, err error) {
	respondWithError(w, statusForError(err), err.Error())
}
