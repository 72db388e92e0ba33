package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"bankweb/internal/auth"
	"bankweb/internal/domain"
)

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Message string `json:"message"`
}

// respondError maps domain errors to a status and a single human-readable
// message. Anything unmapped is an infrastructure failure for this request.
func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidBalance),
		errors.Is(err, domain.ErrAccountNumberRequired),
		errors.Is(err, domain.ErrEmailRequired),
		errors.Is(err, domain.ErrPasswordMismatch):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrSenderNotFound),
		errors.Is(err, domain.ErrReceiverNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateAccount),
		errors.Is(err, domain.ErrDuplicateUsername),
		errors.Is(err, domain.ErrDuplicateEmail):
		code = http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientBalance):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		code = http.StatusUnauthorized
	}

	if code == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		respondJSON(w, code, errorResponse{Message: "internal server error"})
		return
	}
	respondJSON(w, code, errorResponse{Message: err.Error()})
}
