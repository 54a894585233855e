package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"contacts/internal/domain"
	"contacts/internal/service/impl"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeError maps domain errors onto HTTP statuses. Flow-specific overrides
// (confirmation's 400 for an unknown user) happen in the handlers.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrUsernameTaken):
		writeDetail(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "incorrect username or password")
	case errors.Is(err, domain.ErrEmailNotConfirmed):
		writeDetail(w, http.StatusUnauthorized, "email address not confirmed")
	case errors.Is(err, domain.ErrUserNotFound):
		writeDetail(w, http.StatusNotFound, "user not found")
	case errors.Is(err, domain.ErrContactNotFound):
		writeDetail(w, http.StatusNotFound, "contact not found")
	case errors.Is(err, domain.ErrExpiredToken):
		writeDetail(w, http.StatusBadRequest, "token expired")
	case errors.Is(err, domain.ErrMalformedToken):
		writeDetail(w, http.StatusBadRequest, "invalid token")
	case errors.Is(err, impl.ErrEmptyCredential), errors.Is(err, impl.ErrPasswordLength), errors.Is(err, impl.ErrInvalidContact):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}
