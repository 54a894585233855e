package http

import (
	"encoding/json"
	"net/http"

	"contacts/internal/dto"
	"contacts/internal/service"

	"github.com/go-chi/chi/v5"
)

const (
	msgEmailConfirmed        = "email confirmed"
	msgEmailAlreadyConfirmed = "your email is already confirmed"
	msgCheckYourEmail        = "check your email for confirmation"
	msgResetEmailSent        = "password reset email has been sent"
	msgPasswordUpdated       = "password updated successfully"
)

type AuthHandler struct {
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad request")
		return
	}
	user, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewUserResponse(user))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad request")
		return
	}
	tokens, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	already, err := h.auth.ConfirmEmail(r.Context(), token)
	if err != nil {
		// A token naming a user we no longer know about is a bad request
		// in this flow, not a 404.
		writeConfirmError(w, err)
		return
	}
	msg := msgEmailConfirmed
	if already {
		msg = msgEmailAlreadyConfirmed
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: msg})
}

func writeConfirmError(w http.ResponseWriter, err error) {
	writeDetail(w, http.StatusBadRequest, "verification error")
}

func (h *AuthHandler) RequestEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.RequestEmail
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad request")
		return
	}
	already, err := h.auth.ResendConfirmation(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	msg := msgCheckYourEmail
	if already {
		msg = msgEmailAlreadyConfirmed
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: msg})
}

func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := h.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: msgResetEmailSent})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req dto.PasswordReset
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := h.auth.ResetPassword(r.Context(), token, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: msgPasswordUpdated})
}
