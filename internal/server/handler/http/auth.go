// Package http provides the HTTP handlers and routing for the MoodKeeper API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/moodkeeper/MoodKeeper/internal/service"
)

// AuthService defines the signup/confirm/login operations required by the
// AuthHandler.
type AuthService interface {
	// SignUp registers the email and returns the issued confirmation code.
	SignUp(ctx context.Context, email string) (string, error)
	// Confirm submits a confirmation code for the email.
	Confirm(ctx context.Context, email, code string) error
	// ResendCode issues a fresh confirmation code.
	ResendCode(ctx context.Context, email string) (string, error)
	// Login checks that the account exists and is confirmed.
	Login(ctx context.Context, email string) error
}

// AuthHandler handles HTTP requests for the auth lifecycle.
type AuthHandler struct {
	AuthService AuthService
}

// authError is the provider's {code, message} error shape.
type authError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(authError{Code: code, Message: message})
}

// mapAuthError translates service sentinel errors to the wire shape.
func mapAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserExists):
		writeAuthError(w, http.StatusConflict, "UsernameExistsException", "user already exists")
	case errors.Is(err, service.ErrUserNotFound):
		writeAuthError(w, http.StatusForbidden, "UserNotFoundException", "user not found")
	case errors.Is(err, service.ErrNotConfirmed):
		writeAuthError(w, http.StatusForbidden, "UserNotConfirmedException", "confirm your account first")
	case errors.Is(err, service.ErrCodeMismatch):
		writeAuthError(w, http.StatusBadRequest, "CodeMismatchException", "invalid confirmation code")
	case errors.Is(err, service.ErrAlreadySignedUp):
		writeAuthError(w, http.StatusBadRequest, "InvalidParameterException", "account already confirmed")
	default:
		writeAuthError(w, http.StatusInternalServerError, "InternalError", "internal error")
	}
}

type emailRequest struct {
	Email string `json:"email"`
}

// Register handles POST /api/register. The confirmation code is delivered
// out of band; the response only reports the pending state.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeAuthError(w, http.StatusBadRequest, "InvalidParameterException", "email is required")
		return
	}

	if _, err := h.AuthService.SignUp(r.Context(), req.Email); err != nil {
		mapAuthError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":         "needsConfirmation",
		"deliveryMedium": "EMAIL",
	})
}

// Confirm handles POST /api/confirm.
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Code == "" {
		writeAuthError(w, http.StatusBadRequest, "InvalidParameterException", "email and code are required")
		return
	}

	if err := h.AuthService.Confirm(r.Context(), req.Email, req.Code); err != nil {
		mapAuthError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "confirmed"})
}

// Resend handles POST /api/resend.
func (h *AuthHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeAuthError(w, http.StatusBadRequest, "InvalidParameterException", "email is required")
		return
	}

	if _, err := h.AuthService.ResendCode(r.Context(), req.Email); err != nil {
		mapAuthError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "sent"})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeAuthError(w, http.StatusBadRequest, "InvalidParameterException", "email is required")
		return
	}

	if err := h.AuthService.Login(r.Context(), req.Email); err != nil {
		mapAuthError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"user":   req.Email,
	})
}
