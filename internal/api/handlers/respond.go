package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pulseapp/auth-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps domain errors onto HTTP statuses and user-facing
// messages. Anything unmapped is a 500 with the detail kept server-side.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmailRequired):
		http.Error(w, "Email is required", http.StatusBadRequest)
	case errors.Is(err, domain.ErrInvalidOTP):
		http.Error(w, "Invalid or expired verification code", http.StatusBadRequest)
	case errors.Is(err, domain.ErrPasswordMismatch):
		http.Error(w, "Passwords do not match", http.StatusBadRequest)
	case errors.Is(err, domain.ErrWeakPassword):
		http.Error(w, "Password must be at least 8 characters", http.StatusBadRequest)
	case errors.Is(err, domain.ErrInvalidUsername):
		http.Error(w, "Username must be 3-50 lowercase letters, digits or underscores", http.StatusBadRequest)
	case errors.Is(err, domain.ErrInvalidStep):
		http.Error(w, "Invalid registration step", http.StatusBadRequest)
	case errors.Is(err, domain.ErrSessionCompleted):
		http.Error(w, "Registration already completed", http.StatusBadRequest)
	case errors.Is(err, domain.ErrEmailTaken):
		http.Error(w, "Email is already registered", http.StatusConflict)
	case errors.Is(err, domain.ErrUsernameTaken):
		http.Error(w, "Username is already taken", http.StatusConflict)
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
		http.Error(w, "Registration session expired, please restart", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrInvalidCredentials):
		http.Error(w, "Incorrect email or password", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrEmailNotVerified):
		http.Error(w, "Please verify your email before logging in", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrInvalidToken):
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrInvalidRefreshToken):
		http.Error(w, "Invalid or expired refresh token", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrNoActiveSession):
		http.Error(w, "No active session found", http.StatusUnauthorized)
	default:
		log.Printf("ERROR [handlers] internal error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
