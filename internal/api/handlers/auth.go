package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pulseapp/auth-service/internal/api/middleware"
	"github.com/pulseapp/auth-service/internal/service"
	"gorm.io/datatypes"
)

type AuthHandler struct {
	auth     *service.AuthService
	sessions *service.SessionService
}

func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

type LoginRequest struct {
	Email      string          `json:"email"`
	Password   string          `json:"password"`
	DeviceInfo json.RawMessage `json:"deviceInfo"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenBundleResponse struct {
	UserID           string `json:"userId"`
	Email            string `json:"email"`
	Username         string `json:"username"`
	FullName         string `json:"fullName"`
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int64  `json:"expiresIn"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn"`
	Message          string `json:"message"`
}

type UserResponse struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FullName        string `json:"fullName"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}

func bundleResponse(b *service.TokenBundle) TokenBundleResponse {
	return TokenBundleResponse{
		UserID:           b.UserID.String(),
		Email:            b.Email,
		Username:         b.Username,
		FullName:         b.FullName,
		AccessToken:      b.AccessToken,
		RefreshToken:     b.RefreshToken,
		ExpiresIn:        b.ExpiresIn,
		RefreshExpiresIn: b.RefreshExpiresIn,
		Message:          b.Message,
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Password == "" {
		http.Error(w, "Password is required", http.StatusBadRequest)
		return
	}

	bundle, err := h.auth.Login(r.Context(), service.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		IPAddress:  clientIP(r),
		DeviceInfo: datatypes.JSON(req.DeviceInfo),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bundleResponse(bundle))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.RefreshToken == "" {
		http.Error(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	bundle, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bundleResponse(bundle))
}

// Logout accepts a refresh token in the body, or falls back to resolving
// the caller's current session from the bearer access token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		authHeader := r.Header.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Refresh token is required", http.StatusBadRequest)
			return
		}

		token, err := h.sessions.CurrentRefreshToken(r.Context(), parts[1])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		refreshToken = token
	}

	if err := h.auth.Logout(r.Context(), refreshToken); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.sessions.DeleteAllForUser(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out everywhere"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{
		ID:              user.ID.String(),
		Username:        user.Username,
		Email:           user.Email,
		FullName:        user.FullName,
		IsEmailVerified: user.IsEmailVerified,
	})
}
