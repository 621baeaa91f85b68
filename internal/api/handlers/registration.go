package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pulseapp/auth-service/internal/domain"
	"github.com/pulseapp/auth-service/internal/service"
)

type RegistrationHandler struct {
	registration *service.RegistrationService
}

func NewRegistrationHandler(registration *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registration: registration}
}

type StartRegistrationRequest struct {
	Email string `json:"email"`
}

type SessionTokenRequest struct {
	SessionToken string `json:"sessionToken"`
}

type VerifyOTPRequest struct {
	SessionToken string `json:"sessionToken"`
	OTP          string `json:"otp"`
}

type SetPasswordRequest struct {
	SessionToken    string `json:"sessionToken"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type SetUsernameRequest struct {
	SessionToken string `json:"sessionToken"`
	Username     string `json:"username"`
}

type CompleteRegistrationRequest struct {
	SessionToken string `json:"sessionToken"`
	FullName     string `json:"fullName"`
	PhoneNumber  string `json:"phoneNumber"`
	CountryCode  string `json:"countryCode"`
	DateOfBirth  string `json:"dateOfBirth"`
}

type RegistrationStepResponse struct {
	SessionToken string `json:"sessionToken"`
	CurrentStep  string `json:"currentStep"`
	Message      string `json:"message"`
}

type CompleteRegistrationResponse struct {
	UserID          string `json:"userId"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	IsEmailVerified bool   `json:"isEmailVerified"`
	Message         string `json:"message"`
}

func stepResponse(session *domain.RegistrationSession, message string) RegistrationStepResponse {
	return RegistrationStepResponse{
		SessionToken: session.SessionToken,
		CurrentStep:  string(session.CurrentStep),
		Message:      message,
	}
}

func (h *RegistrationHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.registration.Start(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stepResponse(session, "Verification code sent"))
}

func (h *RegistrationHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req SessionTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.registration.ResendOTP(r.Context(), req.SessionToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stepResponse(session, "Verification code resent"))
}

func (h *RegistrationHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.registration.VerifyOTP(r.Context(), req.SessionToken, req.OTP)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stepResponse(session, "Email verified"))
}

func (h *RegistrationHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.registration.SetPassword(r.Context(), req.SessionToken, req.Password, req.ConfirmPassword)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stepResponse(session, "Password set"))
}

func (h *RegistrationHandler) SetUsername(w http.ResponseWriter, r *http.Request) {
	var req SetUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.registration.SetUsername(r.Context(), req.SessionToken, req.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stepResponse(session, "Username set"))
}

func (h *RegistrationHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompleteRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.registration.Complete(r.Context(), req.SessionToken, service.ProfileInput{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		CountryCode: req.CountryCode,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CompleteRegistrationResponse{
		UserID:          user.ID.String(),
		Username:        user.Username,
		Email:           user.Email,
		IsEmailVerified: user.IsEmailVerified,
		Message:         "Registration completed",
	})
}
