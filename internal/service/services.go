package service

import (
	"github.com/pulseapp/auth-service/internal/config"
	"github.com/pulseapp/auth-service/internal/mailer"
	"github.com/pulseapp/auth-service/internal/repository"
)

type Services struct {
	Token        *TokenService
	OTP          *OTPService
	Registration *RegistrationService
	Session      *SessionService
	Auth         *AuthService
}

func NewServices(repos *repository.Repositories, sender mailer.Sender, cfg *config.Config) *Services {
	tokens := NewTokenService(cfg)
	otp := NewOTPService(repos.OTP, cfg)
	sessions := NewSessionService(repos.Session, repos.User, tokens, cfg)

	return &Services{
		Token:        tokens,
		OTP:          otp,
		Registration: NewRegistrationService(repos.Registration, repos.User, otp, tokens, sender, cfg),
		Session:      sessions,
		Auth:         NewAuthService(repos.User, sessions, tokens, cfg),
	}
}
