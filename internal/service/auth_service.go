package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pulseapp/auth-service/internal/config"
	"github.com/pulseapp/auth-service/internal/domain"
	"github.com/pulseapp/auth-service/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LoginInput struct {
	Email      string
	Password   string
	IPAddress  string
	DeviceInfo datatypes.JSON
}

// TokenBundle is the payload returned by login and refresh.
type TokenBundle struct {
	UserID           uuid.UUID
	Email            string
	Username         string
	FullName         string
	AccessToken      string
	RefreshToken     string
	ExpiresIn        int64
	RefreshExpiresIn int64
	Message          string
}

// AuthService composes the user store, token service and session manager
// into login, logout and refresh.
type AuthService struct {
	userRepo repository.UserRepository
	sessions *SessionService
	tokens   *TokenService
	cfg      *config.Config
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessions *SessionService,
	tokens *TokenService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		tokens:   tokens,
		cfg:      cfg,
	}
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*TokenBundle, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, domain.ErrEmailRequired
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error as a wrong password; unknown emails must be
			// indistinguishable from bad credentials.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsEmailVerified {
		return nil, domain.ErrEmailNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.sessions.Create(ctx, user, input.IPAddress, input.DeviceInfo)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	return s.bundle(user, accessToken, session.RefreshToken, "Login successful"), nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.Delete(ctx, refreshToken)
}

// Refresh rotates the refresh token and issues a fresh access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenBundle, error) {
	session, user, err := s.sessions.Rotate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	return s.bundle(user, accessToken, session.RefreshToken, "Token refreshed"), nil
}

// ValidateToken is used by the request-authentication middleware.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	return s.tokens.Validate(tokenString)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) bundle(user *domain.User, accessToken, refreshToken, message string) *TokenBundle {
	return &TokenBundle{
		UserID:           user.ID,
		Email:            user.Email,
		Username:         user.Username,
		FullName:         user.FullName,
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        int64(s.cfg.AccessTokenTTL.Seconds()),
		RefreshExpiresIn: int64(s.cfg.RefreshTokenTTL.Seconds()),
		Message:          message,
	}
}
