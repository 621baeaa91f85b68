package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/auth-service/internal/config"
	"github.com/pulseapp/auth-service/internal/domain"
	"github.com/pulseapp/auth-service/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SessionService owns refresh-token sessions: single-active-session policy
// on login, rotation on refresh, and current-session resolution for an
// access token.
type SessionService struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
	tokens      *TokenService
	cfg         *config.Config
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	tokens *TokenService,
	cfg *config.Config,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		tokens:      tokens,
		cfg:         cfg,
	}
}

// Create opens a new session for the user. Prior sessions are deleted first
// so a fresh login invalidates every previously issued refresh token; a
// failed delete is logged and login continues.
func (s *SessionService) Create(ctx context.Context, user *domain.User, ip string, deviceInfo datatypes.JSON) (*domain.UserSession, error) {
	if err := s.sessionRepo.DeleteByUserID(ctx, user.ID); err != nil {
		log.Printf("ERROR [session] delete prior sessions for user %s: %v", user.ID, err)
	}

	token, err := s.tokens.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.UserSession{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: token,
		IPAddress:    ip,
		DeviceInfo:   deviceInfo,
		ExpiresAt:    now.Add(s.cfg.RefreshTokenTTL),
		CreatedAt:    now,
		LastUsedAt:   now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// FindActive resolves a refresh token to its session, treating unknown and
// expired tokens the same.
func (s *SessionService) FindActive(ctx context.Context, refreshToken string) (*domain.UserSession, error) {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, err
	}

	if session.Expired(time.Now()) {
		return nil, domain.ErrInvalidRefreshToken
	}
	return session, nil
}

// CurrentRefreshToken returns the refresh token of the freshest active
// session for the access token's user. Under the single-session policy
// there is at most one, but if several coexist the most recently used wins.
func (s *SessionService) CurrentRefreshToken(ctx context.Context, accessToken string) (string, error) {
	claims, err := s.tokens.Validate(accessToken)
	if err != nil {
		return "", err
	}

	sessions, err := s.sessionRepo.ListActiveByUserID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return "", domain.ErrNoActiveSession
	}
	return sessions[0].RefreshToken, nil
}

// Rotate exchanges an active refresh token for a new one, invalidating the
// old token so a stolen copy cannot be replayed.
func (s *SessionService) Rotate(ctx context.Context, oldRefreshToken string) (*domain.UserSession, *domain.User, error) {
	session, err := s.FindActive(ctx, oldRefreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrInvalidRefreshToken
		}
		return nil, nil, err
	}

	newToken, err := s.tokens.NewRefreshToken()
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	session.RefreshToken = newToken
	session.LastUsedAt = now
	session.ExpiresAt = now.Add(s.cfg.RefreshTokenTTL)

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// Delete removes the session bound to a refresh token (logout).
func (s *SessionService) Delete(ctx context.Context, refreshToken string) error {
	return s.sessionRepo.DeleteByRefreshToken(ctx, refreshToken)
}

// DeleteAllForUser removes every session for a user (logout everywhere).
func (s *SessionService) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.sessionRepo.DeleteByUserID(ctx, userID)
}
