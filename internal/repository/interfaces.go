package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulseapp/auth-service/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.UserSession, error)
	// ListActiveByUserID returns unexpired sessions ordered by last_used_at
	// DESC, created_at DESC so the freshest session comes first.
	ListActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.UserSession, error)
	Update(ctx context.Context, session *domain.UserSession) error
	DeleteByRefreshToken(ctx context.Context, refreshToken string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, session *domain.RegistrationSession) error
	GetBySessionToken(ctx context.Context, sessionToken string) (*domain.RegistrationSession, error)
	Update(ctx context.Context, session *domain.RegistrationSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type OTPRepository interface {
	Create(ctx context.Context, otp *domain.EmailOTP) error
	// GetActive returns the newest unused, unexpired OTP matching (email, code).
	GetActive(ctx context.Context, email, code string) (*domain.EmailOTP, error)
	// MarkUsed burns the code. It reports false if the row was already used,
	// so a concurrent replay of the same code cannot validate twice.
	MarkUsed(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Registration RegistrationRepository
	OTP          OTPRepository
}
