package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/auth-service/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	fullName string
	username string
	email    string
	password string
	verified bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		fullName: "Test User",
		username: fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("test_%s@example.com", suffix),
		password: "testpassword123",
		verified: true,
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) Unverified() *UserBuilder {
	b.verified = false
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:              uuid.New(),
		FullName:        b.fullName,
		Username:        b.username,
		Email:           b.email,
		PasswordHash:    string(hashedPassword),
		IsEmailVerified: b.verified,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// SessionBuilder creates user session rows directly, bypassing the
// single-active-session policy, for tests that need several sessions.
type SessionBuilder struct {
	userID     uuid.UUID
	expiresAt  time.Time
	lastUsedAt time.Time
}

func NewSessionBuilder(userID uuid.UUID) *SessionBuilder {
	now := time.Now()
	return &SessionBuilder{
		userID:     userID,
		expiresAt:  now.Add(24 * time.Hour),
		lastUsedAt: now,
	}
}

func (b *SessionBuilder) WithExpiresAt(at time.Time) *SessionBuilder {
	b.expiresAt = at
	return b
}

func (b *SessionBuilder) WithLastUsedAt(at time.Time) *SessionBuilder {
	b.lastUsedAt = at
	return b
}

func (b *SessionBuilder) Build(t *testing.T, db *gorm.DB) *domain.UserSession {
	t.Helper()

	session := &domain.UserSession{
		ID:           uuid.New(),
		UserID:       b.userID,
		RefreshToken: uuid.New().String(),
		IPAddress:    "127.0.0.1",
		ExpiresAt:    b.expiresAt,
		CreatedAt:    time.Now(),
		LastUsedAt:   b.lastUsedAt,
	}

	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	return session
}
