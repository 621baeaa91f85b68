package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// RegistrationStep is the forward-only progression of a signup attempt.
type RegistrationStep string

const (
	StepEmail     RegistrationStep = "EMAIL"
	StepOTP       RegistrationStep = "OTP"
	StepPassword  RegistrationStep = "PASSWORD"
	StepUsername  RegistrationStep = "USERNAME"
	StepCompleted RegistrationStep = "COMPLETED"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,50}$`)

// ValidUsername reports whether name matches the account username rules:
// lowercase letters, digits and underscore, 3-50 characters.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

// RegistrationSession is a disposable state machine instance for one signup
// attempt. The session token is a bearer capability: possession alone
// authorizes the next step.
type RegistrationSession struct {
	ID              uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SessionToken    string           `json:"-" gorm:"uniqueIndex;not null"`
	Email           string           `json:"email" gorm:"index;not null"`
	FullName        string           `json:"fullName"`
	PhoneNumber     string           `json:"phoneNumber"`
	CountryCode     string           `json:"countryCode"`
	DateOfBirth     string           `json:"dateOfBirth"`
	PasswordHash    string           `json:"-"`
	Username        string           `json:"username"`
	IsEmailVerified bool             `json:"isEmailVerified" gorm:"not null;default:false"`
	CurrentStep     RegistrationStep `json:"currentStep" gorm:"not null"`
	ExpiresAt       time.Time        `json:"expiresAt" gorm:"not null"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func (s *RegistrationSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

func (s *RegistrationSession) Completed() bool {
	return s.CurrentStep == StepCompleted
}

// EmailOTP is a one-time numeric verification code. A code is trusted only
// while it is unused and unexpired; successful validation burns it.
type EmailOTP struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email     string    `json:"email" gorm:"index;not null"`
	Code      string    `json:"-" gorm:"not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
	IsUsed    bool      `json:"isUsed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
}
