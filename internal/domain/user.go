package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FullName        string    `json:"fullName"`
	Username        string    `json:"username" gorm:"uniqueIndex;not null"`
	Email           string    `json:"email" gorm:"uniqueIndex;not null"`
	PhoneNumber     string    `json:"phoneNumber"`
	CountryCode     string    `json:"countryCode"`
	DateOfBirth     string    `json:"dateOfBirth"`
	PasswordHash    string    `json:"-" gorm:"not null"`
	IsEmailVerified bool      `json:"isEmailVerified" gorm:"not null;default:false"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UserSession is a refresh-token-bound login session. The refresh token is an
// opaque secret; whoever presents it owns the session.
type UserSession struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID       uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	RefreshToken string         `json:"-" gorm:"uniqueIndex;not null"`
	IPAddress    string         `json:"ipAddress"`
	DeviceInfo   datatypes.JSON `json:"deviceInfo"`
	ExpiresAt    time.Time      `json:"expiresAt" gorm:"not null"`
	CreatedAt    time.Time      `json:"createdAt"`
	LastUsedAt   time.Time      `json:"lastUsedAt"`
}

func (s *UserSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
