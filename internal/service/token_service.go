package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pulseapp/auth-service/internal/config"
	"github.com/pulseapp/auth-service/internal/domain"
)

// Claims is the identity carried by a validated access token.
type Claims struct {
	UserID   uuid.UUID
	Email    string
	Username string
}

// TokenService issues signed access tokens and opaque refresh/session
// tokens. Access token validity is purely computational; refresh tokens are
// high-entropy secrets looked up in the session store.
type TokenService struct {
	cfg *config.Config
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{cfg: cfg}
}

func (s *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"email":    user.Email,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.AccessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// Validate checks signature and expiry. Malformed, expired and badly signed
// tokens all collapse into the same error so callers cannot tell them apart.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	email, _ := mapClaims["email"].(string)
	username, _ := mapClaims["username"].(string)

	return &Claims{UserID: userID, Email: email, Username: username}, nil
}

// NewRefreshToken returns a fresh 256-bit URL-safe secret.
func (s *TokenService) NewRefreshToken() (string, error) {
	return opaqueToken()
}

// NewSessionToken returns a bearer token for a registration session.
func (s *TokenService) NewSessionToken() (string, error) {
	return opaqueToken()
}

func opaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
