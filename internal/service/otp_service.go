package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/auth-service/internal/config"
	"github.com/pulseapp/auth-service/internal/domain"
	"github.com/pulseapp/auth-service/internal/repository"
	"gorm.io/gorm"
)

// OTPService issues and validates one-time email verification codes.
type OTPService struct {
	otpRepo repository.OTPRepository
	cfg     *config.Config
}

func NewOTPService(otpRepo repository.OTPRepository, cfg *config.Config) *OTPService {
	return &OTPService{otpRepo: otpRepo, cfg: cfg}
}

// GenerateCode produces a numeric code from a cryptographically secure
// source. A predictable generator here would break the verification model.
func GenerateCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// Issue creates a fresh code for the email. Earlier unused codes stay valid
// until they expire; resend supersedes rather than revokes.
func (s *OTPService) Issue(ctx context.Context, email string) (*domain.EmailOTP, error) {
	code, err := GenerateCode(s.cfg.OTPLength)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	otp := &domain.EmailOTP{
		ID:        uuid.New(),
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(s.cfg.OTPTTL),
		IsUsed:    false,
		CreatedAt: now,
	}

	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return nil, err
	}
	return otp, nil
}

// Validate succeeds only for an unused, unexpired (email, code) pair and
// burns the code on success. Wrong, expired and already-used codes are
// indistinguishable to the caller.
func (s *OTPService) Validate(ctx context.Context, email, code string) error {
	otp, err := s.otpRepo.GetActive(ctx, email, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrInvalidOTP
		}
		return err
	}

	used, err := s.otpRepo.MarkUsed(ctx, otp.ID)
	if err != nil {
		return err
	}
	if !used {
		// Lost the race against a concurrent validation of the same code.
		return domain.ErrInvalidOTP
	}
	return nil
}
