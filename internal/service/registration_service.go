package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/auth-service/internal/config"
	"github.com/pulseapp/auth-service/internal/domain"
	"github.com/pulseapp/auth-service/internal/mailer"
	"github.com/pulseapp/auth-service/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// ProfileInput carries the profile fields submitted on the final
// registration step.
type ProfileInput struct {
	FullName    string
	PhoneNumber string
	CountryCode string
	DateOfBirth string
}

// RegistrationService drives the multi-step signup state machine:
// EMAIL -> OTP -> PASSWORD -> USERNAME -> COMPLETED. Steps only move
// forward; the session token is the sole credential for the flow.
type RegistrationService struct {
	regRepo  repository.RegistrationRepository
	userRepo repository.UserRepository
	otp      *OTPService
	tokens   *TokenService
	sender   mailer.Sender
	cfg      *config.Config
}

func NewRegistrationService(
	regRepo repository.RegistrationRepository,
	userRepo repository.UserRepository,
	otp *OTPService,
	tokens *TokenService,
	sender mailer.Sender,
	cfg *config.Config,
) *RegistrationService {
	return &RegistrationService{
		regRepo:  regRepo,
		userRepo: userRepo,
		otp:      otp,
		tokens:   tokens,
		sender:   sender,
		cfg:      cfg,
	}
}

// Start begins a signup attempt for the email and sends the first OTP.
func (s *RegistrationService) Start(ctx context.Context, email string) (*domain.RegistrationSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.ErrEmailRequired
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	token, err := s.tokens.NewSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.RegistrationSession{
		ID:           uuid.New(),
		SessionToken: token,
		Email:        email,
		CurrentStep:  domain.StepEmail,
		ExpiresAt:    now.Add(s.cfg.RegistrationTTL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.regRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	if err := s.issueAndSend(ctx, email); err != nil {
		return nil, err
	}

	return session, nil
}

// ResendOTP issues a fresh code for an in-flight session without moving the
// step.
func (s *RegistrationService) ResendOTP(ctx context.Context, sessionToken string) (*domain.RegistrationSession, error) {
	session, err := s.loadSession(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	if err := s.issueAndSend(ctx, session.Email); err != nil {
		return nil, err
	}

	if err := s.touch(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// VerifyOTP checks the submitted code and marks the session's email
// verified. A failed code leaves the session where it is.
func (s *RegistrationService) VerifyOTP(ctx context.Context, sessionToken, code string) (*domain.RegistrationSession, error) {
	session, err := s.loadSession(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if session.CurrentStep != domain.StepEmail {
		return nil, domain.ErrInvalidStep
	}

	if err := s.otp.Validate(ctx, session.Email, code); err != nil {
		return nil, err
	}

	session.IsEmailVerified = true
	session.CurrentStep = domain.StepOTP
	if err := s.touch(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *RegistrationService) SetPassword(ctx context.Context, sessionToken, password, confirmPassword string) (*domain.RegistrationSession, error) {
	session, err := s.loadSession(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if session.CurrentStep != domain.StepOTP || !session.IsEmailVerified {
		return nil, domain.ErrInvalidStep
	}

	if password != confirmPassword {
		return nil, domain.ErrPasswordMismatch
	}
	if len(password) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	session.PasswordHash = string(hashed)
	session.CurrentStep = domain.StepPassword
	if err := s.touch(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *RegistrationService) SetUsername(ctx context.Context, sessionToken, username string) (*domain.RegistrationSession, error) {
	session, err := s.loadSession(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if session.CurrentStep != domain.StepPassword {
		return nil, domain.ErrInvalidStep
	}

	if !domain.ValidUsername(username) {
		return nil, domain.ErrInvalidUsername
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	session.Username = username
	session.CurrentStep = domain.StepUsername
	if err := s.touch(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Complete materializes the accumulated session into a durable User and
// consumes the session. Replaying the token afterwards fails.
func (s *RegistrationService) Complete(ctx context.Context, sessionToken string, profile ProfileInput) (*domain.User, error) {
	session, err := s.loadSession(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if session.CurrentStep != domain.StepUsername {
		return nil, domain.ErrInvalidStep
	}

	now := time.Now()
	user := &domain.User{
		ID:              uuid.New(),
		FullName:        profile.FullName,
		Username:        session.Username,
		Email:           session.Email,
		PhoneNumber:     profile.PhoneNumber,
		CountryCode:     profile.CountryCode,
		DateOfBirth:     profile.DateOfBirth,
		PasswordHash:    session.PasswordHash,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Mark the session terminal before deleting it: if the delete fails the
	// leftover row still refuses replay, and the cleanup worker collects it.
	session.CurrentStep = domain.StepCompleted
	if err := s.regRepo.Update(ctx, session); err != nil {
		log.Printf("ERROR [registration] mark session %s completed: %v", session.ID, err)
	}
	if err := s.regRepo.Delete(ctx, session.ID); err != nil {
		log.Printf("ERROR [registration] delete completed session %s: %v", session.ID, err)
	}

	return user, nil
}

// loadSession resolves a session token and rejects expired or consumed
// sessions regardless of step.
func (s *RegistrationService) loadSession(ctx context.Context, sessionToken string) (*domain.RegistrationSession, error) {
	session, err := s.regRepo.GetBySessionToken(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	if session.Expired(time.Now()) {
		return nil, domain.ErrSessionExpired
	}
	if session.Completed() {
		return nil, domain.ErrSessionCompleted
	}
	return session, nil
}

// touch extends the session TTL and persists the pending mutation.
func (s *RegistrationService) touch(ctx context.Context, session *domain.RegistrationSession) error {
	now := time.Now()
	session.ExpiresAt = now.Add(s.cfg.RegistrationTTL)
	session.UpdatedAt = now
	return s.regRepo.Update(ctx, session)
}

// issueAndSend creates a new OTP and dispatches delivery without blocking
// the request on the mail transport.
func (s *RegistrationService) issueAndSend(ctx context.Context, email string) error {
	otp, err := s.otp.Issue(ctx, email)
	if err != nil {
		return err
	}

	go func(email, code string) {
		if err := s.sender.SendOTP(email, code); err != nil {
			log.Printf("ERROR [registration] send OTP to %s: %v", email, err)
		}
	}(email, otp.Code)

	return nil
}
