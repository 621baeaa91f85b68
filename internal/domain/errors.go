package domain

import "errors"

// Authentication errors. Unknown email and wrong password share one sentinel
// so callers cannot probe which emails are registered.
var (
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailNotVerified   = errors.New("please verify your email before logging in")
	ErrUserNotFound       = errors.New("user not found")
)

// Token and session errors
var (
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrNoActiveSession     = errors.New("no active session found")
)

// Registration flow errors
var (
	ErrEmailTaken       = errors.New("email is already registered")
	ErrSessionNotFound  = errors.New("registration session not found")
	ErrSessionExpired   = errors.New("registration session expired")
	ErrSessionCompleted = errors.New("registration already completed")
	ErrInvalidStep      = errors.New("invalid registration step for this action")
	ErrInvalidOTP       = errors.New("invalid or expired verification code")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrWeakPassword     = errors.New("password must be at least 8 characters")
	ErrInvalidUsername  = errors.New("username must be 3-50 lowercase letters, digits or underscores")
	ErrUsernameTaken    = errors.New("username is already taken")
)
