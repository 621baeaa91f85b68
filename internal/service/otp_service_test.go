package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/pulseapp/auth-service/internal/domain"
	"github.com/pulseapp/auth-service/internal/repository/postgres"
	"github.com/pulseapp/auth-service/internal/service"
	"github.com/pulseapp/auth-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		code, err := service.GenerateCode(length)
		require.NoError(t, err)
		assert.Len(t, code, length)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "non-digit in code %q", code)
		}
	}
}

func TestOTPService_Validate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	otpService := service.NewOTPService(repos.OTP, cfg)
	ctx := context.Background()

	t.Run("valid code succeeds once", func(t *testing.T) {
		testDB.Truncate(t)

		otp, err := otpService.Issue(ctx, "a@example.com")
		require.NoError(t, err)

		require.NoError(t, otpService.Validate(ctx, "a@example.com", otp.Code))

		// Replay of the same code must fail
		err = otpService.Validate(ctx, "a@example.com", otp.Code)
		assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	})

	t.Run("wrong code fails", func(t *testing.T) {
		testDB.Truncate(t)

		otp, err := otpService.Issue(ctx, "a@example.com")
		require.NoError(t, err)

		wrong := "000000"
		if otp.Code == wrong {
			wrong = "111111"
		}
		err = otpService.Validate(ctx, "a@example.com", wrong)
		assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	})

	t.Run("expired code fails identically to wrong code", func(t *testing.T) {
		testDB.Truncate(t)

		otp, err := otpService.Issue(ctx, "a@example.com")
		require.NoError(t, err)

		err = testDB.DB.Model(&domain.EmailOTP{}).
			Where("id = ?", otp.ID).
			Update("expires_at", time.Now().Add(-time.Minute)).Error
		require.NoError(t, err)

		err = otpService.Validate(ctx, "a@example.com", otp.Code)
		assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	})

	t.Run("code bound to email", func(t *testing.T) {
		testDB.Truncate(t)

		otp, err := otpService.Issue(ctx, "a@example.com")
		require.NoError(t, err)

		err = otpService.Validate(ctx, "b@example.com", otp.Code)
		assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	})

	t.Run("resend keeps earlier code valid", func(t *testing.T) {
		testDB.Truncate(t)

		first, err := otpService.Issue(ctx, "a@example.com")
		require.NoError(t, err)
		_, err = otpService.Issue(ctx, "a@example.com")
		require.NoError(t, err)

		// Issuing does not revoke prior codes; both validate until expiry
		assert.NoError(t, otpService.Validate(ctx, "a@example.com", first.Code))
	})
}
