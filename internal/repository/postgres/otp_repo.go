package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/auth-service/internal/domain"
	"gorm.io/gorm"
)

type otpRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) *otpRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(ctx context.Context, otp *domain.EmailOTP) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

func (r *otpRepository) GetActive(ctx context.Context, email, code string) (*domain.EmailOTP, error) {
	var otp domain.EmailOTP
	err := r.db.WithContext(ctx).
		Where("email = ? AND code = ? AND is_used = false AND expires_at > ?", email, code, time.Now()).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	// Guard on is_used so two concurrent validations of the same code
	// cannot both succeed.
	res := r.db.WithContext(ctx).
		Model(&domain.EmailOTP{}).
		Where("id = ? AND is_used = false", id).
		Update("is_used", true)
	return res.RowsAffected > 0, res.Error
}

func (r *otpRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.EmailOTP{}, "expires_at <= ?", time.Now())
	return res.RowsAffected, res.Error
}
