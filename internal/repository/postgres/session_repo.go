package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/auth-service/internal/domain"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.UserSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.UserSession, error) {
	var session domain.UserSession
	err := r.db.WithContext(ctx).First(&session, "refresh_token = ?", refreshToken).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) ListActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.UserSession, error) {
	var sessions []*domain.UserSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("last_used_at DESC, created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *domain.UserSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *sessionRepository) DeleteByRefreshToken(ctx context.Context, refreshToken string) error {
	return r.db.WithContext(ctx).Delete(&domain.UserSession{}, "refresh_token = ?", refreshToken).Error
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.UserSession{}, "user_id = ?", userID).Error
}

func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.UserSession{}, "expires_at <= ?", time.Now())
	return res.RowsAffected, res.Error
}
