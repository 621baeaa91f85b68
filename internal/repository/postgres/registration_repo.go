package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/auth-service/internal/domain"
	"gorm.io/gorm"
)

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *registrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(ctx context.Context, session *domain.RegistrationSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *registrationRepository) GetBySessionToken(ctx context.Context, sessionToken string) (*domain.RegistrationSession, error) {
	var session domain.RegistrationSession
	err := r.db.WithContext(ctx).First(&session, "session_token = ?", sessionToken).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *registrationRepository) Update(ctx context.Context, session *domain.RegistrationSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *registrationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.RegistrationSession{}, "id = ?", id).Error
}

func (r *registrationRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.RegistrationSession{}, "expires_at <= ?", time.Now())
	return res.RowsAffected, res.Error
}
