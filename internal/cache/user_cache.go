package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/auth-service/internal/domain"
	"github.com/pulseapp/auth-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

// CachedUserRepository is a cache-aside decorator over a UserRepository.
// Lookups by ID and email are served from Redis when possible; writes
// invalidate the affected keys. Cache failures fall through to the
// underlying store and never fail the request.
type CachedUserRepository struct {
	inner  repository.UserRepository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedUserRepository(inner repository.UserRepository, client *redis.Client, ttl time.Duration) *CachedUserRepository {
	return &CachedUserRepository{inner: inner, client: client, ttl: ttl}
}

func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
}

func idKey(id uuid.UUID) string    { return "user:id:" + id.String() }
func emailKey(email string) string { return "user:email:" + email }

func (r *CachedUserRepository) getCached(ctx context.Context, key string) *domain.User {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("ERROR [cache.user] get %s: %v", key, err)
		}
		return nil
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		log.Printf("ERROR [cache.user] decode %s: %v", key, err)
		return nil
	}
	return &user
}

func (r *CachedUserRepository) putCached(ctx context.Context, user *domain.User) {
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, idKey(user.ID), data, r.ttl).Err(); err != nil {
		log.Printf("ERROR [cache.user] set %s: %v", idKey(user.ID), err)
	}
	if err := r.client.Set(ctx, emailKey(user.Email), data, r.ttl).Err(); err != nil {
		log.Printf("ERROR [cache.user] set %s: %v", emailKey(user.Email), err)
	}
}

func (r *CachedUserRepository) invalidate(ctx context.Context, user *domain.User) {
	if err := r.client.Del(ctx, idKey(user.ID), emailKey(user.Email)).Err(); err != nil {
		log.Printf("ERROR [cache.user] invalidate %s: %v", user.ID, err)
	}
}

func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.inner.Create(ctx, user); err != nil {
		return err
	}
	r.invalidate(ctx, user)
	return nil
}

func (r *CachedUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if user := r.getCached(ctx, idKey(id)); user != nil {
		return user, nil
	}

	user, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.putCached(ctx, user)
	return user, nil
}

func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if user := r.getCached(ctx, emailKey(email)); user != nil {
		return user, nil
	}

	user, err := r.inner.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	r.putCached(ctx, user)
	return user, nil
}

func (r *CachedUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.inner.GetByUsername(ctx, username)
}

func (r *CachedUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.inner.ExistsByEmail(ctx, email)
}

func (r *CachedUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.inner.ExistsByUsername(ctx, username)
}

func (r *CachedUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.inner.Update(ctx, user); err != nil {
		return err
	}
	r.invalidate(ctx, user)
	return nil
}
