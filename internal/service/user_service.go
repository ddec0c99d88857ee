package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pizzaservice/internal/cache"
	"pizzaservice/internal/model"
)

const defaultUserCacheTTL = 5 * time.Minute

// UserService exposes read access to users through a read-through cache.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	Invalidate(ctx context.Context, id uint)
}

type userService struct {
	store *CredentialStore
	cache *cache.Client
	ttl   time.Duration
}

// NewUserService builds a UserService over the credential store and cache.
func NewUserService(store *CredentialStore, cache *cache.Client, ttl time.Duration) UserService {
	if ttl <= 0 {
		ttl = defaultUserCacheTTL
	}
	return &userService{store: store, cache: cache, ttl: ttl}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// GetUser returns the user without its password hash, which is never cached.
func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil && cached.ID == id {
			return &cached, nil
		}
	}

	user, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, s.ttl)
	}
	return user, nil
}

func (s *userService) Invalidate(ctx context.Context, id uint) {
	_ = s.cache.Delete(ctx, s.cacheKey(id))
}
