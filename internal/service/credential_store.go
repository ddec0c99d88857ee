package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	apperrors "pizzaservice/internal/errors"
	"pizzaservice/internal/model"
	"pizzaservice/internal/repository"
)

// DefaultBcryptCost is used when no cost is configured.
const DefaultBcryptCost = 10

// CredentialStore owns user records and their password hashes.
type CredentialStore struct {
	repo repository.UserRepository
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewCredentialStore creates a credential store hashing with the given bcrypt cost.
func NewCredentialStore(repo repository.UserRepository, cost int) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &CredentialStore{repo: repo, cost: cost}
}

// Create hashes the password and persists a new user with the given roles.
func (s *CredentialStore) Create(ctx context.Context, name, email, password string, roles []model.Role) (*model.User, error) {
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	for _, r := range roles {
		user.Roles = append(user.Roles, model.UserRole{Role: r})
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Lookup returns the user owning email if password matches. An unknown email and
// a wrong password fail identically, and both pay for a bcrypt comparison.
func (s *CredentialStore) Lookup(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// EmailExists reports whether any user owns email.
func (s *CredentialStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.EmailExists(ctx, email)
}

// Delete removes the user and its roles.
func (s *CredentialStore) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// Get returns the user with id.
func (s *CredentialStore) Get(ctx context.Context, id uint) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies the non-empty fields. A new password is re-hashed; a new email
// must not belong to another user.
func (s *CredentialStore) Update(ctx context.Context, id uint, name, email, password string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email != "" && email != user.Email {
		exists, err := s.repo.EmailExists(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if exists {
			return nil, apperrors.ErrDuplicateEmail
		}
		user.Email = email
	}
	if name != "" {
		user.Name = name
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) || errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *CredentialStore) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}
