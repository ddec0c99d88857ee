package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pizzaservice/internal/cache"
	apperrors "pizzaservice/internal/errors"
	"pizzaservice/internal/model"
)

func TestUserService_GetUserIsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, uint(4)).Return(&model.User{
		ID:           4,
		Name:         "pizza diner",
		Email:        "d@jwt.com",
		PasswordHash: "secret-hash",
		Roles:        []model.UserRole{{Role: model.RoleDiner}},
	}, nil).Once()

	svc := NewUserService(NewCredentialStore(repo, bcrypt.MinCost), cache.New(cache.NewRedis(mr.Addr(), "", 0)), time.Minute)
	ctx := context.Background()

	first, err := svc.GetUser(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, first.PasswordHash)

	second, err := svc.GetUser(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "d@jwt.com", second.Email)
	assert.True(t, second.HasRole(model.RoleDiner))

	cached, err := mr.Get("user:4")
	require.NoError(t, err)
	assert.NotContains(t, cached, "secret-hash")

	repo.AssertExpectations(t)
}

func TestUserService_InvalidateForcesReload(t *testing.T) {
	mr := miniredis.RunT(t)
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, uint(4)).Return(&model.User{ID: 4, Email: "old@jwt.com"}, nil).Once()
	repo.On("FindByID", mock.Anything, uint(4)).Return(&model.User{ID: 4, Email: "new@jwt.com"}, nil).Once()

	svc := NewUserService(NewCredentialStore(repo, bcrypt.MinCost), cache.New(cache.NewRedis(mr.Addr(), "", 0)), time.Minute)
	ctx := context.Background()

	_, err := svc.GetUser(ctx, 4)
	require.NoError(t, err)
	svc.Invalidate(ctx, 4)

	user, err := svc.GetUser(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "new@jwt.com", user.Email)
	repo.AssertExpectations(t)
}

func TestUserService_WorksWithoutCache(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, uint(9)).Return(nil, apperrors.ErrUserNotFound)

	svc := NewUserService(NewCredentialStore(repo, bcrypt.MinCost), nil, 0)

	_, err := svc.GetUser(context.Background(), 9)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
