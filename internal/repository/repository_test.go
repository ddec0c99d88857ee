package repository

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pizzaservice/internal/auth"
	"pizzaservice/internal/db"
	apperrors "pizzaservice/internal/errors"
	"pizzaservice/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), db.Config())
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gormDB, false))
	return gormDB
}

func newUser(email string, roles ...model.Role) *model.User {
	u := &model.User{Name: "pizza diner", Email: email, PasswordHash: "hash"}
	for _, r := range roles {
		u.Roles = append(u.Roles, model.UserRole{Role: r})
	}
	return u
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := newUser("d@jwt.com", model.RoleDiner)
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	byEmail, err := repo.FindByEmail(ctx, "d@jwt.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	require.Len(t, byEmail.Roles, 1)
	assert.Equal(t, model.RoleDiner, byEmail.Roles[0].Role)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "d@jwt.com", byID.Email)
	assert.True(t, byID.HasRole(model.RoleDiner))
}

func TestUserRepository_IDsAreUnique(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	first := newUser("one@jwt.com", model.RoleDiner)
	second := newUser("two@jwt.com", model.RoleAdmin)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.NotEqual(t, first.ID, second.ID)
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByEmail(ctx, "ghost@jwt.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserRepository_EmailExistsIsExact(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("d@jwt.com")))

	ok, err := repo.EmailExists(ctx, "d@jwt.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.EmailExists(ctx, "D@jwt.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepository_DuplicateEmailRejected(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("d@jwt.com")))

	assert.Error(t, repo.Create(ctx, newUser("d@jwt.com")))
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	user := newUser("d@jwt.com", model.RoleDiner)
	require.NoError(t, repo.Create(ctx, user))

	user.Email = "new@jwt.com"
	user.PasswordHash = "new-hash"
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@jwt.com", got.Email)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.Len(t, got.Roles, 1)

	assert.ErrorIs(t, repo.Update(ctx, &model.User{ID: 999, Email: "x@jwt.com"}), apperrors.ErrUserNotFound)
}

func TestUserRepository_Delete(t *testing.T) {
	gormDB := newTestDB(t)
	repo := NewUserRepository(gormDB)
	ctx := context.Background()

	user := newUser("d@jwt.com", model.RoleDiner)
	require.NoError(t, repo.Create(ctx, user))
	keep := newUser("k@jwt.com", model.RoleDiner)
	require.NoError(t, repo.Create(ctx, keep))

	require.NoError(t, repo.Delete(ctx, user.ID))

	exists, err := repo.EmailExists(ctx, "d@jwt.com")
	require.NoError(t, err)
	assert.False(t, exists)

	var roles int64
	require.NoError(t, gormDB.Model(&model.UserRole{}).Where("user_id = ?", user.ID).Count(&roles).Error)
	assert.Zero(t, roles)

	kept, err := repo.FindByID(ctx, keep.ID)
	require.NoError(t, err)
	assert.True(t, kept.HasRole(model.RoleDiner))

	assert.ErrorIs(t, repo.Delete(ctx, user.ID), apperrors.ErrUserNotFound)

	require.NoError(t, repo.Create(ctx, newUser("d@jwt.com", model.RoleDiner)))
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, 1, "tok-a"))
	require.NoError(t, repo.Create(ctx, 1, "tok-b"))
	require.NoError(t, repo.Create(ctx, 2, "tok-c"))

	ok, err := repo.Exists(ctx, "tok-a")
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err := repo.Revoke(ctx, "tok-a")
	require.NoError(t, err)
	assert.True(t, removed)

	ok, err = repo.Exists(ctx, "tok-a")
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err = repo.Revoke(ctx, "tok-a")
	require.NoError(t, err)
	assert.False(t, removed)

	n, err := repo.RevokeAllForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ok, err = repo.Exists(ctx, "tok-c")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessionRepository_DuplicateToken(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, 1, "tok"))
	assert.Error(t, repo.Create(ctx, 1, "tok"))
}

func TestSessionRepository_MaxWidthUserToken(t *testing.T) {
	gormDB := newTestDB(t)
	repo := NewSessionRepository(gormDB)
	ctx := context.Background()

	user := &model.User{
		ID:    7,
		Name:  strings.Repeat("n", 255),
		Email: strings.Repeat("e", 247) + "@jwt.com",
		Roles: []model.UserRole{{Role: model.RoleDiner}},
	}
	token, err := auth.NewJWTService("test-secret", 0).Issue(user)
	require.NoError(t, err)
	require.Greater(t, len(token), 768)

	require.NoError(t, repo.Create(ctx, user.ID, token))

	var row model.Session
	require.NoError(t, gormDB.First(&row).Error)
	assert.Len(t, row.TokenHash, 64)
	assert.Equal(t, auth.SessionKey(token), row.TokenHash)

	ok, err := repo.Exists(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err := repo.Revoke(ctx, token)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestSessionRepository_KeyFitsColumn(t *testing.T) {
	field, ok := reflect.TypeOf(model.Session{}).FieldByName("TokenHash")
	require.True(t, ok)
	assert.Contains(t, field.Tag.Get("gorm"), "size:64")
	assert.Len(t, auth.SessionKey("any token"), 64)
}
