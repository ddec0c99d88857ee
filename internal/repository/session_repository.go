package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pizzaservice/internal/auth"
	apperrors "pizzaservice/internal/errors"
	"pizzaservice/internal/model"
)

// SessionRepository is the relational session registry: one row per live token in
// the auth table, keyed by auth.SessionKey. Every operation is a single-row statement.
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository builds a GORM-backed session registry.
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, userID uint, token string) error {
	err := r.db.WithContext(ctx).Create(&model.Session{TokenHash: auth.SessionKey(token), UserID: userID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrSessionExists
	}
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Exists(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Session{}).Where("token_hash = ?", auth.SessionKey(token)).Limit(1).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("select session: %w", err)
	}
	return count > 0, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, token string) (bool, error) {
	res := r.db.WithContext(ctx).Where("token_hash = ?", auth.SessionKey(token)).Delete(&model.Session{})
	if res.Error != nil {
		return false, fmt.Errorf("delete session: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *SessionRepository) RevokeAllForUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete user sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
