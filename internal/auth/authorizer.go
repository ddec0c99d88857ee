package auth

import (
	apperrors "pizzaservice/internal/errors"
	"pizzaservice/internal/model"
)

// RequireAuthenticated fails with ErrUnauthorized when no identity was resolved.
func RequireAuthenticated(id *Identity) error {
	if id == nil {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// RequireSelfOrRole allows the target user themselves or any holder of role.
func RequireSelfOrRole(id *Identity, targetUserID uint, role model.Role) error {
	if err := RequireAuthenticated(id); err != nil {
		return err
	}
	if id.ID == targetUserID || id.HasRole(role) {
		return nil
	}
	return apperrors.ErrForbidden
}

// RequireRole reports a missing role as ErrObscuredNotFound so that callers
// cannot tell the gated operation exists.
func RequireRole(id *Identity, role model.Role) error {
	if err := RequireAuthenticated(id); err != nil {
		return err
	}
	if !id.HasRole(role) {
		return apperrors.ErrObscuredNotFound
	}
	return nil
}
