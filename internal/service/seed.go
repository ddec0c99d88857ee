package service

import (
	"context"
	"fmt"

	"pizzaservice/internal/model"
)

// SeedAdmin creates an admin with the given credentials unless the email is
// already registered. It reports whether a user was created.
func SeedAdmin(ctx context.Context, store *CredentialStore, name, email, password string) (bool, error) {
	exists, err := store.EmailExists(ctx, email)
	if err != nil {
		return false, fmt.Errorf("error checking admin %s: %w", email, err)
	}
	if exists {
		return false, nil
	}
	if _, err := store.Create(ctx, name, email, password, []model.Role{model.RoleAdmin}); err != nil {
		return false, fmt.Errorf("error creating admin %s: %w", email, err)
	}
	return true, nil
}
