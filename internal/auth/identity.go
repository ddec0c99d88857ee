package auth

import (
	"context"

	"pizzaservice/internal/model"
)

// IdentityContextKey is where the resolver stores the identity on the echo context.
const IdentityContextKey = "identity"

type contextKey string

var identityKey = contextKey("identity")

// Identity is the request-scoped projection of an authenticated user.
// It is built from verified claims and never persisted.
type Identity struct {
	ID    uint
	Name  string
	Email string
	Roles []RoleClaim
	Token string
}

// NewIdentity projects verified claims into an Identity.
func NewIdentity(claims *Claims, token string) *Identity {
	roles := make([]RoleClaim, len(claims.Roles))
	copy(roles, claims.Roles)
	return &Identity{
		ID:    claims.UserID,
		Name:  claims.Name,
		Email: claims.Email,
		Roles: roles,
		Token: token,
	}
}

// HasRole reports whether the identity's claims include role.
func (i *Identity) HasRole(role model.Role) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity attached by the resolver, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}
