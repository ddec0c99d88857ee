package auth

import (
	"context"
	"fmt"

	apperrors "pizzaservice/internal/errors"
)

// TokenVerifier verifies a bearer token and decodes its claims.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Resolver turns a bearer token into an Identity. The signature must verify and
// the token must still be present in the session registry.
type Resolver struct {
	verifier TokenVerifier
	sessions SessionRegistry
}

// NewResolver creates a resolver over a codec and a session registry.
func NewResolver(verifier TokenVerifier, sessions SessionRegistry) *Resolver {
	return &Resolver{verifier: verifier, sessions: sessions}
}

// Resolve returns the identity for token or an error explaining why there is none.
// Callers downgrade every error to "no identity".
func (r *Resolver) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	claims, err := r.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	live, err := r.sessions.Exists(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	if !live {
		return nil, apperrors.ErrUnauthorized
	}

	return NewIdentity(claims, token), nil
}
