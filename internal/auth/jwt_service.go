package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "pizzaservice/internal/errors"
	"pizzaservice/internal/model"
)

// RoleClaim is one role entry inside the token payload.
type RoleClaim struct {
	Role     model.Role `json:"role"`
	ObjectID uint       `json:"objectId,omitempty"`
}

// Claims represents JWT claims.
type Claims struct {
	UserID uint        `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Roles  []RoleClaim `json:"roles"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies bearer tokens with a shared HMAC secret.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
// A zero ttl issues tokens without an exp claim.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the configured token lifetime, zero when tokens do not expire.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token carrying the user's id, name, email and roles.
// Every token gets a random jti so two logins in the same second never collide.
func (s *JWTService) Issue(user *model.User) (string, error) {
	now := s.now()
	roles := make([]RoleClaim, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, RoleClaim{Role: r.Role, ObjectID: r.ObjectID})
	}

	claims := &Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and structure of a token and returns its claims.
// A verified token is not necessarily still authorized; callers must consult the session registry.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidSignature, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, apperrors.ErrInvalidSignature
	}

	return claims, nil
}
