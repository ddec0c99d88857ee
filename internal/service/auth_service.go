package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"pizzaservice/internal/auth"
	"pizzaservice/internal/metrics"
	"pizzaservice/internal/model"
)

// Operation labels reported to the metrics recorder.
const (
	OpRegister = "register"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpUpdate   = "update"
)

// TokenIssuer signs bearer tokens for users.
type TokenIssuer interface {
	Issue(user *model.User) (string, error)
}

// UpdateUserInput holds the optional fields of an update. Empty means unchanged.
type UpdateUserInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Logout(ctx context.Context, token string) error
	UpdateUser(ctx context.Context, actor *auth.Identity, targetUserID uint, in UpdateUserInput) (*model.User, error)
}

type authService struct {
	credentials *CredentialStore
	sessions    auth.SessionRegistry
	tokens      TokenIssuer
	users       UserService
	metrics     metrics.Recorder
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	credentials *CredentialStore,
	sessions auth.SessionRegistry,
	tokens TokenIssuer,
	users UserService,
	recorder metrics.Recorder,
	logger *slog.Logger,
) AuthService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		credentials: credentials,
		sessions:    sessions,
		tokens:      tokens,
		users:       users,
		metrics:     recorder,
		validate:    NewValidator(),
		logger:      logger,
	}
}

// Register validates the input, creates a diner and opens a session for it.
func (s *authService) Register(ctx context.Context, name, email, password string) (user *model.User, token string, err error) {
	defer s.observe(OpRegister, time.Now(), &err)

	in := registerInput{Name: name, Email: email, Password: password}
	if err := classifyValidation(s.validate.Struct(in)); err != nil {
		return nil, "", err
	}

	user, err = s.credentials.Create(ctx, name, email, password, []model.Role{model.RoleDiner})
	if err != nil {
		return nil, "", err
	}

	token, err = s.openSession(ctx, user)
	if err != nil {
		// Without a session the account would be unusable and its email taken.
		if delErr := s.credentials.Delete(ctx, user.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "rollback of unsessioned user failed",
				slog.Uint64("user_id", uint64(user.ID)),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, "", err
	}
	s.logger.InfoContext(ctx, "user registered", slog.Uint64("user_id", uint64(user.ID)))
	return user, token, nil
}

// Login checks the credentials and opens a new session. Earlier sessions stay valid.
func (s *authService) Login(ctx context.Context, email, password string) (user *model.User, token string, err error) {
	defer s.observe(OpLogin, time.Now(), &err)

	user, err = s.credentials.Lookup(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err = s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes the token. Revoking a token without a session succeeds.
func (s *authService) Logout(ctx context.Context, token string) (err error) {
	defer s.observe(OpLogout, time.Now(), &err)

	removed, err := s.sessions.Revoke(ctx, token)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if removed {
		s.metrics.DecActiveSessions()
	}
	return nil
}

// UpdateUser changes the target's name, email or password. Only the target
// themselves or an admin may do so.
func (s *authService) UpdateUser(ctx context.Context, actor *auth.Identity, targetUserID uint, in UpdateUserInput) (user *model.User, err error) {
	defer s.observe(OpUpdate, time.Now(), &err)

	if err := auth.RequireSelfOrRole(actor, targetUserID, model.RoleAdmin); err != nil {
		return nil, err
	}
	if err := classifyValidation(s.validate.Struct(updateInput{Email: in.Email})); err != nil {
		return nil, err
	}

	user, err = s.credentials.Update(ctx, targetUserID, in.Name, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	if s.users != nil {
		s.users.Invalidate(ctx, targetUserID)
	}
	s.logger.InfoContext(ctx, "user updated",
		slog.Uint64("user_id", uint64(targetUserID)),
		slog.Uint64("actor_id", uint64(actor.ID)),
	)
	return user, nil
}

func (s *authService) openSession(ctx context.Context, user *model.User) (string, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	if err := s.sessions.Create(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	s.metrics.IncActiveSessions()
	return token, nil
}

func (s *authService) observe(op string, start time.Time, err *error) {
	s.metrics.IncAuthAttempt(op, *err == nil)
	s.metrics.ObserveLatency(op, time.Since(start))
}
