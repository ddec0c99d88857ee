package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	"pizzaservice/internal/auth"
	"pizzaservice/internal/model"
)

// ChaosService holds the admin-only chaos flag.
type ChaosService struct {
	enabled atomic.Bool
	logger  *slog.Logger
}

// NewChaosService creates a disabled chaos toggle.
func NewChaosService(logger *slog.Logger) *ChaosService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChaosService{logger: logger}
}

// SetChaos stores the flag. Callers without the admin role get ErrObscuredNotFound.
func (s *ChaosService) SetChaos(ctx context.Context, actor *auth.Identity, enabled bool) (bool, error) {
	if err := auth.RequireRole(actor, model.RoleAdmin); err != nil {
		return false, err
	}
	if prev := s.enabled.Swap(enabled); prev != enabled {
		s.logger.WarnContext(ctx, "chaos toggled",
			slog.Bool("enabled", enabled),
			slog.Uint64("actor_id", uint64(actor.ID)),
		)
	}
	return enabled, nil
}

// Enabled reports the current flag.
func (s *ChaosService) Enabled() bool {
	return s.enabled.Load()
}
