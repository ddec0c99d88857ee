package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "pizzaservice/internal/errors"
	"pizzaservice/internal/middleware"
	"pizzaservice/internal/service"
)

// UserHandler serves user reads.
type UserHandler struct {
	svc    service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{svc: svc, logger: logger}
}

// Me godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return respondError(c, h.logger, apperrors.ErrUnauthorized)
	}
	user, err := h.svc.GetUser(c.Request().Context(), id.ID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, user)
}
