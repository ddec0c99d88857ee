package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "pizzaservice/internal/errors"
	"pizzaservice/internal/middleware"
	"pizzaservice/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	chaos       *service.ChaosService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, chaos *service.ChaosService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{authService: authService, chaos: chaos, logger: logger}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest carries the fields to change. Omitted fields stay as they are.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	User  interface{} `json:"user"`
	Token string      `json:"token"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ChaosResponse reports the chaos flag after a toggle.
type ChaosResponse struct {
	Chaos bool `json:"chaos"`
}

// Register godoc
// @Summary Register a new diner
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return h.respondError(c, apperrors.ErrBadRequest)
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(http.StatusOK, AuthResponse{User: user, Token: token})
}

// Login godoc
// @Summary Login an existing user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth [put]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return h.respondError(c, apperrors.ErrInvalidCredentials)
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(http.StatusOK, AuthResponse{User: user, Token: token})
}

// Logout godoc
// @Summary Logout the current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth [delete]
func (h *AuthHandler) Logout(c echo.Context) error {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return h.respondError(c, apperrors.ErrUnauthorized)
	}

	if err := h.authService.Logout(c.Request().Context(), id.Token); err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "logout successful"})
}

// UpdateUser godoc
// @Summary Update a user
// @Description Callers may update themselves; admins may update anyone.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /auth/{userId} [put]
func (h *AuthHandler) UpdateUser(c echo.Context) error {
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return h.respondError(c, apperrors.ErrBadRequest)
	}

	// An unparsable id matches nobody: non-admins are forbidden, admins get not found.
	target, _ := strconv.ParseUint(c.Param("userId"), 10, 64)

	user, err := h.authService.UpdateUser(c.Request().Context(), middleware.IdentityFrom(c), uint(target), service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

// SetChaos godoc
// @Summary Toggle chaos mode
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Param state path string true "true enables chaos, anything else disables it"
// @Success 200 {object} ChaosResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/chaos/{state} [put]
func (h *AuthHandler) SetChaos(c echo.Context) error {
	enabled, err := h.chaos.SetChaos(c.Request().Context(), middleware.IdentityFrom(c), c.Param("state") == "true")
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, ChaosResponse{Chaos: enabled})
}

// respondError maps a domain error onto its HTTP status and body.
func (h *AuthHandler) respondError(c echo.Context, err error) error {
	return respondError(c, h.logger, err)
}

func respondError(c echo.Context, logger *slog.Logger, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		logger.ErrorContext(c.Request().Context(), "request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
