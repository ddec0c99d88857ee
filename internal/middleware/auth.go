package middleware

import (
	"log/slog"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"pizzaservice/internal/auth"
	apperrors "pizzaservice/internal/errors"
)

// AuthResolver attaches the caller's identity to every request that carries a
// valid, non-revoked bearer token. It never rejects a request.
func AuthResolver(resolver *auth.Resolver, logger *slog.Logger) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  auth.IdentityContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return resolver.Resolve(c.Request().Context(), token)
		},
		SuccessHandler: func(c echo.Context) {
			if id, ok := c.Get(auth.IdentityContextKey).(*auth.Identity); ok {
				c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), id)))
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if err != nil && c.Request().Header.Get(echo.HeaderAuthorization) != "" {
				logger.DebugContext(c.Request().Context(), "bearer token rejected", slog.String("error", err.Error()))
			}
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// RequireAuth rejects requests without a resolved identity.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := auth.RequireAuthenticated(IdentityFrom(c)); err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the identity resolved for this request, or nil.
func IdentityFrom(c echo.Context) *auth.Identity {
	id, _ := c.Get(auth.IdentityContextKey).(*auth.Identity)
	return id
}
