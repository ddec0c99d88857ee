package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzaservice/internal/auth"
	"pizzaservice/internal/cache"
	apperrors "pizzaservice/internal/errors"
	"pizzaservice/internal/metrics"
	"pizzaservice/internal/model"
)

type fixture struct {
	echo     *echo.Echo
	codec    *auth.JWTService
	sessions *auth.RedisSessionRegistry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	codec := auth.NewJWTService("middleware-secret", 0)
	sessions := auth.NewRedisSessionRegistry(cache.NewRedis(mr.Addr(), "", 0), 0)

	e := echo.New()
	e.Use(AuthResolver(auth.NewResolver(codec, sessions), slog.Default()))
	e.GET("/whoami", func(c echo.Context) error {
		id := IdentityFrom(c)
		if id == nil {
			return c.JSON(http.StatusOK, echo.Map{"anonymous": true})
		}
		fromCtx := auth.IdentityFromContext(c.Request().Context())
		return c.JSON(http.StatusOK, echo.Map{
			"id":          id.ID,
			"email":       id.Email,
			"same_as_ctx": fromCtx == id,
		})
	})
	e.GET("/private", func(c echo.Context) error {
		return c.String(http.StatusOK, "secret")
	}, RequireAuth())

	return &fixture{echo: e, codec: codec, sessions: sessions}
}

func (f *fixture) login(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := f.codec.Issue(user)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Create(context.Background(), user.ID, token))
	return token
}

func (f *fixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthResolver_AttachesIdentity(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, &model.User{ID: 3, Name: "pizza diner", Email: "d@jwt.com"})

	rec := f.do(http.MethodGet, "/whoami", token)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(3), body["id"])
	assert.Equal(t, "d@jwt.com", body["email"])
	assert.Equal(t, true, body["same_as_ctx"])
}

func TestAuthResolver_NeverRejects(t *testing.T) {
	f := newFixture(t)
	revoked := f.login(t, &model.User{ID: 5, Email: "gone@jwt.com"})
	_, err := f.sessions.Revoke(context.Background(), revoked)
	require.NoError(t, err)

	unregistered, err := f.codec.Issue(&model.User{ID: 6, Email: "never@jwt.com"})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"no header":    "",
		"garbage":      "not-a-token",
		"revoked":      revoked,
		"unregistered": unregistered,
	} {
		t.Run(name, func(t *testing.T) {
			rec := f.do(http.MethodGet, "/whoami", token)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, true, decode(t, rec)["anonymous"])
		})
	}
}

func TestAuthResolver_IgnoresNonBearerScheme(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, &model.User{ID: 8, Email: "b@jwt.com"})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic "+token)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["anonymous"])
}

func TestRequireAuth(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, &model.User{ID: 9, Email: "p@jwt.com"})

	rec := f.do(http.MethodGet, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, apperrors.ErrUnauthorized.Error(), body["error"])

	rec = f.do(http.MethodGet, "/private", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "secret", rec.Body.String())
}

func TestIdentityFrom_Empty(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Nil(t, IdentityFrom(c))
}

type methodRecorder struct {
	metrics.Nop
	methods []string
}

func (r *methodRecorder) IncRequest(method string) {
	r.methods = append(r.methods, method)
}

func TestRequestMetrics_CountsByMethod(t *testing.T) {
	recorder := &methodRecorder{}

	e := echo.New()
	e.Use(RequestMetrics(recorder))
	e.Any("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	for _, m := range []string{http.MethodGet, http.MethodGet, http.MethodPut} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(m, "/", nil))
	}

	assert.Equal(t, []string{http.MethodGet, http.MethodGet, http.MethodPut}, recorder.methods)
}

func TestRequestLogger_WritesAccessLine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer do-not-log-me")
	e.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/ping", entry["uri"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.NotContains(t, buf.String(), "do-not-log-me")
}
