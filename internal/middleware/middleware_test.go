package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-api/internal/auth"
	"movie-discovery-api/internal/config"
	"movie-discovery-api/internal/metrics"
)

func newIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	issuer, err := auth.NewTokenIssuer(config.JWTConfig{
		Key:      "middleware-test-key-0123456789abcdef",
		Issuer:   "movie-discovery",
		Audience: "movie-discovery-web",
		TTL:      time.Hour,
	})
	require.NoError(t, err)
	return issuer
}

func protectedApp(verifier TokenVerifier) *fiber.App {
	app := fiber.New()
	app.Get("/private", RequireAuth(verifier), func(c fiber.Ctx) error {
		claims := Claims(c)
		return c.SendString(claims.UserID() + ":" + claims.Name)
	})
	app.Get("/public", func(c fiber.Ctx) error {
		if Claims(c) != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	issuer := newIssuer(t)
	token, err := issuer.Issue("user-123", "alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer " + token, want: fiber.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, want: fiber.StatusOK},
		{name: "missing", header: "", want: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: fiber.StatusUnauthorized},
		{name: "empty token", header: "Bearer   ", want: fiber.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.jwt", want: fiber.StatusUnauthorized},
	}

	app := protectedApp(issuer)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			if tt.want == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "user-123:alice", string(body))
			}
		})
	}
}

func TestRequireAuth_ForeignIssuer(t *testing.T) {
	other, err := auth.NewTokenIssuer(config.JWTConfig{
		Key:      "middleware-test-key-0123456789abcdef",
		Issuer:   "someone-else",
		Audience: "movie-discovery-web",
	})
	require.NoError(t, err)
	token, err := other.Issue("user-123", "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := protectedApp(newIssuer(t)).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestClaims_AbsentOnPublicRoute(t *testing.T) {
	resp, err := protectedApp(newIssuer(t)).Test(httptest.NewRequest(http.MethodGet, "/public", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRateLimiter_LocalFallback(t *testing.T) {
	limiter := NewRateLimiter(nil, "auth", 3, 60)
	app := fiber.New()
	app.Post("/login", limiter.Handler(), func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, "request %d", i+1)
		assert.Equal(t, "3", resp.Header.Get("X-RateLimit-Limit"))
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestLocalLimiter_SeparatesClients(t *testing.T) {
	l := newLocalLimiter(1, time.Minute)

	ok, _ := l.allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = l.allow("10.0.0.1")
	assert.False(t, ok)
	ok, _ = l.allow("10.0.0.2")
	assert.True(t, ok)
}

func TestLocalLimiter_SweepsIdleEntries(t *testing.T) {
	l := newLocalLimiter(1, time.Minute)
	l.allow("10.0.0.1")
	l.limiters["10.0.0.1"].lastSeen = time.Now().Add(-2 * time.Minute)

	l.sweep(time.Now())
	assert.Empty(t, l.limiters)
}

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/movies/:id", func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/boom", func(c fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadGateway, "upstream down")
	})

	okCounter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/movies/:id", "200")
	failCounter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/boom", "502")
	okBefore := testutil.ToFloat64(okCounter)
	failBefore := testutil.ToFloat64(failCounter)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/movies/550", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/movies/13", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)

	assert.Equal(t, okBefore+2, testutil.ToFloat64(okCounter))
	assert.Equal(t, failBefore+1, testutil.ToFloat64(failCounter))
}
