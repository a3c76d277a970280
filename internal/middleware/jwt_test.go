package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-survey-api/internal/middleware"
)

const testSecret = "test-secret"

type staticRevocations struct {
	revoked map[string]bool
	err     error
}

func (s staticRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], s.err
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newIdentityApp(cfg middleware.JWTConfig, captured *middleware.Identity) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Authenticate(cfg))
	app.Get("/me", func(c *fiber.Ctx) error {
		*captured = middleware.CurrentIdentity(c)
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthenticateExtractsIdentity(t *testing.T) {
	var identity middleware.Identity
	app := newIdentityApp(middleware.JWTConfig{Secret: testSecret}, &identity)
	expires := time.Now().Add(time.Hour).Truncate(time.Second)

	token := signToken(t, jwt.MapClaims{
		"sub":   "firebase-uid-1",
		"name":  "Grace Hopper",
		"email": "grace@example.com",
		"role":  "Teacher",
		"jti":   "token-1",
		"exp":   expires.Unix(),
	})

	resp := doRequest(t, app, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "firebase-uid-1", identity.ID)
	require.Equal(t, "Grace Hopper", identity.Name)
	require.Equal(t, "grace@example.com", identity.Email)
	require.Equal(t, "teacher", identity.Role)
	require.Equal(t, "token-1", identity.TokenID)
	require.True(t, expires.Equal(identity.ExpiresAt))
}

func TestAuthenticateAcceptsNumericSubject(t *testing.T) {
	var identity middleware.Identity
	app := newIdentityApp(middleware.JWTConfig{Secret: testSecret}, &identity)

	resp := doRequest(t, app, signToken(t, jwt.MapClaims{"user_id": 42}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "42", identity.ID)
}

func TestAuthenticateAllowsAnonymousRequests(t *testing.T) {
	var identity middleware.Identity
	app := newIdentityApp(middleware.JWTConfig{Secret: testSecret}, &identity)

	resp := doRequest(t, app, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Empty(t, identity.ID)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	var identity middleware.Identity
	app := newIdentityApp(middleware.JWTConfig{Secret: testSecret}, &identity)

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u"})
	forged, err := wrongKey.SignedString([]byte("other"))
	require.NoError(t, err)

	expired := signToken(t, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Minute).Unix()})
	noSubject := signToken(t, jwt.MapClaims{"name": "nobody"})

	for _, token := range []string{forged, expired, noSubject, "garbage"} {
		resp := doRequest(t, app, token)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestAuthenticateRejectsRevokedTokens(t *testing.T) {
	var identity middleware.Identity
	app := newIdentityApp(middleware.JWTConfig{
		Secret:      testSecret,
		Revocations: staticRevocations{revoked: map[string]bool{"gone": true}},
	}, &identity)

	resp := doRequest(t, app, signToken(t, jwt.MapClaims{"sub": "u", "jti": "gone"}))
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, signToken(t, jwt.MapClaims{"sub": "u", "jti": "live"}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthenticateFailsClosedWhenRevocationStoreIsDown(t *testing.T) {
	var identity middleware.Identity
	app := newIdentityApp(middleware.JWTConfig{
		Secret:      testSecret,
		Revocations: staticRevocations{err: errors.New("redis down")},
	}, &identity)

	resp := doRequest(t, app, signToken(t, jwt.MapClaims{"sub": "u", "jti": "any"}))
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestLoginRedirect(t *testing.T) {
	require.Equal(t, "/login?next=%2Fsurveys%2F1", middleware.LoginRedirect("/login", "/surveys/1"))
	require.Equal(t, "/login?next=%2Fx", middleware.LoginRedirect("", "/x"))
	require.Equal(t, "https://id.example.com/auth?client=web&next=%2Fs", middleware.LoginRedirect("https://id.example.com/auth?client=web", "/s"))
	require.Equal(t, "/login", middleware.LoginRedirect("/login", ""))
}
