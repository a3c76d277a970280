package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-survey-api/internal/dto"
	"github.com/noah-isme/gema-survey-api/internal/handler"
)

type mockSessionService struct {
	tokenID   string
	expiresAt time.Time
	err       error
}

func (m *mockSessionService) SignOut(_ context.Context, tokenID string, expiresAt time.Time) error {
	m.tokenID, m.expiresAt = tokenID, expiresAt
	return m.err
}

func (m *mockSessionService) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return m.tokenID == tokenID, nil
}

func TestSessionHandlerMeAndSignOut(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	sessions := &mockSessionService{}
	app := fiber.New()
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Locals("user_id", "U1")
		c.Locals("user_name", "Grace Hopper")
		c.Locals("token_id", "jti-1")
		c.Locals("token_expires_at", expires)
		return c.Next()
	})
	handler.NewSessionHandler(sessions, "https://id.example.com/login", testLogger()).Register(api)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/me", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var me struct {
		Data dto.CurrentUserResponse `json:"data"`
	}
	decodeResponse(t, resp, &me)
	require.Equal(t, "U1", me.Data.ID)
	require.Equal(t, "Grace Hopper", me.Data.DisplayName)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/sign-out", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "jti-1", sessions.tokenID)
	require.True(t, expires.Equal(sessions.expiresAt))

	var out struct {
		Data dto.SignOutResponse `json:"data"`
	}
	decodeResponse(t, resp, &out)
	require.Equal(t, "https://id.example.com/login", out.Data.LoginURL)
}

func TestSessionHandlerRequiresSignIn(t *testing.T) {
	app := fiber.New()
	handler.NewSessionHandler(&mockSessionService{}, "/login", testLogger()).Register(app.Group("/api/v1"))

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/sign-out", nil, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
