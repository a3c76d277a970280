package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-survey-api/internal/middleware"
)

func TestWithAuthAllowsSignedInUser(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, "u-1")
		return c.Next()
	})
	app.Get("/", middleware.WithAuth(func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}, middleware.AuthOptions{RequireUser: true, LoginURL: "/login"}))

	resp := perform(t, app, "/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestWithAuthRequiresUserAndCarriesDestination(t *testing.T) {
	app := fiber.New()
	app.Get("/surveys/:id", middleware.WithAuth(func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}, middleware.AuthOptions{RequireUser: true, LoginURL: "https://accounts.example.com/login"}))

	resp := perform(t, app, "/surveys/S1?ref=mail")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Details struct {
			LoginURL string `json:"login_url"`
		} `json:"details"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.False(t, body.Success)
	require.Equal(t, "https://accounts.example.com/login?next=%2Fsurveys%2FS1%3Fref%3Dmail", body.Details.LoginURL)
}

func TestWithAuthAllowsAnonymousWhenOptedIn(t *testing.T) {
	app := fiber.New()
	app.Get("/", middleware.WithAuth(func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}, middleware.AuthOptions{}))

	resp := perform(t, app, "/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func perform(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}
