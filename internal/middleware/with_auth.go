package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	RequireUser bool
	// LoginURL receives the original request URL as "next" when sign-in is required.
	LoginURL string
}

// WithAuth wraps a handler with the sign-in guard.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	if !opts.RequireUser {
		return handler
	}

	return func(c *fiber.Ctx) error {
		if localString(c, LocalUserID) == "" {
			return unauthorized(c, opts.LoginURL, "authentication required")
		}
		return handler(c)
	}
}
