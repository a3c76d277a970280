package middleware

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/gema-survey-api/internal/utils"
)

// Locals keys populated by Authenticate.
const (
	LocalUserID         = "user_id"
	LocalUserName       = "user_name"
	LocalUserEmail      = "user_email"
	LocalUserRole       = "user_role"
	LocalTokenID        = "token_id"
	LocalTokenExpiresAt = "token_expires_at"
)

// RevocationChecker reports whether a token id has been signed out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// JWTConfig configures bearer token authentication.
type JWTConfig struct {
	Secret      string
	LoginURL    string
	Revocations RevocationChecker
}

// Identity is the signed-in user as asserted by the identity provider.
type Identity struct {
	ID        string
	Name      string
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// Authenticate validates bearer tokens when present and stores the identity in locals.
// Requests without an Authorization header continue anonymously; WithAuth enforces sign-in.
func Authenticate(cfg JWTConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get(fiber.HeaderAuthorization)
		if authorization == "" {
			return c.Next()
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return unauthorized(c, cfg.LoginURL, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return unauthorized(c, cfg.LoginURL, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.Secret), nil
		})
		if err != nil || !token.Valid {
			return unauthorized(c, cfg.LoginURL, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c, cfg.LoginURL, "invalid token claims")
		}

		identity := identityFromClaims(claims)
		if identity.ID == "" {
			return unauthorized(c, cfg.LoginURL, "token has no subject")
		}

		if cfg.Revocations != nil && identity.TokenID != "" {
			revoked, err := cfg.Revocations.IsRevoked(c.UserContext(), identity.TokenID)
			if err != nil {
				return utils.Fail(c, fiber.StatusServiceUnavailable, "unable to verify session", fiber.Map{"retryable": true})
			}
			if revoked {
				return unauthorized(c, cfg.LoginURL, "session has ended")
			}
		}

		c.Locals(LocalUserID, identity.ID)
		if identity.Name != "" {
			c.Locals(LocalUserName, identity.Name)
		}
		if identity.Email != "" {
			c.Locals(LocalUserEmail, identity.Email)
		}
		if identity.Role != "" {
			c.Locals(LocalUserRole, identity.Role)
		}
		if identity.TokenID != "" {
			c.Locals(LocalTokenID, identity.TokenID)
		}
		if !identity.ExpiresAt.IsZero() {
			c.Locals(LocalTokenExpiresAt, identity.ExpiresAt)
		}

		return c.Next()
	}
}

// CurrentIdentity returns the identity stored by Authenticate. ID is empty for anonymous requests.
func CurrentIdentity(c *fiber.Ctx) Identity {
	identity := Identity{
		ID:      localString(c, LocalUserID),
		Name:    localString(c, LocalUserName),
		Email:   localString(c, LocalUserEmail),
		Role:    localString(c, LocalUserRole),
		TokenID: localString(c, LocalTokenID),
	}
	if expires, ok := c.Locals(LocalTokenExpiresAt).(time.Time); ok {
		identity.ExpiresAt = expires
	}
	return identity
}

// LoginRedirect appends the pending destination to the login URL as the "next" parameter.
func LoginRedirect(loginURL, next string) string {
	if strings.TrimSpace(loginURL) == "" {
		loginURL = "/login"
	}
	parsed, err := url.Parse(loginURL)
	if err != nil {
		return loginURL
	}
	if next != "" {
		query := parsed.Query()
		query.Set("next", next)
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func unauthorized(c *fiber.Ctx, loginURL, message string) error {
	return utils.Fail(c, fiber.StatusUnauthorized, message, fiber.Map{
		"login_url": LoginRedirect(loginURL, c.OriginalURL()),
	})
}

func localString(c *fiber.Ctx, key string) string {
	if value, ok := c.Locals(key).(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func identityFromClaims(claims jwt.MapClaims) Identity {
	identity := Identity{
		ID:      firstClaimString(claims, "sub", "user_id", "uid"),
		Name:    firstClaimString(claims, "name", "display_name"),
		Email:   firstClaimString(claims, "email"),
		Role:    extractUserRoleFromClaims(claims),
		TokenID: firstClaimString(claims, "jti"),
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		identity.ExpiresAt = exp.Time
	}
	return identity
}

func firstClaimString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if normalized := normalizeClaimString(value); normalized != "" {
				return normalized
			}
		}
	}
	return ""
}

// Some providers issue numeric subjects.
func normalizeClaimString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v < 0 || v != float64(int64(v)) {
			return ""
		}
		return strconv.FormatInt(int64(v), 10)
	case int:
		if v < 0 {
			return ""
		}
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func extractUserRoleFromClaims(claims jwt.MapClaims) string {
	candidates := []string{"role", "roles"}
	for _, key := range candidates {
		if value, ok := claims[key]; ok {
			if role := normalizeRole(value); role != "" {
				return role
			}
		}
	}
	return ""
}

func normalizeRole(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case []interface{}:
		for _, item := range v {
			if str, ok := item.(string); ok {
				role := strings.ToLower(strings.TrimSpace(str))
				if role != "" {
					return role
				}
			}
		}
	}
	return ""
}
