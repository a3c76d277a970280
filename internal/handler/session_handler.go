package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-survey-api/internal/dto"
	"github.com/noah-isme/gema-survey-api/internal/middleware"
	"github.com/noah-isme/gema-survey-api/internal/service"
	"github.com/noah-isme/gema-survey-api/internal/utils"
)

// SessionHandler exposes the current identity and sign-out.
type SessionHandler struct {
	service  service.SessionService
	loginURL string
	logger   zerolog.Logger
}

// NewSessionHandler constructs a session handler.
func NewSessionHandler(service service.SessionService, loginURL string, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		service:  service,
		loginURL: loginURL,
		logger:   logger.With().Str("component", "session_handler").Logger(),
	}
}

// Register wires session routes.
func (h *SessionHandler) Register(router fiber.Router) {
	router.Get("/me", requireSignIn(h.me, h.loginURL))
	router.Post("/auth/sign-out", requireSignIn(h.signOut, h.loginURL))
}

func (h *SessionHandler) me(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)
	return utils.SendSuccess(c, "current user", dto.CurrentUserResponse{
		ID:          identity.ID,
		DisplayName: identity.Name,
		Email:       identity.Email,
		Role:        identity.Role,
	})
}

func (h *SessionHandler) signOut(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)
	if err := h.service.SignOut(c.UserContext(), identity.TokenID, identity.ExpiresAt); err != nil {
		return handleError(c, h.logger, err)
	}

	requestLogger(h.logger, c).Info().Str("user_id", identity.ID).Msg("user signed out")
	return utils.SendSuccess(c, "signed out", dto.SignOutResponse{LoginURL: middleware.LoginRedirect(h.loginURL, "")})
}
