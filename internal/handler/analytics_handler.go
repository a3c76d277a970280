package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-survey-api/internal/service"
	"github.com/noah-isme/gema-survey-api/internal/utils"
)

// AnalyticsHandler exposes the signed-in user's survey analytics.
type AnalyticsHandler struct {
	service  service.UserAnalyticsService
	loginURL string
	logger   zerolog.Logger
}

// NewAnalyticsHandler creates a new handler instance.
func NewAnalyticsHandler(service service.UserAnalyticsService, loginURL string, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:  service,
		loginURL: loginURL,
		logger:   logger.With().Str("component", "analytics_handler").Logger(),
	}
}

// Register attaches the analytics endpoint.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	router.Get("/me/analytics", requireSignIn(h.getAnalytics, h.loginURL))
}

func (h *AnalyticsHandler) getAnalytics(c *fiber.Ctx) error {
	analytics, err := h.service.Analytics(c.UserContext(), currentUserID(c))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.OK(c, analytics, "analytics retrieved", fiber.Map{"cache_hit": analytics.CacheHit, "generated_at": analytics.GeneratedAt})
}
