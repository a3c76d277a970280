package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-survey-api/internal/dto"
	"github.com/noah-isme/gema-survey-api/internal/middleware"
	"github.com/noah-isme/gema-survey-api/internal/service"
	"github.com/noah-isme/gema-survey-api/internal/utils"
)

// SurveyHandlerOptions tunes the survey routes.
type SurveyHandlerOptions struct {
	LoginURL         string
	SubmitRateLimit  int
	SubmitRateWindow time.Duration
}

// SurveyHandler exposes survey viewing, submission and statistics.
type SurveyHandler struct {
	surveys   service.SurveyService
	responses service.ResponseService
	stats     service.SurveyStatsService
	options   SurveyHandlerOptions
	logger    zerolog.Logger
}

// NewSurveyHandler constructs a survey handler.
func NewSurveyHandler(surveys service.SurveyService, responses service.ResponseService, stats service.SurveyStatsService, options SurveyHandlerOptions, logger zerolog.Logger) *SurveyHandler {
	return &SurveyHandler{
		surveys:   surveys,
		responses: responses,
		stats:     stats,
		options:   options,
		logger:    logger.With().Str("component", "survey_handler").Logger(),
	}
}

// Register wires survey routes.
func (h *SurveyHandler) Register(router fiber.Router) {
	router.Get("/surveys/:id", requireSignIn(h.get, h.options.LoginURL))
	router.Post("/surveys/:id/responses",
		middleware.RateLimit("survey_submit", h.options.SubmitRateLimit, h.options.SubmitRateWindow),
		requireSignIn(h.submit, h.options.LoginURL),
	)
	router.Get("/surveys/:id/stats", requireSignIn(h.getStats, h.options.LoginURL))
}

func (h *SurveyHandler) get(c *fiber.Ctx) error {
	surveyID := strings.TrimSpace(c.Params("id"))
	view, err := h.surveys.Get(c.UserContext(), surveyID, currentUserID(c))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "survey retrieved", view)
}

func (h *SurveyHandler) submit(c *fiber.Ctx) error {
	var payload dto.ResponseSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	surveyID := strings.TrimSpace(c.Params("id"))
	result, err := h.responses.Submit(c.UserContext(), surveyID, currentUserID(c), payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "response submitted", result)
}

func (h *SurveyHandler) getStats(c *fiber.Ctx) error {
	surveyID := strings.TrimSpace(c.Params("id"))
	owner, err := h.surveys.IsCreator(c.UserContext(), surveyID, currentUserID(c))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	if !owner {
		return handleError(c, h.logger, service.ErrNotSurveyCreator)
	}

	stats, err := h.stats.Stats(c.UserContext(), surveyID)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.OK(c, stats, "statistics computed", fiber.Map{"cache_hit": stats.CacheHit, "generated_at": stats.GeneratedAt})
}
