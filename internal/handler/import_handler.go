package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-survey-api/internal/dto"
	"github.com/noah-isme/gema-survey-api/internal/service"
	"github.com/noah-isme/gema-survey-api/internal/utils"
)

// ImportHandler exposes tooling endpoints for loading exported surveys.
type ImportHandler struct {
	service service.SurveyImportService
	logger  zerolog.Logger
}

// NewImportHandler constructs an import handler.
func NewImportHandler(service service.SurveyImportService, logger zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		service: service,
		logger:  logger.With().Str("component", "import_handler").Logger(),
	}
}

// Register wires import routes.
func (h *ImportHandler) Register(router fiber.Router) {
	router.Post("/surveys", h.importSurvey)
}

func (h *ImportHandler) importSurvey(c *fiber.Ctx) error {
	token := c.Get("X-Import-Token")
	var payload dto.SurveyImportRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.Import(c.UserContext(), token, payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "survey imported", result)
}
