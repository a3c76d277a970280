package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-survey-api/internal/middleware"
	"github.com/noah-isme/gema-survey-api/internal/service"
	"github.com/noah-isme/gema-survey-api/internal/utils"
)

func currentUserID(c *fiber.Ctx) string {
	return middleware.CurrentIdentity(c).ID
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func requireSignIn(handler fiber.Handler, loginURL string) fiber.Handler {
	return middleware.WithAuth(handler, middleware.AuthOptions{RequireUser: true, LoginURL: loginURL})
}

// handleError maps service errors onto the JSON envelope.
func handleError(c *fiber.Ctx, base zerolog.Logger, err error) error {
	var violations *service.AnswerValidationError
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrSurveyNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "survey not found")
	case errors.As(err, &violations):
		return utils.Fail(c, fiber.StatusUnprocessableEntity, "some answers do not match their questions", fiber.Map{
			"violations": violations.Violations,
		})
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrAlreadyResponded):
		return utils.Fail(c, fiber.StatusConflict, "you have already responded to this survey", fiber.Map{"retryable": false})
	case errors.Is(err, service.ErrSurveyUnavailable):
		return utils.Fail(c, fiber.StatusConflict, "this survey is not accepting responses", fiber.Map{"retryable": false})
	case errors.Is(err, service.ErrNotSurveyCreator):
		return utils.SendError(c, fiber.StatusForbidden, "only the survey creator can view this")
	case errors.Is(err, service.ErrImportDisabled):
		return utils.SendError(c, fiber.StatusForbidden, "import disabled")
	case errors.Is(err, service.ErrImportUnauthorized):
		return utils.SendError(c, fiber.StatusForbidden, "invalid token")
	case errors.Is(err, service.ErrImportInvalid):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrTransport):
		requestLogger(base, c).Warn().Err(err).Msg("storage unavailable")
		return utils.Fail(c, fiber.StatusServiceUnavailable, "storage is temporarily unavailable, please retry", fiber.Map{"retryable": true})
	default:
		requestLogger(base, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
