package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-survey-api/internal/dto"
	"github.com/noah-isme/gema-survey-api/internal/models"
	"github.com/noah-isme/gema-survey-api/internal/repository"
)

var (
	// ErrImportDisabled indicates the import tooling is disabled by configuration.
	ErrImportDisabled = errors.New("survey import is disabled")
	// ErrImportUnauthorized indicates the provided import token is invalid.
	ErrImportUnauthorized = errors.New("invalid import token")
	// ErrImportInvalid indicates the payload is structurally inconsistent.
	ErrImportInvalid = errors.New("invalid survey import")
)

// Spacing between imported question creation times, in payload order.
const questionCreationStep = time.Millisecond

// SurveyImportService loads surveys exported from older tooling.
type SurveyImportService interface {
	Import(ctx context.Context, token string, payload dto.SurveyImportRequest) (dto.SurveyImportResult, error)
}

type surveyImportService struct {
	surveys   repository.SurveyRepository
	questions repository.QuestionRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	cache     *redis.Client
	enabled   bool
	token     string
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSurveyImportService constructs the import service.
func NewSurveyImportService(surveys repository.SurveyRepository, questions repository.QuestionRepository, validate *validator.Validate, cache *redis.Client, enabled bool, token string, logger zerolog.Logger) SurveyImportService {
	return &surveyImportService{
		surveys:   surveys,
		questions: questions,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		cache:     cache,
		enabled:   enabled,
		token:     token,
		logger:    logger.With().Str("component", "survey_import_service").Logger(),
		now:       time.Now,
	}
}

func (s *surveyImportService) Import(ctx context.Context, token string, payload dto.SurveyImportRequest) (dto.SurveyImportResult, error) {
	if !s.enabled {
		return dto.SurveyImportResult{}, ErrImportDisabled
	}
	if !s.validateToken(token) {
		return dto.SurveyImportResult{}, ErrImportUnauthorized
	}
	if s.validator != nil {
		if err := s.validator.Struct(payload); err != nil {
			return dto.SurveyImportResult{}, err
		}
	}
	if err := checkQuestionIDs(payload.Questions); err != nil {
		return dto.SurveyImportResult{}, err
	}

	now := s.now().UTC()
	survey := s.buildSurvey(payload.Survey)
	if err := s.surveys.Upsert(ctx, &survey); err != nil {
		return dto.SurveyImportResult{}, transportError("store survey", err)
	}

	questions := make([]models.Question, 0, len(payload.Questions))
	keep := make([]string, 0, len(payload.Questions))
	for i, item := range payload.Questions {
		question := item.ToModel(survey.ID, now.Add(time.Duration(i)*questionCreationStep))
		question.Prompt = s.sanitize(question.Prompt)
		for j := range question.Options {
			question.Options[j] = s.sanitize(question.Options[j])
		}
		questions = append(questions, question)
		keep = append(keep, question.ID)
	}

	affected, err := s.questions.UpsertBatch(ctx, questions)
	if err != nil {
		return dto.SurveyImportResult{}, transportError("store questions", err)
	}

	// A re-import replaces the question set; leftovers would keep older creation times.
	removed, err := s.questions.DeleteExcept(ctx, survey.ID, keep)
	if err != nil {
		return dto.SurveyImportResult{}, transportError("remove stale questions", err)
	}

	invalidateCache(ctx, s.cache, s.logger, analyticsCacheKey(survey.UserID), statsCacheKey(survey.ID))
	s.logger.Info().
		Str("survey_id", survey.ID).
		Int64("questions", affected).
		Int64("removed_questions", removed).
		Msg("survey imported")

	return dto.SurveyImportResult{SurveyID: survey.ID, Questions: affected}, nil
}

func (s *surveyImportService) buildSurvey(payload dto.SurveyImportPayload) models.Survey {
	id := strings.TrimSpace(payload.ID)
	if id == "" {
		id = uuid.NewString()
	}
	status := payload.Status
	if status == "" {
		status = models.SurveyStatusPublished
	}
	return models.Survey{
		ID:          id,
		UserID:      strings.TrimSpace(payload.UserID),
		Title:       s.sanitize(payload.Title),
		Description: s.sanitize(payload.Description),
		GroupID:     strings.TrimSpace(payload.GroupID),
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
		IsActive:    payload.IsActive,
		Status:      status,
	}
}

// sanitize strips markup and returns plain text.
func (s *surveyImportService) sanitize(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(value)))
}

func (s *surveyImportService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}

func checkQuestionIDs(questions []dto.QuestionImport) error {
	seen := make(map[string]struct{}, len(questions))
	for _, question := range questions {
		if _, ok := seen[question.ID]; ok {
			return fmt.Errorf("%w: duplicate question id %q", ErrImportInvalid, question.ID)
		}
		seen[question.ID] = struct{}{}
	}
	return nil
}
