package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/gema-survey-api/internal/dto"
	"github.com/noah-isme/gema-survey-api/internal/models"
	"github.com/noah-isme/gema-survey-api/internal/observability"
	"github.com/noah-isme/gema-survey-api/internal/repository"
)

// ResponseService ingests survey submissions.
type ResponseService interface {
	Submit(ctx context.Context, surveyID, userID string, payload dto.ResponseSubmitRequest) (dto.ResponseSubmitResult, error)
}

type responseService struct {
	surveys   repository.SurveyRepository
	questions repository.QuestionRepository
	responses repository.ResponseRepository
	resolver  StudentResolver
	answers   AnswerValidator
	validator *validator.Validate
	cache     *redis.Client
	events    EventPublisher
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
	newID     func() string
}

// NewResponseService wires the ingestion pipeline.
func NewResponseService(
	surveys repository.SurveyRepository,
	questions repository.QuestionRepository,
	responses repository.ResponseRepository,
	resolver StudentResolver,
	answers AnswerValidator,
	validate *validator.Validate,
	cache *redis.Client,
	events EventPublisher,
	logger zerolog.Logger,
) ResponseService {
	return &responseService{
		surveys:   surveys,
		questions: questions,
		responses: responses,
		resolver:  resolver,
		answers:   answers,
		validator: validate,
		cache:     cache,
		events:    events,
		logger:    logger.With().Str("component", "response_service").Logger(),
		tracer:    observability.Tracer("service/response"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *responseService) Submit(ctx context.Context, surveyID, userID string, payload dto.ResponseSubmitRequest) (dto.ResponseSubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "responses.submit")
	span.SetAttributes(attribute.String("survey.id", surveyID))
	defer span.End()

	result, err := s.submit(ctx, surveyID, userID, payload)
	outcome := observability.OutcomeStored
	switch {
	case err == nil:
	case errors.Is(err, ErrAlreadyResponded):
		outcome = observability.OutcomeAlreadyResponded
	case errors.Is(err, ErrInvalidAnswer), errors.As(err, new(validator.ValidationErrors)):
		outcome = observability.OutcomeInvalid
	default:
		outcome = observability.OutcomeFailed
	}
	observability.ResponsesSubmitted().WithLabelValues(outcome).Inc()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	return result, err
}

func (s *responseService) submit(ctx context.Context, surveyID, userID string, payload dto.ResponseSubmitRequest) (dto.ResponseSubmitResult, error) {
	if s.validator != nil {
		if err := s.validator.Struct(payload); err != nil {
			return dto.ResponseSubmitResult{}, err
		}
	}

	survey, err := loadSurvey(ctx, s.surveys, surveyID)
	if err != nil {
		return dto.ResponseSubmitResult{}, err
	}

	now := s.now().UTC()
	if !survey.AcceptsResponses(now) {
		return dto.ResponseSubmitResult{}, ErrSurveyUnavailable
	}

	questions, err := s.questions.ListBySurvey(ctx, survey.ID)
	if err != nil {
		return dto.ResponseSubmitResult{}, transportError("list questions", err)
	}

	exists, err := s.responses.ExistsForUser(ctx, survey.ID, userID)
	if err != nil {
		return dto.ResponseSubmitResult{}, transportError("check response", err)
	}
	if exists {
		return dto.ResponseSubmitResult{}, ErrAlreadyResponded
	}

	if s.answers != nil {
		if violations := s.answers.Validate(questions, payload.Answers); len(violations) > 0 {
			return dto.ResponseSubmitResult{}, &AnswerValidationError{Violations: violations}
		}
	}

	placeholder := strings.TrimSpace(payload.StudentID)
	if placeholder == "" {
		placeholder = userID
	}

	response := models.Response{
		ID:          s.newID(),
		SurveyID:    survey.ID,
		UserID:      userID,
		StudentID:   placeholder,
		Answers:     orderAnswers(questions, payload.Answers),
		SubmittedAt: now,
	}

	resolved := false
	if s.resolver != nil {
		studentID, ok, err := s.resolver.Resolve(ctx, response, questions, survey.GroupID, survey.UserID)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).
				Str("survey_id", survey.ID).
				Str("response_id", response.ID).
				Msg("student resolution failed, keeping placeholder")
		case ok:
			response.StudentID = studentID
			resolved = true
		}
	}

	if err := s.responses.Create(ctx, &response); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.ResponseSubmitResult{}, ErrAlreadyResponded
		}
		return dto.ResponseSubmitResult{}, transportError("store response", err)
	}

	s.afterSubmit(ctx, survey, response, resolved)

	return dto.ResponseSubmitResult{
		ID:              response.ID,
		SurveyID:        response.SurveyID,
		StudentID:       response.StudentID,
		StudentResolved: resolved,
		SubmittedAt:     response.SubmittedAt,
	}, nil
}

func (s *responseService) afterSubmit(ctx context.Context, survey models.Survey, response models.Response, resolved bool) {
	invalidateCache(ctx, s.cache, s.logger, statsCacheKey(survey.ID), analyticsCacheKey(survey.UserID))

	if s.events != nil {
		event := ResponseSubmittedPayload{
			ResponseID: response.ID,
			SurveyID:   response.SurveyID,
			UserID:     response.UserID,
			StudentID:  response.StudentID,
			Resolved:   resolved,
			Submitted:  response.SubmittedAt,
		}
		if err := s.events.Publish(ctx, EventResponseSubmitted, event); err != nil {
			observability.EventPublishFailures().Inc()
			s.logger.Warn().Err(err).Str("response_id", response.ID).Msg("failed to publish response event")
		}
	}

	s.logger.Info().
		Str("survey_id", survey.ID).
		Str("response_id", response.ID).
		Bool("student_resolved", resolved).
		Msg("survey response stored")
}

// orderAnswers maps every submitted value to one answer, following question order.
// Answers to unknown questions follow, sorted by identifier.
func orderAnswers(questions []models.Question, raw map[string]interface{}) []models.Answer {
	answers := make([]models.Answer, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, question := range questions {
		value, ok := raw[question.ID]
		if !ok {
			continue
		}
		answers = append(answers, models.Answer{QuestionID: question.ID, Value: value})
		seen[question.ID] = struct{}{}
	}

	unknown := make([]string, 0)
	for id := range raw {
		if _, ok := seen[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		answers = append(answers, models.Answer{QuestionID: id, Value: raw[id]})
	}
	return answers
}
