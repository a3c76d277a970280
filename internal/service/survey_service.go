package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-survey-api/internal/dto"
	"github.com/noah-isme/gema-survey-api/internal/models"
	"github.com/noah-isme/gema-survey-api/internal/repository"
)

// SurveyService serves surveys to respondents and answers ownership questions.
type SurveyService interface {
	Get(ctx context.Context, surveyID, userID string) (dto.SurveyDetailResponse, error)
	IsCreator(ctx context.Context, surveyID, userID string) (bool, error)
}

type surveyService struct {
	surveys   repository.SurveyRepository
	questions repository.QuestionRepository
	responses repository.ResponseRepository
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSurveyService constructs the survey read service.
func NewSurveyService(surveys repository.SurveyRepository, questions repository.QuestionRepository, responses repository.ResponseRepository, logger zerolog.Logger) SurveyService {
	return &surveyService{
		surveys:   surveys,
		questions: questions,
		responses: responses,
		logger:    logger.With().Str("component", "survey_service").Logger(),
		now:       time.Now,
	}
}

func (s *surveyService) Get(ctx context.Context, surveyID, userID string) (dto.SurveyDetailResponse, error) {
	survey, err := loadSurvey(ctx, s.surveys, surveyID)
	if err != nil {
		return dto.SurveyDetailResponse{}, err
	}

	questions, err := s.questions.ListBySurvey(ctx, survey.ID)
	if err != nil {
		return dto.SurveyDetailResponse{}, transportError("list questions", err)
	}

	responded := false
	if userID != "" {
		responded, err = s.responses.ExistsForUser(ctx, survey.ID, userID)
		if err != nil {
			return dto.SurveyDetailResponse{}, transportError("check response", err)
		}
	}

	return dto.NewSurveyDetailResponse(survey, questions, survey.AcceptsResponses(s.now()), responded), nil
}

func (s *surveyService) IsCreator(ctx context.Context, surveyID, userID string) (bool, error) {
	survey, err := loadSurvey(ctx, s.surveys, surveyID)
	if err != nil {
		return false, err
	}
	return userID != "" && survey.UserID == userID, nil
}

func loadSurvey(ctx context.Context, surveys repository.SurveyRepository, surveyID string) (models.Survey, error) {
	survey, err := surveys.GetByID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Survey{}, ErrSurveyNotFound
		}
		return models.Survey{}, transportError("load survey", err)
	}
	return survey, nil
}
