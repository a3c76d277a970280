package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/gema-survey-api/internal/dto"
	"github.com/noah-isme/gema-survey-api/internal/observability"
	"github.com/noah-isme/gema-survey-api/internal/repository"
)

// UserAnalyticsService aggregates response counts over the surveys a user created.
type UserAnalyticsService interface {
	Analytics(ctx context.Context, userID string) (dto.UserAnalyticsResponse, error)
}

type userAnalyticsService struct {
	surveys   repository.SurveyRepository
	responses repository.ResponseRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewUserAnalyticsService constructs the analytics aggregator.
func NewUserAnalyticsService(surveys repository.SurveyRepository, responses repository.ResponseRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) UserAnalyticsService {
	return &userAnalyticsService{
		surveys:   surveys,
		responses: responses,
		cache:     cache,
		cacheTTL:  ttl,
		logger:    logger.With().Str("component", "user_analytics_service").Logger(),
		tracer:    observability.Tracer("service/user_analytics"),
		now:       time.Now,
	}
}

func (s *userAnalyticsService) Analytics(ctx context.Context, userID string) (dto.UserAnalyticsResponse, error) {
	cacheKey := analyticsCacheKey(userID)
	ctx, span := s.tracer.Start(ctx, "analytics.user")
	defer span.End()

	var cached dto.UserAnalyticsResponse
	if readCache(ctx, s.cache, s.logger, cacheKey, &cached) {
		cached.CacheHit = true
		span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
		return cached, nil
	}

	surveys, err := s.surveys.ListByOwner(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_surveys_failed")
		return dto.UserAnalyticsResponse{}, transportError("list surveys", err)
	}

	result := dto.UserAnalyticsResponse{
		TotalSurveys: len(surveys),
		Surveys:      make([]dto.SurveyResponseCount, 0, len(surveys)),
	}
	for _, survey := range surveys {
		count, err := s.responses.CountBySurvey(ctx, survey.ID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "count_responses_failed")
			return dto.UserAnalyticsResponse{}, transportError("count responses", err)
		}
		result.TotalResponses += count
		result.Surveys = append(result.Surveys, dto.SurveyResponseCount{
			ID:            survey.ID,
			Title:         survey.Title,
			ResponseCount: count,
		})
	}

	if result.TotalSurveys > 0 {
		result.AverageResponsesPerSurvey = float64(result.TotalResponses) / float64(result.TotalSurveys)
	}
	result.GeneratedAt = s.now().UTC()
	span.SetAttributes(
		attribute.Int("analytics.total_surveys", result.TotalSurveys),
		attribute.Int64("analytics.total_responses", result.TotalResponses),
	)

	writeCache(ctx, s.cache, s.logger, cacheKey, result, s.cacheTTL)
	return result, nil
}
