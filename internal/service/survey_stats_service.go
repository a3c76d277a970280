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
	"github.com/noah-isme/gema-survey-api/internal/models"
	"github.com/noah-isme/gema-survey-api/internal/observability"
	"github.com/noah-isme/gema-survey-api/internal/repository"
)

// SurveyStatsService summarises the responses collected by a survey.
type SurveyStatsService interface {
	Stats(ctx context.Context, surveyID string) (dto.SurveyStatsResponse, error)
}

type surveyStatsService struct {
	responses repository.ResponseRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewSurveyStatsService constructs the statistics aggregator.
func NewSurveyStatsService(responses repository.ResponseRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) SurveyStatsService {
	return &surveyStatsService{
		responses: responses,
		cache:     cache,
		cacheTTL:  ttl,
		logger:    logger.With().Str("component", "survey_stats_service").Logger(),
		tracer:    observability.Tracer("service/survey_stats"),
		now:       time.Now,
	}
}

func (s *surveyStatsService) Stats(ctx context.Context, surveyID string) (dto.SurveyStatsResponse, error) {
	cacheKey := statsCacheKey(surveyID)
	ctx, span := s.tracer.Start(ctx, "stats.compute")
	span.SetAttributes(attribute.String("survey.id", surveyID))
	defer span.End()

	var cached dto.SurveyStatsResponse
	if readCache(ctx, s.cache, s.logger, cacheKey, &cached) {
		cached.CacheHit = true
		span.SetAttributes(attribute.Bool("stats.cache_hit", true))
		return cached, nil
	}

	responses, err := s.responses.ListBySurvey(ctx, surveyID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_responses_failed")
		return dto.SurveyStatsResponse{}, transportError("list responses", err)
	}

	stats := buildSurveyStats(surveyID, responses)
	stats.GeneratedAt = s.now().UTC()
	span.SetAttributes(attribute.Int("stats.total_responses", stats.TotalResponses))

	writeCache(ctx, s.cache, s.logger, cacheKey, stats, s.cacheTTL)
	return stats, nil
}

// buildSurveyStats groups answer values by question in the order the responses were read.
func buildSurveyStats(surveyID string, responses []models.Response) dto.SurveyStatsResponse {
	questionStats := make(map[string]dto.QuestionStat)
	for _, response := range responses {
		for _, answer := range response.Answers {
			stat := questionStats[answer.QuestionID]
			stat.Responses++
			stat.Values = append(stat.Values, answer.Value)
			questionStats[answer.QuestionID] = stat
		}
	}

	return dto.SurveyStatsResponse{
		SurveyID:       surveyID,
		TotalResponses: len(responses),
		QuestionStats:  questionStats,
	}
}
