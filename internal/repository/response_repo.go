package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-survey-api/internal/models"
)

// ResponseRepository persists survey responses.
type ResponseRepository interface {
	ExistsForUser(ctx context.Context, surveyID, userID string) (bool, error)
	ListBySurvey(ctx context.Context, surveyID string) ([]models.Response, error)
	CountBySurvey(ctx context.Context, surveyID string) (int64, error)
	Create(ctx context.Context, response *models.Response) error
}

type responseRepository struct {
	db *gorm.DB
}

// NewResponseRepository constructs a gorm-backed response repository.
func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) ExistsForUser(ctx context.Context, surveyID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Response{}).
		Where("survey_id = ?", surveyID).
		Where("user_id = ?", userID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, translateGormError(err)
	}

	return count > 0, nil
}

// ListBySurvey returns responses newest first.
func (r *responseRepository) ListBySurvey(ctx context.Context, surveyID string) ([]models.Response, error) {
	var responses []models.Response
	if err := r.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("submitted_at DESC").
		Find(&responses).Error; err != nil {
		return nil, translateGormError(err)
	}

	return responses, nil
}

func (r *responseRepository) CountBySurvey(ctx context.Context, surveyID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Response{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error; err != nil {
		return 0, translateGormError(err)
	}

	return count, nil
}

func (r *responseRepository) Create(ctx context.Context, response *models.Response) error {
	return translateGormError(r.db.WithContext(ctx).Create(response).Error)
}
