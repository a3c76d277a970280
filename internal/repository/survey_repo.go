package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/gema-survey-api/internal/models"
)

// SurveyRepository provides access to survey documents.
type SurveyRepository interface {
	GetByID(ctx context.Context, id string) (models.Survey, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Survey, error)
	Upsert(ctx context.Context, survey *models.Survey) error
}

type surveyRepository struct {
	db *gorm.DB
}

// NewSurveyRepository constructs a gorm-backed survey repository.
func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

func (r *surveyRepository) GetByID(ctx context.Context, id string) (models.Survey, error) {
	var survey models.Survey
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&survey).Error; err != nil {
		return models.Survey{}, translateGormError(err)
	}

	return survey, nil
}

func (r *surveyRepository) ListByOwner(ctx context.Context, userID string) ([]models.Survey, error) {
	var surveys []models.Survey
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&surveys).Error; err != nil {
		return nil, translateGormError(err)
	}

	return surveys, nil
}

func (r *surveyRepository) Upsert(ctx context.Context, survey *models.Survey) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "title", "description", "group_id", "start_date", "end_date", "is_active", "status", "updated_at"}),
	}).Create(survey).Error
	return translateGormError(err)
}
