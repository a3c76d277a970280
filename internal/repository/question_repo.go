package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/gema-survey-api/internal/models"
)

// QuestionRepository provides access to the questions nested under a survey.
type QuestionRepository interface {
	ListBySurvey(ctx context.Context, surveyID string) ([]models.Question, error)
	UpsertBatch(ctx context.Context, questions []models.Question) (int64, error)
	// DeleteExcept removes the survey's questions whose ids are not listed in keepIDs.
	DeleteExcept(ctx context.Context, surveyID string, keepIDs []string) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository constructs a gorm-backed question repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

// ListBySurvey returns questions in authoring order.
func (r *questionRepository) ListBySurvey(ctx context.Context, surveyID string) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, translateGormError(err)
	}

	return questions, nil
}

func (r *questionRepository) UpsertBatch(ctx context.Context, questions []models.Question) (int64, error) {
	if len(questions) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}, {Name: "survey_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"type", "prompt", "required", "options", "max_rating", "min_date", "max_date", "created_at"}),
	})

	result := tx.Create(&questions)
	return result.RowsAffected, translateGormError(result.Error)
}

func (r *questionRepository) DeleteExcept(ctx context.Context, surveyID string, keepIDs []string) (int64, error) {
	tx := r.db.WithContext(ctx).Where("survey_id = ?", surveyID)
	if len(keepIDs) > 0 {
		tx = tx.Where("id NOT IN ?", keepIDs)
	}

	result := tx.Delete(&models.Question{})
	return result.RowsAffected, translateGormError(result.Error)
}
