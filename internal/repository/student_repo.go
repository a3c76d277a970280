package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-survey-api/internal/models"
)

// StudentIdentity is the natural key used to deduplicate students within a group.
type StudentIdentity struct {
	FirstName string
	LastName  string
	GroupID   string
}

// StudentRepository provides access to student records.
type StudentRepository interface {
	FindByIdentity(ctx context.Context, identity StudentIdentity) (models.Student, error)
	Create(ctx context.Context, student *models.Student) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) FindByIdentity(ctx context.Context, identity StudentIdentity) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).
		Where("first_name = ?", identity.FirstName).
		Where("last_name = ?", identity.LastName).
		Where("group_id = ?", identity.GroupID).
		Order("created_at ASC").
		First(&student).Error; err != nil {
		return models.Student{}, translateGormError(err)
	}

	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return translateGormError(r.db.WithContext(ctx).Create(student).Error)
}
