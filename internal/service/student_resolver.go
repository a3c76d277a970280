package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-survey-api/internal/models"
	"github.com/noah-isme/gema-survey-api/internal/observability"
	"github.com/noah-isme/gema-survey-api/internal/repository"
)

// StudentResolver maps a response to the student it was submitted for.
type StudentResolver interface {
	// Resolve returns the student id and true when a name answer identified a student.
	// It returns false with a nil error when the response carries no usable name.
	Resolve(ctx context.Context, response models.Response, questions []models.Question, groupID, creatorID string) (string, bool, error)
}

type studentResolver struct {
	students repository.StudentRepository
	logger   zerolog.Logger
	newID    func() string
}

// NewStudentResolver constructs the name based student resolver.
func NewStudentResolver(students repository.StudentRepository, logger zerolog.Logger) StudentResolver {
	return &studentResolver{
		students: students,
		logger:   logger.With().Str("component", "student_resolver").Logger(),
		newID:    uuid.NewString,
	}
}

func (r *studentResolver) Resolve(ctx context.Context, response models.Response, questions []models.Question, groupID, creatorID string) (string, bool, error) {
	question, ok := selectNameQuestion(questions)
	if !ok {
		observability.StudentResolutions().WithLabelValues(observability.ResolutionSkipped).Inc()
		return "", false, nil
	}

	answer, ok := response.AnswerFor(question.ID)
	if !ok {
		observability.StudentResolutions().WithLabelValues(observability.ResolutionSkipped).Inc()
		return "", false, nil
	}

	text, ok := answer.Value.(string)
	if !ok {
		observability.StudentResolutions().WithLabelValues(observability.ResolutionSkipped).Inc()
		return "", false, nil
	}

	firstName, lastName, ok := ParseFullName(text)
	if !ok {
		observability.StudentResolutions().WithLabelValues(observability.ResolutionSkipped).Inc()
		return "", false, nil
	}

	identity := repository.StudentIdentity{FirstName: firstName, LastName: lastName, GroupID: groupID}

	existing, err := r.students.FindByIdentity(ctx, identity)
	switch {
	case err == nil:
		r.logger.Debug().
			Str("student_id", existing.ID).
			Str("student_name", existing.FullName()).
			Msg("survey response matched existing student")
		observability.StudentResolutions().WithLabelValues(observability.ResolutionMatched).Inc()
		return existing.ID, true, nil
	case !errors.Is(err, repository.ErrNotFound):
		observability.StudentResolutions().WithLabelValues(observability.ResolutionFailed).Inc()
		return "", false, transportError("find student", err)
	}

	student := models.Student{
		ID:        r.newID(),
		UserID:    creatorID,
		FirstName: firstName,
		LastName:  lastName,
		GroupID:   groupID,
	}
	if err := r.students.Create(ctx, &student); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			observability.StudentResolutions().WithLabelValues(observability.ResolutionFailed).Inc()
			return "", false, transportError("create student", err)
		}

		// A concurrent submission created the same student between lookup and insert.
		existing, err := r.students.FindByIdentity(ctx, identity)
		if err != nil {
			observability.StudentResolutions().WithLabelValues(observability.ResolutionFailed).Inc()
			return "", false, transportError("find student", err)
		}
		observability.StudentResolutions().WithLabelValues(observability.ResolutionMatched).Inc()
		return existing.ID, true, nil
	}

	r.logger.Info().
		Str("student_id", student.ID).
		Str("student_name", student.FullName()).
		Str("group_id", groupID).
		Msg("student created from survey response")
	observability.StudentResolutions().WithLabelValues(observability.ResolutionCreated).Inc()

	return student.ID, true, nil
}
