package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/gema-survey-api/internal/dto"
)

var (
	// ErrSurveyNotFound indicates a survey could not be found.
	ErrSurveyNotFound = errors.New("survey not found")
	// ErrAlreadyResponded indicates the user already submitted a response to the survey.
	ErrAlreadyResponded = errors.New("survey already submitted")
	// ErrInvalidAnswer indicates an answer does not match its question type.
	ErrInvalidAnswer = errors.New("invalid answer")
	// ErrSurveyUnavailable indicates the survey is closed, inactive or outside its window.
	ErrSurveyUnavailable = errors.New("survey is not accepting responses")
	// ErrNotSurveyCreator indicates the caller does not own the survey.
	ErrNotSurveyCreator = errors.New("only the survey creator may access this resource")
	// ErrTransport marks failures of the document store or another collaborator.
	ErrTransport = errors.New("document store unavailable")
)

// AnswerValidationError lists the answers that failed validation.
type AnswerValidationError struct {
	Violations []dto.AnswerViolation
}

func (e *AnswerValidationError) Error() string {
	ids := make([]string, 0, len(e.Violations))
	for _, violation := range e.Violations {
		ids = append(ids, violation.QuestionID)
	}
	return fmt.Sprintf("invalid answer for question(s) %s", strings.Join(ids, ", "))
}

func (e *AnswerValidationError) Unwrap() error {
	return ErrInvalidAnswer
}

func transportError(operation string, err error) error {
	return fmt.Errorf("%s: %w: %w", operation, ErrTransport, err)
}
