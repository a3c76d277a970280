package dto

import "time"

// ResponseSubmitRequest carries the answers keyed by question identifier.
type ResponseSubmitRequest struct {
	Answers   map[string]interface{} `json:"answers" validate:"required"`
	StudentID string                 `json:"student_id" validate:"omitempty,max=128"`
}

// ResponseSubmitResult is returned after a response has been stored.
type ResponseSubmitResult struct {
	ID              string    `json:"id"`
	SurveyID        string    `json:"survey_id"`
	StudentID       string    `json:"student_id"`
	StudentResolved bool      `json:"student_resolved"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// AnswerViolation explains why an answer was rejected.
type AnswerViolation struct {
	QuestionID string `json:"question_id"`
	Reason     string `json:"reason"`
}
