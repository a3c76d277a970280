package models

import (
	"time"

	"gorm.io/datatypes"
)

// Answer pairs a question with the submitted value. The value is a string, number,
// boolean or list of strings depending on the question type.
type Answer struct {
	QuestionID string      `json:"question_id" bson:"question_id"`
	Value      interface{} `json:"value" bson:"value"`
}

// Response is one submitter's complete set of answers to a survey.
type Response struct {
	ID          string                      `gorm:"primaryKey;size:64" json:"id" bson:"_id"`
	SurveyID    string                      `gorm:"size:64;not null;uniqueIndex:idx_responses_survey_user" json:"survey_id" bson:"survey_id"`
	UserID      string                      `gorm:"size:128;not null;uniqueIndex:idx_responses_survey_user" json:"user_id" bson:"user_id"`
	StudentID   string                      `gorm:"size:128;index" json:"student_id" bson:"student_id"`
	Answers     datatypes.JSONSlice[Answer] `json:"answers" bson:"answers"`
	SubmittedAt time.Time                   `gorm:"not null;index" json:"submitted_at" bson:"submitted_at"`
	CreatedAt   time.Time                   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at" bson:"updated_at"`
}

// AnswerFor returns the answer given to the question, if any.
func (r Response) AnswerFor(questionID string) (Answer, bool) {
	for _, answer := range r.Answers {
		if answer.QuestionID == questionID {
			return answer, true
		}
	}
	return Answer{}, false
}
