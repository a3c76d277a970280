package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuestionType tags the answer shape a question expects.
type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"
	QuestionTypeMultipleChoice QuestionType = "multipleChoice"
	QuestionTypeChoice         QuestionType = "choice"
	QuestionTypeYesNo          QuestionType = "yesNo"
	QuestionTypeBoolean        QuestionType = "boolean"
	QuestionTypeRating         QuestionType = "rating"
	QuestionTypeComment        QuestionType = "comment"
	QuestionTypeDate           QuestionType = "date"
)

// DefaultMaxRating applies to rating questions without an explicit maximum.
const DefaultMaxRating = 5

// Valid reports whether the type belongs to the supported enumeration.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeMultipleChoice, QuestionTypeChoice, QuestionTypeYesNo,
		QuestionTypeBoolean, QuestionTypeRating, QuestionTypeComment, QuestionTypeDate:
		return true
	}
	return false
}

// Question is one prompt within a survey. Question identifiers are scoped to their survey.
type Question struct {
	ID        string                      `gorm:"primaryKey;size:64" json:"id" bson:"question_id"`
	SurveyID  string                      `gorm:"primaryKey;size:64" json:"survey_id" bson:"survey_id"`
	Type      QuestionType                `gorm:"size:32;not null" json:"type" bson:"type"`
	Prompt    string                      `gorm:"type:text;not null" json:"question" bson:"question"`
	Required  bool                        `json:"required" bson:"required"`
	Options   datatypes.JSONSlice[string] `json:"options,omitempty" bson:"options,omitempty"`
	MaxRating int                         `json:"max_rating,omitempty" bson:"max_rating,omitempty"`
	MinDate   *time.Time                  `json:"min_date,omitempty" bson:"min_date,omitempty"`
	MaxDate   *time.Time                  `json:"max_date,omitempty" bson:"max_date,omitempty"`
	CreatedAt time.Time                   `gorm:"index" json:"created_at" bson:"created_at"`
}

// RatingMax returns the upper bound for rating answers.
func (q Question) RatingMax() int {
	if q.MaxRating <= 0 {
		return DefaultMaxRating
	}
	return q.MaxRating
}
