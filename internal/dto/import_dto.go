package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/gema-survey-api/internal/models"
)

// SurveyImportRequest loads a survey and its questions in one call.
type SurveyImportRequest struct {
	Survey    SurveyImportPayload `json:"survey" validate:"required"`
	Questions []QuestionImport    `json:"questions" validate:"dive"`
}

// SurveyImportPayload describes the survey document to import.
type SurveyImportPayload struct {
	ID          string     `json:"id" validate:"omitempty,max=64"`
	UserID      string     `json:"user_id" validate:"required,max=128"`
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description"`
	GroupID     string     `json:"group_id" validate:"required,max=128"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	IsActive    *bool      `json:"is_active"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft published closed"`
}

// SurveyImportResult reports what an import wrote.
type SurveyImportResult struct {
	SurveyID  string `json:"survey_id"`
	Questions int64  `json:"questions"`
}

// QuestionImport is the canonical question shape accepted by the import endpoint.
// Older exports used different field names for the same data; UnmarshalJSON folds
// those into the canonical fields so nothing past this point has to know about them.
type QuestionImport struct {
	ID        string              `json:"id" validate:"required,max=64"`
	Type      models.QuestionType `json:"type" validate:"required,oneof=text multipleChoice choice yesNo boolean rating comment date"`
	Question  string              `json:"question" validate:"required"`
	Required  bool                `json:"required"`
	Options   []string            `json:"options"`
	MaxRating int                 `json:"max_rating" validate:"gte=0"`
	MinDate   *time.Time          `json:"min_date"`
	MaxDate   *time.Time          `json:"max_date"`
}

type legacyQuestion struct {
	ID           json.RawMessage `json:"id"`
	Type         string          `json:"type"`
	QuestionType string          `json:"questionType"`
	Question     string          `json:"question"`
	Text         string          `json:"text"`
	QuestionText string          `json:"questionText"`
	Required     bool            `json:"required"`
	Options      []string        `json:"options"`
	Choices      []string        `json:"choices"`
	MaxRating    int             `json:"max_rating"`
	MaxRatingOld int             `json:"maxRating"`
	RatingMax    int             `json:"ratingMax"`
	MinDate      string          `json:"min_date"`
	MinDateOld   string          `json:"minDate"`
	MaxDate      string          `json:"max_date"`
	MaxDateOld   string          `json:"maxDate"`
}

// UnmarshalJSON decodes a question and normalises legacy field names.
func (q *QuestionImport) UnmarshalJSON(data []byte) error {
	var raw legacyQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeQuestionID(raw.ID)
	if err != nil {
		return err
	}

	minDate, err := parseImportDate(firstNonEmpty(raw.MinDate, raw.MinDateOld))
	if err != nil {
		return fmt.Errorf("question %s: invalid min date: %w", id, err)
	}
	maxDate, err := parseImportDate(firstNonEmpty(raw.MaxDate, raw.MaxDateOld))
	if err != nil {
		return fmt.Errorf("question %s: invalid max date: %w", id, err)
	}

	questionType := firstNonEmpty(raw.Type, raw.QuestionType)
	if questionType == "" {
		questionType = string(models.QuestionTypeText)
	}

	options := raw.Options
	if len(options) == 0 {
		options = raw.Choices
	}

	*q = QuestionImport{
		ID:        id,
		Type:      models.QuestionType(questionType),
		Question:  firstNonEmpty(raw.Question, raw.Text, raw.QuestionText),
		Required:  raw.Required,
		Options:   options,
		MaxRating: firstPositive(raw.MaxRating, raw.MaxRatingOld, raw.RatingMax),
		MinDate:   minDate,
		MaxDate:   maxDate,
	}
	return nil
}

// ToModel converts the import payload into a question owned by the survey.
func (q QuestionImport) ToModel(surveyID string, createdAt time.Time) models.Question {
	return models.Question{
		ID:        q.ID,
		SurveyID:  surveyID,
		Type:      q.Type,
		Prompt:    q.Question,
		Required:  q.Required,
		Options:   q.Options,
		MaxRating: q.MaxRating,
		MinDate:   q.MinDate,
		MaxDate:   q.MaxDate,
		CreatedAt: createdAt,
	}
}

// Legacy documents stored numeric identifiers.
func decodeQuestionID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text), nil
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return "", fmt.Errorf("invalid question id %s", string(raw))
	}
	if _, err := strconv.ParseFloat(number.String(), 64); err != nil {
		return "", fmt.Errorf("invalid question id %s", string(raw))
	}
	return number.String(), nil
}

func parseImportDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("unrecognised date %q", value)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 0
}
