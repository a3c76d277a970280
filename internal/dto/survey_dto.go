package dto

import (
	"time"

	"github.com/noah-isme/gema-survey-api/internal/models"
)

// QuestionResponse describes a question for the form renderer.
type QuestionResponse struct {
	ID        string              `json:"id"`
	Type      models.QuestionType `json:"type"`
	Question  string              `json:"question"`
	Required  bool                `json:"required"`
	Options   []string            `json:"options,omitempty"`
	MaxRating int                 `json:"max_rating,omitempty"`
	MinDate   *time.Time          `json:"min_date,omitempty"`
	MaxDate   *time.Time          `json:"max_date,omitempty"`
}

// SurveyDetailResponse is returned when a respondent opens a survey link.
type SurveyDetailResponse struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	Description      string             `json:"description,omitempty"`
	GroupID          string             `json:"group_id"`
	Status           string             `json:"status"`
	StartDate        *time.Time         `json:"start_date,omitempty"`
	EndDate          *time.Time         `json:"end_date,omitempty"`
	AcceptsResponses bool               `json:"accepts_responses"`
	AlreadyResponded bool               `json:"already_responded"`
	Questions        []QuestionResponse `json:"questions"`
}

// NewQuestionResponse converts a question model into its DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	response := QuestionResponse{
		ID:       model.ID,
		Type:     model.Type,
		Question: model.Prompt,
		Required: model.Required,
		MinDate:  model.MinDate,
		MaxDate:  model.MaxDate,
	}
	if len(model.Options) > 0 {
		response.Options = append([]string(nil), model.Options...)
	}
	if model.Type == models.QuestionTypeRating {
		response.MaxRating = model.RatingMax()
	}
	return response
}

// NewSurveyDetailResponse assembles the survey view for a respondent.
func NewSurveyDetailResponse(survey models.Survey, questions []models.Question, acceptsResponses, alreadyResponded bool) SurveyDetailResponse {
	items := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		items = append(items, NewQuestionResponse(question))
	}

	status := survey.Status
	if status == "" {
		status = models.SurveyStatusPublished
	}

	return SurveyDetailResponse{
		ID:               survey.ID,
		Title:            survey.Title,
		Description:      survey.Description,
		GroupID:          survey.GroupID,
		Status:           status,
		StartDate:        survey.StartDate,
		EndDate:          survey.EndDate,
		AcceptsResponses: acceptsResponses,
		AlreadyResponded: alreadyResponded,
		Questions:        items,
	}
}
