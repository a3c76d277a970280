package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-survey-api/internal/dto"
	"github.com/noah-isme/gema-survey-api/internal/models"
)

const legacyImport = `{
  "survey": {"id": "S1", "user_id": "U1", "title": "<b>Week 1</b> check-in", "group_id": "G1"},
  "questions": [
    {"id": 1, "questionType": "text", "questionText": "What is your name?"},
    {"id": "mood", "type": "rating", "text": "Mood <script>alert(1)</script>", "ratingMax": 10},
    {"id": "topics", "type": "multipleChoice", "question": "Topics", "choices": ["Q&A", "Labs"]}
  ]
}`

func decodeImport(t *testing.T, raw string) dto.SurveyImportRequest {
	t.Helper()
	var payload dto.SurveyImportRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func TestSurveyImportGuards(t *testing.T) {
	store := setupSurveyStore(t)
	payload := decodeImport(t, legacyImport)

	disabled := NewSurveyImportService(store.surveys, store.questions, validator.New(), nil, false, "secret", testLogger())
	_, err := disabled.Import(context.Background(), "secret", payload)
	require.ErrorIs(t, err, ErrImportDisabled)

	svc := NewSurveyImportService(store.surveys, store.questions, validator.New(), nil, true, "secret", testLogger())
	_, err = svc.Import(context.Background(), "wrong", payload)
	require.ErrorIs(t, err, ErrImportUnauthorized)

	noToken := NewSurveyImportService(store.surveys, store.questions, validator.New(), nil, true, "", testLogger())
	_, err = noToken.Import(context.Background(), "", payload)
	require.ErrorIs(t, err, ErrImportUnauthorized)
}

func TestSurveyImportNormalisesLegacyQuestions(t *testing.T) {
	store := setupSurveyStore(t)
	svc := NewSurveyImportService(store.surveys, store.questions, validator.New(), nil, true, "secret", testLogger())
	ctx := context.Background()

	result, err := svc.Import(ctx, " secret ", decodeImport(t, legacyImport))
	require.NoError(t, err)
	require.Equal(t, "S1", result.SurveyID)
	require.EqualValues(t, 3, result.Questions)

	survey, err := store.surveys.GetByID(ctx, "S1")
	require.NoError(t, err)
	require.Equal(t, "Week 1 check-in", survey.Title)
	require.Equal(t, models.SurveyStatusPublished, survey.Status)

	questions, err := store.questions.ListBySurvey(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, questions, 3)
	require.Equal(t, "1", questions[0].ID)
	require.Equal(t, models.QuestionTypeText, questions[0].Type)
	require.Equal(t, "What is your name?", questions[0].Prompt)
	require.Equal(t, "mood", questions[1].ID)
	require.Equal(t, "Mood", questions[1].Prompt)
	require.Equal(t, 10, questions[1].RatingMax())
	require.Equal(t, "topics", questions[2].ID)
	require.Equal(t, []string{"Q&A", "Labs"}, []string(questions[2].Options))
	require.True(t, questions[0].CreatedAt.Before(questions[1].CreatedAt))

	selected, ok := selectNameQuestion(questions)
	require.True(t, ok)
	require.Equal(t, "1", selected.ID)
}

func TestSurveyImportRejectsInvalidPayloads(t *testing.T) {
	store := setupSurveyStore(t)
	svc := NewSurveyImportService(store.surveys, store.questions, validator.New(), nil, true, "secret", testLogger())

	duplicate := decodeImport(t, `{
	  "survey": {"user_id": "U1", "title": "Dup", "group_id": "G1"},
	  "questions": [{"id": "a", "question": "One"}, {"id": "a", "question": "Two"}]
	}`)
	_, err := svc.Import(context.Background(), "secret", duplicate)
	require.ErrorIs(t, err, ErrImportInvalid)

	unknownType := decodeImport(t, `{
	  "survey": {"user_id": "U1", "title": "Bad", "group_id": "G1"},
	  "questions": [{"id": "a", "type": "slider", "question": "One"}]
	}`)
	_, err = svc.Import(context.Background(), "secret", unknownType)
	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
}

func TestSurveyImportReplacesQuestionSet(t *testing.T) {
	store := setupSurveyStore(t)
	svc := NewSurveyImportService(store.surveys, store.questions, validator.New(), nil, true, "secret", testLogger())
	ctx := context.Background()

	_, err := svc.Import(ctx, "secret", decodeImport(t, legacyImport))
	require.NoError(t, err)

	_, err = svc.Import(ctx, "secret", decodeImport(t, `{
	  "survey": {"id": "S1", "user_id": "U1", "title": "Week 1 check-in", "group_id": "G1"},
	  "questions": [
	    {"id": "mood", "type": "rating", "question": "Mood", "ratingMax": 5},
	    {"id": "who", "type": "text", "question": "Student name"}
	  ]
	}`))
	require.NoError(t, err)

	questions, err := store.questions.ListBySurvey(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	require.Equal(t, "mood", questions[0].ID)
	require.Equal(t, 5, questions[0].RatingMax())
	require.Equal(t, "who", questions[1].ID)

	selected, ok := selectNameQuestion(questions)
	require.True(t, ok)
	require.Equal(t, "who", selected.ID, "questions dropped from the payload no longer compete for the name question")
}
