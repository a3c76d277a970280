package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-survey-api/internal/models"
)

func TestParseFullName(t *testing.T) {
	cases := []struct {
		input string
		first string
		last  string
		ok    bool
	}{
		{input: "Ada Lovelace", first: "Ada", last: "Lovelace", ok: true},
		{input: "Madonna", first: "Madonna", last: "", ok: true},
		{input: "  Jean   Claude\tVan  Damme ", first: "Jean", last: "Claude Van Damme", ok: true},
		{input: "José Álvarez", first: "José", last: "Álvarez", ok: true},
		{input: "   ", ok: false},
		{input: "", ok: false},
	}

	for _, tc := range cases {
		first, last, ok := ParseFullName(tc.input)
		require.Equal(t, tc.ok, ok, tc.input)
		require.Equal(t, tc.first, first, tc.input)
		require.Equal(t, tc.last, last, tc.input)
	}
}

func TestIsNameQuestion(t *testing.T) {
	require.True(t, isNameQuestion(models.Question{Type: models.QuestionTypeText, Prompt: "What is your NAME?"}))
	require.True(t, isNameQuestion(models.Question{Type: models.QuestionTypeText, Prompt: "Votre nom"}))
	require.True(t, isNameQuestion(models.Question{Type: models.QuestionTypeText, Prompt: "Nombre del alumno"}))
	require.True(t, isNameQuestion(models.Question{Type: models.QuestionTypeText, Prompt: "Nama lengkap"}))
	require.True(t, isNameQuestion(models.Question{Type: models.QuestionTypeText, Prompt: "Ваше Имя"}))
	require.False(t, isNameQuestion(models.Question{Type: models.QuestionTypeComment, Prompt: "Your name"}))
	require.False(t, isNameQuestion(models.Question{Type: models.QuestionTypeText, Prompt: "Favourite colour"}))
}

func TestSelectNameQuestionPrefersEarliest(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	questions := []models.Question{
		{ID: "q3", Type: models.QuestionTypeText, Prompt: "Parent name", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "q1", Type: models.QuestionTypeRating, Prompt: "Rate the name", CreatedAt: base},
		{ID: "q2", Type: models.QuestionTypeText, Prompt: "Student name", CreatedAt: base.Add(time.Minute)},
	}

	selected, ok := selectNameQuestion(questions)
	require.True(t, ok)
	require.Equal(t, "q2", selected.ID)
}

func TestSelectNameQuestionTieKeepsInputOrder(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	questions := []models.Question{
		{ID: "b", Type: models.QuestionTypeText, Prompt: "First name", CreatedAt: created},
		{ID: "a", Type: models.QuestionTypeText, Prompt: "Full name", CreatedAt: created},
	}

	selected, ok := selectNameQuestion(questions)
	require.True(t, ok)
	require.Equal(t, "b", selected.ID)

	_, ok = selectNameQuestion([]models.Question{{ID: "x", Type: models.QuestionTypeText, Prompt: "Age"}})
	require.False(t, ok)
}
