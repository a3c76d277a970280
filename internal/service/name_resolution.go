package service

import (
	"strings"

	"github.com/noah-isme/gema-survey-api/internal/models"
)

// Lower-case substrings that mark a prompt as asking for the respondent's name.
var nameTokens = []string{"name", "nom", "nombre", "nama", "имя"}

// ParseFullName splits a full name on whitespace. The first token is the first name and the
// remaining tokens, joined by single spaces, form the last name. Case and accents are kept.
func ParseFullName(raw string) (firstName, lastName string, ok bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", "", false
	}
	return fields[0], strings.Join(fields[1:], " "), true
}

func isNameQuestion(question models.Question) bool {
	if question.Type != models.QuestionTypeText {
		return false
	}
	prompt := strings.ToLower(question.Prompt)
	for _, token := range nameTokens {
		if strings.Contains(prompt, token) {
			return true
		}
	}
	return false
}

// selectNameQuestion picks the earliest-created name question; ties keep input order.
func selectNameQuestion(questions []models.Question) (models.Question, bool) {
	var (
		selected models.Question
		found    bool
	)
	for _, question := range questions {
		if !isNameQuestion(question) {
			continue
		}
		if !found || question.CreatedAt.Before(selected.CreatedAt) {
			selected = question
			found = true
		}
	}
	return selected, found
}
