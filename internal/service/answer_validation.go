package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/noah-isme/gema-survey-api/internal/dto"
	"github.com/noah-isme/gema-survey-api/internal/models"
)

const answerSchemaURL = "mem:///answer.schema.json"

// AnswerValidator checks submitted values against the shape their question expects.
type AnswerValidator interface {
	Validate(questions []models.Question, answers map[string]interface{}) []dto.AnswerViolation
}

type schemaAnswerValidator struct {
	logger zerolog.Logger
}

// NewAnswerValidator builds a validator that derives a JSON schema from each question type.
// Answers to unknown questions and null answers are accepted as submitted.
func NewAnswerValidator(logger zerolog.Logger) AnswerValidator {
	return &schemaAnswerValidator{
		logger: logger.With().Str("component", "answer_validator").Logger(),
	}
}

func (v *schemaAnswerValidator) Validate(questions []models.Question, answers map[string]interface{}) []dto.AnswerViolation {
	byID := make(map[string]models.Question, len(questions))
	for _, question := range questions {
		byID[question.ID] = question
	}

	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	violations := make([]dto.AnswerViolation, 0)
	for _, id := range ids {
		question, known := byID[id]
		if !known || answers[id] == nil {
			continue
		}
		if reason := v.check(question, answers[id]); reason != "" {
			violations = append(violations, dto.AnswerViolation{QuestionID: id, Reason: reason})
		}
	}
	return violations
}

func (v *schemaAnswerValidator) check(question models.Question, value interface{}) string {
	document, err := normalizeJSONValue(value)
	if err != nil {
		return "answer is not representable as JSON"
	}

	schema, err := compileAnswerSchema(question)
	if err != nil {
		v.logger.Error().Err(err).Str("question_id", question.ID).Msg("failed to compile answer schema")
		return ""
	}

	if err := schema.Validate(document); err != nil {
		v.logger.Debug().Err(err).Str("question_id", question.ID).Msg("answer rejected")
		return describeExpectation(question)
	}

	if question.Type == models.QuestionTypeDate {
		return checkDateBounds(question, document)
	}
	return ""
}

func compileAnswerSchema(question models.Question) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(answerSchema(question))
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(answerSchemaURL, bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return compiler.Compile(answerSchemaURL)
}

func answerSchema(question models.Question) map[string]interface{} {
	choice := map[string]interface{}{"type": "string"}
	if len(question.Options) > 0 {
		choice["enum"] = []string(question.Options)
	}

	switch question.Type {
	case models.QuestionTypeText, models.QuestionTypeComment:
		return map[string]interface{}{"type": "string"}
	case models.QuestionTypeChoice:
		return choice
	case models.QuestionTypeMultipleChoice:
		return map[string]interface{}{
			"anyOf": []interface{}{
				choice,
				map[string]interface{}{"type": "array", "items": choice},
			},
		}
	case models.QuestionTypeYesNo:
		return map[string]interface{}{
			"anyOf": []interface{}{
				map[string]interface{}{"type": "boolean"},
				map[string]interface{}{"type": "string", "pattern": "^(?i)(yes|no)$"},
			},
		}
	case models.QuestionTypeBoolean:
		return map[string]interface{}{"type": "boolean"}
	case models.QuestionTypeRating:
		return map[string]interface{}{"type": "integer", "minimum": 1, "maximum": question.RatingMax()}
	case models.QuestionTypeDate:
		return map[string]interface{}{"type": "string", "format": "date"}
	default:
		return map[string]interface{}{}
	}
}

func describeExpectation(question models.Question) string {
	switch question.Type {
	case models.QuestionTypeText, models.QuestionTypeComment:
		return "expected a text answer"
	case models.QuestionTypeChoice:
		return "expected one of the listed options"
	case models.QuestionTypeMultipleChoice:
		return "expected one or more of the listed options"
	case models.QuestionTypeYesNo:
		return "expected yes or no"
	case models.QuestionTypeBoolean:
		return "expected true or false"
	case models.QuestionTypeRating:
		return fmt.Sprintf("expected a whole number between 1 and %d", question.RatingMax())
	case models.QuestionTypeDate:
		return "expected a date formatted as YYYY-MM-DD"
	default:
		return "answer does not match the question type"
	}
}

func checkDateBounds(question models.Question, document interface{}) string {
	text, ok := document.(string)
	if !ok {
		return ""
	}
	value, err := time.Parse("2006-01-02", text)
	if err != nil {
		return describeExpectation(question)
	}
	if question.MinDate != nil && value.Before(truncateToDate(*question.MinDate)) {
		return fmt.Sprintf("date must not be before %s", question.MinDate.Format("2006-01-02"))
	}
	if question.MaxDate != nil && value.After(truncateToDate(*question.MaxDate)) {
		return fmt.Sprintf("date must not be after %s", question.MaxDate.Format("2006-01-02"))
	}
	return ""
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// normalizeJSONValue converts arbitrary Go values into the generic types produced by encoding/json.
func normalizeJSONValue(value interface{}) (interface{}, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var document interface{}
	if err := decoder.Decode(&document); err != nil {
		return nil, err
	}
	return document, nil
}
