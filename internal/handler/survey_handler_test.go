package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-survey-api/internal/dto"
	"github.com/noah-isme/gema-survey-api/internal/handler"
	"github.com/noah-isme/gema-survey-api/internal/service"
)

type mockSurveyService struct {
	view       dto.SurveyDetailResponse
	owner      bool
	err        error
	lastUser   string
	lastSurvey string
}

func (m *mockSurveyService) Get(_ context.Context, surveyID, userID string) (dto.SurveyDetailResponse, error) {
	m.lastSurvey, m.lastUser = surveyID, userID
	return m.view, m.err
}

func (m *mockSurveyService) IsCreator(_ context.Context, surveyID, userID string) (bool, error) {
	m.lastSurvey, m.lastUser = surveyID, userID
	return m.owner, m.err
}

type mockResponseService struct {
	result  dto.ResponseSubmitResult
	err     error
	payload dto.ResponseSubmitRequest
	userID  string
}

func (m *mockResponseService) Submit(_ context.Context, surveyID, userID string, payload dto.ResponseSubmitRequest) (dto.ResponseSubmitResult, error) {
	m.payload, m.userID = payload, userID
	if m.err != nil {
		return dto.ResponseSubmitResult{}, m.err
	}
	result := m.result
	result.SurveyID = surveyID
	return result, nil
}

type mockStatsService struct {
	stats dto.SurveyStatsResponse
	calls int
}

func (m *mockStatsService) Stats(_ context.Context, surveyID string) (dto.SurveyStatsResponse, error) {
	m.calls++
	stats := m.stats
	stats.SurveyID = surveyID
	return stats, nil
}

func newSurveyApp(userID string, surveys *mockSurveyService, responses *mockResponseService, stats *mockStatsService) *fiber.App {
	app := fiber.New()
	api := app.Group("/api/v1", signedIn(userID))
	handler.NewSurveyHandler(surveys, responses, stats, handler.SurveyHandlerOptions{
		LoginURL:         "/login",
		SubmitRateLimit:  100,
		SubmitRateWindow: time.Minute,
	}, testLogger()).Register(api)
	return app
}

const submitEnvelopeSchema = `{
  "type": "object",
  "required": ["success", "message", "data"],
  "properties": {
    "success": {"const": true},
    "message": {"type": "string"},
    "data": {
      "type": "object",
      "required": ["id", "survey_id", "student_id", "student_resolved", "submitted_at"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "survey_id": {"type": "string"},
        "student_id": {"type": "string"},
        "student_resolved": {"type": "boolean"},
        "submitted_at": {"type": "string", "format": "date-time"}
      }
    }
  }
}`

func TestSurveyHandlerSubmitMatchesContract(t *testing.T) {
	responses := &mockResponseService{result: dto.ResponseSubmitResult{
		ID: "r1", StudentID: "student-1", StudentResolved: true, SubmittedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}}
	app := newSurveyApp("U2", &mockSurveyService{}, responses, &mockStatsService{})

	resp := doJSON(t, app, http.MethodPost, "/api/v1/surveys/S1/responses", map[string]interface{}{
		"answers": map[string]interface{}{"q1": "Grace Hopper", "q2": 4},
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "U2", responses.userID)
	require.Equal(t, "Grace Hopper", responses.payload.Answers["q1"])

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	require.NoError(t, compiler.AddResource("mem:///submit.json", strings.NewReader(submitEnvelopeSchema)))
	schema, err := compiler.Compile("mem:///submit.json")
	require.NoError(t, err)

	var document interface{}
	require.NoError(t, json.Unmarshal(readBody(t, resp), &document))
	require.NoError(t, schema.Validate(document))
}

func TestSurveyHandlerSubmitErrors(t *testing.T) {
	cases := []struct {
		err       error
		status    int
		retryable interface{}
	}{
		{err: service.ErrAlreadyResponded, status: fiber.StatusConflict, retryable: false},
		{err: service.ErrSurveyNotFound, status: fiber.StatusNotFound},
		{err: service.ErrSurveyUnavailable, status: fiber.StatusConflict, retryable: false},
		{err: fmt.Errorf("store response: %w: %w", service.ErrTransport, fmt.Errorf("timeout")), status: fiber.StatusServiceUnavailable, retryable: true},
		{err: fmt.Errorf("boom"), status: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		app := newSurveyApp("U2", &mockSurveyService{}, &mockResponseService{err: tc.err}, &mockStatsService{})
		resp := doJSON(t, app, http.MethodPost, "/api/v1/surveys/S1/responses", map[string]interface{}{"answers": map[string]interface{}{}}, nil)
		require.Equal(t, tc.status, resp.StatusCode, tc.err.Error())

		var body struct {
			Success bool                   `json:"success"`
			Details map[string]interface{} `json:"details"`
		}
		decodeResponse(t, resp, &body)
		require.False(t, body.Success)
		if tc.retryable != nil {
			require.Equal(t, tc.retryable, body.Details["retryable"])
		}
	}
}

func TestSurveyHandlerSubmitReportsViolations(t *testing.T) {
	err := &service.AnswerValidationError{Violations: []dto.AnswerViolation{{QuestionID: "q2", Reason: "expected a whole number between 1 and 5"}}}
	app := newSurveyApp("U2", &mockSurveyService{}, &mockResponseService{err: err}, &mockStatsService{})

	resp := doJSON(t, app, http.MethodPost, "/api/v1/surveys/S1/responses", map[string]interface{}{"answers": map[string]interface{}{"q2": 9}}, nil)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Details struct {
			Violations []dto.AnswerViolation `json:"violations"`
		} `json:"details"`
	}
	decodeResponse(t, resp, &body)
	require.Len(t, body.Details.Violations, 1)
	require.Equal(t, "q2", body.Details.Violations[0].QuestionID)
}

func TestSurveyHandlerRequiresSignIn(t *testing.T) {
	app := newSurveyApp("", &mockSurveyService{}, &mockResponseService{}, &mockStatsService{})

	resp := doJSON(t, app, http.MethodGet, "/api/v1/surveys/S1", nil, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Details struct {
			LoginURL string `json:"login_url"`
		} `json:"details"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "/login?next=%2Fapi%2Fv1%2Fsurveys%2FS1", body.Details.LoginURL)
}

func TestSurveyHandlerGet(t *testing.T) {
	surveys := &mockSurveyService{view: dto.SurveyDetailResponse{ID: "S1", Title: "Intro", AlreadyResponded: true}}
	app := newSurveyApp("U2", surveys, &mockResponseService{}, &mockStatsService{})

	resp := doJSON(t, app, http.MethodGet, "/api/v1/surveys/S1", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "U2", surveys.lastUser)

	var body struct {
		Data dto.SurveyDetailResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "Intro", body.Data.Title)
	require.True(t, body.Data.AlreadyResponded)
}

func TestSurveyHandlerStatsRequiresCreator(t *testing.T) {
	stats := &mockStatsService{stats: dto.SurveyStatsResponse{TotalResponses: 2, QuestionStats: map[string]dto.QuestionStat{
		"q1": {Responses: 2, Values: []interface{}{"yes", "no"}},
	}}}

	app := newSurveyApp("U2", &mockSurveyService{owner: false}, &mockResponseService{}, stats)
	resp := doJSON(t, app, http.MethodGet, "/api/v1/surveys/S1/stats", nil, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Zero(t, stats.calls)

	app = newSurveyApp("U1", &mockSurveyService{owner: true}, &mockResponseService{}, stats)
	resp = doJSON(t, app, http.MethodGet, "/api/v1/surveys/S1/stats", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.SurveyStatsResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "S1", body.Data.SurveyID)
	require.Equal(t, 2, body.Data.QuestionStats["q1"].Responses)
}
