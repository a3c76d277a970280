package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-survey-api/internal/models"
	"github.com/noah-isme/gema-survey-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type surveyStore struct {
	db        *gorm.DB
	surveys   repository.SurveyRepository
	questions repository.QuestionRepository
	responses repository.ResponseRepository
	students  repository.StudentRepository
}

func setupSurveyStore(t *testing.T) surveyStore {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Survey{}, &models.Question{}, &models.Response{}, &models.Student{}))

	return surveyStore{
		db:        db,
		surveys:   repository.NewSurveyRepository(db),
		questions: repository.NewQuestionRepository(db),
		responses: repository.NewResponseRepository(db),
		students:  repository.NewStudentRepository(db),
	}
}

func (s surveyStore) seedSurvey(t *testing.T, survey models.Survey, questions ...models.Question) {
	t.Helper()
	ctx := context.Background()
	if survey.Status == "" {
		survey.Status = models.SurveyStatusPublished
	}
	require.NoError(t, s.surveys.Upsert(ctx, &survey))

	base := time.Now().UTC().Add(-time.Hour)
	for i := range questions {
		questions[i].SurveyID = survey.ID
		if questions[i].CreatedAt.IsZero() {
			questions[i].CreatedAt = base.Add(time.Duration(i) * time.Second)
		}
	}
	if len(questions) > 0 {
		_, err := s.questions.UpsertBatch(ctx, questions)
		require.NoError(t, err)
	}
}

type recordingPublisher struct {
	events   []string
	payloads []interface{}
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, event string, payload interface{}) error {
	p.events = append(p.events, event)
	p.payloads = append(p.payloads, payload)
	return p.err
}
