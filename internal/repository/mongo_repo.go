package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/noah-isme/gema-survey-api/internal/models"
)

// Collection names used by the MongoDB backend.
const (
	SurveysCollection   = "surveys"
	QuestionsCollection = "survey_questions"
	ResponsesCollection = "survey_responses"
	StudentsCollection  = "students"
)

// EnsureMongoIndexes creates the lookup and uniqueness indexes the repositories rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, specs := range mongoIndexModels() {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
	}

	return nil
}

func mongoIndexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		SurveysCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		QuestionsCollection: {
			{
				Keys:    bson.D{{Key: "survey_id", Value: 1}, {Key: "question_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		ResponsesCollection: {
			{
				Keys:    bson.D{{Key: "survey_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		StudentsCollection: {
			{
				Keys:    bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}, {Key: "group_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}
}

// Sort orders shared by the mongo repositories.
var (
	surveysNewestFirst   = bson.D{{Key: "created_at", Value: -1}}
	questionsInOrder     = bson.D{{Key: "created_at", Value: 1}, {Key: "question_id", Value: 1}}
	responsesNewestFirst = bson.D{{Key: "submitted_at", Value: -1}}
)

func questionKeyFilter(surveyID, questionID string) bson.M {
	return bson.M{"survey_id": surveyID, "question_id": questionID}
}

func staleQuestionsFilter(surveyID string, keepIDs []string) bson.M {
	filter := bson.M{"survey_id": surveyID}
	if len(keepIDs) > 0 {
		filter["question_id"] = bson.M{"$nin": keepIDs}
	}
	return filter
}

func responseOwnerFilter(surveyID, userID string) bson.M {
	return bson.M{"survey_id": surveyID, "user_id": userID}
}

func studentIdentityFilter(identity StudentIdentity) bson.M {
	return bson.M{
		"first_name": identity.FirstName,
		"last_name":  identity.LastName,
		"group_id":   identity.GroupID,
	}
}

type mongoSurveyRepository struct {
	col *mongo.Collection
}

// NewMongoSurveyRepository constructs a MongoDB-backed survey repository.
func NewMongoSurveyRepository(db *mongo.Database) SurveyRepository {
	return &mongoSurveyRepository{col: db.Collection(SurveysCollection)}
}

func (r *mongoSurveyRepository) GetByID(ctx context.Context, id string) (models.Survey, error) {
	var survey models.Survey
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&survey); err != nil {
		return models.Survey{}, translateMongoError(err)
	}
	return survey, nil
}

func (r *mongoSurveyRepository) ListByOwner(ctx context.Context, userID string) ([]models.Survey, error) {
	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(surveysNewestFirst))
	if err != nil {
		return nil, translateMongoError(err)
	}

	surveys := make([]models.Survey, 0)
	if err := cursor.All(ctx, &surveys); err != nil {
		return nil, translateMongoError(err)
	}
	return surveys, nil
}

func (r *mongoSurveyRepository) Upsert(ctx context.Context, survey *models.Survey) error {
	if survey.ID == "" {
		survey.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if survey.CreatedAt.IsZero() {
		survey.CreatedAt = now
	}
	survey.UpdatedAt = now

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": survey.ID}, survey, options.Replace().SetUpsert(true))
	return translateMongoError(err)
}

type mongoQuestionRepository struct {
	col *mongo.Collection
}

// NewMongoQuestionRepository constructs a MongoDB-backed question repository.
func NewMongoQuestionRepository(db *mongo.Database) QuestionRepository {
	return &mongoQuestionRepository{col: db.Collection(QuestionsCollection)}
}

func (r *mongoQuestionRepository) ListBySurvey(ctx context.Context, surveyID string) ([]models.Question, error) {
	cursor, err := r.col.Find(ctx, bson.M{"survey_id": surveyID}, options.Find().SetSort(questionsInOrder))
	if err != nil {
		return nil, translateMongoError(err)
	}

	questions := make([]models.Question, 0)
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, translateMongoError(err)
	}
	return questions, nil
}

func (r *mongoQuestionRepository) UpsertBatch(ctx context.Context, questions []models.Question) (int64, error) {
	if len(questions) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(questions))
	for _, question := range questions {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(questionKeyFilter(question.SurveyID, question.ID)).
			SetReplacement(question).
			SetUpsert(true))
	}

	result, err := r.col.BulkWrite(ctx, writes)
	if err != nil {
		return 0, translateMongoError(err)
	}
	return result.UpsertedCount + result.MatchedCount, nil
}

func (r *mongoQuestionRepository) DeleteExcept(ctx context.Context, surveyID string, keepIDs []string) (int64, error) {
	result, err := r.col.DeleteMany(ctx, staleQuestionsFilter(surveyID, keepIDs))
	if err != nil {
		return 0, translateMongoError(err)
	}
	return result.DeletedCount, nil
}

type mongoResponseRepository struct {
	col *mongo.Collection
}

// NewMongoResponseRepository constructs a MongoDB-backed response repository.
func NewMongoResponseRepository(db *mongo.Database) ResponseRepository {
	return &mongoResponseRepository{col: db.Collection(ResponsesCollection)}
}

func (r *mongoResponseRepository) ExistsForUser(ctx context.Context, surveyID, userID string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, responseOwnerFilter(surveyID, userID), options.Count().SetLimit(1))
	if err != nil {
		return false, translateMongoError(err)
	}
	return count > 0, nil
}

func (r *mongoResponseRepository) ListBySurvey(ctx context.Context, surveyID string) ([]models.Response, error) {
	cursor, err := r.col.Find(ctx, bson.M{"survey_id": surveyID}, options.Find().SetSort(responsesNewestFirst))
	if err != nil {
		return nil, translateMongoError(err)
	}

	responses := make([]models.Response, 0)
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, translateMongoError(err)
	}
	return responses, nil
}

func (r *mongoResponseRepository) CountBySurvey(ctx context.Context, surveyID string) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"survey_id": surveyID})
	if err != nil {
		return 0, translateMongoError(err)
	}
	return count, nil
}

func (r *mongoResponseRepository) Create(ctx context.Context, response *models.Response) error {
	if response.ID == "" {
		response.ID = uuid.NewString()
	}
	stampTimes(&response.CreatedAt, &response.UpdatedAt)

	_, err := r.col.InsertOne(ctx, response)
	return translateMongoError(err)
}

type mongoStudentRepository struct {
	col *mongo.Collection
}

// NewMongoStudentRepository constructs a MongoDB-backed student repository.
func NewMongoStudentRepository(db *mongo.Database) StudentRepository {
	return &mongoStudentRepository{col: db.Collection(StudentsCollection)}
}

func (r *mongoStudentRepository) FindByIdentity(ctx context.Context, identity StudentIdentity) (models.Student, error) {
	var student models.Student
	if err := r.col.FindOne(ctx, studentIdentityFilter(identity)).Decode(&student); err != nil {
		return models.Student{}, translateMongoError(err)
	}
	return student, nil
}

func (r *mongoStudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	stampTimes(&student.CreatedAt, &student.UpdatedAt)

	_, err := r.col.InsertOne(ctx, student)
	return translateMongoError(err)
}

func stampTimes(createdAt, updatedAt *time.Time) {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}
