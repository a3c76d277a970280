package repository

import (
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"
)

// Repositories bundles the storage ports used by the services.
type Repositories struct {
	Surveys   SurveyRepository
	Questions QuestionRepository
	Responses ResponseRepository
	Students  StudentRepository
}

// NewGormRepositories builds repositories backed by a relational database.
func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Surveys:   NewSurveyRepository(db),
		Questions: NewQuestionRepository(db),
		Responses: NewResponseRepository(db),
		Students:  NewStudentRepository(db),
	}
}

// NewMongoRepositories builds repositories backed by MongoDB collections.
func NewMongoRepositories(db *mongo.Database) Repositories {
	return Repositories{
		Surveys:   NewMongoSurveyRepository(db),
		Questions: NewMongoQuestionRepository(db),
		Responses: NewMongoResponseRepository(db),
		Students:  NewMongoStudentRepository(db),
	}
}
