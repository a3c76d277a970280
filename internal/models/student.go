package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student is a learner inferred from a name-like survey answer. The combination of
// first name, last name and group identifies a student.
type Student struct {
	ID          string     `gorm:"primaryKey;size:64" json:"id" bson:"_id"`
	UserID      string     `gorm:"size:128;not null;index" json:"user_id" bson:"user_id"`
	FirstName   string     `gorm:"size:255;not null;uniqueIndex:idx_students_identity" json:"first_name" bson:"first_name"`
	LastName    string     `gorm:"size:255;not null;uniqueIndex:idx_students_identity" json:"last_name" bson:"last_name"`
	GroupID     string     `gorm:"size:128;not null;uniqueIndex:idx_students_identity" json:"group_id" bson:"group_id"`
	BirthDate   *time.Time `json:"birth_date,omitempty" bson:"birth_date,omitempty"`
	ParentName  string     `gorm:"size:255" json:"parent_name,omitempty" bson:"parent_name,omitempty"`
	ParentEmail string     `gorm:"size:255" json:"parent_email,omitempty" bson:"parent_email,omitempty"`
	ParentPhone string     `gorm:"size:64" json:"parent_phone,omitempty" bson:"parent_phone,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// BeforeCreate assigns an identifier when the caller did not provide one.
func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// FullName joins first and last name.
func (s Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
