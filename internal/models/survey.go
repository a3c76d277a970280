package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// SurveyStatusDraft marks a survey that is still being authored.
	SurveyStatusDraft = "draft"
	// SurveyStatusPublished marks a survey open to respondents.
	SurveyStatusPublished = "published"
	// SurveyStatusClosed marks a survey that no longer accepts responses.
	SurveyStatusClosed = "closed"
)

// Survey is a named set of questions owned by a creator and tied to a group.
type Survey struct {
	ID          string     `gorm:"primaryKey;size:64" json:"id" bson:"_id"`
	UserID      string     `gorm:"size:128;not null;index" json:"user_id" bson:"user_id"`
	Title       string     `gorm:"size:255;not null" json:"title" bson:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty" bson:"description,omitempty"`
	GroupID     string     `gorm:"size:128;not null;index" json:"group_id" bson:"group_id"`
	StartDate   *time.Time `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty" bson:"end_date,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty" bson:"is_active,omitempty"`
	Status      string     `gorm:"size:16;not null;default:published" json:"status" bson:"status"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// BeforeCreate assigns an identifier when the caller did not provide one.
func (s *Survey) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// AcceptsResponses reports whether respondents may still submit answers at the reference time.
// A survey without a status is treated as published.
func (s Survey) AcceptsResponses(reference time.Time) bool {
	if s.Status == SurveyStatusClosed {
		return false
	}
	if s.IsActive != nil && !*s.IsActive {
		return false
	}
	if s.StartDate != nil && reference.Before(*s.StartDate) {
		return false
	}
	if s.EndDate != nil && reference.After(*s.EndDate) {
		return false
	}
	return true
}
