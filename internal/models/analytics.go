package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventResumeUpload        = "resume_upload"
	EventJobMatch            = "job_match"
	EventCoverLetterGenerate = "cover_letter_generate"
)

// AnalyticsEvent is an append-only record of a user action.
type AnalyticsEvent struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	EventType        string            `gorm:"type:text;not null;index" json:"event_type"`
	EventData        datatypes.JSONMap `json:"event_data"`
	ImprovementScore *float64          `json:"improvement_score,omitempty"`
	SessionID        string            `gorm:"type:text" json:"session_id,omitempty"`
	CreatedAt        time.Time         `gorm:"index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics"
}

func (a *AnalyticsEvent) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
