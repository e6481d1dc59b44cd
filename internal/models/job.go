package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Job struct {
	ID                   uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	RecruiterID          uuid.UUID                   `gorm:"type:uuid;not null;index" json:"recruiter_id"`
	Title                string                      `gorm:"type:text;not null" json:"title"`
	Company              string                      `gorm:"type:text;not null" json:"company"`
	Description          string                      `gorm:"type:text;not null" json:"description"`
	Requirements         string                      `gorm:"type:text" json:"requirements,omitempty"`
	Location             string                      `gorm:"type:text" json:"location,omitempty"`
	JobType              string                      `gorm:"type:text;index" json:"job_type,omitempty"`
	SalaryRange          string                      `gorm:"type:text" json:"salary_range,omitempty"`
	RequiredSkills       datatypes.JSONSlice[string] `json:"required_skills"`
	PreferredSkills      datatypes.JSONSlice[string] `json:"preferred_skills"`
	ExperienceLevel      string                      `gorm:"type:text" json:"experience_level,omitempty"`
	EducationRequirement string                      `gorm:"type:text" json:"education_requirement,omitempty"`
	IsActive             bool                        `gorm:"not null;index" json:"is_active"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`

	Recruiter *User `gorm:"foreignKey:RecruiterID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Job) TableName() string {
	return "jobs"
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
