package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Resume struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID                   `gorm:"type:uuid;not null;index" json:"user_id"`
	Title            string                      `gorm:"type:text;not null" json:"title"`
	Filename         string                      `gorm:"type:text" json:"filename"`
	FilePath         string                      `gorm:"type:text" json:"file_path"`
	OriginalFilename string                      `gorm:"type:text" json:"original_filename"`
	ExtractedText    string                      `gorm:"type:text" json:"extracted_text"`
	ParsedData       datatypes.JSONMap           `json:"parsed_data"`
	Skills           datatypes.JSONSlice[string] `json:"skills"`
	ExperienceYears  *int                        `json:"experience_years"`
	EducationLevel   string                      `gorm:"type:text" json:"education_level,omitempty"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Resume) TableName() string {
	return "resumes"
}

func (r *Resume) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
