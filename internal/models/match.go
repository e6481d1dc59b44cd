package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SkillImportance string

const (
	ImportanceRequired  SkillImportance = "required"
	ImportancePreferred SkillImportance = "preferred"
)

// ResumeSuggestion is one AI-generated improvement hint stored on a Match.
type ResumeSuggestion struct {
	Section    string `json:"section"`
	Suggestion string `json:"suggestion"`
	Priority   string `json:"priority,omitempty"`
	Impact     string `json:"impact,omitempty"`
}

// Match is a scored pairing of one resume and one job for one user. There is
// at most one Match per (user, resume, job); the service layer enforces it.
type Match struct {
	ID                   uuid.UUID                             `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID                             `gorm:"type:uuid;not null;index:idx_matches_triple,priority:1" json:"user_id"`
	ResumeID             uuid.UUID                             `gorm:"type:uuid;not null;index:idx_matches_triple,priority:2" json:"resume_id"`
	JobID                uuid.UUID                             `gorm:"type:uuid;not null;index:idx_matches_triple,priority:3;index" json:"job_id"`
	MatchScore           float64                               `gorm:"not null;index" json:"match_score"`
	SkillMatchScore      float64                               `json:"skill_match_score"`
	ExperienceMatchScore float64                               `json:"experience_match_score"`
	EducationMatchScore  float64                               `json:"education_match_score"`
	OverallFeedback      string                                `gorm:"type:text" json:"overall_feedback"`
	Strengths            datatypes.JSONSlice[string]           `json:"strengths"`
	Weaknesses           datatypes.JSONSlice[string]           `json:"weaknesses"`
	ResumeSuggestions    datatypes.JSONSlice[ResumeSuggestion] `json:"resume_suggestions"`
	CoverLetter          *string                               `gorm:"type:text" json:"cover_letter"`
	CreatedAt            time.Time                             `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time                             `json:"updated_at"`

	SkillGaps []SkillGap `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"skill_gaps"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Resume *Resume `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"-"`
	Job    *Job    `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Match) TableName() string {
	return "matches"
}

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type SkillGap struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	MatchID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"match_id"`
	MissingSkill string          `gorm:"type:text;not null" json:"missing_skill"`
	Importance   SkillImportance `gorm:"type:text" json:"importance"`
	Suggestion   string          `gorm:"type:text" json:"suggestion"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (SkillGap) TableName() string {
	return "skill_gaps"
}

func (s *SkillGap) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
