package models

type RegisterRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	FullName string   `json:"full_name" validate:"required"`
	Role     UserRole `json:"role" validate:"omitempty,oneof=applicant recruiter"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserUpdateRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,min=1"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// ResumeUpdateRequest carries a partial update; nil fields are left unchanged.
type ResumeUpdateRequest struct {
	Title           *string         `json:"title" validate:"omitempty,min=1"`
	ExtractedText   *string         `json:"extracted_text"`
	ParsedData      *map[string]any `json:"parsed_data"`
	Skills          *[]string       `json:"skills"`
	ExperienceYears *int            `json:"experience_years" validate:"omitempty,min=0"`
	EducationLevel  *string         `json:"education_level"`
}

type JobCreateRequest struct {
	Title                string   `json:"title" validate:"required"`
	Company              string   `json:"company" validate:"required"`
	Description          string   `json:"description" validate:"required"`
	Requirements         string   `json:"requirements"`
	Location             string   `json:"location"`
	JobType              string   `json:"job_type"`
	SalaryRange          string   `json:"salary_range"`
	RequiredSkills       []string `json:"required_skills"`
	PreferredSkills      []string `json:"preferred_skills"`
	ExperienceLevel      string   `json:"experience_level"`
	EducationRequirement string   `json:"education_requirement"`
}

// JobUpdateRequest carries a partial update; nil fields are left unchanged.
type JobUpdateRequest struct {
	Title                *string   `json:"title" validate:"omitempty,min=1"`
	Company              *string   `json:"company" validate:"omitempty,min=1"`
	Description          *string   `json:"description" validate:"omitempty,min=1"`
	Requirements         *string   `json:"requirements"`
	Location             *string   `json:"location"`
	JobType              *string   `json:"job_type"`
	SalaryRange          *string   `json:"salary_range"`
	RequiredSkills       *[]string `json:"required_skills"`
	PreferredSkills      *[]string `json:"preferred_skills"`
	ExperienceLevel      *string   `json:"experience_level"`
	EducationRequirement *string   `json:"education_requirement"`
	IsActive             *bool     `json:"is_active"`
}

type JobFilter struct {
	Search   string
	Location string
	JobType  string
	Skip     int
	Limit    int
}

type MatchRequest struct {
	ResumeID string `json:"resume_id" validate:"required,uuid"`
	JobID    string `json:"job_id" validate:"required,uuid"`
}

type TrackEventRequest struct {
	EventType        string         `json:"event_type" validate:"required,max=64"`
	EventData        map[string]any `json:"event_data"`
	ImprovementScore *float64       `json:"improvement_score" validate:"omitempty,min=0,max=100"`
	SessionID        string         `json:"session_id" validate:"max=128"`
}
