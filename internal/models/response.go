package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type CoverLetterResponse struct {
	CoverLetter string `json:"cover_letter"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type JobRecommendation struct {
	Job   Job     `json:"job"`
	Score float32 `json:"similarity"`
}

// Recruiter dashboard

type JobStats struct {
	JobID          uuid.UUID `json:"job_id"`
	JobTitle       string    `json:"job_title"`
	Company        string    `json:"company"`
	CreatedAt      time.Time `json:"created_at"`
	TotalMatches   int64     `json:"total_matches"`
	AvgMatchScore  float64   `json:"avg_match_score"`
	BestMatchScore float64   `json:"best_match_score"`
}

type Candidate struct {
	MatchID              uuid.UUID                   `json:"match_id"`
	CandidateName        string                      `json:"candidate_name"`
	CandidateEmail       string                      `json:"candidate_email"`
	ResumeTitle          string                      `json:"resume_title"`
	MatchScore           float64                     `json:"match_score"`
	SkillMatchScore      float64                     `json:"skill_match_score"`
	ExperienceMatchScore float64                     `json:"experience_match_score"`
	EducationMatchScore  float64                     `json:"education_match_score"`
	Skills               datatypes.JSONSlice[string] `json:"skills"`
	ExperienceYears      *int                        `json:"experience_years"`
	EducationLevel       string                      `json:"education_level"`
	CreatedAt            time.Time                   `json:"created_at"`
}

type CandidateList struct {
	JobTitle        string      `json:"job_title"`
	JobCompany      string      `json:"job_company"`
	TotalCandidates int         `json:"total_candidates"`
	Candidates      []Candidate `json:"candidates"`
}

type TopJob struct {
	JobID      *uuid.UUID `json:"job_id"`
	Title      *string    `json:"title"`
	MatchCount int64      `json:"match_count"`
	AvgScore   float64    `json:"avg_score"`
}

type DashboardOverview struct {
	TotalJobs          int64  `json:"total_jobs"`
	ActiveJobs         int64  `json:"active_jobs"`
	TotalMatches       int64  `json:"total_matches"`
	HighQualityMatches int64  `json:"high_quality_matches"`
	RecentMatches      int64  `json:"recent_matches"`
	TopPerformingJob   TopJob `json:"top_performing_job"`
}

// Applicant analytics

type WeeklyScore struct {
	Week       string  `json:"week"`
	AvgScore   float64 `json:"avg_score"`
	MatchCount int     `json:"match_count"`
}

type MatchSummary struct {
	MatchID   uuid.UUID `json:"match_id"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

type UserStats struct {
	PeriodDays       int              `json:"period_days"`
	ActivityStats    map[string]int64 `json:"activity_stats"`
	ImprovementTrend []WeeklyScore    `json:"improvement_trend"`
	TotalMatches     int              `json:"total_matches"`
	AvgMatchScore    float64          `json:"avg_match_score"`
	BestMatches      []MatchSummary   `json:"best_matches"`
	RecentMatches    []MatchSummary   `json:"recent_matches"`
}

type SkillFrequency struct {
	Skill     string `json:"skill"`
	Frequency int64  `json:"frequency"`
}

type SkillGapAnalysis struct {
	SkillGapsByImportance map[string][]SkillFrequency `json:"skill_gaps_by_importance"`
	TopMissingSkills      []string                    `json:"top_missing_skills"`
	TotalUniqueGaps       int                         `json:"total_unique_gaps"`
}

type PriorityImprovement struct {
	Area       string `json:"area"`
	Suggestion string `json:"suggestion"`
	Frequency  int64  `json:"frequency"`
	Impact     string `json:"impact"`
}

type ImprovementSuggestions struct {
	PriorityImprovements  []PriorityImprovement `json:"priority_improvements"`
	ResumeImprovements    map[string][]string   `json:"resume_improvements"`
	OverallRecommendation string                `json:"overall_recommendation"`
}
