package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/skillsync/internal/models"
)

// MatchCountFilter narrows CountRecruiterMatches; zero values disable a filter.
type MatchCountFilter struct {
	MinScore float64
	Since    time.Time
}

type DashboardRepository interface {
	JobStats(recruiterID uuid.UUID) ([]models.JobStats, error)
	Candidates(jobID uuid.UUID, minScore float64, limit int) ([]models.Candidate, error)
	CountJobs(recruiterID uuid.UUID, activeOnly bool) (int64, error)
	CountRecruiterMatches(recruiterID uuid.UUID, filter MatchCountFilter) (int64, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// JobStats aggregates matches per job, in job creation order.
func (r *dashboardRepository) JobStats(recruiterID uuid.UUID) ([]models.JobStats, error) {
	var stats []models.JobStats
	err := r.db.Table("jobs").
		Select(`jobs.id AS job_id, jobs.title AS job_title, jobs.company AS company, jobs.created_at AS created_at,
			COUNT(matches.id) AS total_matches,
			COALESCE(AVG(matches.match_score), 0) AS avg_match_score,
			COALESCE(MAX(matches.match_score), 0) AS best_match_score`).
		Joins("LEFT JOIN matches ON matches.job_id = jobs.id").
		Where("jobs.recruiter_id = ?", recruiterID).
		Group("jobs.id, jobs.title, jobs.company, jobs.created_at").
		Order("jobs.created_at ASC, jobs.id ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate job stats: %w", err)
	}
	return stats, nil
}

func (r *dashboardRepository) Candidates(jobID uuid.UUID, minScore float64, limit int) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := r.db.Table("matches").
		Select(`matches.id AS match_id, users.full_name AS candidate_name, users.email AS candidate_email,
			resumes.title AS resume_title, matches.match_score AS match_score,
			matches.skill_match_score AS skill_match_score,
			matches.experience_match_score AS experience_match_score,
			matches.education_match_score AS education_match_score,
			resumes.skills AS skills, resumes.experience_years AS experience_years,
			resumes.education_level AS education_level, matches.created_at AS created_at`).
		Joins("JOIN resumes ON resumes.id = matches.resume_id").
		Joins("JOIN users ON users.id = matches.user_id").
		Where("matches.job_id = ? AND matches.match_score >= ?", jobID, minScore).
		Order("matches.match_score DESC").
		Limit(limit).
		Scan(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	return candidates, nil
}

func (r *dashboardRepository) CountJobs(recruiterID uuid.UUID, activeOnly bool) (int64, error) {
	query := r.db.Model(&models.Job{}).Where("recruiter_id = ?", recruiterID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

func (r *dashboardRepository) CountRecruiterMatches(recruiterID uuid.UUID, filter MatchCountFilter) (int64, error) {
	query := r.db.Model(&models.Match{}).
		Joins("JOIN jobs ON jobs.id = matches.job_id").
		Where("jobs.recruiter_id = ?", recruiterID)
	if filter.MinScore > 0 {
		query = query.Where("matches.match_score >= ?", filter.MinScore)
	}
	if !filter.Since.IsZero() {
		query = query.Where("matches.created_at >= ?", filter.Since)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}
