package services

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
)

const (
	DefaultCandidateLimit = 50
	MaxCandidateLimit     = 100

	highQualityScore = 80
	recentWindow     = 7 * 24 * time.Hour
)

type DashboardService interface {
	Candidates(recruiterID, jobID uuid.UUID, minScore float64, limit int) (*models.CandidateList, error)
	JobStats(recruiterID uuid.UUID) ([]models.JobStats, error)
	Overview(recruiterID uuid.UUID) (*models.DashboardOverview, error)
}

type dashboardService struct {
	dashboardRepo repositories.DashboardRepository
	jobRepo       repositories.JobRepository
	now           func() time.Time
}

func NewDashboardService(dashboardRepo repositories.DashboardRepository, jobRepo repositories.JobRepository) DashboardService {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		jobRepo:       jobRepo,
		now:           time.Now,
	}
}

func (s *dashboardService) Candidates(recruiterID, jobID uuid.UUID, minScore float64, limit int) (*models.CandidateList, error) {
	if math.IsNaN(minScore) || minScore < 0 || minScore > 100 {
		return nil, apperror.BadRequest("min_score must be between 0 and 100")
	}
	if limit < 1 || limit > MaxCandidateLimit {
		return nil, apperror.BadRequest("limit must be between 1 and 100")
	}

	job, err := s.jobRepo.FindOwned(jobID, recruiterID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal("failed to load job", err)
	}

	candidates, err := s.dashboardRepo.Candidates(job.ID, minScore, limit)
	if err != nil {
		return nil, apperror.Internal("failed to load candidates", err)
	}
	if candidates == nil {
		candidates = []models.Candidate{}
	}

	return &models.CandidateList{
		JobTitle:        job.Title,
		JobCompany:      job.Company,
		TotalCandidates: len(candidates),
		Candidates:      candidates,
	}, nil
}

func (s *dashboardService) JobStats(recruiterID uuid.UUID) ([]models.JobStats, error) {
	stats, err := s.dashboardRepo.JobStats(recruiterID)
	if err != nil {
		return nil, apperror.Internal("failed to load job stats", err)
	}
	for i := range stats {
		stats[i].AvgMatchScore = round2(stats[i].AvgMatchScore)
	}
	if stats == nil {
		stats = []models.JobStats{}
	}
	return stats, nil
}

func (s *dashboardService) Overview(recruiterID uuid.UUID) (*models.DashboardOverview, error) {
	totalJobs, err := s.dashboardRepo.CountJobs(recruiterID, false)
	if err != nil {
		return nil, apperror.Internal("failed to count jobs", err)
	}
	activeJobs, err := s.dashboardRepo.CountJobs(recruiterID, true)
	if err != nil {
		return nil, apperror.Internal("failed to count jobs", err)
	}

	totalMatches, err := s.dashboardRepo.CountRecruiterMatches(recruiterID, repositories.MatchCountFilter{})
	if err != nil {
		return nil, apperror.Internal("failed to count matches", err)
	}
	highQuality, err := s.dashboardRepo.CountRecruiterMatches(recruiterID, repositories.MatchCountFilter{MinScore: highQualityScore})
	if err != nil {
		return nil, apperror.Internal("failed to count matches", err)
	}
	recent, err := s.dashboardRepo.CountRecruiterMatches(recruiterID, repositories.MatchCountFilter{Since: s.now().Add(-recentWindow)})
	if err != nil {
		return nil, apperror.Internal("failed to count matches", err)
	}

	stats, err := s.dashboardRepo.JobStats(recruiterID)
	if err != nil {
		return nil, apperror.Internal("failed to load job stats", err)
	}

	return &models.DashboardOverview{
		TotalJobs:          totalJobs,
		ActiveJobs:         activeJobs,
		TotalMatches:       totalMatches,
		HighQualityMatches: highQuality,
		RecentMatches:      recent,
		TopPerformingJob:   topJob(stats),
	}, nil
}

// topJob picks the job with the most matches; stats are in creation order,
// so the earliest job wins a tie.
func topJob(stats []models.JobStats) models.TopJob {
	if len(stats) == 0 {
		return models.TopJob{}
	}

	best := 0
	for i := 1; i < len(stats); i++ {
		if stats[i].TotalMatches > stats[best].TotalMatches {
			best = i
		}
	}

	id := stats[best].JobID
	title := stats[best].JobTitle
	return models.TopJob{
		JobID:      &id,
		Title:      &title,
		MatchCount: stats[best].TotalMatches,
		AvgScore:   round2(stats[best].AvgMatchScore),
	}
}
