package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
)

type JobService interface {
	Create(ctx context.Context, recruiter *models.User, req models.JobCreateRequest) (*models.Job, error)
	List(filter models.JobFilter) ([]models.Job, error)
	Get(jobID uuid.UUID) (*models.Job, error)
	ListByRecruiter(recruiterID uuid.UUID) ([]models.Job, error)
	Update(recruiterID, jobID uuid.UUID, req models.JobUpdateRequest) (*models.Job, error)
	Delete(recruiterID, jobID uuid.UUID) error
}

type jobService struct {
	jobRepo repositories.JobRepository
	ai      AIGateway
	indexer Indexer
}

func NewJobService(jobRepo repositories.JobRepository, ai AIGateway, indexer Indexer) JobService {
	return &jobService{
		jobRepo: jobRepo,
		ai:      ai,
		indexer: indexer,
	}
}

// Create derives skills and requirements from the description; the request's
// own values are used for anything the model leaves out.
func (s *jobService) Create(ctx context.Context, recruiter *models.User, req models.JobCreateRequest) (*models.Job, error) {
	job := &models.Job{
		RecruiterID:          recruiter.ID,
		Title:                strings.TrimSpace(req.Title),
		Company:              strings.TrimSpace(req.Company),
		Description:          req.Description,
		Requirements:         req.Requirements,
		Location:             req.Location,
		JobType:              req.JobType,
		SalaryRange:          req.SalaryRange,
		RequiredSkills:       req.RequiredSkills,
		PreferredSkills:      req.PreferredSkills,
		ExperienceLevel:      req.ExperienceLevel,
		EducationRequirement: req.EducationRequirement,
		IsActive:             true,
	}

	analysis, err := s.ai.AnalyzeJob(ctx, req.Description)
	if err != nil {
		log.Warnf("⚠️ Job analysis unavailable, using submitted fields: %v", err)
	} else {
		applyJobAnalysis(job, analysis)
	}

	if err := s.jobRepo.Create(job); err != nil {
		return nil, apperror.Internal("failed to create job", err)
	}

	s.indexer.EnqueueJob(job.ID)
	log.Infof("✅ Job %s created by recruiter %s", job.ID, recruiter.ID)
	return job, nil
}

func applyJobAnalysis(job *models.Job, analysis *JobAnalysis) {
	if analysis.RequiredSkills != nil {
		job.RequiredSkills = analysis.RequiredSkills
	}
	if analysis.PreferredSkills != nil {
		job.PreferredSkills = analysis.PreferredSkills
	}
	if analysis.ExperienceLevel != nil {
		job.ExperienceLevel = *analysis.ExperienceLevel
	}
	if analysis.EducationRequirement != nil {
		job.EducationRequirement = *analysis.EducationRequirement
	}
	if job.JobType == "" && analysis.JobType != nil {
		job.JobType = *analysis.JobType
	}
}

func (s *jobService) List(filter models.JobFilter) ([]models.Job, error) {
	jobs, err := s.jobRepo.List(filter)
	if err != nil {
		return nil, apperror.Internal("failed to list jobs", err)
	}
	return jobs, nil
}

func (s *jobService) Get(jobID uuid.UUID) (*models.Job, error) {
	job, err := s.jobRepo.FindActiveByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal("failed to get job", err)
	}
	return job, nil
}

func (s *jobService) ListByRecruiter(recruiterID uuid.UUID) ([]models.Job, error) {
	jobs, err := s.jobRepo.FindByRecruiter(recruiterID)
	if err != nil {
		return nil, apperror.Internal("failed to list jobs", err)
	}
	return jobs, nil
}

func (s *jobService) owned(recruiterID, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.jobRepo.FindOwned(jobID, recruiterID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal("failed to get job", err)
	}
	return job, nil
}

func (s *jobService) Update(recruiterID, jobID uuid.UUID, req models.JobUpdateRequest) (*models.Job, error) {
	job, err := s.owned(recruiterID, jobID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperror.BadRequest("title must not be empty")
		}
		job.Title = title
	}
	if req.Company != nil {
		company := strings.TrimSpace(*req.Company)
		if company == "" {
			return nil, apperror.BadRequest("company must not be empty")
		}
		job.Company = company
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = *req.Requirements
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if req.SalaryRange != nil {
		job.SalaryRange = *req.SalaryRange
	}
	if req.RequiredSkills != nil {
		job.RequiredSkills = *req.RequiredSkills
	}
	if req.PreferredSkills != nil {
		job.PreferredSkills = *req.PreferredSkills
	}
	if req.ExperienceLevel != nil {
		job.ExperienceLevel = *req.ExperienceLevel
	}
	if req.EducationRequirement != nil {
		job.EducationRequirement = *req.EducationRequirement
	}
	if req.IsActive != nil {
		job.IsActive = *req.IsActive
	}

	if err := s.jobRepo.Update(job); err != nil {
		return nil, apperror.Internal("failed to update job", err)
	}

	s.indexer.EnqueueJob(job.ID)
	return job, nil
}

func (s *jobService) Delete(recruiterID, jobID uuid.UUID) error {
	job, err := s.owned(recruiterID, jobID)
	if err != nil {
		return err
	}

	if err := s.jobRepo.Delete(job.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("Job not found")
		}
		return apperror.Internal("failed to delete job", err)
	}

	// The indexer drops points of jobs that no longer exist.
	s.indexer.EnqueueJob(job.ID)
	return nil
}
