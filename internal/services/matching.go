package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
)

const aiUnavailableMessage = "AI service unavailable, please try again later"

type MatchingService interface {
	// Analyze scores resume against job for user. An existing match for the
	// same (user, resume, job) is returned as-is with created == false.
	Analyze(ctx context.Context, user *models.User, resumeID, jobID uuid.UUID) (*models.Match, bool, error)
	List(userID uuid.UUID) ([]models.Match, error)
	Get(userID, matchID uuid.UUID) (*models.Match, error)
	GenerateCoverLetter(ctx context.Context, user *models.User, matchID uuid.UUID) (string, error)
}

type matchingService struct {
	matchRepo  repositories.MatchRepository
	resumeRepo repositories.ResumeRepository
	jobRepo    repositories.JobRepository
	ai         AIGateway
	publisher  EventPublisher
}

func NewMatchingService(
	matchRepo repositories.MatchRepository,
	resumeRepo repositories.ResumeRepository,
	jobRepo repositories.JobRepository,
	ai AIGateway,
	publisher EventPublisher,
) MatchingService {
	return &matchingService{
		matchRepo:  matchRepo,
		resumeRepo: resumeRepo,
		jobRepo:    jobRepo,
		ai:         ai,
		publisher:  publisher,
	}
}

func (s *matchingService) Analyze(ctx context.Context, user *models.User, resumeID, jobID uuid.UUID) (*models.Match, bool, error) {
	resume, err := s.resumeRepo.FindOwned(resumeID, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, apperror.NotFound("Resume not found")
		}
		return nil, false, apperror.Internal("failed to load resume", err)
	}

	job, err := s.jobRepo.FindActiveByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, apperror.NotFound("Job not found")
		}
		return nil, false, apperror.Internal("failed to load job", err)
	}

	existing, err := s.matchRepo.FindByTriple(user.ID, resume.ID, job.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, apperror.Internal("failed to load match", err)
	}

	resumeData := resumeProfile(resume)
	jobData := jobProfile(job)

	log.Infof("🤖 Scoring resume %s against job %s", resume.ID, job.ID)
	analysis, err := s.ai.ScoreMatch(ctx, resumeData, jobData)
	if err != nil {
		return nil, false, apperror.BadGateway(aiUnavailableMessage, err)
	}

	suggestions, err := s.ai.SuggestImprovements(ctx, resumeData, jobData, analysis)
	if err != nil {
		return nil, false, apperror.BadGateway(aiUnavailableMessage, err)
	}

	match := &models.Match{
		UserID:               user.ID,
		ResumeID:             resume.ID,
		JobID:                job.ID,
		MatchScore:           analysis.OverallScore,
		SkillMatchScore:      analysis.SkillMatchScore,
		ExperienceMatchScore: analysis.ExperienceMatchScore,
		EducationMatchScore:  analysis.EducationMatchScore,
		OverallFeedback:      analysis.OverallFeedback,
		Strengths:            analysis.Strengths,
		Weaknesses:           analysis.Weaknesses,
		ResumeSuggestions:    suggestions,
	}
	for _, missing := range analysis.MissingSkills {
		match.SkillGaps = append(match.SkillGaps, models.SkillGap{
			MissingSkill: missing.Skill,
			Importance:   models.SkillImportance(missing.Importance),
			Suggestion:   missing.Suggestion,
		})
	}

	saved, event, created, err := s.matchRepo.CreateWithEvent(match, func(m *models.Match) *models.AnalyticsEvent {
		score := m.MatchScore
		return &models.AnalyticsEvent{
			UserID:    m.UserID,
			EventType: models.EventJobMatch,
			EventData: datatypes.JSONMap{
				"match_id":    m.ID.String(),
				"resume_id":   m.ResumeID.String(),
				"job_id":      m.JobID.String(),
				"match_score": m.MatchScore,
			},
			ImprovementScore: &score,
		}
	})
	if err != nil {
		return nil, false, apperror.Internal("failed to save match", err)
	}

	if created {
		trackAfterCommit(s.publisher, event)
		log.Infof("✅ Match %s created with score %.1f", saved.ID, saved.MatchScore)
	}
	return saved, created, nil
}

func (s *matchingService) List(userID uuid.UUID) ([]models.Match, error) {
	matches, err := s.matchRepo.FindByUser(userID)
	if err != nil {
		return nil, apperror.Internal("failed to list matches", err)
	}
	return matches, nil
}

func (s *matchingService) Get(userID, matchID uuid.UUID) (*models.Match, error) {
	match, err := s.matchRepo.FindOwned(matchID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Match not found")
		}
		return nil, apperror.Internal("failed to get match", err)
	}
	return match, nil
}

func (s *matchingService) GenerateCoverLetter(ctx context.Context, user *models.User, matchID uuid.UUID) (string, error) {
	match, err := s.Get(user.ID, matchID)
	if err != nil {
		return "", err
	}

	resume, err := s.resumeRepo.FindByID(match.ResumeID)
	if err != nil {
		return "", apperror.Internal("failed to load resume", err)
	}
	job, err := s.jobRepo.FindByID(match.JobID)
	if err != nil {
		return "", apperror.Internal("failed to load job", err)
	}

	letter, err := s.ai.WriteCoverLetter(ctx, resumeProfile(resume), jobProfile(job), user.FullName)
	if err != nil {
		return "", apperror.BadGateway(aiUnavailableMessage, err)
	}

	event, err := s.matchRepo.SaveCoverLetter(match, letter, func(m *models.Match) *models.AnalyticsEvent {
		return &models.AnalyticsEvent{
			UserID:    user.ID,
			EventType: models.EventCoverLetterGenerate,
			EventData: datatypes.JSONMap{
				"match_id": m.ID.String(),
				"job_id":   m.JobID.String(),
			},
		}
	})
	if err != nil {
		return "", apperror.Internal("failed to save cover letter", err)
	}

	trackAfterCommit(s.publisher, event)
	return letter, nil
}

func resumeProfile(resume *models.Resume) ResumeProfile {
	skills := []string(resume.Skills)
	if skills == nil {
		skills = []string{}
	}
	parsed := map[string]any(resume.ParsedData)
	if parsed == nil {
		parsed = map[string]any{}
	}
	return ResumeProfile{
		Skills:          skills,
		ExperienceYears: resume.ExperienceYears,
		EducationLevel:  resume.EducationLevel,
		ParsedData:      parsed,
	}
}

func jobProfile(job *models.Job) JobProfile {
	required := []string(job.RequiredSkills)
	if required == nil {
		required = []string{}
	}
	preferred := []string(job.PreferredSkills)
	if preferred == nil {
		preferred = []string{}
	}
	return JobProfile{
		Title:                job.Title,
		Company:              job.Company,
		Description:          strings.TrimSpace(job.Description),
		RequiredSkills:       required,
		PreferredSkills:      preferred,
		ExperienceLevel:      job.ExperienceLevel,
		EducationRequirement: job.EducationRequirement,
	}
}
