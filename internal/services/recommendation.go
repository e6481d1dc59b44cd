package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
)

const (
	DefaultRecommendationLimit = 5
	MaxRecommendationLimit     = 20

	// Each job is stored as several chunks, so fetch extra hits before
	// collapsing them per job.
	recommendationOverfetch = 4
)

type RecommendationService interface {
	Recommend(ctx context.Context, userID, resumeID uuid.UUID, limit int) ([]models.JobRecommendation, error)
}

type recommendationService struct {
	resumeRepo    repositories.ResumeRepository
	jobRepo       repositories.JobRepository
	index         JobIndex
	embedder      Embedder
	promptBuilder *PromptBuilder
}

// NewRecommendationService accepts a nil index or embedder; every call then
// reports that recommendations are disabled.
func NewRecommendationService(
	resumeRepo repositories.ResumeRepository,
	jobRepo repositories.JobRepository,
	index JobIndex,
	embedder Embedder,
) RecommendationService {
	return &recommendationService{
		resumeRepo:    resumeRepo,
		jobRepo:       jobRepo,
		index:         index,
		embedder:      embedder,
		promptBuilder: NewPromptBuilder(),
	}
}

func (s *recommendationService) Recommend(ctx context.Context, userID, resumeID uuid.UUID, limit int) ([]models.JobRecommendation, error) {
	if s.index == nil || s.embedder == nil {
		return nil, apperror.BadRequest("job recommendations are not enabled")
	}
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	if limit > MaxRecommendationLimit {
		limit = MaxRecommendationLimit
	}

	resume, err := s.resumeRepo.FindOwned(resumeID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Resume not found")
		}
		return nil, apperror.Internal("failed to load resume", err)
	}

	query := s.promptBuilder.BuildRecommendationQuery(resumeProfile(resume), resume.ExtractedText)
	embedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, apperror.BadGateway(aiUnavailableMessage, err)
	}

	hits, err := s.index.Search(ctx, embedding, limit*recommendationOverfetch)
	if err != nil {
		return nil, apperror.Internal("failed to search job index", err)
	}

	// Hits arrive best first; keep the first (best) hit per job.
	var ordered []uuid.UUID
	best := make(map[uuid.UUID]float32)
	for _, hit := range hits {
		if _, ok := best[hit.JobID]; ok {
			continue
		}
		best[hit.JobID] = hit.Score
		ordered = append(ordered, hit.JobID)
	}

	jobs, err := s.jobRepo.FindActiveByIDs(ordered)
	if err != nil {
		return nil, apperror.Internal("failed to load jobs", err)
	}
	byID := make(map[uuid.UUID]models.Job, len(jobs))
	for _, job := range jobs {
		byID[job.ID] = job
	}

	recommendations := make([]models.JobRecommendation, 0, limit)
	for _, id := range ordered {
		job, ok := byID[id]
		if !ok {
			continue
		}
		recommendations = append(recommendations, models.JobRecommendation{Job: job, Score: best[id]})
		if len(recommendations) == limit {
			break
		}
	}

	return recommendations, nil
}
