package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
)

// UploadLimits bounds what Upload accepts.
type UploadLimits struct {
	MaxFileSize       int64
	AllowedExtensions []string
}

func (l UploadLimits) allows(ext string) bool {
	for _, allowed := range l.AllowedExtensions {
		if allowed == ext {
			return true
		}
	}
	return false
}

type ResumeService interface {
	Upload(ctx context.Context, user *models.User, title, filename string, size int64, file io.Reader) (*models.Resume, error)
	List(userID uuid.UUID) ([]models.Resume, error)
	Get(userID, resumeID uuid.UUID) (*models.Resume, error)
	Update(userID, resumeID uuid.UUID, req models.ResumeUpdateRequest) (*models.Resume, error)
	Delete(ctx context.Context, userID, resumeID uuid.UUID) error
}

type resumeService struct {
	resumeRepo repositories.ResumeRepository
	storage    StorageService
	extractor  TextExtractor
	ai         AIGateway
	events     EventTracker
	limits     UploadLimits
}

func NewResumeService(
	resumeRepo repositories.ResumeRepository,
	storage StorageService,
	extractor TextExtractor,
	ai AIGateway,
	events EventTracker,
	limits UploadLimits,
) ResumeService {
	return &resumeService{
		resumeRepo: resumeRepo,
		storage:    storage,
		extractor:  extractor,
		ai:         ai,
		events:     events,
		limits:     limits,
	}
}

func (s *resumeService) Upload(ctx context.Context, user *models.User, title, filename string, size int64, file io.Reader) (*models.Resume, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.BadRequest("title is required")
	}

	tooLarge := apperror.PayloadTooLarge(fmt.Sprintf("File too large. Max size: %d bytes", s.limits.MaxFileSize))
	if size > s.limits.MaxFileSize {
		return nil, tooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !s.limits.allows(ext) {
		return nil, apperror.UnsupportedMediaType(fmt.Sprintf(
			"File type not allowed. Allowed types: %s", strings.Join(s.limits.AllowedExtensions, ", "),
		))
	}

	data, err := io.ReadAll(io.LimitReader(file, s.limits.MaxFileSize+1))
	if err != nil {
		return nil, apperror.BadRequest("failed to read uploaded file")
	}
	if int64(len(data)) > s.limits.MaxFileSize {
		return nil, tooLarge
	}

	storedName, location, err := s.storage.SaveFile(ctx, user.ID, filename, data)
	if err != nil {
		return nil, apperror.Internal("failed to save file", err)
	}

	text, err := s.extractor.ExtractText(filename, data)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			log.Warnf("⚠️ Text extraction failed for %s: %v", storedName, err)
		}
		s.discardFile(ctx, storedName)
		return nil, apperror.BadRequest("Failed to extract text from file")
	}

	resume := &models.Resume{
		UserID:           user.ID,
		Title:            title,
		Filename:         storedName,
		FilePath:         location,
		OriginalFilename: filename,
		ExtractedText:    text,
	}

	analysis, err := s.ai.AnalyzeResume(ctx, text)
	if err != nil {
		log.Warnf("⚠️ Resume analysis unavailable, storing %s without derived fields: %v", storedName, err)
	} else {
		applyResumeAnalysis(resume, analysis)
	}

	if err := s.resumeRepo.Create(resume); err != nil {
		s.discardFile(ctx, storedName)
		return nil, apperror.Internal("failed to save resume", err)
	}

	if err := s.events.Track(ctx, &models.AnalyticsEvent{
		UserID:    user.ID,
		EventType: models.EventResumeUpload,
		EventData: datatypes.JSONMap{
			"resume_id": resume.ID.String(),
			"filename":  filename,
		},
	}); err != nil {
		log.Warnf("⚠️ Failed to track resume upload: %v", err)
	}

	log.Infof("✅ Resume %s uploaded by user %s", resume.ID, user.ID)
	return resume, nil
}

func applyResumeAnalysis(resume *models.Resume, analysis *ResumeAnalysis) {
	if analysis.Raw != nil {
		resume.ParsedData = datatypes.JSONMap(analysis.Raw)
	}
	resume.Skills = analysis.Skills
	resume.EducationLevel = analysis.EducationLevel
	if analysis.ExperienceYears != nil && *analysis.ExperienceYears >= 0 {
		years := int(math.Round(*analysis.ExperienceYears))
		resume.ExperienceYears = &years
	}
}

func (s *resumeService) discardFile(ctx context.Context, filename string) {
	if err := s.storage.DeleteFile(ctx, filename); err != nil {
		log.Warnf("⚠️ Failed to remove %s: %v", filename, err)
	}
}

func (s *resumeService) List(userID uuid.UUID) ([]models.Resume, error) {
	resumes, err := s.resumeRepo.FindByUser(userID)
	if err != nil {
		return nil, apperror.Internal("failed to list resumes", err)
	}
	return resumes, nil
}

func (s *resumeService) Get(userID, resumeID uuid.UUID) (*models.Resume, error) {
	resume, err := s.resumeRepo.FindOwned(resumeID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Resume not found")
		}
		return nil, apperror.Internal("failed to get resume", err)
	}
	return resume, nil
}

func (s *resumeService) Update(userID, resumeID uuid.UUID, req models.ResumeUpdateRequest) (*models.Resume, error) {
	resume, err := s.Get(userID, resumeID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperror.BadRequest("title must not be empty")
		}
		resume.Title = title
	}
	if req.ExtractedText != nil {
		resume.ExtractedText = *req.ExtractedText
	}
	if req.ParsedData != nil {
		resume.ParsedData = datatypes.JSONMap(*req.ParsedData)
	}
	if req.Skills != nil {
		resume.Skills = *req.Skills
	}
	if req.ExperienceYears != nil {
		years := *req.ExperienceYears
		resume.ExperienceYears = &years
	}
	if req.EducationLevel != nil {
		resume.EducationLevel = *req.EducationLevel
	}

	if err := s.resumeRepo.Update(resume); err != nil {
		return nil, apperror.Internal("failed to update resume", err)
	}
	return resume, nil
}

// Delete removes the row (and its matches) first; the backing file goes
// afterwards and may already be missing.
func (s *resumeService) Delete(ctx context.Context, userID, resumeID uuid.UUID) error {
	resume, err := s.Get(userID, resumeID)
	if err != nil {
		return err
	}

	if err := s.resumeRepo.Delete(resume.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("Resume not found")
		}
		return apperror.Internal("failed to delete resume", err)
	}

	if resume.Filename != "" {
		s.discardFile(ctx, resume.Filename)
	}

	return nil
}
