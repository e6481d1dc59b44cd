package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/skillsync/internal/models"
)

// EventBuilder produces the analytics event recorded alongside a write. It is
// called after the match row exists, so the match id is available.
type EventBuilder func(match *models.Match) *models.AnalyticsEvent

type MatchRepository interface {
	FindByTriple(userID, resumeID, jobID uuid.UUID) (*models.Match, error)
	FindOwned(id, userID uuid.UUID) (*models.Match, error)
	FindByUser(userID uuid.UUID) ([]models.Match, error)
	CreateWithEvent(match *models.Match, buildEvent EventBuilder) (*models.Match, *models.AnalyticsEvent, bool, error)
	SaveCoverLetter(match *models.Match, coverLetter string, buildEvent EventBuilder) (*models.AnalyticsEvent, error)
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) FindByTriple(userID, resumeID, jobID uuid.UUID) (*models.Match, error) {
	return findMatchByTriple(r.db, userID, resumeID, jobID)
}

func findMatchByTriple(db *gorm.DB, userID, resumeID, jobID uuid.UUID) (*models.Match, error) {
	var match models.Match
	err := db.Preload("SkillGaps").
		Where("user_id = ? AND resume_id = ? AND job_id = ?", userID, resumeID, jobID).
		Order("created_at ASC").
		First(&match).Error
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("match not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find match: %w", err)
	}
	return &match, nil
}

func (r *matchRepository) FindOwned(id, userID uuid.UUID) (*models.Match, error) {
	var match models.Match
	if err := r.db.Preload("SkillGaps").Where("id = ? AND user_id = ?", id, userID).First(&match).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("match not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find match: %w", err)
	}
	return &match, nil
}

func (r *matchRepository) FindByUser(userID uuid.UUID) ([]models.Match, error) {
	var matches []models.Match
	if err := r.db.Preload("SkillGaps").Where("user_id = ?", userID).Order("created_at DESC").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("failed to find matches: %w", err)
	}
	return matches, nil
}

// CreateWithEvent inserts the match, its skill gaps and the event in one
// transaction. When a match for the same (user, resume, job) already exists
// it is returned untouched and created is false.
func (r *matchRepository) CreateWithEvent(match *models.Match, buildEvent EventBuilder) (*models.Match, *models.AnalyticsEvent, bool, error) {
	var (
		result  *models.Match
		event   *models.AnalyticsEvent
		created bool
	)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findMatchByTriple(tx, match.UserID, match.ResumeID, match.JobID)
		if err == nil {
			result = existing
			return nil
		}
		if !isErrNotFound(err) {
			return err
		}

		if err := tx.Create(match).Error; err != nil {
			return fmt.Errorf("failed to create match: %w", err)
		}

		if buildEvent != nil {
			event = buildEvent(match)
			if event != nil {
				if err := tx.Create(event).Error; err != nil {
					return fmt.Errorf("failed to create analytics event: %w", err)
				}
			}
		}

		result = match
		created = true
		return nil
	})
	if err != nil {
		return nil, nil, false, err
	}
	return result, event, created, nil
}

func (r *matchRepository) SaveCoverLetter(match *models.Match, coverLetter string, buildEvent EventBuilder) (*models.AnalyticsEvent, error) {
	var event *models.AnalyticsEvent

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(match).Update("cover_letter", coverLetter).Error; err != nil {
			return fmt.Errorf("failed to save cover letter: %w", err)
		}
		match.CoverLetter = &coverLetter

		if buildEvent != nil {
			event = buildEvent(match)
			if event != nil {
				if err := tx.Create(event).Error; err != nil {
					return fmt.Errorf("failed to create analytics event: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}
