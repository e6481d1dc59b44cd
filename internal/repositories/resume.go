package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/skillsync/internal/models"
)

type ResumeRepository interface {
	Create(resume *models.Resume) error
	FindByID(id uuid.UUID) (*models.Resume, error)
	FindOwned(id, userID uuid.UUID) (*models.Resume, error)
	FindByUser(userID uuid.UUID) ([]models.Resume, error)
	Update(resume *models.Resume) error
	Delete(id uuid.UUID) error
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(resume *models.Resume) error {
	if err := r.db.Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) FindByID(id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.Where("id = ?", id).First(&resume).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("resume not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

// FindOwned returns the resume only when it belongs to userID.
func (r *resumeRepository) FindOwned(id, userID uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&resume).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("resume not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

func (r *resumeRepository) FindByUser(userID uuid.UUID) ([]models.Resume, error) {
	var resumes []models.Resume
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("failed to find resumes: %w", err)
	}
	return resumes, nil
}

func (r *resumeRepository) Update(resume *models.Resume) error {
	if err := r.db.Save(resume).Error; err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}
	return nil
}

// Delete removes the resume together with every match (and skill gap) that
// references it.
func (r *resumeRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		matchIDs := tx.Model(&models.Match{}).Select("id").Where("resume_id = ?", id)

		if err := tx.Where("match_id IN (?)", matchIDs).Delete(&models.SkillGap{}).Error; err != nil {
			return fmt.Errorf("failed to delete skill gaps: %w", err)
		}
		if err := tx.Where("resume_id = ?", id).Delete(&models.Match{}).Error; err != nil {
			return fmt.Errorf("failed to delete matches: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&models.Resume{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete resume: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("resume not found: %w", ErrNotFound)
		}
		return nil
	})
}
