package repositories

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/skillsync/internal/models"
)

const (
	DefaultJobLimit = 100
	MaxJobLimit     = 100
)

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id uuid.UUID) (*models.Job, error)
	FindActiveByID(id uuid.UUID) (*models.Job, error)
	FindActiveByIDs(ids []uuid.UUID) ([]models.Job, error)
	FindOwned(id, recruiterID uuid.UUID) (*models.Job, error)
	FindByRecruiter(recruiterID uuid.UUID) ([]models.Job, error)
	FindAllActive() ([]models.Job, error)
	List(filter models.JobFilter) ([]models.Job, error)
	Update(job *models.Job) error
	Delete(id uuid.UUID) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(job *models.Job) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *jobRepository) FindByID(id uuid.UUID) (*models.Job, error) {
	return r.first(r.db.Where("id = ?", id))
}

func (r *jobRepository) FindActiveByID(id uuid.UUID) (*models.Job, error) {
	return r.first(r.db.Where("id = ? AND is_active = ?", id, true))
}

func (r *jobRepository) FindOwned(id, recruiterID uuid.UUID) (*models.Job, error) {
	return r.first(r.db.Where("id = ? AND recruiter_id = ?", id, recruiterID))
}

func (r *jobRepository) first(query *gorm.DB) (*models.Job, error) {
	var job models.Job
	if err := query.First(&job).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("job not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) FindActiveByIDs(ids []uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	if len(ids) == 0 {
		return jobs, nil
	}
	if err := r.db.Where("id IN ? AND is_active = ?", ids, true).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to find jobs: %w", err)
	}
	return jobs, nil
}

func (r *jobRepository) FindByRecruiter(recruiterID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.Where("recruiter_id = ?", recruiterID).Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to find jobs: %w", err)
	}
	return jobs, nil
}

func (r *jobRepository) FindAllActive() ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.Where("is_active = ?", true).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to find active jobs: %w", err)
	}
	return jobs, nil
}

// List returns active jobs only. Search matches title, description or
// company; location is a substring match; job type must match exactly.
func (r *jobRepository) List(filter models.JobFilter) ([]models.Job, error) {
	query := r.db.Model(&models.Job{}).Where("is_active = ?", true)

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where(
			`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(company) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		query = query.Where(`LOWER(location) LIKE ? ESCAPE '\'`, likePattern(location))
	}
	if filter.JobType != "" {
		query = query.Where("job_type = ?", filter.JobType)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultJobLimit
	}
	if limit > MaxJobLimit {
		limit = MaxJobLimit
	}
	skip := filter.Skip
	if skip < 0 {
		skip = 0
	}

	var jobs []models.Job
	if err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (r *jobRepository) Update(job *models.Job) error {
	if err := r.db.Save(job).Error; err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

// Delete removes the job together with every match (and skill gap) that
// references it.
func (r *jobRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		matchIDs := tx.Model(&models.Match{}).Select("id").Where("job_id = ?", id)

		if err := tx.Where("match_id IN (?)", matchIDs).Delete(&models.SkillGap{}).Error; err != nil {
			return fmt.Errorf("failed to delete skill gaps: %w", err)
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.Match{}).Error; err != nil {
			return fmt.Errorf("failed to delete matches: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&models.Job{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete job: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("job not found: %w", ErrNotFound)
		}
		return nil
	})
}

func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(term)) + "%"
}
