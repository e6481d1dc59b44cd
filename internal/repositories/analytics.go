package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/skillsync/internal/models"
)

// SkillGapCount is one (skill, importance) bucket of a user's skill gaps.
type SkillGapCount struct {
	MissingSkill string
	Importance   string
	Frequency    int64
}

type AnalyticsRepository interface {
	Create(event *models.AnalyticsEvent) error
	CountByEventType(userID uuid.UUID, since time.Time) (map[string]int64, error)
	MatchesSince(userID uuid.UUID, since time.Time) ([]models.Match, error)
	BestMatches(userID uuid.UUID, limit int) ([]models.Match, error)
	RecentMatches(userID uuid.UUID, limit int) ([]models.Match, error)
	LowScoreMatches(userID uuid.UUID, below float64, limit int) ([]models.Match, error)
	SkillGapCounts(userID uuid.UUID) ([]SkillGapCount, error)
	MissingSkillCounts(userID uuid.UUID, limit int) ([]models.SkillFrequency, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) Create(event *models.AnalyticsEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create analytics event: %w", err)
	}
	return nil
}

func (r *analyticsRepository) CountByEventType(userID uuid.UUID, since time.Time) (map[string]int64, error) {
	var rows []struct {
		EventType string
		Count     int64
	}
	err := r.db.Model(&models.AnalyticsEvent{}).
		Select("event_type, COUNT(id) AS count").
		Where("user_id = ? AND created_at >= ?", userID, since).
		Group("event_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.EventType] = row.Count
	}
	return counts, nil
}

func (r *analyticsRepository) MatchesSince(userID uuid.UUID, since time.Time) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at ASC").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find matches: %w", err)
	}
	return matches, nil
}

func (r *analyticsRepository) BestMatches(userID uuid.UUID, limit int) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.Where("user_id = ?", userID).
		Order("match_score DESC").
		Limit(limit).
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find best matches: %w", err)
	}
	return matches, nil
}

func (r *analyticsRepository) RecentMatches(userID uuid.UUID, limit int) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recent matches: %w", err)
	}
	return matches, nil
}

func (r *analyticsRepository) LowScoreMatches(userID uuid.UUID, below float64, limit int) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.Where("user_id = ? AND match_score < ?", userID, below).
		Order("created_at DESC").
		Limit(limit).
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find low score matches: %w", err)
	}
	return matches, nil
}

func (r *analyticsRepository) SkillGapCounts(userID uuid.UUID) ([]SkillGapCount, error) {
	var rows []SkillGapCount
	err := r.db.Table("skill_gaps").
		Select("skill_gaps.missing_skill AS missing_skill, skill_gaps.importance AS importance, COUNT(skill_gaps.id) AS frequency").
		Joins("JOIN matches ON matches.id = skill_gaps.match_id").
		Where("matches.user_id = ?", userID).
		Group("skill_gaps.missing_skill, skill_gaps.importance").
		Order("frequency DESC, missing_skill ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate skill gaps: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) MissingSkillCounts(userID uuid.UUID, limit int) ([]models.SkillFrequency, error) {
	var rows []models.SkillFrequency
	err := r.db.Table("skill_gaps").
		Select("skill_gaps.missing_skill AS skill, COUNT(skill_gaps.id) AS frequency").
		Joins("JOIN matches ON matches.id = skill_gaps.match_id").
		Where("matches.user_id = ?", userID).
		Group("skill_gaps.missing_skill").
		Order("frequency DESC, skill ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate missing skills: %w", err)
	}
	return rows, nil
}
