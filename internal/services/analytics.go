package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
)

const (
	DefaultStatsDays = 30
	MaxStatsDays     = 365

	summaryMatchLimit      = 5
	topMissingSkillLimit   = 10
	lowScoreThreshold      = 70
	lowScoreMatchLimit     = 10
	priorityImprovementCap = 5
	highImpactFrequency    = 3

	overallRecommendation = "Focus on the most frequently missing skills to improve your match scores."
)

// EventTracker appends an analytics event and announces it.
type EventTracker interface {
	Track(ctx context.Context, event *models.AnalyticsEvent) error
}

type AnalyticsService interface {
	EventTracker
	TrackEvent(ctx context.Context, userID uuid.UUID, req models.TrackEventRequest) (*models.AnalyticsEvent, error)
	UserStats(userID uuid.UUID, days int) (*models.UserStats, error)
	SkillGaps(userID uuid.UUID) (*models.SkillGapAnalysis, error)
	ImprovementSuggestions(userID uuid.UUID) (*models.ImprovementSuggestions, error)
}

type analyticsService struct {
	repo      repositories.AnalyticsRepository
	publisher EventPublisher
	now       func() time.Time
}

func NewAnalyticsService(repo repositories.AnalyticsRepository, publisher EventPublisher) AnalyticsService {
	return &analyticsService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *analyticsService) Track(ctx context.Context, event *models.AnalyticsEvent) error {
	if err := s.repo.Create(event); err != nil {
		return err
	}
	s.publisher.Publish(event)
	return nil
}

func (s *analyticsService) TrackEvent(ctx context.Context, userID uuid.UUID, req models.TrackEventRequest) (*models.AnalyticsEvent, error) {
	eventType := strings.TrimSpace(req.EventType)
	if eventType == "" {
		return nil, apperror.BadRequest("event_type is required")
	}

	data := datatypes.JSONMap{}
	for k, v := range req.EventData {
		data[k] = v
	}

	event := &models.AnalyticsEvent{
		UserID:           userID,
		EventType:        eventType,
		EventData:        data,
		ImprovementScore: req.ImprovementScore,
		SessionID:        req.SessionID,
	}
	if err := s.Track(ctx, event); err != nil {
		return nil, apperror.Internal("failed to track event", err)
	}
	return event, nil
}

func (s *analyticsService) UserStats(userID uuid.UUID, days int) (*models.UserStats, error) {
	if days < 1 || days > MaxStatsDays {
		return nil, apperror.BadRequest(fmt.Sprintf("days must be between 1 and %d", MaxStatsDays))
	}
	since := s.now().AddDate(0, 0, -days)

	activity, err := s.repo.CountByEventType(userID, since)
	if err != nil {
		return nil, apperror.Internal("failed to load activity", err)
	}

	matches, err := s.repo.MatchesSince(userID, since)
	if err != nil {
		return nil, apperror.Internal("failed to load matches", err)
	}

	best, err := s.repo.BestMatches(userID, summaryMatchLimit)
	if err != nil {
		return nil, apperror.Internal("failed to load best matches", err)
	}

	recent, err := s.repo.RecentMatches(userID, summaryMatchLimit)
	if err != nil {
		return nil, apperror.Internal("failed to load recent matches", err)
	}

	var total float64
	for _, m := range matches {
		total += m.MatchScore
	}
	avg := 0.0
	if len(matches) > 0 {
		avg = round2(total / float64(len(matches)))
	}

	return &models.UserStats{
		PeriodDays:       days,
		ActivityStats:    activity,
		ImprovementTrend: weeklyTrend(matches),
		TotalMatches:     len(matches),
		AvgMatchScore:    avg,
		BestMatches:      summarize(best),
		RecentMatches:    summarize(recent),
	}, nil
}

// weeklyTrend buckets matches by ISO week, keeping the order in which weeks
// first appear in matches.
func weeklyTrend(matches []models.Match) []models.WeeklyScore {
	type bucket struct {
		sum   float64
		count int
	}

	var order []string
	buckets := make(map[string]*bucket)
	for _, m := range matches {
		year, week := m.CreatedAt.ISOWeek()
		key := fmt.Sprintf("%d-W%02d", year, week)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			order = append(order, key)
		}
		b.sum += m.MatchScore
		b.count++
	}

	trend := make([]models.WeeklyScore, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		trend = append(trend, models.WeeklyScore{
			Week:       key,
			AvgScore:   round2(b.sum / float64(b.count)),
			MatchCount: b.count,
		})
	}
	return trend
}

func summarize(matches []models.Match) []models.MatchSummary {
	out := make([]models.MatchSummary, 0, len(matches))
	for _, m := range matches {
		out = append(out, models.MatchSummary{
			MatchID:   m.ID,
			Score:     m.MatchScore,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

func (s *analyticsService) SkillGaps(userID uuid.UUID) (*models.SkillGapAnalysis, error) {
	rows, err := s.repo.SkillGapCounts(userID)
	if err != nil {
		return nil, apperror.Internal("failed to analyse skill gaps", err)
	}

	byImportance := map[string][]models.SkillFrequency{
		string(models.ImportanceRequired):  {},
		string(models.ImportancePreferred): {},
		"other":                            {},
	}

	var top []string
	seen := make(map[string]bool)
	for _, row := range rows {
		tier := "other"
		switch models.SkillImportance(row.Importance) {
		case models.ImportanceRequired, models.ImportancePreferred:
			tier = row.Importance
		}
		byImportance[tier] = append(byImportance[tier], models.SkillFrequency{
			Skill:     row.MissingSkill,
			Frequency: row.Frequency,
		})

		if len(top) < topMissingSkillLimit && !seen[row.MissingSkill] {
			seen[row.MissingSkill] = true
			top = append(top, row.MissingSkill)
		}
	}
	if top == nil {
		top = []string{}
	}

	return &models.SkillGapAnalysis{
		SkillGapsByImportance: byImportance,
		TopMissingSkills:      top,
		TotalUniqueGaps:       len(rows),
	}, nil
}

func (s *analyticsService) ImprovementSuggestions(userID uuid.UUID) (*models.ImprovementSuggestions, error) {
	lowMatches, err := s.repo.LowScoreMatches(userID, lowScoreThreshold, lowScoreMatchLimit)
	if err != nil {
		return nil, apperror.Internal("failed to load matches", err)
	}

	bySection := make(map[string][]string)
	for _, m := range lowMatches {
		for _, suggestion := range m.ResumeSuggestions {
			section := strings.TrimSpace(suggestion.Section)
			if section == "" {
				section = "general"
			}
			bySection[section] = append(bySection[section], suggestion.Suggestion)
		}
	}

	frequent, err := s.repo.MissingSkillCounts(userID, priorityImprovementCap)
	if err != nil {
		return nil, apperror.Internal("failed to load skill gaps", err)
	}

	priorities := make([]models.PriorityImprovement, 0, len(frequent))
	for _, gap := range frequent {
		impact := "medium"
		if gap.Frequency >= highImpactFrequency {
			impact = "high"
		}
		priorities = append(priorities, models.PriorityImprovement{
			Area:       "Skills",
			Suggestion: "Focus on learning " + gap.Skill,
			Frequency:  gap.Frequency,
			Impact:     impact,
		})
	}

	return &models.ImprovementSuggestions{
		PriorityImprovements:  priorities,
		ResumeImprovements:    bySection,
		OverallRecommendation: overallRecommendation,
	}, nil
}

// trackAfterCommit publishes an event already persisted inside a repository
// transaction.
func trackAfterCommit(publisher EventPublisher, event *models.AnalyticsEvent) {
	if event == nil {
		return
	}
	publisher.Publish(event)
	log.Debugf("📣 Published %s event %s", event.EventType, event.ID)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
