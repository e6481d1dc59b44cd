package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/skillsync/internal/config"
	"alfredoptarigan/skillsync/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Email:          email,
		HashedPassword: "x",
		FullName:       "Test " + string(role),
		Role:           role,
		IsActive:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createJob(t *testing.T, db *gorm.DB, recruiter *models.User, title string, active bool) *models.Job {
	t.Helper()
	job := &models.Job{
		RecruiterID:    recruiter.ID,
		Title:          title,
		Company:        "Acme",
		Description:    title + " building backend services",
		Location:       "Remote",
		JobType:        "full-time",
		RequiredSkills: []string{"go", "sql"},
		IsActive:       active,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

func createResume(t *testing.T, db *gorm.DB, owner *models.User, filename string) *models.Resume {
	t.Helper()
	years := 4
	resume := &models.Resume{
		UserID:          owner.ID,
		Title:           "Backend CV",
		Filename:        filename,
		ExtractedText:   "Go developer with SQL experience",
		Skills:          []string{"go"},
		ExperienceYears: &years,
	}
	require.NoError(t, db.Create(resume).Error)
	return resume
}

var errFakeAI = fmt.Errorf("%w: fake outage", ErrAIUnavailable)

// fakeAI is a scripted AIGateway.
type fakeAI struct {
	mu sync.Mutex

	resume      *ResumeAnalysis
	job         *JobAnalysis
	match       *MatchAnalysis
	suggestions []models.ResumeSuggestion
	letter      string
	err         error

	scoreCalls int
}

func (f *fakeAI) AnalyzeResume(ctx context.Context, resumeText string) (*ResumeAnalysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.resume == nil {
		return &ResumeAnalysis{Raw: map[string]any{}}, nil
	}
	return f.resume, nil
}

func (f *fakeAI) AnalyzeJob(ctx context.Context, description string) (*JobAnalysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.job == nil {
		return &JobAnalysis{}, nil
	}
	return f.job, nil
}

func (f *fakeAI) ScoreMatch(ctx context.Context, resume ResumeProfile, job JobProfile) (*MatchAnalysis, error) {
	f.mu.Lock()
	f.scoreCalls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if f.match == nil {
		return &MatchAnalysis{OverallScore: 50}, nil
	}
	copied := *f.match
	return &copied, nil
}

func (f *fakeAI) SuggestImprovements(ctx context.Context, resume ResumeProfile, job JobProfile, analysis *MatchAnalysis) ([]models.ResumeSuggestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.suggestions, nil
}

func (f *fakeAI) WriteCoverLetter(ctx context.Context, resume ResumeProfile, job JobProfile, candidateName string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.letter, nil
}

// fakeLLM replays canned replies in order; once exhausted it repeats the last.
type fakeLLM struct {
	replies []string
	err     error
	calls   int
	prompts []string
}

func (f *fakeLLM) Name() string {
	return "fake"
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("no reply scripted")
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.AnalyticsEvent
}

func (p *recordingPublisher) Publish(event *models.AnalyticsEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}
