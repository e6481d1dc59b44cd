package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
)

type matchingFixture struct {
	db        *gorm.DB
	ai        *fakeAI
	publisher *recordingPublisher
	service   MatchingService
	applicant *models.User
	resume    *models.Resume
	job       *models.Job
}

func newMatchingFixture(t *testing.T) *matchingFixture {
	t.Helper()

	db := newTestDB(t)
	ai := &fakeAI{
		match: &MatchAnalysis{
			OverallScore:         78,
			SkillMatchScore:      80,
			ExperienceMatchScore: 70,
			EducationMatchScore:  90,
			MissingSkills: []MissingSkill{
				{Skill: "kubernetes", Importance: "required", Suggestion: "Run a cluster at home"},
				{Skill: "graphql", Importance: "preferred"},
			},
			Strengths:       []string{"Go"},
			Weaknesses:      []string{"No cloud experience"},
			OverallFeedback: "Good fit",
		},
		suggestions: []models.ResumeSuggestion{{Section: "skills", Suggestion: "Mention Kubernetes"}},
		letter:      "Dear hiring manager,",
	}
	publisher := &recordingPublisher{}

	service := NewMatchingService(
		repositories.NewMatchRepository(db),
		repositories.NewResumeRepository(db),
		repositories.NewJobRepository(db),
		ai,
		publisher,
	)

	applicant := createUser(t, db, "applicant@example.com", models.RoleApplicant)
	recruiter := createUser(t, db, "recruiter@example.com", models.RoleRecruiter)

	return &matchingFixture{
		db:        db,
		ai:        ai,
		publisher: publisher,
		service:   service,
		applicant: applicant,
		resume:    createResume(t, db, applicant, "cv.txt"),
		job:       createJob(t, db, recruiter, "Backend Engineer", true),
	}
}

func (f *matchingFixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func TestAnalyzeCreatesMatchWithSkillGapsAndEvent(t *testing.T) {
	f := newMatchingFixture(t)

	match, created, err := f.service.Analyze(context.Background(), f.applicant, f.resume.ID, f.job.ID)
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, 78.0, match.MatchScore)
	assert.GreaterOrEqual(t, match.MatchScore, 0.0)
	assert.LessOrEqual(t, match.MatchScore, 100.0)
	require.Len(t, match.SkillGaps, 2)
	assert.Equal(t, models.ImportanceRequired, match.SkillGaps[0].Importance)
	require.Len(t, match.ResumeSuggestions, 1)

	stored, err := f.service.Get(f.applicant.ID, match.ID)
	require.NoError(t, err)
	assert.Len(t, stored.SkillGaps, 2)
	assert.Equal(t, []string{"Go"}, []string(stored.Strengths))

	var event models.AnalyticsEvent
	require.NoError(t, f.db.Where("event_type = ?", models.EventJobMatch).First(&event).Error)
	assert.Equal(t, match.ID.String(), event.EventData["match_id"])
	require.NotNil(t, event.ImprovementScore)
	assert.Equal(t, 78.0, *event.ImprovementScore)
	assert.Equal(t, []string{models.EventJobMatch}, f.publisher.types())
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	f := newMatchingFixture(t)
	ctx := context.Background()

	first, created, err := f.service.Analyze(ctx, f.applicant, f.resume.ID, f.job.ID)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := f.service.Analyze(ctx, f.applicant, f.resume.ID, f.job.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.SkillGaps, 2)

	assert.Equal(t, 1, f.ai.scoreCalls, "an existing match must not be re-scored")
	assert.Equal(t, int64(1), f.count(t, &models.Match{}))
	assert.Equal(t, int64(2), f.count(t, &models.SkillGap{}))
	assert.Equal(t, int64(1), f.count(t, &models.AnalyticsEvent{}))
}

func TestAnalyzeAIFailureCreatesNothing(t *testing.T) {
	f := newMatchingFixture(t)
	f.ai.err = errFakeAI

	_, _, err := f.service.Analyze(context.Background(), f.applicant, f.resume.ID, f.job.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindBadGateway))
	assert.ErrorIs(t, err, ErrAIUnavailable)

	assert.Zero(t, f.count(t, &models.Match{}))
	assert.Zero(t, f.count(t, &models.SkillGap{}))
	assert.Zero(t, f.count(t, &models.AnalyticsEvent{}))
	assert.Empty(t, f.publisher.types())
}

func TestAnalyzeNotFoundCases(t *testing.T) {
	f := newMatchingFixture(t)
	ctx := context.Background()

	stranger := createUser(t, f.db, "stranger@example.com", models.RoleApplicant)
	_, _, err := f.service.Analyze(ctx, stranger, f.resume.ID, f.job.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound), "someone else's resume")

	_, _, err = f.service.Analyze(ctx, f.applicant, f.resume.ID, uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound), "unknown job")

	recruiter := createUser(t, f.db, "closed@example.com", models.RoleRecruiter)
	closed := createJob(t, f.db, recruiter, "Closed role", false)
	_, _, err = f.service.Analyze(ctx, f.applicant, f.resume.ID, closed.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound), "inactive job")

	assert.Zero(t, f.ai.scoreCalls)
}

func TestGenerateCoverLetter(t *testing.T) {
	f := newMatchingFixture(t)
	ctx := context.Background()

	match, _, err := f.service.Analyze(ctx, f.applicant, f.resume.ID, f.job.ID)
	require.NoError(t, err)

	letter, err := f.service.GenerateCoverLetter(ctx, f.applicant, match.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dear hiring manager,", letter)

	stored, err := f.service.Get(f.applicant.ID, match.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CoverLetter)
	assert.Equal(t, letter, *stored.CoverLetter)
	assert.Equal(t, []string{models.EventJobMatch, models.EventCoverLetterGenerate}, f.publisher.types())

	stranger := createUser(t, f.db, "stranger@example.com", models.RoleApplicant)
	_, err = f.service.GenerateCoverLetter(ctx, stranger, match.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestGenerateCoverLetterAIFailure(t *testing.T) {
	f := newMatchingFixture(t)
	ctx := context.Background()

	match, _, err := f.service.Analyze(ctx, f.applicant, f.resume.ID, f.job.ID)
	require.NoError(t, err)

	f.ai.err = errFakeAI
	_, err = f.service.GenerateCoverLetter(ctx, f.applicant, match.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindBadGateway))

	stored, err := f.service.Get(f.applicant.ID, match.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CoverLetter)
	assert.Equal(t, int64(1), f.count(t, &models.AnalyticsEvent{}))
}

func TestListMatchesOnlyReturnsOwn(t *testing.T) {
	f := newMatchingFixture(t)

	_, _, err := f.service.Analyze(context.Background(), f.applicant, f.resume.ID, f.job.ID)
	require.NoError(t, err)

	mine, err := f.service.List(f.applicant.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.service.List(uuid.New())
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
