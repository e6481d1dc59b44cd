package services

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
)

func TestTopJobPrefersHighestCountThenStoreOrder(t *testing.T) {
	first, second, third := uuid.New(), uuid.New(), uuid.New()

	top := topJob([]models.JobStats{
		{JobID: first, JobTitle: "First", TotalMatches: 2, AvgMatchScore: 70},
		{JobID: second, JobTitle: "Second", TotalMatches: 3, AvgMatchScore: 81.456},
		{JobID: third, JobTitle: "Third", TotalMatches: 3, AvgMatchScore: 90},
	})

	require.NotNil(t, top.JobID)
	assert.Equal(t, second, *top.JobID)
	assert.Equal(t, "Second", *top.Title)
	assert.Equal(t, int64(3), top.MatchCount)
	assert.Equal(t, 81.46, top.AvgScore)
}

func TestTopJobEmpty(t *testing.T) {
	top := topJob(nil)
	assert.Nil(t, top.JobID)
	assert.Nil(t, top.Title)
	assert.Zero(t, top.MatchCount)
}

type dashboardFixture struct {
	db        *gorm.DB
	service   DashboardService
	recruiter *models.User
	first     *models.Job
	second    *models.Job
	closed    *models.Job
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()

	db := newTestDB(t)
	recruiter := createUser(t, db, "rec@example.com", models.RoleRecruiter)
	base := time.Now().Add(-30 * 24 * time.Hour)

	first := createJob(t, db, recruiter, "First", true)
	second := createJob(t, db, recruiter, "Second", true)
	closed := createJob(t, db, recruiter, "Closed", false)
	for i, job := range []*models.Job{first, second, closed} {
		require.NoError(t, db.Model(job).UpdateColumn("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}

	addMatch := func(job *models.Job, email string, score float64, age time.Duration) {
		applicant := createUser(t, db, email, models.RoleApplicant)
		resume := createResume(t, db, applicant, email+".txt")
		match := &models.Match{UserID: applicant.ID, ResumeID: resume.ID, JobID: job.ID, MatchScore: score}
		require.NoError(t, db.Create(match).Error)
		if age > 0 {
			require.NoError(t, db.Model(match).UpdateColumn("created_at", time.Now().Add(-age)).Error)
		}
	}
	// Two matches each: the tie goes to the job created first.
	addMatch(first, "a@example.com", 90, 0)
	addMatch(first, "b@example.com", 75.5, 0)
	addMatch(second, "c@example.com", 60, 10*24*time.Hour)
	addMatch(second, "d@example.com", 65, 0)

	return &dashboardFixture{
		db:        db,
		service:   NewDashboardService(repositories.NewDashboardRepository(db), repositories.NewJobRepository(db)),
		recruiter: recruiter,
		first:     first,
		second:    second,
		closed:    closed,
	}
}

func TestDashboardOverview(t *testing.T) {
	f := newDashboardFixture(t)

	overview, err := f.service.Overview(f.recruiter.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(3), overview.TotalJobs)
	assert.Equal(t, int64(2), overview.ActiveJobs)
	assert.Equal(t, int64(4), overview.TotalMatches)
	assert.Equal(t, int64(1), overview.HighQualityMatches)
	assert.Equal(t, int64(3), overview.RecentMatches)

	require.NotNil(t, overview.TopPerformingJob.JobID)
	assert.Equal(t, f.first.ID, *overview.TopPerformingJob.JobID)
	assert.Equal(t, int64(2), overview.TopPerformingJob.MatchCount)
	assert.Equal(t, 82.75, overview.TopPerformingJob.AvgScore)
}

func TestDashboardOverviewWithoutJobs(t *testing.T) {
	f := newDashboardFixture(t)
	newcomer := createUser(t, f.db, "new@example.com", models.RoleRecruiter)

	overview, err := f.service.Overview(newcomer.ID)
	require.NoError(t, err)
	assert.Zero(t, overview.TotalJobs)
	assert.Nil(t, overview.TopPerformingJob.JobID)
}

func TestDashboardJobStats(t *testing.T) {
	f := newDashboardFixture(t)

	stats, err := f.service.JobStats(f.recruiter.ID)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, f.first.ID, stats[0].JobID)
	assert.Equal(t, int64(2), stats[0].TotalMatches)
	assert.Equal(t, 82.75, stats[0].AvgMatchScore)
	assert.Equal(t, 90.0, stats[0].BestMatchScore)

	assert.Equal(t, f.second.ID, stats[1].JobID)
	assert.Equal(t, 62.5, stats[1].AvgMatchScore)

	assert.Equal(t, f.closed.ID, stats[2].JobID)
	assert.Zero(t, stats[2].TotalMatches)
	assert.Zero(t, stats[2].AvgMatchScore)
}

func TestDashboardCandidates(t *testing.T) {
	f := newDashboardFixture(t)

	list, err := f.service.Candidates(f.recruiter.ID, f.first.ID, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, "First", list.JobTitle)
	require.Equal(t, 2, list.TotalCandidates)
	assert.Equal(t, 90.0, list.Candidates[0].MatchScore)
	assert.Equal(t, "a@example.com", list.Candidates[0].CandidateEmail)
	assert.Equal(t, []string{"go"}, []string(list.Candidates[0].Skills))
	assert.Equal(t, 75.5, list.Candidates[1].MatchScore)

	filtered, err := f.service.Candidates(f.recruiter.ID, f.first.ID, 80, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.TotalCandidates)

	limited, err := f.service.Candidates(f.recruiter.ID, f.first.ID, 0, 1)
	require.NoError(t, err)
	assert.Len(t, limited.Candidates, 1)
}

func TestDashboardCandidatesValidation(t *testing.T) {
	f := newDashboardFixture(t)

	_, err := f.service.Candidates(f.recruiter.ID, f.first.ID, 101, 50)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))

	_, err = f.service.Candidates(f.recruiter.ID, f.first.ID, math.NaN(), 50)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))

	_, err = f.service.Candidates(f.recruiter.ID, f.first.ID, 0, 0)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))

	_, err = f.service.Candidates(f.recruiter.ID, f.first.ID, 0, 101)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))

	other := createUser(t, f.db, "other@example.com", models.RoleRecruiter)
	_, err = f.service.Candidates(other.ID, f.first.ID, 0, 50)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
