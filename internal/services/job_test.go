package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
)

type recordingIndexer struct {
	mu       sync.Mutex
	enqueued []uuid.UUID
}

func (r *recordingIndexer) Start(ctx context.Context) {}

func (r *recordingIndexer) Stop() {}

func (r *recordingIndexer) EnqueueJob(jobID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enqueued = append(r.enqueued, jobID)
}

func (r *recordingIndexer) IndexJob(ctx context.Context, jobID uuid.UUID) error {
	return nil
}

func (r *recordingIndexer) Enabled() bool {
	return true
}

func TestCreateJobUsesAnalysis(t *testing.T) {
	db := newTestDB(t)
	recruiter := createUser(t, db, "rec@example.com", models.RoleRecruiter)
	level := "senior"
	jobType := "contract"
	ai := &fakeAI{job: &JobAnalysis{
		RequiredSkills:  []string{"go", "kafka"},
		ExperienceLevel: &level,
		JobType:         &jobType,
	}}
	indexer := &recordingIndexer{}
	svc := NewJobService(repositories.NewJobRepository(db), ai, indexer)

	job, err := svc.Create(context.Background(), recruiter, models.JobCreateRequest{
		Title:           " Platform Engineer ",
		Company:         "Acme",
		Description:     "Build streaming pipelines",
		JobType:         "full-time",
		RequiredSkills:  []string{"go"},
		PreferredSkills: []string{"rust"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Platform Engineer", job.Title)
	assert.True(t, job.IsActive)
	assert.Equal(t, []string{"go", "kafka"}, []string(job.RequiredSkills))
	assert.Equal(t, []string{"rust"}, []string(job.PreferredSkills), "omitted by the model, kept from the request")
	assert.Equal(t, "senior", job.ExperienceLevel)
	assert.Equal(t, "full-time", job.JobType, "caller's job type wins")
	assert.Equal(t, []uuid.UUID{job.ID}, indexer.enqueued)
}

func TestCreateJobFallsBackWhenAIUnavailable(t *testing.T) {
	db := newTestDB(t)
	recruiter := createUser(t, db, "rec@example.com", models.RoleRecruiter)
	svc := NewJobService(repositories.NewJobRepository(db), &fakeAI{err: errFakeAI}, NewNoopIndexer())

	job, err := svc.Create(context.Background(), recruiter, models.JobCreateRequest{
		Title:          "Data Engineer",
		Company:        "Acme",
		Description:    "Pipelines",
		RequiredSkills: []string{"python"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, []string(job.RequiredSkills))
}

func TestJobListNeverReturnsInactiveJobs(t *testing.T) {
	db := newTestDB(t)
	recruiter := createUser(t, db, "rec@example.com", models.RoleRecruiter)
	open := createJob(t, db, recruiter, "Go Engineer", true)
	createJob(t, db, recruiter, "Go Engineer (closed)", false)

	svc := NewJobService(repositories.NewJobRepository(db), &fakeAI{}, NewNoopIndexer())

	filters := []models.JobFilter{
		{},
		{Search: "go"},
		{Search: "ENGINEER"},
		{Location: "remote"},
		{JobType: "full-time"},
		{Search: "closed"},
		{Search: "go", Location: "Remote", JobType: "full-time", Limit: 100},
	}
	for _, filter := range filters {
		jobs, err := svc.List(filter)
		require.NoError(t, err)
		for _, job := range jobs {
			assert.True(t, job.IsActive, "filter %+v returned inactive job %s", filter, job.Title)
			assert.Equal(t, open.ID, job.ID)
		}
	}

	jobs, err := svc.List(models.JobFilter{Search: "closed"})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, err = svc.Get(open.ID)
	assert.NoError(t, err)
}

func TestJobListSearchTreatsWildcardsLiterally(t *testing.T) {
	db := newTestDB(t)
	recruiter := createUser(t, db, "rec@example.com", models.RoleRecruiter)
	createJob(t, db, recruiter, "Growth Lead", true)
	createJob(t, db, recruiter, "100% Remote SRE", true)

	svc := NewJobService(repositories.NewJobRepository(db), &fakeAI{}, NewNoopIndexer())

	jobs, err := svc.List(models.JobFilter{Search: "%"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "100% Remote SRE", jobs[0].Title)

	jobs, err = svc.List(models.JobFilter{Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestJobOwnership(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner@example.com", models.RoleRecruiter)
	other := createUser(t, db, "other@example.com", models.RoleRecruiter)
	job := createJob(t, db, owner, "Backend Engineer", true)

	indexer := &recordingIndexer{}
	svc := NewJobService(repositories.NewJobRepository(db), &fakeAI{}, indexer)

	title := "Hijacked"
	_, err := svc.Update(other.ID, job.ID, models.JobUpdateRequest{Title: &title})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.True(t, apperror.IsKind(svc.Delete(other.ID, job.ID), apperror.KindNotFound))

	inactive := false
	updated, err := svc.Update(owner.ID, job.ID, models.JobUpdateRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.Get(job.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound), "inactive jobs are hidden")

	mine, err := svc.ListByRecruiter(owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1, "owners still see their inactive jobs")

	require.NoError(t, svc.Delete(owner.ID, job.ID))
	assert.Equal(t, []uuid.UUID{job.ID, job.ID}, indexer.enqueued)
}

func TestUpdateJobRejectsBlankTitleAndCompany(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner@example.com", models.RoleRecruiter)
	job := createJob(t, db, owner, "Backend Engineer", true)

	indexer := &recordingIndexer{}
	svc := NewJobService(repositories.NewJobRepository(db), &fakeAI{}, indexer)

	blank := " \t "
	_, err := svc.Update(owner.ID, job.ID, models.JobUpdateRequest{Title: &blank})
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
	_, err = svc.Update(owner.ID, job.ID, models.JobUpdateRequest{Company: &blank})
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))

	stored, err := repositories.NewJobRepository(db).FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", stored.Title)
	assert.Equal(t, "Acme", stored.Company)
	assert.Empty(t, indexer.enqueued)

	title := "  Staff Engineer  "
	updated, err := svc.Update(owner.ID, job.ID, models.JobUpdateRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", updated.Title)
}
