package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
)

type fakeIndex struct {
	mu       sync.Mutex
	hits     []JobHit
	limit    int
	upserted map[uuid.UUID][]string
	deleted  []uuid.UUID
}

func (f *fakeIndex) InitCollection(ctx context.Context) error {
	return nil
}

func (f *fakeIndex) UpsertJob(ctx context.Context, jobID uuid.UUID, chunks []string, embeddings [][]float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(chunks) != len(embeddings) {
		return errors.New("chunk and embedding counts differ")
	}
	if f.upserted == nil {
		f.upserted = make(map[uuid.UUID][]string)
	}
	f.upserted[jobID] = chunks
	return nil
}

func (f *fakeIndex) DeleteJob(ctx context.Context, jobID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, jobID)
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, embedding []float32, limit int) ([]JobHit, error) {
	f.limit = limit
	return f.hits, nil
}

type fakeEmbedder struct {
	err   error
	texts []string
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func TestRecommendDisabledWithoutIndex(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecommendationService(repositories.NewResumeRepository(db), repositories.NewJobRepository(db), nil, nil)

	_, err := svc.Recommend(context.Background(), uuid.New(), uuid.New(), 5)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
}

func TestRecommendRanksActiveJobsOncePerJob(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "applicant@example.com", models.RoleApplicant)
	recruiter := createUser(t, db, "rec@example.com", models.RoleRecruiter)
	resume := createResume(t, db, user, "cv.txt")

	first := createJob(t, db, recruiter, "Platform Engineer", true)
	second := createJob(t, db, recruiter, "Backend Engineer", true)
	closed := createJob(t, db, recruiter, "Closed Role", false)
	third := createJob(t, db, recruiter, "Data Engineer", true)

	index := &fakeIndex{hits: []JobHit{
		{JobID: second.ID, Score: 0.95},
		{JobID: closed.ID, Score: 0.93},
		{JobID: second.ID, Score: 0.90},
		{JobID: uuid.New(), Score: 0.88},
		{JobID: first.ID, Score: 0.85},
		{JobID: third.ID, Score: 0.80},
	}}
	embedder := &fakeEmbedder{}
	svc := NewRecommendationService(repositories.NewResumeRepository(db), repositories.NewJobRepository(db), index, embedder)

	recs, err := svc.Recommend(context.Background(), user.ID, resume.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, 2*recommendationOverfetch, index.limit)
	require.Len(t, recs, 2)
	assert.Equal(t, second.ID, recs[0].Job.ID)
	assert.Equal(t, float32(0.95), recs[0].Score)
	assert.Equal(t, first.ID, recs[1].Job.ID)
	require.Len(t, embedder.texts, 1)
	assert.Contains(t, embedder.texts[0], "go")

	all, err := svc.Recommend(context.Background(), user.ID, resume.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultRecommendationLimit*recommendationOverfetch, index.limit)
	assert.Len(t, all, 3)

	_, err = svc.Recommend(context.Background(), user.ID, resume.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, MaxRecommendationLimit*recommendationOverfetch, index.limit)
}

func TestRecommendErrors(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "applicant@example.com", models.RoleApplicant)
	other := createUser(t, db, "other@example.com", models.RoleApplicant)
	resume := createResume(t, db, user, "cv.txt")

	embedder := &fakeEmbedder{}
	svc := NewRecommendationService(repositories.NewResumeRepository(db), repositories.NewJobRepository(db), &fakeIndex{}, embedder)

	_, err := svc.Recommend(context.Background(), other.ID, resume.ID, 5)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	embedder.err = errFakeAI
	_, err = svc.Recommend(context.Background(), user.ID, resume.ID, 5)
	assert.True(t, apperror.IsKind(err, apperror.KindBadGateway))
}
