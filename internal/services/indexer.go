package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
)

const indexQueueSize = 100

// Indexer keeps the job index in step with the jobs table in the background.
type Indexer interface {
	Start(ctx context.Context)
	Stop()
	// EnqueueJob schedules a (re)index of one job; it never blocks the caller.
	EnqueueJob(jobID uuid.UUID)
	// IndexJob synchronously indexes an active job or removes an inactive or
	// missing one.
	IndexJob(ctx context.Context, jobID uuid.UUID) error
	Enabled() bool
}

type indexer struct {
	jobRepo     repositories.JobRepository
	index       JobIndex
	embedder    Embedder
	chunker     TextChunker
	jobQueue    chan uuid.UUID
	concurrency int
	schedule    string
	cron        *cron.Cron
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewIndexer(
	jobRepo repositories.JobRepository,
	index JobIndex,
	embedder Embedder,
	concurrency int,
	schedule string,
) Indexer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &indexer{
		jobRepo:     jobRepo,
		index:       index,
		embedder:    embedder,
		chunker:     NewTextChunker(),
		jobQueue:    make(chan uuid.UUID, indexQueueSize),
		concurrency: concurrency,
		schedule:    schedule,
		stopChan:    make(chan struct{}),
	}
}

func (w *indexer) Enabled() bool {
	return true
}

func (w *indexer) Start(ctx context.Context) {
	log.Infof("🚀 Starting indexer with %d concurrent workers", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	if w.schedule != "" {
		w.cron = cron.New()
		if _, err := w.cron.AddFunc(w.schedule, w.resync); err != nil {
			log.Warnf("⚠️ Invalid resync schedule %q: %v", w.schedule, err)
		} else {
			w.cron.Start()
		}
	}

	// Catch up on anything created while the process was down.
	go w.resync()

	log.Info("✅ Indexer started successfully")
}

func (w *indexer) Stop() {
	w.stopOnce.Do(func() {
		log.Info("🛑 Stopping indexer...")
		if w.cron != nil {
			<-w.cron.Stop().Done()
		}
		close(w.stopChan)
		w.wg.Wait()
		log.Info("✅ Indexer stopped")
	})
}

func (w *indexer) EnqueueJob(jobID uuid.UUID) {
	select {
	case <-w.stopChan:
		log.Warnf("⚠️ Indexer stopped, cannot enqueue job %s", jobID)
		return
	default:
	}

	select {
	case w.jobQueue <- jobID:
		log.Debugf("📥 Job %s enqueued for indexing", jobID)
	default:
		log.Warnf("⚠️ Index queue full, dropping job %s until next resync", jobID)
	}
}

func (w *indexer) IndexJob(ctx context.Context, jobID uuid.UUID) error {
	job, err := w.jobRepo.FindByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return w.index.DeleteJob(ctx, jobID)
		}
		return err
	}
	if !job.IsActive {
		return w.index.DeleteJob(ctx, jobID)
	}

	chunks := w.chunker.ChunkText(JobDocument(job), defaultChunkSize, defaultChunkOverlap)
	embeddings := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := w.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d of job %s: %w", i, jobID, err)
		}
		embeddings = append(embeddings, embedding)
	}

	return w.index.UpsertJob(ctx, jobID, chunks, embeddings)
}

func (w *indexer) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Debugf("👷 Indexer worker #%d stopped", workerID)
			return
		case jobID := <-w.jobQueue:
			if err := w.IndexJob(ctx, jobID); err != nil {
				log.Errorf("❌ Indexer worker #%d failed to index job %s: %v", workerID, jobID, err)
			} else {
				log.Debugf("✅ Indexer worker #%d indexed job %s", workerID, jobID)
			}
		}
	}
}

func (w *indexer) resync() {
	jobs, err := w.jobRepo.FindAllActive()
	if err != nil {
		log.Warnf("⚠️ Failed to load active jobs for resync: %v", err)
		return
	}

	log.Infof("🔄 Resyncing %d active jobs", len(jobs))
	for _, job := range jobs {
		w.EnqueueJob(job.ID)
	}
}

// JobDocument renders the text that represents a job in the vector index.
func JobDocument(job *models.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s", job.Title, job.Company)
	if job.Location != "" {
		fmt.Fprintf(&b, " (%s)", job.Location)
	}
	if job.JobType != "" {
		fmt.Fprintf(&b, ", %s", job.JobType)
	}
	b.WriteString("\n\n")
	b.WriteString(job.Description)
	if job.Requirements != "" {
		b.WriteString("\n\nRequirements:\n")
		b.WriteString(job.Requirements)
	}
	if len(job.RequiredSkills) > 0 {
		b.WriteString("\n\nRequired skills: ")
		b.WriteString(strings.Join(job.RequiredSkills, ", "))
	}
	if len(job.PreferredSkills) > 0 {
		b.WriteString("\n\nPreferred skills: ")
		b.WriteString(strings.Join(job.PreferredSkills, ", "))
	}
	return b.String()
}

type noopIndexer struct{}

// NewNoopIndexer is used when no vector index is configured.
func NewNoopIndexer() Indexer {
	return noopIndexer{}
}

func (noopIndexer) Start(ctx context.Context) {}

func (noopIndexer) Stop() {}

func (noopIndexer) EnqueueJob(jobID uuid.UUID) {}

func (noopIndexer) IndexJob(ctx context.Context, jobID uuid.UUID) error {
	return nil
}

func (noopIndexer) Enabled() bool {
	return false
}
