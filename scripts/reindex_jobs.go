package main

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"alfredoptarigan/skillsync/internal/config"
	"alfredoptarigan/skillsync/internal/logger"
	"alfredoptarigan/skillsync/internal/repositories"
	"alfredoptarigan/skillsync/internal/services"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Log)
	log.Println("🚀 Starting job reindex...")

	if !cfg.Qdrant.Enabled() {
		log.Fatal("❌ QDRANT_URL is not set")
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	jobRepo := repositories.NewJobRepository(db)

	gemini, err := services.NewGeminiClient(cfg.AI.GeminiAPIKey, "")
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	index, err := services.NewQdrantJobIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	ctx := context.Background()
	if err := index.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	jobs, err := jobRepo.FindAllActive()
	if err != nil {
		log.Fatalf("❌ Failed to load jobs: %v", err)
	}

	// The indexer is used synchronously here; no workers are started.
	indexer := services.NewIndexer(jobRepo, index, gemini, 1, "")

	start := time.Now()
	failed := 0
	for i, job := range jobs {
		log.Printf("📥 [%d/%d] Indexing %s (%s)", i+1, len(jobs), job.Title, job.ID)
		if err := indexer.IndexJob(ctx, job.ID); err != nil {
			failed++
			log.Errorf("❌ Failed to index job %s: %v", job.ID, err)
			continue
		}
		// Stay under the embedding API quota.
		time.Sleep(500 * time.Millisecond)
	}

	log.Printf("✅ Reindex finished in %s: %d indexed, %d failed", time.Since(start).Round(time.Second), len(jobs)-failed, failed)
}
