package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"

	"alfredoptarigan/skillsync/internal/config"
	"alfredoptarigan/skillsync/internal/handlers"
	"alfredoptarigan/skillsync/internal/logger"
	"alfredoptarigan/skillsync/internal/repositories"
	"alfredoptarigan/skillsync/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Setup(cfg.Log)
	log.Println("✅ Config loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	matchRepo := repositories.NewMatchRepository(db)
	analyticsRepo := repositories.NewAnalyticsRepository(db)
	dashboardRepo := repositories.NewDashboardRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage
	storage, err := services.NewStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to initialize storage: %v", err)
	}
	if err := storage.EnsureReady(ctx); err != nil {
		log.Fatalf("❌ Failed to prepare %s storage: %v", storage.Backend(), err)
	}
	log.Printf("✅ Storage initialized (%s)", storage.Backend())

	// Initialize AI provider
	llm, err := services.NewLLMClient(cfg.AI)
	if err != nil {
		log.Warnf("⚠️ AI provider unavailable, analysis features are disabled: %v", err)
		llm = services.NewDisabledLLM(err.Error())
	} else {
		log.Printf("✅ AI provider initialized (%s)", llm.Name())
	}
	aiGateway := services.NewAIGateway(llm, cfg.AI.RequestsPerSecond, cfg.AI.MaxRetries)

	// Initialize event publisher
	publisher := services.NewNoopPublisher()
	if cfg.Events.RabbitMQURL != "" {
		amqpPublisher, err := services.NewAMQPPublisher(cfg.Events.RabbitMQURL, cfg.Events.Exchange)
		if err != nil {
			log.Warnf("⚠️ RabbitMQ unavailable, analytics events stay local: %v", err)
		} else {
			publisher = amqpPublisher
			log.Println("✅ RabbitMQ publisher initialized")
		}
	}

	// Initialize job index
	indexer := services.NewNoopIndexer()
	var (
		jobIndex services.JobIndex
		embedder services.Embedder
	)
	if cfg.Qdrant.Enabled() {
		jobIndex, embedder, err = initJobIndex(ctx, cfg)
		if err != nil {
			log.Warnf("⚠️ Job recommendations disabled: %v", err)
			jobIndex, embedder = nil, nil
		} else {
			indexer = services.NewIndexer(jobRepo, jobIndex, embedder, cfg.Indexer.Concurrency, cfg.Indexer.ResyncSchedule)
			log.Println("✅ Qdrant job index initialized")
		}
	}
	indexer.Start(ctx)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	analyticsService := services.NewAnalyticsService(analyticsRepo, publisher)
	resumeService := services.NewResumeService(
		resumeRepo,
		storage,
		services.NewTextExtractor(),
		aiGateway,
		analyticsService,
		services.UploadLimits{
			MaxFileSize:       cfg.Storage.MaxFileSize,
			AllowedExtensions: cfg.Storage.AllowedExtensions,
		},
	)
	jobService := services.NewJobService(jobRepo, aiGateway, indexer)
	matchingService := services.NewMatchingService(matchRepo, resumeRepo, jobRepo, aiGateway, publisher)
	recommendationService := services.NewRecommendationService(resumeRepo, jobRepo, jobIndex, embedder)
	dashboardService := services.NewDashboardService(dashboardRepo, jobRepo)
	log.Println("✅ Services initialized successfully")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	handlers.RegisterRoutes(app, handlers.Handlers{
		Auth:      handlers.NewAuthMiddleware(authService),
		AuthAPI:   handlers.NewAuthHandler(authService),
		Resumes:   handlers.NewResumeHandler(resumeService),
		Jobs:      handlers.NewJobHandler(jobService),
		Matching:  handlers.NewMatchingHandler(matchingService, recommendationService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Analytics: handlers.NewAnalyticsHandler(analyticsService),
		Health:    handlers.NewHealthHandler(cfg.App, cfg.Server.Env),
	})
	log.Println("✅ Handlers initialized")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("🛑 Shutting down server...")
		cancel()
		indexer.Stop()
		if err := publisher.Close(); err != nil {
			log.Warnf("⚠️ Failed to close event publisher: %v", err)
		}
		if err := app.Shutdown(); err != nil {
			log.Errorf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initJobIndex connects to Qdrant and builds the Gemini embedder used for
// job recommendations.
func initJobIndex(ctx context.Context, cfg *config.Config) (services.JobIndex, services.Embedder, error) {
	embedder, err := services.NewGeminiClient(cfg.AI.GeminiAPIKey, "")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Gemini embeddings: %w", err)
	}

	index, err := services.NewQdrantJobIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		return nil, nil, err
	}
	if err := index.InitCollection(ctx); err != nil {
		return nil, nil, err
	}

	return index, embedder, nil
}
