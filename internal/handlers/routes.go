package handlers

import "github.com/gofiber/fiber/v2"

type Handlers struct {
	Auth      *AuthMiddleware
	AuthAPI   *AuthHandler
	Resumes   *ResumeHandler
	Jobs      *JobHandler
	Matching  *MatchingHandler
	Dashboard *DashboardHandler
	Analytics *AnalyticsHandler
	Health    *HealthHandler
}

// RegisterRoutes mounts every endpoint on app.
func RegisterRoutes(app *fiber.App, h Handlers) {
	app.Get("/", h.Health.HandleRoot)
	app.Get("/health", h.Health.HandleHealth)
	app.Get("/debug", h.Health.HandleDebug)

	api := app.Group("/api/v1")
	api.Get("/health", h.Health.HandleHealth)

	protected := h.Auth.Protected
	recruiter := h.Auth.RequireRecruiter

	auth := api.Group("/auth")
	auth.Post("/register", h.AuthAPI.HandleRegister)
	auth.Post("/login", h.AuthAPI.HandleLogin)
	auth.Get("/me", protected, h.AuthAPI.HandleMe)
	auth.Put("/me", protected, h.AuthAPI.HandleUpdateMe)

	resumes := api.Group("/resumes", protected)
	resumes.Post("/upload", h.Resumes.HandleUpload)
	resumes.Get("/", h.Resumes.HandleList)
	resumes.Get("/:id", h.Resumes.HandleGet)
	resumes.Put("/:id", h.Resumes.HandleUpdate)
	resumes.Delete("/:id", h.Resumes.HandleDelete)

	// my-jobs is registered before /:id so it is not parsed as an ID.
	jobs := api.Group("/jobs")
	jobs.Get("/", h.Jobs.HandleList)
	jobs.Post("/", protected, recruiter, h.Jobs.HandleCreate)
	jobs.Get("/my-jobs", protected, recruiter, h.Jobs.HandleMyJobs)
	jobs.Get("/:id", h.Jobs.HandleGet)
	jobs.Put("/:id", protected, recruiter, h.Jobs.HandleUpdate)
	jobs.Delete("/:id", protected, recruiter, h.Jobs.HandleDelete)

	matching := api.Group("/matching", protected)
	matching.Post("/analyze", h.Matching.HandleAnalyze)
	matching.Get("/", h.Matching.HandleList)
	matching.Get("/recommendations/:resume_id", h.Matching.HandleRecommendations)
	matching.Get("/:id", h.Matching.HandleGet)
	matching.Post("/:id/cover-letter", h.Matching.HandleCoverLetter)

	dashboard := api.Group("/dashboard", protected, recruiter)
	dashboard.Get("/candidates/:job_id", h.Dashboard.HandleCandidates)
	dashboard.Get("/jobs/stats", h.Dashboard.HandleJobStats)
	dashboard.Get("/overview", h.Dashboard.HandleOverview)

	analytics := api.Group("/analytics", protected)
	analytics.Get("/user-stats", h.Analytics.HandleUserStats)
	analytics.Get("/skill-gaps", h.Analytics.HandleSkillGaps)
	analytics.Get("/improvement-suggestions", h.Analytics.HandleImprovementSuggestions)
	analytics.Post("/track-event", h.Analytics.HandleTrackEvent)
}
