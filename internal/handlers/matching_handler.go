package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/services"
)

type MatchingHandler struct {
	matchingService       services.MatchingService
	recommendationService services.RecommendationService
}

func NewMatchingHandler(
	matchingService services.MatchingService,
	recommendationService services.RecommendationService,
) *MatchingHandler {
	return &MatchingHandler{
		matchingService:       matchingService,
		recommendationService: recommendationService,
	}
}

// HandleAnalyze handles POST /matching/analyze. A new match answers 201, an
// existing one for the same resume and job answers 200.
func (h *MatchingHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.MatchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	// Both IDs passed the uuid validator.
	resumeID := uuid.MustParse(req.ResumeID)
	jobID := uuid.MustParse(req.JobID)

	match, created, err := h.matchingService.Analyze(c.UserContext(), currentUser(c), resumeID, jobID)
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(match)
}

func (h *MatchingHandler) HandleList(c *fiber.Ctx) error {
	matches, err := h.matchingService.List(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(matches)
}

func (h *MatchingHandler) HandleGet(c *fiber.Ctx) error {
	matchID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	match, err := h.matchingService.Get(currentUser(c).ID, matchID)
	if err != nil {
		return err
	}
	return c.JSON(match)
}

// HandleCoverLetter handles POST /matching/:id/cover-letter
func (h *MatchingHandler) HandleCoverLetter(c *fiber.Ctx) error {
	matchID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	letter, err := h.matchingService.GenerateCoverLetter(c.UserContext(), currentUser(c), matchID)
	if err != nil {
		return err
	}
	return c.JSON(models.CoverLetterResponse{CoverLetter: letter})
}

// HandleRecommendations handles GET /matching/recommendations/:resume_id?limit=
func (h *MatchingHandler) HandleRecommendations(c *fiber.Ctx) error {
	resumeID, err := parseUUIDParam(c, "resume_id")
	if err != nil {
		return err
	}

	limit, err := queryInt(c, "limit", services.DefaultRecommendationLimit)
	if err != nil {
		return err
	}

	recommendations, err := h.recommendationService.Recommend(c.UserContext(), currentUser(c).ID, resumeID, limit)
	if err != nil {
		return err
	}
	return c.JSON(recommendations)
}
