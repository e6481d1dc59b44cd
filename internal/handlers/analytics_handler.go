package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// HandleUserStats handles GET /analytics/user-stats?days=
func (h *AnalyticsHandler) HandleUserStats(c *fiber.Ctx) error {
	days, err := queryInt(c, "days", services.DefaultStatsDays)
	if err != nil {
		return err
	}

	stats, err := h.analyticsService.UserStats(currentUser(c).ID, days)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *AnalyticsHandler) HandleSkillGaps(c *fiber.Ctx) error {
	gaps, err := h.analyticsService.SkillGaps(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(gaps)
}

func (h *AnalyticsHandler) HandleImprovementSuggestions(c *fiber.Ctx) error {
	suggestions, err := h.analyticsService.ImprovementSuggestions(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(suggestions)
}

// HandleTrackEvent handles POST /analytics/track-event
func (h *AnalyticsHandler) HandleTrackEvent(c *fiber.Ctx) error {
	var req models.TrackEventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	event, err := h.analyticsService.TrackEvent(c.UserContext(), currentUser(c).ID, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Event tracked successfully",
		"event_id": event.ID,
	})
}
