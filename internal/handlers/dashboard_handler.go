package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillsync/internal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// HandleCandidates handles GET /dashboard/candidates/:job_id?min_score=&limit=
func (h *DashboardHandler) HandleCandidates(c *fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "job_id")
	if err != nil {
		return err
	}

	minScore, err := queryFloat(c, "min_score", 0)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", services.DefaultCandidateLimit)
	if err != nil {
		return err
	}

	candidates, err := h.dashboardService.Candidates(currentUser(c).ID, jobID, minScore, limit)
	if err != nil {
		return err
	}
	return c.JSON(candidates)
}

func (h *DashboardHandler) HandleJobStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.JobStats(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *DashboardHandler) HandleOverview(c *fiber.Ctx) error {
	overview, err := h.dashboardService.Overview(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(overview)
}
