package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
	"alfredoptarigan/skillsync/internal/services"
)

type JobHandler struct {
	jobService services.JobService
}

func NewJobHandler(jobService services.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// HandleCreate handles POST /jobs
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.JobCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	job, err := h.jobService.Create(c.UserContext(), currentUser(c), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// HandleList handles GET /jobs?search=&location=&job_type=&skip=&limit=
func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return err
	}
	if skip < 0 {
		return apperror.BadRequest("skip must not be negative")
	}

	limit, err := queryInt(c, "limit", repositories.DefaultJobLimit)
	if err != nil {
		return err
	}
	if limit < 1 || limit > repositories.MaxJobLimit {
		return apperror.BadRequest("limit must be between 1 and 100")
	}

	jobs, err := h.jobService.List(models.JobFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Location: strings.TrimSpace(c.Query("location")),
		JobType:  strings.TrimSpace(c.Query("job_type")),
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(jobs)
}

func (h *JobHandler) HandleMyJobs(c *fiber.Ctx) error {
	jobs, err := h.jobService.ListByRecruiter(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(jobs)
}

func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	job, err := h.jobService.Get(jobID)
	if err != nil {
		return err
	}
	return c.JSON(job)
}

func (h *JobHandler) HandleUpdate(c *fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.JobUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	job, err := h.jobService.Update(currentUser(c).ID, jobID, req)
	if err != nil {
		return err
	}
	return c.JSON(job)
}

func (h *JobHandler) HandleDelete(c *fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.jobService.Delete(currentUser(c).ID, jobID); err != nil {
		return err
	}
	return c.JSON(models.MessageResponse{Message: "Job deleted successfully"})
}
