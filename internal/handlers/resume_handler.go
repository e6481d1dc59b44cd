package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/services"
)

type ResumeHandler struct {
	resumeService services.ResumeService
}

func NewResumeHandler(resumeService services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService}
}

// HandleUpload handles POST /resumes/upload with a multipart "file" part and
// a "title" form field (or query parameter).
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		title = strings.TrimSpace(c.Query("title"))
	}
	if title == "" {
		return apperror.BadRequest("title is required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperror.BadRequest("file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperror.BadRequest("failed to read uploaded file")
	}
	defer file.Close()

	resume, err := h.resumeService.Upload(
		c.UserContext(),
		currentUser(c),
		title,
		fileHeader.Filename,
		fileHeader.Size,
		file,
	)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resume)
}

func (h *ResumeHandler) HandleList(c *fiber.Ctx) error {
	resumes, err := h.resumeService.List(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(resumes)
}

func (h *ResumeHandler) HandleGet(c *fiber.Ctx) error {
	resumeID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	resume, err := h.resumeService.Get(currentUser(c).ID, resumeID)
	if err != nil {
		return err
	}
	return c.JSON(resume)
}

func (h *ResumeHandler) HandleUpdate(c *fiber.Ctx) error {
	resumeID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.ResumeUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resume, err := h.resumeService.Update(currentUser(c).ID, resumeID, req)
	if err != nil {
		return err
	}
	return c.JSON(resume)
}

func (h *ResumeHandler) HandleDelete(c *fiber.Ctx) error {
	resumeID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.resumeService.Delete(c.UserContext(), currentUser(c).ID, resumeID); err != nil {
		return err
	}
	return c.JSON(models.MessageResponse{Message: "Resume deleted successfully"})
}
