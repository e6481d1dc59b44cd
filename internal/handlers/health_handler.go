package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillsync/internal/config"
)

type HealthHandler struct {
	app       config.AppConfig
	env       string
	startedAt time.Time
}

func NewHealthHandler(app config.AppConfig, env string) *HealthHandler {
	return &HealthHandler{
		app:       app,
		env:       env,
		startedAt: time.Now(),
	}
}

func (h *HealthHandler) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": h.app.Name,
		"version": h.app.Version,
		"docs":    "/api/v1",
	})
}

func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"version": h.app.Version,
		"time":    time.Now(),
	})
}

// HandleDebug echoes static metadata plus what the server saw of the request.
func (h *HealthHandler) HandleDebug(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"app":        h.app.Name,
		"version":    h.app.Version,
		"env":        h.env,
		"uptime":     time.Since(h.startedAt).Round(time.Second).String(),
		"method":     c.Method(),
		"path":       c.Path(),
		"ip":         c.IP(),
		"user_agent": c.Get(fiber.HeaderUserAgent),
		"request_id": c.Locals("requestid"),
	})
}
