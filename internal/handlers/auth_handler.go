package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Login(req)
	if err != nil {
		return err
	}

	return c.JSON(token)
}

func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

func (h *AuthHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var req models.UserUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(currentUser(c), req)
	if err != nil {
		return err
	}

	return c.JSON(user)
}
