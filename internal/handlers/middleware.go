package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/services"
)

const userLocalKey = "user"

type AuthMiddleware struct {
	authService services.AuthService
}

func NewAuthMiddleware(authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Protected resolves the bearer token to an active user and stores it in
// the request locals.
func (m *AuthMiddleware) Protected(c *fiber.Ctx) error {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return apperror.Unauthorized("Not authenticated")
	}

	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return apperror.Unauthorized("Could not validate credentials")
	}

	user, err := m.authService.Authenticate(token)
	if err != nil {
		if apperror.IsKind(err, apperror.KindUnauthorized) {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return err
	}

	c.Locals(userLocalKey, user)
	return c.Next()
}

// RequireRecruiter must run after Protected.
func (m *AuthMiddleware) RequireRecruiter(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil || !user.Role.CanRecruit() {
		return apperror.Forbidden("Not enough permissions")
	}
	return c.Next()
}

func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}
