package user

import (
	"aurum-backend/internal/middleware"
	"aurum-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct{}

// Profile GET /api/v1/user/profile
func (h *Handlers) Profile(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	return response.Success(c, "User profile", fiber.Map{"user": user}, nil)
}
