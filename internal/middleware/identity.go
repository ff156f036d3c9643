package middleware

import (
	"context"

	"aurum-backend/internal/domain"
	"aurum-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userIDHeader = "X-User-Id"
const userLocal = "user"

// UserLoader fetches a user row within a tenant. The gateway in front
// of this service has already authenticated the caller; the header
// carries a pre-validated user ID.
type UserLoader interface {
	Load(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error)
}

// Identity loads the calling user into Locals. Users are always looked
// up inside the resolved tenant, so a valid user ID from another
// tenant comes back as not found.
func Identity(loader UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant := GetTenant(c)
		if tenant == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		userID, err := uuid.Parse(c.Get(userIDHeader))
		if err != nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		user, err := loader.Load(c.Context(), tenant.TenantID, userID)
		if err != nil {
			if err == domain.ErrUserNotFound {
				return response.Unauthorized(c, "Unauthorized")
			}
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
		c.Locals(userLocal, user)
		return c.Next()
	}
}

// RequireAdmin guards admin-only routes. Runs after Identity.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if user.Role != domain.RoleAdmin {
			return response.Forbidden(c, domain.ErrAdminRequired.Error())
		}
		return c.Next()
	}
}

// GetUser returns the calling user from Locals (nil if not loaded).
func GetUser(c *fiber.Ctx) *domain.User {
	if u, ok := c.Locals(userLocal).(*domain.User); ok {
		return u
	}
	return nil
}
