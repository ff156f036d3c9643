package middleware

import (
	"context"

	"aurum-backend/internal/domain"
	"aurum-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const tenantHeader = "X-Tenant-Id"
const tenantLocal = "tenant"

// TenantResolver validates a tenant identifier and loads its row.
// internal/tenant provides the real implementation.
type TenantResolver interface {
	Resolve(ctx context.Context, tenantID string) (*domain.Tenant, error)
}

// ValidateTenant rejects requests without a valid, active tenant and
// stores the resolved tenant in Locals for downstream handlers.
func ValidateTenant(resolver TenantResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := c.Get(tenantHeader)
		if tenantID == "" {
			return response.Error(c, "Missing tenant ID", fiber.StatusBadRequest, nil)
		}
		tenant, err := resolver.Resolve(c.Context(), tenantID)
		if err != nil {
			if err == domain.ErrTenantInvalid {
				return response.Forbidden(c, domain.ErrTenantInvalid.Error())
			}
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
		c.Locals(tenantLocal, tenant)
		return c.Next()
	}
}

// GetTenant returns the resolved tenant from Locals (nil if absent).
func GetTenant(c *fiber.Ctx) *domain.Tenant {
	if t, ok := c.Locals(tenantLocal).(*domain.Tenant); ok {
		return t
	}
	return nil
}
