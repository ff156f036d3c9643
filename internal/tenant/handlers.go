package tenant

import (
	"encoding/json"

	"aurum-backend/internal/middleware"
	"aurum-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct{}

// Config GET /api/v1/tenant/config — returns the resolved tenant's
// brand/feature configuration.
func (h *Handlers) Config(c *fiber.Ctx) error {
	tenant := middleware.GetTenant(c)
	if tenant == nil {
		return response.Error(c, "Missing tenant ID", fiber.StatusBadRequest, nil)
	}

	var brand map[string]interface{}
	if len(tenant.BrandConfig) > 0 {
		_ = json.Unmarshal(tenant.BrandConfig, &brand)
	}
	features := map[string]interface{}{}
	if f, ok := brand["features"].(map[string]interface{}); ok {
		features = f
	}

	return response.Success(c, "Tenant configuration", fiber.Map{
		"tenant_id":    tenant.TenantID,
		"org_id":       tenant.OrgID,
		"company_name": tenant.CompanyName,
		"brand":        brand,
		"features":     features,
		"createdAt":    tenant.CreatedAt,
	}, nil)
}
