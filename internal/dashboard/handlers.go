package dashboard

import (
	"aurum-backend/internal/domain"
	"aurum-backend/internal/middleware"
	"aurum-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *Service
}

// Portfolio GET /api/v1/portfolio
func (h *Handlers) Portfolio(c *fiber.Ctx) error {
	tenant := middleware.GetTenant(c)
	user := middleware.GetUser(c)
	if tenant == nil || user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	summary, err := h.Service.Summarize(c.Context(), tenant.TenantID, user.UserID)
	if err != nil {
		return response.Error(c, "Failed to fetch portfolio", fiber.StatusInternalServerError, nil)
	}

	return response.Success(c, "Portfolio", fiber.Map{
		"holdings": summary.Holdings,
		"summary": fiber.Map{
			"totalValue":    summary.TotalValue,
			"goldValue":     assetValue(summary, domain.AssetGold),
			"silverValue":   assetValue(summary, domain.AssetSilver),
			"platinumValue": assetValue(summary, domain.AssetPlatinum),
			"lastUpdated":   summary.LastUpdated,
		},
	}, nil)
}

// AdminDashboard GET /api/v1/admin/dashboard — admin role enforced by
// middleware on the route group.
func (h *Handlers) AdminDashboard(c *fiber.Ctx) error {
	tenant := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	metrics, err := h.Service.TenantMetrics(c.Context(), tenant.TenantID)
	if err != nil {
		return response.Error(c, "Failed to fetch dashboard data", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Dashboard metrics", fiber.Map{"metrics": metrics}, nil)
}

func assetValue(s *PortfolioSummary, asset domain.AssetType) decimal.Decimal {
	if v, ok := s.PerAssetValue[asset]; ok {
		return v
	}
	return decimal.Zero
}
