package kyc

import (
	"aurum-backend/internal/domain"
	"aurum-backend/internal/middleware"
	"aurum-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type Handlers struct {
	Service *Service
}

// Submit POST /api/v1/kyc/submit
func (h *Handlers) Submit(c *fiber.Ctx) error {
	tenant := middleware.GetTenant(c)
	user := middleware.GetUser(c)
	if tenant == nil || user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body struct {
		DocumentType   string         `json:"documentType"`
		DocumentNumber string         `json:"documentNumber"`
		DocumentData   datatypes.JSON `json:"documentData"`
		AddressData    datatypes.JSON `json:"addressData"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	record, err := h.Service.Submit(c.Context(), tenant.TenantID, user.UserID, SubmitInput{
		DocumentType:   body.DocumentType,
		DocumentNumber: body.DocumentNumber,
		DocumentData:   body.DocumentData,
		AddressData:    body.AddressData,
	})
	if err != nil {
		if err == domain.ErrInvalidInput {
			return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
		}
		return response.Error(c, "KYC submission failed", fiber.StatusInternalServerError, nil)
	}

	status := "pending_verification"
	if record.Status == domain.KycRecordApproved {
		status = domain.KycRecordApproved
	}
	return response.Success(c, "KYC documents submitted successfully", fiber.Map{
		"kyc_id": record.KycID,
		"status": status,
	}, nil)
}
