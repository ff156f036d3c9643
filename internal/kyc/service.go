package kyc

import (
	"context"

	"aurum-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Provider is the external verification service. It returns a verdict,
// never an error for a business rejection.
type Provider interface {
	Verify(ctx context.Context, record *domain.KycRecord) (approved bool, err error)
}

// StaticProvider returns a fixed verdict. Dev wiring and test double.
type StaticProvider struct {
	Approve bool
}

func (p *StaticProvider) Verify(ctx context.Context, record *domain.KycRecord) (bool, error) {
	return p.Approve, nil
}

type Service struct {
	DB       *gorm.DB
	Provider Provider
}

// SubmitInput carries the user's verification documents.
type SubmitInput struct {
	DocumentType   string
	DocumentNumber string
	DocumentData   datatypes.JSON
	AddressData    datatypes.JSON
}

// Submit stores the KYC record and forwards it for verification. An
// approved verdict flips the record and the user's KYC status in one
// transaction; anything else leaves the record pending for a later
// provider callback.
func (s *Service) Submit(ctx context.Context, tenantID, userID uuid.UUID, input SubmitInput) (*domain.KycRecord, error) {
	if input.DocumentType == "" {
		return nil, domain.ErrInvalidInput
	}

	record := &domain.KycRecord{
		TenantID:       tenantID,
		UserID:         userID,
		DocumentType:   input.DocumentType,
		DocumentNumber: input.DocumentNumber,
		DocumentData:   input.DocumentData,
		AddressData:    input.AddressData,
		Status:         domain.KycRecordPending,
	}
	if err := s.DB.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}

	approved, err := s.Provider.Verify(ctx, record)
	if err != nil {
		// Provider unreachable: the record stays pending.
		return record, nil
	}
	if !approved {
		return record, nil
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(record).Update("status", domain.KycRecordApproved).Error; err != nil {
			return err
		}
		return tx.Model(&domain.User{}).
			Where("tenant_id = ? AND user_id = ?", tenantID, userID).
			Update("kyc_status", domain.KycVerified).Error
	})
	if err != nil {
		return nil, err
	}
	record.Status = domain.KycRecordApproved
	return record, nil
}
