package user

import (
	"context"

	"aurum-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service reads identity rows. Account creation and credentials live in
// the external auth layer; this service never writes users except for
// the KYC status transition owned by internal/kyc.
type Service struct {
	DB *gorm.DB
}

// Load implements middleware.UserLoader. The tenant predicate makes a
// valid user ID from another tenant indistinguishable from not found.
func (s *Service) Load(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
