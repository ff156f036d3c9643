package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// KYC record statuses (the verification provider decides).
const (
	KycRecordPending  = "pending"
	KycRecordApproved = "approved"
	KycRecordRejected = "rejected"
)

// KycRecord stores a user's submitted verification documents and the
// provider's verdict. Document payloads are opaque JSON.
type KycRecord struct {
	KycID          uuid.UUID      `gorm:"column:kyc_id;type:uuid;primaryKey" json:"kyc_id"`
	TenantID       uuid.UUID      `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenant_id"`
	UserID         uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	DocumentType   string         `gorm:"column:document_type;type:varchar(50);not null" json:"document_type"`
	DocumentNumber string         `gorm:"column:document_number;type:varchar(100)" json:"document_number"`
	DocumentData   datatypes.JSON `gorm:"column:document_data;type:jsonb" json:"document_data"`
	AddressData    datatypes.JSON `gorm:"column:address_data;type:jsonb" json:"address_data"`
	Status         string         `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (KycRecord) TableName() string {
	return "KycRecords"
}

func (k *KycRecord) BeforeCreate(tx *gorm.DB) error {
	if k.KycID == uuid.Nil {
		k.KycID = uuid.New()
	}
	return nil
}
