package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tenant statuses. Only active tenants may serve traffic.
const (
	TenantActive    = "active"
	TenantSuspended = "suspended"
	TenantClosed    = "closed"
)

// Tenant is an onboarded client organization. Rows are created by the
// external onboarding flow; this service only reads them.
type Tenant struct {
	TenantID    uuid.UUID      `gorm:"column:tenant_id;type:uuid;primaryKey" json:"tenant_id"`
	OrgID       string         `gorm:"column:org_id;not null;uniqueIndex" json:"org_id"`
	CompanyName string         `gorm:"column:company_name;not null" json:"company_name"`
	Status      string         `gorm:"column:status;type:varchar(20);not null;default:active" json:"status"`
	BrandConfig datatypes.JSON `gorm:"column:brand_config;type:jsonb" json:"brand_config"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Tenant) TableName() string {
	return "Tenants"
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.TenantID == uuid.Nil {
		t.TenantID = uuid.New()
	}
	return nil
}
