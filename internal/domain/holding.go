package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Holding is a user's current balance of one asset within one tenant.
// Quantity is never negative; a row is deleted when it reaches zero
// (sell-to-zero), so every persisted row carries a positive quantity.
type Holding struct {
	HoldingID uuid.UUID       `gorm:"column:holding_id;type:uuid;primaryKey" json:"holding_id"`
	TenantID  uuid.UUID       `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_holdings_key" json:"tenant_id"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_holdings_key" json:"user_id"`
	AssetType AssetType       `gorm:"column:asset_type;type:varchar(20);not null;uniqueIndex:idx_holdings_key" json:"asset_type"`
	Quantity  decimal.Decimal `gorm:"column:quantity;type:decimal(20,8);not null;default:0" json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (Holding) TableName() string {
	return "UserHoldings"
}

func (h *Holding) BeforeCreate(tx *gorm.DB) error {
	if h.HoldingID == uuid.Nil {
		h.HoldingID = uuid.New()
	}
	return nil
}
