package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Trade directions.
const (
	TradeBuy  = "BUY"
	TradeSell = "SELL"
)

// Transaction statuses. pending is the only non-terminal state; a row
// transitions to exactly one of completed/failed and is never deleted.
const (
	TxPending   = "pending"
	TxCompleted = "completed"
	TxFailed    = "failed"
)

// Transaction is the append-only trade record. After creation the only
// permitted mutation is the single status transition out of pending.
//
// idx_tx_tenant_ref is a partial unique index on (tenant, user, payment
// reference): concurrent submissions reusing a reference collide at
// insert time, and the loser replays the winner's row instead of
// creating a second transaction. Rows without a reference are exempt.
type Transaction struct {
	TxID             uuid.UUID       `gorm:"column:tx_id;type:uuid;primaryKey" json:"tx_id"`
	TenantID         uuid.UUID       `gorm:"column:tenant_id;type:uuid;not null;index:idx_tx_tenant_user;uniqueIndex:idx_tx_tenant_ref" json:"tenant_id"`
	UserID           uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index:idx_tx_tenant_user;uniqueIndex:idx_tx_tenant_ref" json:"user_id"`
	Type             string          `gorm:"column:transaction_type;type:varchar(10);not null" json:"type"`
	AssetType        AssetType       `gorm:"column:asset_type;type:varchar(20);not null" json:"asset_type"`
	Quantity         decimal.Decimal `gorm:"column:quantity;type:decimal(20,8);not null" json:"quantity"`
	Price            decimal.Decimal `gorm:"column:price;type:decimal(15,2);not null" json:"price"`
	TotalValue       decimal.Decimal `gorm:"column:total_value;type:decimal(20,2);not null" json:"total_value"`
	PaymentMethod    string          `gorm:"column:payment_method;type:varchar(50)" json:"payment_method"`
	PaymentReference *string         `gorm:"column:payment_reference;type:varchar(100);uniqueIndex:idx_tx_tenant_ref,where:payment_reference IS NOT NULL" json:"payment_reference"`
	Status           string          `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func (Transaction) TableName() string {
	return "Transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TxID == uuid.Nil {
		t.TxID = uuid.New()
	}
	return nil
}

// Terminal reports whether the transaction reached a final status.
func (t *Transaction) Terminal() bool {
	return t.Status == TxCompleted || t.Status == TxFailed
}

// SignedQuantity is the holding delta this trade applies on commit:
// +quantity for BUY, -quantity for SELL.
func (t *Transaction) SignedQuantity() decimal.Decimal {
	if t.Type == TradeSell {
		return t.Quantity.Neg()
	}
	return t.Quantity
}
