package ledger

import (
	"context"
	"errors"
	"time"

	"aurum-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// quantityScale is the minimum tradable granularity (1e-8).
const quantityScale = 8

// Store is the tenant-scoped trading ledger. Every query carries
// tenant_id as a mandatory predicate; isolation is structural, not a
// runtime permission check.
//
// The commit path (status flip + holding delta) runs inside one
// database transaction with the holding row locked FOR UPDATE, so
// concurrent trades against the same (tenant, user, asset) key
// serialize exactly around the check-and-apply step.
type Store struct {
	DB *gorm.DB
}

// RecordTransaction validates and inserts a pending transaction row.
// Invalid input is rejected before anything is persisted. A payment
// reference already recorded for the same (tenant, user) trips the
// unique index and comes back as domain.ErrDuplicateReference; the
// caller replays the existing row.
func (s *Store) RecordTransaction(ctx context.Context, trade *domain.Transaction) error {
	if err := validateTrade(trade); err != nil {
		return err
	}
	trade.Status = domain.TxPending
	trade.TotalValue = trade.Quantity.Mul(trade.Price)
	err := s.DB.WithContext(ctx).Create(trade).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateReference
	}
	return err
}

func validateTrade(trade *domain.Transaction) error {
	if trade.TenantID == uuid.Nil || trade.UserID == uuid.Nil {
		return domain.ErrInvalidInput
	}
	if trade.Type != domain.TradeBuy && trade.Type != domain.TradeSell {
		return domain.ErrInvalidInput
	}
	if _, ok := domain.ParseAssetType(string(trade.AssetType)); !ok {
		return domain.ErrInvalidAsset
	}
	if !trade.Quantity.IsPositive() || !trade.Price.IsPositive() {
		return domain.ErrInvalidInput
	}
	// Quantities finer than 1e-8 are not representable in the ledger.
	if !trade.Quantity.Equal(trade.Quantity.Truncate(quantityScale)) {
		return domain.ErrInvalidInput
	}
	return nil
}

// CommitTrade atomically flips a pending transaction to completed and
// applies its holding delta. Replaying a terminal transaction returns
// it unchanged with no second delta, so the orchestrator can retry
// this step with the same transaction ID after a crash.
//
// A SELL whose delta would drive the holding negative marks the
// transaction failed and returns domain.ErrInsufficientHoldings; the
// row-level check here is the final authority, the precondition gate
// only pre-screens.
func (s *Store) CommitTrade(ctx context.Context, tenantID, txID uuid.UUID) (*domain.Transaction, error) {
	var out domain.Transaction

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trade, err := lockTransaction(tx, tenantID, txID)
		if err != nil {
			return err
		}
		if trade.Terminal() {
			out = *trade
			return nil
		}

		if _, err := applyDelta(tx, trade.TenantID, trade.UserID, trade.AssetType, trade.SignedQuantity()); err != nil {
			return err
		}

		if err := tx.Model(trade).Update("status", domain.TxCompleted).Error; err != nil {
			return err
		}
		trade.Status = domain.TxCompleted
		out = *trade
		return nil
	})

	if err == domain.ErrInsufficientHoldings {
		// Business failure is terminal for this transaction; the
		// rolled-back commit attempt left it pending.
		if failed, ferr := s.FailTransaction(ctx, tenantID, txID); ferr == nil {
			out = *failed
		}
		return &out, domain.ErrInsufficientHoldings
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FailTransaction flips a pending transaction to failed. Terminal
// transactions are returned unchanged (idempotent).
func (s *Store) FailTransaction(ctx context.Context, tenantID, txID uuid.UUID) (*domain.Transaction, error) {
	var out domain.Transaction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trade, err := lockTransaction(tx, tenantID, txID)
		if err != nil {
			return err
		}
		if trade.Terminal() {
			out = *trade
			return nil
		}
		if err := tx.Model(trade).Update("status", domain.TxFailed).Error; err != nil {
			return err
		}
		trade.Status = domain.TxFailed
		out = *trade
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ApplyHoldingDelta applies a signed quantity change in its own
// database transaction. The commit path uses the same primitive inside
// CommitTrade; standalone use is reserved for reconciliation repair.
func (s *Store) ApplyHoldingDelta(ctx context.Context, tenantID, userID uuid.UUID, asset domain.AssetType, delta decimal.Decimal) (decimal.Decimal, error) {
	var newQty decimal.Decimal
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := applyDelta(tx, tenantID, userID, asset, delta)
		if err != nil {
			return err
		}
		newQty = q
		return nil
	})
	return newQty, err
}

// lockForUpdate adds a pessimistic row lock on Postgres. sqlite (used
// in tests) has no FOR UPDATE; its single-writer transaction lock gives
// the same serialization.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// applyDelta is the serialized check-and-apply step. The holding row is
// locked FOR UPDATE for the remainder of the enclosing transaction;
// rows reaching zero are deleted (absent row == zero holding).
func applyDelta(tx *gorm.DB, tenantID, userID uuid.UUID, asset domain.AssetType, delta decimal.Decimal) (decimal.Decimal, error) {
	var holding domain.Holding
	err := lockForUpdate(tx).
		Where("tenant_id = ? AND user_id = ? AND asset_type = ?", tenantID, userID, asset).
		First(&holding).Error

	if err == gorm.ErrRecordNotFound {
		if delta.IsNegative() {
			return decimal.Zero, domain.ErrInsufficientHoldings
		}
		holding = domain.Holding{
			TenantID:  tenantID,
			UserID:    userID,
			AssetType: asset,
			Quantity:  delta,
		}
		if err := tx.Create(&holding).Error; err != nil {
			return decimal.Zero, err
		}
		return holding.Quantity, nil
	}
	if err != nil {
		return decimal.Zero, err
	}

	newQty := holding.Quantity.Add(delta)
	if newQty.IsNegative() {
		return decimal.Zero, domain.ErrInsufficientHoldings
	}
	if newQty.IsZero() {
		if err := tx.Delete(&holding).Error; err != nil {
			return decimal.Zero, err
		}
		return decimal.Zero, nil
	}
	if err := tx.Model(&holding).Update("quantity", newQty).Error; err != nil {
		return decimal.Zero, err
	}
	return newQty, nil
}

func lockTransaction(tx *gorm.DB, tenantID, txID uuid.UUID) (*domain.Transaction, error) {
	var trade domain.Transaction
	err := lockForUpdate(tx).
		Where("tenant_id = ? AND tx_id = ?", tenantID, txID).
		First(&trade).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// GetHoldings returns a user's holdings ordered by asset type. Only
// positive rows exist (zero rows are deleted on sell-to-zero).
func (s *Store) GetHoldings(ctx context.Context, tenantID, userID uuid.UUID) ([]domain.Holding, error) {
	var holdings []domain.Holding
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("asset_type ASC").
		Find(&holdings).Error
	return holdings, err
}

// HoldingQuantity returns the current quantity for one key, zero when
// no row exists.
func (s *Store) HoldingQuantity(ctx context.Context, tenantID, userID uuid.UUID, asset domain.AssetType) (decimal.Decimal, error) {
	var holding domain.Holding
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND asset_type = ?", tenantID, userID, asset).
		First(&holding).Error
	if err == gorm.ErrRecordNotFound {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return holding.Quantity, nil
}

// GetTransaction loads one transaction within a tenant.
func (s *Store) GetTransaction(ctx context.Context, tenantID, txID uuid.UUID) (*domain.Transaction, error) {
	var trade domain.Transaction
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND tx_id = ?", tenantID, txID).
		First(&trade).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// TransactionFilters narrows GetTransactions. Zero values mean "any".
type TransactionFilters struct {
	Type      string
	AssetType domain.AssetType
	Status    string
	Limit     int
}

// GetTransactions returns a user's transactions, newest first.
func (s *Store) GetTransactions(ctx context.Context, tenantID, userID uuid.UUID, f TransactionFilters) ([]domain.Transaction, error) {
	q := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID)
	if f.Type != "" {
		q = q.Where("transaction_type = ?", f.Type)
	}
	if f.AssetType != "" {
		q = q.Where("asset_type = ?", f.AssetType)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var txs []domain.Transaction
	err := q.Order("created_at DESC").Find(&txs).Error
	return txs, err
}

// FindByPaymentReference returns the transaction a duplicate
// submission should replay, newest first when a reference was reused
// across assets.
func (s *Store) FindByPaymentReference(ctx context.Context, tenantID, userID uuid.UUID, reference string) (*domain.Transaction, error) {
	var trade domain.Transaction
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND payment_reference = ?", tenantID, userID, reference).
		Order("created_at DESC").
		First(&trade).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// StalePending lists pending transactions created before cutoff, for
// the reconciliation sweep.
func (s *Store) StalePending(ctx context.Context, cutoff time.Time) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := s.DB.WithContext(ctx).
		Where("status = ? AND created_at < ?", domain.TxPending, cutoff).
		Order("created_at ASC").
		Find(&txs).Error
	return txs, err
}

// NetCompletedQuantity recomputes sum(BUY) - sum(SELL) over completed
// transactions for one key: the reconciliation invariant says this
// always equals the current holding quantity.
func (s *Store) NetCompletedQuantity(ctx context.Context, tenantID, userID uuid.UUID, asset domain.AssetType) (decimal.Decimal, error) {
	var txs []domain.Transaction
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND asset_type = ? AND status = ?",
			tenantID, userID, asset, domain.TxCompleted).
		Find(&txs).Error
	if err != nil {
		return decimal.Zero, err
	}
	net := decimal.Zero
	for i := range txs {
		net = net.Add(txs[i].SignedQuantity())
	}
	return net, nil
}
