package dashboard

import (
	"context"
	"time"

	"aurum-backend/internal/domain"
	"aurum-backend/internal/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is the read-only projection over the ledger. It never
// mutates holdings or transactions.
//
// Consistency note: reads go through the same DB handle as writes;
// with a replicated store a summary may trail a commit by one
// replication beat. Callers must not treat read-after-write across
// replicas as guaranteed.
type Service struct {
	DB     *gorm.DB
	Ledger *ledger.Store
	Prices PriceSource
}

// PortfolioSummary is the per-user portfolio projection.
type PortfolioSummary struct {
	Holdings      []domain.Holding                     `json:"holdings"`
	TotalValue    decimal.Decimal                      `json:"totalValue"`
	PerAssetValue map[domain.AssetType]decimal.Decimal `json:"perAssetValue"`
	LastUpdated   time.Time                            `json:"lastUpdated"`
}

// Summarize values a user's holdings at current prices.
func (s *Service) Summarize(ctx context.Context, tenantID, userID uuid.UUID) (*PortfolioSummary, error) {
	holdings, err := s.Ledger.GetHoldings(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	summary := &PortfolioSummary{
		Holdings:      holdings,
		TotalValue:    decimal.Zero,
		PerAssetValue: make(map[domain.AssetType]decimal.Decimal, len(domain.AssetTypes)),
		LastUpdated:   time.Now().UTC(),
	}
	for _, asset := range domain.AssetTypes {
		summary.PerAssetValue[asset] = decimal.Zero
	}

	for i := range holdings {
		price, err := s.Prices.CurrentPrice(ctx, holdings[i].AssetType)
		if err != nil {
			return nil, err
		}
		value := holdings[i].Quantity.Mul(price)
		summary.PerAssetValue[holdings[i].AssetType] = summary.PerAssetValue[holdings[i].AssetType].Add(value)
		summary.TotalValue = summary.TotalValue.Add(value)
	}
	return summary, nil
}

// UserMetrics is the tenant's user funnel.
type UserMetrics struct {
	TotalUsers    int64 `json:"total_users"`
	VerifiedUsers int64 `json:"verified_users"`
	NewToday      int64 `json:"new_today"`
}

// TradingMetrics covers completed transactions only.
type TradingMetrics struct {
	TotalTransactions int64           `json:"total_transactions"`
	BuyOrders         int64           `json:"buy_orders"`
	SellOrders        int64           `json:"sell_orders"`
	TotalBuyVolume    decimal.Decimal `json:"total_buy_volume"`
	TotalSellVolume   decimal.Decimal `json:"total_sell_volume"`
}

// AssetMetrics is the completed-trade breakdown for one asset.
type AssetMetrics struct {
	AssetType        domain.AssetType `json:"asset_type"`
	TransactionCount int64            `json:"transaction_count"`
	TotalQuantity    decimal.Decimal  `json:"total_quantity"`
	TotalValue       decimal.Decimal  `json:"total_value"`
}

// Metrics is the admin dashboard payload for one tenant.
type Metrics struct {
	Users   UserMetrics    `json:"users"`
	Trading TradingMetrics `json:"trading"`
	Assets  []AssetMetrics `json:"assets"`
}

// TenantMetrics aggregates one tenant's users and completed trading
// volume. Decimal sums are computed in Go so no precision is lost to
// the database's float coercion.
func (s *Service) TenantMetrics(ctx context.Context, tenantID uuid.UUID) (*Metrics, error) {
	var m Metrics

	users := s.DB.WithContext(ctx).Model(&domain.User{}).Where("tenant_id = ?", tenantID)
	if err := users.Count(&m.Users.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&domain.User{}).
		Where("tenant_id = ? AND kyc_status = ?", tenantID, domain.KycVerified).
		Count(&m.Users.VerifiedUsers).Error; err != nil {
		return nil, err
	}
	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	if err := s.DB.WithContext(ctx).Model(&domain.User{}).
		Where("tenant_id = ? AND created_at >= ?", tenantID, midnight).
		Count(&m.Users.NewToday).Error; err != nil {
		return nil, err
	}

	var completed []domain.Transaction
	if err := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, domain.TxCompleted).
		Find(&completed).Error; err != nil {
		return nil, err
	}

	m.Trading.TotalBuyVolume = decimal.Zero
	m.Trading.TotalSellVolume = decimal.Zero
	byAsset := make(map[domain.AssetType]*AssetMetrics)

	for i := range completed {
		tx := &completed[i]
		m.Trading.TotalTransactions++
		if tx.Type == domain.TradeBuy {
			m.Trading.BuyOrders++
			m.Trading.TotalBuyVolume = m.Trading.TotalBuyVolume.Add(tx.TotalValue)
		} else {
			m.Trading.SellOrders++
			m.Trading.TotalSellVolume = m.Trading.TotalSellVolume.Add(tx.TotalValue)
		}

		am, ok := byAsset[tx.AssetType]
		if !ok {
			am = &AssetMetrics{
				AssetType:     tx.AssetType,
				TotalQuantity: decimal.Zero,
				TotalValue:    decimal.Zero,
			}
			byAsset[tx.AssetType] = am
		}
		am.TransactionCount++
		am.TotalQuantity = am.TotalQuantity.Add(tx.Quantity)
		am.TotalValue = am.TotalValue.Add(tx.TotalValue)
	}

	m.Assets = make([]AssetMetrics, 0, len(byAsset))
	for _, asset := range domain.AssetTypes {
		if am, ok := byAsset[asset]; ok {
			m.Assets = append(m.Assets, *am)
		}
	}
	return &m, nil
}
