package dashboard

import (
	"context"
	"testing"

	"aurum-backend/internal/domain"
	"aurum-backend/internal/ledger"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDashboard(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Holding{}, &domain.Transaction{}))

	return &Service{
		DB:     db,
		Ledger: &ledger.Store{DB: db},
		Prices: &StaticPriceSource{Prices: map[domain.AssetType]decimal.Decimal{
			domain.AssetGold:   decimal.RequireFromString("6500"),
			domain.AssetSilver: decimal.RequireFromString("80"),
		}},
	}
}

func TestSummarize(t *testing.T) {
	s := setupDashboard(t)
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()

	require.NoError(t, s.DB.Create(&domain.Holding{
		TenantID: tenantID, UserID: userID,
		AssetType: domain.AssetGold, Quantity: decimal.RequireFromString("2"),
	}).Error)
	require.NoError(t, s.DB.Create(&domain.Holding{
		TenantID: tenantID, UserID: userID,
		AssetType: domain.AssetSilver, Quantity: decimal.RequireFromString("10"),
	}).Error)

	summary, err := s.Summarize(ctx, tenantID, userID)
	require.NoError(t, err)

	assert.Len(t, summary.Holdings, 2)
	assert.True(t, summary.TotalValue.Equal(decimal.RequireFromString("13800")), "total = %s", summary.TotalValue)
	assert.True(t, summary.PerAssetValue[domain.AssetGold].Equal(decimal.RequireFromString("13000")))
	assert.True(t, summary.PerAssetValue[domain.AssetSilver].Equal(decimal.RequireFromString("800")))
	assert.True(t, summary.PerAssetValue[domain.AssetPlatinum].IsZero())
	assert.False(t, summary.LastUpdated.IsZero())
}

func TestSummarize_EmptyPortfolio(t *testing.T) {
	s := setupDashboard(t)

	summary, err := s.Summarize(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, summary.Holdings)
	assert.True(t, summary.TotalValue.IsZero())
}

func TestTenantMetrics(t *testing.T) {
	s := setupDashboard(t)
	ctx := context.Background()
	tenantID, otherTenant := uuid.New(), uuid.New()

	users := []domain.User{
		{TenantID: tenantID, Email: "a@x.com", KycStatus: domain.KycVerified},
		{TenantID: tenantID, Email: "b@x.com", KycStatus: domain.KycVerified},
		{TenantID: tenantID, Email: "c@x.com", KycStatus: domain.KycPending},
		{TenantID: otherTenant, Email: "d@y.com", KycStatus: domain.KycVerified},
	}
	for i := range users {
		require.NoError(t, s.DB.Create(&users[i]).Error)
	}

	txs := []domain.Transaction{
		{TenantID: tenantID, UserID: users[0].UserID, Type: domain.TradeBuy, AssetType: domain.AssetGold,
			Quantity: decimal.RequireFromString("2.5"), Price: decimal.RequireFromString("6250"),
			TotalValue: decimal.RequireFromString("15625"), Status: domain.TxCompleted},
		{TenantID: tenantID, UserID: users[0].UserID, Type: domain.TradeSell, AssetType: domain.AssetGold,
			Quantity: decimal.RequireFromString("1"), Price: decimal.RequireFromString("6300"),
			TotalValue: decimal.RequireFromString("6300"), Status: domain.TxCompleted},
		{TenantID: tenantID, UserID: users[1].UserID, Type: domain.TradeBuy, AssetType: domain.AssetSilver,
			Quantity: decimal.RequireFromString("10"), Price: decimal.RequireFromString("75"),
			TotalValue: decimal.RequireFromString("750"), Status: domain.TxCompleted},
		// Failed and foreign-tenant rows must not count.
		{TenantID: tenantID, UserID: users[1].UserID, Type: domain.TradeBuy, AssetType: domain.AssetGold,
			Quantity: decimal.RequireFromString("1"), Price: decimal.RequireFromString("6250"),
			TotalValue: decimal.RequireFromString("6250"), Status: domain.TxFailed},
		{TenantID: otherTenant, UserID: users[3].UserID, Type: domain.TradeBuy, AssetType: domain.AssetGold,
			Quantity: decimal.RequireFromString("1"), Price: decimal.RequireFromString("6250"),
			TotalValue: decimal.RequireFromString("6250"), Status: domain.TxCompleted},
	}
	for i := range txs {
		require.NoError(t, s.DB.Create(&txs[i]).Error)
	}

	m, err := s.TenantMetrics(ctx, tenantID)
	require.NoError(t, err)

	assert.EqualValues(t, 3, m.Users.TotalUsers)
	assert.EqualValues(t, 2, m.Users.VerifiedUsers)

	assert.EqualValues(t, 3, m.Trading.TotalTransactions)
	assert.EqualValues(t, 2, m.Trading.BuyOrders)
	assert.EqualValues(t, 1, m.Trading.SellOrders)
	assert.True(t, m.Trading.TotalBuyVolume.Equal(decimal.RequireFromString("16375")), "buy volume = %s", m.Trading.TotalBuyVolume)
	assert.True(t, m.Trading.TotalSellVolume.Equal(decimal.RequireFromString("6300")))

	require.Len(t, m.Assets, 2)
	assert.Equal(t, domain.AssetGold, m.Assets[0].AssetType)
	assert.EqualValues(t, 2, m.Assets[0].TransactionCount)
	assert.True(t, m.Assets[0].TotalQuantity.Equal(decimal.RequireFromString("3.5")))
	assert.Equal(t, domain.AssetSilver, m.Assets[1].AssetType)
	assert.True(t, m.Assets[1].TotalValue.Equal(decimal.RequireFromString("750")))
}
