package gate

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

func setupGate(t *testing.T) *Gate {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Holding{}))
	return &Gate{Ledger: &ledger.Store{DB: db}}
}

func TestCheckBuy_KycStates(t *testing.T) {
	g := setupGate(t)

	assert.NoError(t, g.CheckBuy(&domain.User{KycStatus: domain.KycVerified}))
	assert.ErrorIs(t, g.CheckBuy(&domain.User{KycStatus: domain.KycPending}), domain.ErrKycRequired)
	assert.ErrorIs(t, g.CheckBuy(&domain.User{KycStatus: domain.KycRejected}), domain.ErrKycRequired)
}

func TestCheckSell_HoldingsCoverage(t *testing.T) {
	g := setupGate(t)
	ctx := context.Background()
	tenantID := uuid.New()
	user := &domain.User{UserID: uuid.New(), TenantID: tenantID, KycStatus: domain.KycVerified}

	require.NoError(t, g.Ledger.DB.Create(&domain.Holding{
		TenantID:  tenantID,
		UserID:    user.UserID,
		AssetType: domain.AssetGold,
		Quantity:  decimal.RequireFromString("1.5"),
	}).Error)

	assert.NoError(t, g.CheckSell(ctx, user, tenantID, domain.AssetGold, decimal.RequireFromString("1.5")))
	assert.NoError(t, g.CheckSell(ctx, user, tenantID, domain.AssetGold, decimal.RequireFromString("0.1")))
	assert.ErrorIs(t,
		g.CheckSell(ctx, user, tenantID, domain.AssetGold, decimal.RequireFromString("1.50000001")),
		domain.ErrInsufficientHoldings)

	// No holding row at all means zero balance.
	assert.ErrorIs(t,
		g.CheckSell(ctx, user, tenantID, domain.AssetSilver, decimal.RequireFromString("0.00000001")),
		domain.ErrInsufficientHoldings)
}

func TestCheckSell_KycBeforeHoldings(t *testing.T) {
	g := setupGate(t)
	user := &domain.User{UserID: uuid.New(), KycStatus: domain.KycPending}

	err := g.CheckSell(context.Background(), user, uuid.New(), domain.AssetGold, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrKycRequired)
}
