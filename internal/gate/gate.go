package gate

import (
	"context"

	"aurum-backend/internal/domain"
	"aurum-backend/internal/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gate checks trade preconditions: KYC status and, for sells, holdings
// sufficiency at decision time. Pure reads — the ledger's atomic
// check-and-apply remains the final authority on balance, this is an
// early reject so settlement is never attempted for a doomed trade.
type Gate struct {
	Ledger *ledger.Store
}

// CheckBuy requires verified KYC.
func (g *Gate) CheckBuy(user *domain.User) error {
	if user.KycStatus != domain.KycVerified {
		return domain.ErrKycRequired
	}
	return nil
}

// CheckSell requires verified KYC and a current holding that covers the
// requested quantity.
func (g *Gate) CheckSell(ctx context.Context, user *domain.User, tenantID uuid.UUID, asset domain.AssetType, quantity decimal.Decimal) error {
	if user.KycStatus != domain.KycVerified {
		return domain.ErrKycRequired
	}
	held, err := g.Ledger.HoldingQuantity(ctx, tenantID, user.UserID, asset)
	if err != nil {
		return err
	}
	if held.LessThan(quantity) {
		return domain.ErrInsufficientHoldings
	}
	return nil
}
