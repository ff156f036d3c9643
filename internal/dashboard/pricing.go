package dashboard

import (
	"context"

	"aurum-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// PriceSource supplies the current unit price for valuation. The real
// feed lives outside this service; the aggregator only multiplies
// price by quantity and never caches beyond one computation.
type PriceSource interface {
	CurrentPrice(ctx context.Context, asset domain.AssetType) (decimal.Decimal, error)
}

// StaticPriceSource serves fixed prices. Dev wiring and test double.
type StaticPriceSource struct {
	Prices map[domain.AssetType]decimal.Decimal
}

func (s *StaticPriceSource) CurrentPrice(ctx context.Context, asset domain.AssetType) (decimal.Decimal, error) {
	if p, ok := s.Prices[asset]; ok {
		return p, nil
	}
	return decimal.Zero, nil
}
