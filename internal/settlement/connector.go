package settlement

import (
	"context"

	"github.com/shopspring/decimal"
)

// Result is a settlement outcome. Business rejection is a Declined
// result, never an error; errors are reserved for infrastructure
// failures (provider unreachable, timeout).
type Result struct {
	Accepted    bool   `json:"accepted"`
	ProviderRef string `json:"provider_ref,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Connector abstracts the external payment/payout provider. Both calls
// return exactly once; the orchestrator treats a context timeout as
// Declined. Implementations must be idempotent per reference (or be
// wrapped in Idempotent) so a commit-retry never double-charges.
type Connector interface {
	SettlePayment(ctx context.Context, amount decimal.Decimal, method, reference string) (Result, error)
	SettlePayout(ctx context.Context, amount decimal.Decimal, method, reference string) (Result, error)
}

// StaticConnector returns fixed outcomes. Used for dev wiring and as
// the deterministic test double the orchestrator is exercised with.
type StaticConnector struct {
	AcceptPayments bool
	AcceptPayouts  bool
}

func (s *StaticConnector) SettlePayment(ctx context.Context, amount decimal.Decimal, method, reference string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if !s.AcceptPayments {
		return Result{Accepted: false, Reason: "payment declined"}, nil
	}
	return Result{Accepted: true, ProviderRef: "static-" + reference}, nil
}

func (s *StaticConnector) SettlePayout(ctx context.Context, amount decimal.Decimal, method, reference string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if !s.AcceptPayouts {
		return Result{Accepted: false, Reason: "payout declined"}, nil
	}
	return Result{Accepted: true, ProviderRef: "static-" + reference}, nil
}
