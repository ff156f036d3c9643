package trading

import (
	"context"
	"fmt"
	"time"

	"aurum-backend/internal/domain"
	"aurum-backend/internal/gate"
	"aurum-backend/internal/ledger"
	"aurum-backend/internal/settlement"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Trade request states. A request ends in exactly one of Committed,
// Failed, or Rejected; the transaction row only ever records
// pending/completed/failed.
type tradeState string

const (
	stateCreated   tradeState = "Created"
	stateGated     tradeState = "Gated"
	stateSettling  tradeState = "Settling"
	stateSettled   tradeState = "Settled"
	stateCommitted tradeState = "Committed"
	stateDeclined  tradeState = "Declined"
	stateFailed    tradeState = "Failed"
	stateRejected  tradeState = "Rejected"
)

// TradeRequest is one buy or sell intent from an authenticated user.
type TradeRequest struct {
	User          *domain.User
	TenantID      uuid.UUID
	AssetType     domain.AssetType
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	PaymentMethod string
	PaymentRef    string
}

// Orchestrator sequences gate → settlement → ledger commit per trade.
// Settlement happens before the ledger transaction opens, so the
// network round-trip never holds the per-key lock; trades on distinct
// (tenant, user, asset) keys run fully in parallel.
type Orchestrator struct {
	Ledger            *ledger.Store
	Gate              *gate.Gate
	Settlement        settlement.Connector
	Replay            *ReplayCache
	SettlementTimeout time.Duration
	CommitRetries     int
}

// Buy executes a BUY trade: pending row, KYC gate, payment settlement,
// atomic commit. A duplicate payment reference replays the original
// terminal transaction instead of creating a second one.
func (o *Orchestrator) Buy(ctx context.Context, req TradeRequest) (*domain.Transaction, error) {
	if req.User == nil || req.User.TenantID != req.TenantID {
		return nil, domain.ErrCrossTenant
	}

	if req.PaymentRef != "" {
		if prior, ok := o.replayed(ctx, req); ok {
			return prior, nil
		}
	}

	trade := &domain.Transaction{
		TenantID:         req.TenantID,
		UserID:           req.User.UserID,
		Type:             domain.TradeBuy,
		AssetType:        req.AssetType,
		Quantity:         req.Quantity,
		Price:            req.Price,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: optional(req.PaymentRef),
	}
	if err := o.Ledger.RecordTransaction(ctx, trade); err != nil {
		return o.recordFailed(ctx, req, err)
	}
	o.logState(trade, stateCreated)

	if err := o.Gate.CheckBuy(req.User); err != nil {
		o.reject(ctx, trade)
		return trade, err
	}
	o.logState(trade, stateGated)

	res, err := o.settle(ctx, trade, func(sctx context.Context, ref string) (settlement.Result, error) {
		return o.Settlement.SettlePayment(sctx, trade.TotalValue, req.PaymentMethod, ref)
	})
	if err != nil || !res.Accepted {
		o.logState(trade, stateDeclined)
		if failed, ferr := o.Ledger.FailTransaction(ctx, trade.TenantID, trade.TxID); ferr == nil {
			trade = failed
		}
		o.logState(trade, stateFailed)
		return trade, domain.ErrSettlementDeclined
	}
	o.logState(trade, stateSettled)

	return o.commit(ctx, trade, req.PaymentRef)
}

// Sell executes a SELL trade. The holdings check runs before payout is
// attempted — no point paying out against insufficient holdings — and
// the negative delta at commit is re-checked atomically as the final
// authority.
func (o *Orchestrator) Sell(ctx context.Context, req TradeRequest) (*domain.Transaction, error) {
	if req.User == nil || req.User.TenantID != req.TenantID {
		return nil, domain.ErrCrossTenant
	}

	if req.PaymentRef != "" {
		if prior, ok := o.replayed(ctx, req); ok {
			return prior, nil
		}
	}

	trade := &domain.Transaction{
		TenantID:         req.TenantID,
		UserID:           req.User.UserID,
		Type:             domain.TradeSell,
		AssetType:        req.AssetType,
		Quantity:         req.Quantity,
		Price:            req.Price,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: optional(req.PaymentRef),
	}
	if err := o.Ledger.RecordTransaction(ctx, trade); err != nil {
		return o.recordFailed(ctx, req, err)
	}
	o.logState(trade, stateCreated)

	if err := o.Gate.CheckSell(ctx, req.User, req.TenantID, req.AssetType, req.Quantity); err != nil {
		if err == domain.ErrKycRequired || err == domain.ErrInsufficientHoldings {
			o.reject(ctx, trade)
			return trade, err
		}
		return trade, err
	}
	o.logState(trade, stateGated)

	res, err := o.settle(ctx, trade, func(sctx context.Context, ref string) (settlement.Result, error) {
		return o.Settlement.SettlePayout(sctx, trade.TotalValue, req.PaymentMethod, ref)
	})
	if err != nil || !res.Accepted {
		o.logState(trade, stateDeclined)
		if failed, ferr := o.Ledger.FailTransaction(ctx, trade.TenantID, trade.TxID); ferr == nil {
			trade = failed
		}
		o.logState(trade, stateFailed)
		return trade, domain.ErrSettlementDeclined
	}
	o.logState(trade, stateSettled)

	return o.commit(ctx, trade, req.PaymentRef)
}

// settle runs one settlement call under the configured timeout. A
// timeout counts as Declined, never as a stuck pending.
func (o *Orchestrator) settle(ctx context.Context, trade *domain.Transaction, call func(context.Context, string) (settlement.Result, error)) (settlement.Result, error) {
	o.logState(trade, stateSettling)
	sctx, cancel := context.WithTimeout(ctx, o.SettlementTimeout)
	defer cancel()
	res, err := call(sctx, SettlementReference(trade))
	if err != nil {
		log.Warn().Str("tx_id", trade.TxID.String()).Err(err).Msg("Settlement call failed")
	}
	return res, err
}

// commit is the idempotent commit step: retried with the same
// transaction ID on infrastructure errors, never re-running settlement.
// After the retry budget the transaction stays pending for the
// reconciliation sweep.
func (o *Orchestrator) commit(ctx context.Context, trade *domain.Transaction, paymentRef string) (*domain.Transaction, error) {
	var lastErr error
	for attempt := 0; attempt <= o.CommitRetries; attempt++ {
		committed, err := o.Ledger.CommitTrade(ctx, trade.TenantID, trade.TxID)
		if err == nil {
			o.logState(committed, stateCommitted)
			o.storeReplay(ctx, trade, paymentRef)
			return committed, nil
		}
		if err == domain.ErrInsufficientHoldings {
			// Final-authority balance check lost the race; terminal.
			o.logState(trade, stateFailed)
			o.storeReplay(ctx, trade, paymentRef)
			return committed, err
		}
		lastErr = err
		log.Warn().Str("tx_id", trade.TxID.String()).Int("attempt", attempt+1).Err(err).Msg("Commit failed, retrying")
	}
	return trade, fmt.Errorf("commit trade %s: %w", trade.TxID, lastErr)
}

// recordFailed resolves a RecordTransaction failure. A duplicate
// reference means the row already exists (a concurrent submission won
// the insert race), so the existing transaction is replayed; anything
// else propagates.
func (o *Orchestrator) recordFailed(ctx context.Context, req TradeRequest, err error) (*domain.Transaction, error) {
	if err == domain.ErrDuplicateReference {
		if prior, ok := o.replayed(ctx, req); ok {
			return prior, nil
		}
	}
	return nil, err
}

// replayed returns the prior transaction for a reused payment
// reference. Redis answers the hot path; the ledger is the fallback
// when the cache is cold. Hits are only accepted for the requesting
// user, so a reference reused by another user in the same tenant
// never leaks a foreign transaction.
func (o *Orchestrator) replayed(ctx context.Context, req TradeRequest) (*domain.Transaction, bool) {
	if txID, ok := o.Replay.Lookup(ctx, req.TenantID, req.User.UserID, req.PaymentRef); ok {
		if prior, err := o.Ledger.GetTransaction(ctx, req.TenantID, txID); err == nil && prior.UserID == req.User.UserID {
			return prior, true
		}
	}
	prior, err := o.Ledger.FindByPaymentReference(ctx, req.TenantID, req.User.UserID, req.PaymentRef)
	if err != nil {
		return nil, false
	}
	return prior, true
}

func (o *Orchestrator) reject(ctx context.Context, trade *domain.Transaction) {
	if failed, err := o.Ledger.FailTransaction(ctx, trade.TenantID, trade.TxID); err == nil {
		*trade = *failed
	}
	o.logState(trade, stateRejected)
}

func (o *Orchestrator) storeReplay(ctx context.Context, trade *domain.Transaction, paymentRef string) {
	if paymentRef != "" {
		o.Replay.Store(ctx, trade.TenantID, trade.UserID, paymentRef, trade.TxID)
	}
}

func (o *Orchestrator) logState(trade *domain.Transaction, state tradeState) {
	log.Debug().
		Str("tx_id", trade.TxID.String()).
		Str("tenant_id", trade.TenantID.String()).
		Str("type", trade.Type).
		Str("state", string(state)).
		Msg("Trade state")
}

// SettlementReference is the idempotency key for a trade's settlement.
// A client payment reference is scoped by tenant and user so the same
// reference string from two accounts never collapses into one cached
// settlement outcome; trades without a reference use the transaction ID.
func SettlementReference(trade *domain.Transaction) string {
	if trade.PaymentReference != nil && *trade.PaymentReference != "" {
		return trade.TenantID.String() + ":" + trade.UserID.String() + ":" + *trade.PaymentReference
	}
	return trade.TxID.String()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
