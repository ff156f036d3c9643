package trading

import (
	"context"
	"time"

	"aurum-backend/internal/domain"
	"aurum-backend/internal/ledger"
	"aurum-backend/internal/settlement"

	"github.com/rs/zerolog/log"
)

// OutcomeCache exposes recorded settlement outcomes by reference.
// *settlement.Idempotent implements it.
type OutcomeCache interface {
	Cached(ctx context.Context, reference string) (settlement.Result, bool)
}

// Sweeper resolves transactions stuck in pending: a crash after
// settlement but before commit, or a commit that exhausted its retry
// budget. A recorded Accepted outcome is committed; a recorded Declined
// or an unknown outcome marks the transaction failed.
type Sweeper struct {
	Ledger     *ledger.Store
	Outcomes   OutcomeCache
	StaleAfter time.Duration
}

// ResolveStalePending sweeps once and returns how many transactions it
// resolved.
func (s *Sweeper) ResolveStalePending(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.StaleAfter)
	stale, err := s.Ledger.StalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for i := range stale {
		trade := &stale[i]
		if s.resolve(ctx, trade) {
			resolved++
		}
	}
	return resolved, nil
}

func (s *Sweeper) resolve(ctx context.Context, trade *domain.Transaction) bool {
	reference := SettlementReference(trade)

	if s.Outcomes != nil {
		if res, ok := s.Outcomes.Cached(ctx, reference); ok && res.Accepted {
			_, err := s.Ledger.CommitTrade(ctx, trade.TenantID, trade.TxID)
			if err != nil && err != domain.ErrInsufficientHoldings {
				log.Warn().Str("tx_id", trade.TxID.String()).Err(err).Msg("Sweep commit failed")
				return false
			}
			log.Info().Str("tx_id", trade.TxID.String()).Msg("Swept stale pending to terminal state")
			return true
		}
	}

	// No settled outcome on record: the trade never got paid, fail it.
	if _, err := s.Ledger.FailTransaction(ctx, trade.TenantID, trade.TxID); err != nil {
		log.Warn().Str("tx_id", trade.TxID.String()).Err(err).Msg("Sweep fail-transition failed")
		return false
	}
	log.Info().Str("tx_id", trade.TxID.String()).Msg("Swept stale pending to failed")
	return true
}

// RunEvery sweeps on a fixed interval until ctx is done.
func (s *Sweeper) RunEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ResolveStalePending(ctx); err != nil {
				log.Error().Err(err).Msg("Reconciliation sweep failed")
			}
		}
	}
}
