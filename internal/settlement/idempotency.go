package settlement

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const outcomePrefix = "settlement:outcome:"

// Idempotent wraps a Connector and caches outcomes in Redis keyed by
// reference. A repeated call with the same reference (orchestrator
// retry after a crash before the outcome was recorded) returns the
// cached result instead of charging again.
type Idempotent struct {
	Next Connector
	Rdb  *redis.Client
	TTL  time.Duration
}

func (i *Idempotent) SettlePayment(ctx context.Context, amount decimal.Decimal, method, reference string) (Result, error) {
	return i.settle(ctx, reference, func() (Result, error) {
		return i.Next.SettlePayment(ctx, amount, method, reference)
	})
}

func (i *Idempotent) SettlePayout(ctx context.Context, amount decimal.Decimal, method, reference string) (Result, error) {
	return i.settle(ctx, reference, func() (Result, error) {
		return i.Next.SettlePayout(ctx, amount, method, reference)
	})
}

func (i *Idempotent) settle(ctx context.Context, reference string, call func() (Result, error)) (Result, error) {
	if res, ok := i.Cached(ctx, reference); ok {
		return res, nil
	}

	res, err := call()
	if err != nil {
		return Result{}, err
	}

	b, merr := json.Marshal(res)
	if merr == nil {
		// First writer wins; a concurrent caller that lost the race
		// returns the stored outcome so both observers agree.
		set, serr := i.Rdb.SetNX(ctx, outcomePrefix+reference, b, i.TTL).Result()
		if serr == nil && !set {
			if stored, ok := i.Cached(ctx, reference); ok {
				return stored, nil
			}
		}
	}
	return res, nil
}

// Cached returns a previously recorded outcome for reference. The
// reconciliation sweep uses this to resolve stuck pending transactions
// without re-invoking the provider.
func (i *Idempotent) Cached(ctx context.Context, reference string) (Result, bool) {
	b, err := i.Rdb.Get(ctx, outcomePrefix+reference).Bytes()
	if err != nil {
		return Result{}, false
	}
	var res Result
	if json.Unmarshal(b, &res) != nil {
		return Result{}, false
	}
	return res, true
}
