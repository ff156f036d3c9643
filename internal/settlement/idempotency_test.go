package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingConnector records how many times the provider was actually
// invoked per direction.
type countingConnector struct {
	payments int
	payouts  int
	accept   bool
}

func (c *countingConnector) SettlePayment(ctx context.Context, amount decimal.Decimal, method, reference string) (Result, error) {
	c.payments++
	return Result{Accepted: c.accept, ProviderRef: "prov-" + reference}, nil
}

func (c *countingConnector) SettlePayout(ctx context.Context, amount decimal.Decimal, method, reference string) (Result, error) {
	c.payouts++
	return Result{Accepted: c.accept, ProviderRef: "prov-" + reference}, nil
}

func setupIdempotent(t *testing.T, next Connector) *Idempotent {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &Idempotent{Next: next, Rdb: rdb, TTL: time.Minute}
}

func TestSettlePayment_CachedByReference(t *testing.T) {
	next := &countingConnector{accept: true}
	idem := setupIdempotent(t, next)
	ctx := context.Background()
	amount := decimal.RequireFromString("15625")

	first, err := idem.SettlePayment(ctx, amount, "card", "ref-1")
	require.NoError(t, err)
	assert.True(t, first.Accepted)

	// Retry with the same reference hits the cache, not the provider.
	second, err := idem.SettlePayment(ctx, amount, "card", "ref-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.payments)

	// A new reference is a new settlement.
	_, err = idem.SettlePayment(ctx, amount, "card", "ref-2")
	require.NoError(t, err)
	assert.Equal(t, 2, next.payments)
}

func TestSettlePayout_DeclinedOutcomeIsCachedToo(t *testing.T) {
	next := &countingConnector{accept: false}
	idem := setupIdempotent(t, next)
	ctx := context.Background()

	first, err := idem.SettlePayout(ctx, decimal.NewFromInt(100), "bank", "ref-9")
	require.NoError(t, err)
	assert.False(t, first.Accepted)

	second, err := idem.SettlePayout(ctx, decimal.NewFromInt(100), "bank", "ref-9")
	require.NoError(t, err)
	assert.False(t, second.Accepted)
	assert.Equal(t, 1, next.payouts)
}

func TestCached(t *testing.T) {
	next := &countingConnector{accept: true}
	idem := setupIdempotent(t, next)
	ctx := context.Background()

	_, ok := idem.Cached(ctx, "ref-1")
	assert.False(t, ok)

	want, err := idem.SettlePayment(ctx, decimal.NewFromInt(50), "card", "ref-1")
	require.NoError(t, err)

	got, ok := idem.Cached(ctx, "ref-1")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestStaticConnector_RespectsContext(t *testing.T) {
	s := &StaticConnector{AcceptPayments: true, AcceptPayouts: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.SettlePayment(ctx, decimal.NewFromInt(1), "card", "ref")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.SettlePayout(ctx, decimal.NewFromInt(1), "bank", "ref")
	assert.ErrorIs(t, err, context.Canceled)
}
