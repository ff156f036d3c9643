package trading

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const replayPrefix = "trade:replay:"

// ReplayCache maps (tenant, user, payment reference) to the transaction
// that first carried it, so client retries get the original terminal
// result back. Keys carry both tenant and user: identical references
// across tenants, or across users within a tenant, never collide.
type ReplayCache struct {
	Rdb *redis.Client
	TTL time.Duration
}

func (r *ReplayCache) key(tenantID, userID uuid.UUID, reference string) string {
	return replayPrefix + tenantID.String() + ":" + userID.String() + ":" + reference
}

// Lookup returns the recorded transaction ID for a reference.
func (r *ReplayCache) Lookup(ctx context.Context, tenantID, userID uuid.UUID, reference string) (uuid.UUID, bool) {
	if r == nil || r.Rdb == nil {
		return uuid.Nil, false
	}
	v, err := r.Rdb.Get(ctx, r.key(tenantID, userID, reference)).Result()
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Store records the transaction a reference resolved to. First writer
// wins so concurrent duplicates converge on one transaction.
func (r *ReplayCache) Store(ctx context.Context, tenantID, userID uuid.UUID, reference string, txID uuid.UUID) {
	if r == nil || r.Rdb == nil {
		return
	}
	r.Rdb.SetNX(ctx, r.key(tenantID, userID, reference), txID.String(), r.TTL)
}
