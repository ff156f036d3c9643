package tenant

import (
	"context"
	"encoding/json"
	"time"

	"aurum-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const cachePrefix = "tenant:"

// Resolver validates inbound tenant identifiers and loads tenant
// configuration. Active tenants are cached in Redis with a TTL so the
// per-request lookup does not hit Postgres on the hot path.
type Resolver struct {
	DB       *gorm.DB
	Rdb      *redis.Client
	CacheTTL time.Duration
}

// Resolve returns the active tenant for id, or domain.ErrTenantInvalid
// for unknown, suspended, or closed tenants.
func (r *Resolver) Resolve(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	id, err := uuid.Parse(tenantID)
	if err != nil {
		return nil, domain.ErrTenantInvalid
	}

	if r.Rdb != nil {
		if b, err := r.Rdb.Get(ctx, cachePrefix+id.String()).Bytes(); err == nil {
			var cached domain.Tenant
			if json.Unmarshal(b, &cached) == nil && cached.Status == domain.TenantActive {
				return &cached, nil
			}
		}
	}

	var tenant domain.Tenant
	if err := r.DB.WithContext(ctx).Where("tenant_id = ?", id).First(&tenant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrTenantInvalid
		}
		return nil, err
	}
	if tenant.Status != domain.TenantActive {
		return nil, domain.ErrTenantInvalid
	}

	if r.Rdb != nil {
		if b, err := json.Marshal(&tenant); err == nil {
			r.Rdb.Set(ctx, cachePrefix+id.String(), b, r.CacheTTL)
		}
	}
	return &tenant, nil
}

// Invalidate drops a cached tenant (status transitions happen in the
// external admin flow; it calls this hook after flipping status).
func (r *Resolver) Invalidate(ctx context.Context, tenantID uuid.UUID) {
	if r.Rdb != nil {
		r.Rdb.Del(ctx, cachePrefix+tenantID.String())
	}
}
