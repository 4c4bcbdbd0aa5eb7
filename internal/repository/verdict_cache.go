package repository

import (
	"context"
	"errors"
	"time"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
	"github.com/skymike/crypto-risk-dashboard/pkg/cache"
)

// VerdictCache keeps the latest verdict per pair in Redis so the read path
// can skip Postgres for fresh data. A miss is not an error.
type VerdictCache struct {
	cache cache.Service
	ttl   time.Duration
}

// NewVerdictCache wraps a cache service with the given entry TTL.
func NewVerdictCache(c cache.Service, ttl time.Duration) *VerdictCache {
	return &VerdictCache{cache: c, ttl: ttl}
}

func verdictKey(pair string) string {
	return "verdict:" + pair
}

// Put stores the verdict for its pair.
func (vc *VerdictCache) Put(ctx context.Context, v models.SignalVerdict) error {
	return vc.cache.Set(ctx, verdictKey(v.Pair), v, vc.ttl)
}

// Get returns the cached verdict for a pair, or ok=false on a miss.
func (vc *VerdictCache) Get(ctx context.Context, pair string) (models.SignalVerdict, bool, error) {
	var v models.SignalVerdict
	err := vc.cache.Get(ctx, verdictKey(pair), &v)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return models.SignalVerdict{}, false, nil
		}
		return models.SignalVerdict{}, false, err
	}
	return v, true, nil
}

// Invalidate drops the cached verdict for a pair.
func (vc *VerdictCache) Invalidate(ctx context.Context, pair string) error {
	return vc.cache.Delete(ctx, verdictKey(pair))
}
