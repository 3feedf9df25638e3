package store

import (
	"context"
	"errors"
	"time"

	"github.com/minhtvo/storefront-gateway/internal/kv"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
	"github.com/minhtvo/storefront-gateway/pkg/upstream"
)

// ReviewCache keeps the last successful review fetch per product so the
// storefront can still render reviews when the commerce API is unreachable.
// Session-independent, long TTL.
type ReviewCache struct {
	kv  kv.Store
	ttl time.Duration
}

func NewReviewCache(store kv.Store, ttl time.Duration) *ReviewCache {
	return &ReviewCache{kv: store, ttl: ttl}
}

func reviewCacheKey(productID string) string {
	return "reviews:product:" + productID
}

// Get returns the cached reviews, or kv.ErrNotFound when nothing usable
// is cached
func (c *ReviewCache) Get(ctx context.Context, productID string) ([]upstream.Review, error) {
	var reviews []upstream.Review
	err := c.kv.Get(ctx, reviewCacheKey(productID), &reviews)
	if errors.Is(err, kv.ErrCorrupt) {
		logger.Warn("Review cache corrupt, dropping", map[string]interface{}{
			"product_id": productID,
		})
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *ReviewCache) Put(ctx context.Context, productID string, reviews []upstream.Review) error {
	return c.kv.Set(ctx, reviewCacheKey(productID), reviews, c.ttl)
}
