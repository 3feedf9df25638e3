package store

import (
	"context"
	"errors"
	"time"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/kv"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
)

var ErrNoCheckout = errors.New("no checkout in progress")

// CheckoutStore persists the per-session checkout wizard state so a
// gateway redirect round-trip lands back in the same flow.
type CheckoutStore struct {
	kv  kv.Store
	ttl time.Duration
}

func NewCheckoutStore(store kv.Store, ttl time.Duration) *CheckoutStore {
	return &CheckoutStore{kv: store, ttl: ttl}
}

func checkoutKey(sessionID string) string {
	return "checkout:" + sessionID
}

func (s *CheckoutStore) Get(ctx context.Context, sessionID string) (*model.CheckoutState, error) {
	var state model.CheckoutState
	err := s.kv.Get(ctx, checkoutKey(sessionID), &state)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNoCheckout
	}
	if errors.Is(err, kv.ErrCorrupt) {
		logger.Warn("Checkout snapshot corrupt, dropping", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, ErrNoCheckout
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *CheckoutStore) Put(ctx context.Context, sessionID string, state *model.CheckoutState) error {
	state.UpdatedAt = time.Now()
	return s.kv.Set(ctx, checkoutKey(sessionID), state, s.ttl)
}

func (s *CheckoutStore) Delete(ctx context.Context, sessionID string) error {
	return s.kv.Delete(ctx, checkoutKey(sessionID))
}
