package store

import (
	"context"
	"errors"
	"time"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/kv"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
)

// OrderStore keeps each session's placed-order history. Orders themselves
// live upstream; this is the list the account page and the return handlers
// work from.
type OrderStore struct {
	kv  kv.Store
	ttl time.Duration
}

func NewOrderStore(store kv.Store, ttl time.Duration) *OrderStore {
	return &OrderStore{kv: store, ttl: ttl}
}

func ordersKey(sessionID string) string {
	return "orders:" + sessionID
}

func (s *OrderStore) List(ctx context.Context, sessionID string) ([]model.OrderRef, error) {
	var refs []model.OrderRef
	err := s.kv.Get(ctx, ordersKey(sessionID), &refs)
	if errors.Is(err, kv.ErrNotFound) {
		return []model.OrderRef{}, nil
	}
	if errors.Is(err, kv.ErrCorrupt) {
		logger.Warn("Order history snapshot corrupt, resetting to empty", map[string]interface{}{
			"session_id": sessionID,
		})
		return []model.OrderRef{}, nil
	}
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func (s *OrderStore) Append(ctx context.Context, sessionID string, ref model.OrderRef) error {
	refs, err := s.List(ctx, sessionID)
	if err != nil {
		return err
	}
	refs = append(refs, ref)
	return s.kv.Set(ctx, ordersKey(sessionID), refs, s.ttl)
}

// SetPaymentState updates one history entry after a gateway confirmation
func (s *OrderStore) SetPaymentState(ctx context.Context, sessionID, orderID string, state model.OrderPaymentState) error {
	refs, err := s.List(ctx, sessionID)
	if err != nil {
		return err
	}

	changed := false
	for i := range refs {
		if refs[i].ID == orderID {
			refs[i].Payment = state
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.kv.Set(ctx, ordersKey(sessionID), refs, s.ttl)
}

// Contains reports whether the session placed the given order
func (s *OrderStore) Contains(ctx context.Context, sessionID, orderID string) (bool, error) {
	refs, err := s.List(ctx, sessionID)
	if err != nil {
		return false, err
	}
	for _, ref := range refs {
		if ref.ID == orderID {
			return true, nil
		}
	}
	return false, nil
}
