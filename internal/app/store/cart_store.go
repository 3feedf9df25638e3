// Package store holds the session-scoped state containers. Each container
// owns one snapshot key per session, exposes an explicit mutation API, and
// notifies subscribers after every change. They are the server-side stand-in
// for the browser's local-storage-backed stores.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/kv"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
)

// Listener observes mutations of a container, keyed by session id
type Listener func(sessionID string)

type CartStore struct {
	kv        kv.Store
	ttl       time.Duration
	listeners []Listener
}

func NewCartStore(store kv.Store, ttl time.Duration) *CartStore {
	return &CartStore{kv: store, ttl: ttl}
}

// Subscribe registers a mutation listener. Not safe to call once the store
// is serving requests.
func (s *CartStore) Subscribe(fn Listener) {
	s.listeners = append(s.listeners, fn)
}

func (s *CartStore) notify(sessionID string) {
	for _, fn := range s.listeners {
		fn(sessionID)
	}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// Items returns the session's cart. A corrupt snapshot falls back to an
// empty cart rather than failing the request.
func (s *CartStore) Items(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	var items []model.CartItem
	err := s.kv.Get(ctx, cartKey(sessionID), &items)
	if errors.Is(err, kv.ErrNotFound) {
		return []model.CartItem{}, nil
	}
	if errors.Is(err, kv.ErrCorrupt) {
		logger.Warn("Cart snapshot corrupt, resetting to empty", map[string]interface{}{
			"session_id": sessionID,
		})
		return []model.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Add inserts the item, or bumps the quantity when the product id is already
// present. A non-positive requested quantity counts as 1.
func (s *CartStore) Add(ctx context.Context, sessionID string, item model.CartItem) ([]model.CartItem, error) {
	items, err := s.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	found := false
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, item)
	}

	if err := s.save(ctx, sessionID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetQuantity sets an item's quantity; zero or negative removes the item.
// An unknown product id is a no-op.
func (s *CartStore) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) ([]model.CartItem, error) {
	items, err := s.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	changed := false
	next := items[:0]
	for _, item := range items {
		if item.ID != productID {
			next = append(next, item)
			continue
		}
		changed = true
		if quantity > 0 {
			item.Quantity = quantity
			next = append(next, item)
		}
	}
	if !changed {
		return items, nil
	}

	if err := s.save(ctx, sessionID, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Remove drops an item; an unknown product id is a no-op
func (s *CartStore) Remove(ctx context.Context, sessionID, productID string) ([]model.CartItem, error) {
	return s.SetQuantity(ctx, sessionID, productID, 0)
}

// Clear empties the cart
func (s *CartStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.kv.Delete(ctx, cartKey(sessionID)); err != nil {
		return err
	}
	s.notify(sessionID)
	return nil
}

func (s *CartStore) save(ctx context.Context, sessionID string, items []model.CartItem) error {
	if err := s.kv.Set(ctx, cartKey(sessionID), items, s.ttl); err != nil {
		return err
	}
	s.notify(sessionID)
	return nil
}
