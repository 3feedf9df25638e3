package store

import (
	"context"
	"errors"
	"time"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/kv"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
)

type WishlistStore struct {
	kv        kv.Store
	ttl       time.Duration
	listeners []Listener
}

func NewWishlistStore(store kv.Store, ttl time.Duration) *WishlistStore {
	return &WishlistStore{kv: store, ttl: ttl}
}

func (s *WishlistStore) Subscribe(fn Listener) {
	s.listeners = append(s.listeners, fn)
}

func wishlistKey(sessionID string) string {
	return "wishlist:" + sessionID
}

func (s *WishlistStore) Items(ctx context.Context, sessionID string) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	err := s.kv.Get(ctx, wishlistKey(sessionID), &items)
	if errors.Is(err, kv.ErrNotFound) {
		return []model.WishlistItem{}, nil
	}
	if errors.Is(err, kv.ErrCorrupt) {
		logger.Warn("Wishlist snapshot corrupt, resetting to empty", map[string]interface{}{
			"session_id": sessionID,
		})
		return []model.WishlistItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Add inserts the item unless its id is already present (set semantics)
func (s *WishlistStore) Add(ctx context.Context, sessionID string, item model.WishlistItem) ([]model.WishlistItem, error) {
	items, err := s.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for _, existing := range items {
		if existing.ID == item.ID {
			return items, nil
		}
	}

	items = append(items, item)
	if err := s.save(ctx, sessionID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Remove drops an item; an unknown product id is a no-op
func (s *WishlistStore) Remove(ctx context.Context, sessionID, productID string) ([]model.WishlistItem, error) {
	items, err := s.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next := items[:0]
	removed := false
	for _, item := range items {
		if item.ID == productID {
			removed = true
			continue
		}
		next = append(next, item)
	}
	if !removed {
		return items, nil
	}

	if err := s.save(ctx, sessionID, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Contains reports whether the product is wishlisted
func (s *WishlistStore) Contains(ctx context.Context, sessionID, productID string) (bool, error) {
	items, err := s.Items(ctx, sessionID)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.ID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (s *WishlistStore) save(ctx context.Context, sessionID string, items []model.WishlistItem) error {
	if err := s.kv.Set(ctx, wishlistKey(sessionID), items, s.ttl); err != nil {
		return err
	}
	for _, fn := range s.listeners {
		fn(sessionID)
	}
	return nil
}
