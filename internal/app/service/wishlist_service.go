package service

import (
	"context"
	"errors"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/pkg/upstream"
)

type WishlistService interface {
	Items(ctx context.Context, sessionID string) ([]model.WishlistItem, error)
	// Add resolves the product and inserts it; already-wishlisted ids are
	// left alone
	Add(ctx context.Context, sessionID, productID string) ([]model.WishlistItem, error)
	Remove(ctx context.Context, sessionID, productID string) ([]model.WishlistItem, error)
	// Toggle adds the product if absent, removes it if present, and reports
	// whether it is wishlisted afterwards
	Toggle(ctx context.Context, sessionID, productID string) (bool, []model.WishlistItem, error)
}

type wishlistService struct {
	wishlists *store.WishlistStore
	client    *upstream.Client
}

func NewWishlistService(wishlists *store.WishlistStore, client *upstream.Client) WishlistService {
	return &wishlistService{wishlists: wishlists, client: client}
}

func (s *wishlistService) Items(ctx context.Context, sessionID string) ([]model.WishlistItem, error) {
	return s.wishlists.Items(ctx, sessionID)
}

func (s *wishlistService) Add(ctx context.Context, sessionID, productID string) ([]model.WishlistItem, error) {
	product, err := s.client.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return s.wishlists.Add(ctx, sessionID, model.WishlistItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Image:    product.Image,
		Category: product.Category,
	})
}

func (s *wishlistService) Remove(ctx context.Context, sessionID, productID string) ([]model.WishlistItem, error) {
	return s.wishlists.Remove(ctx, sessionID, productID)
}

func (s *wishlistService) Toggle(ctx context.Context, sessionID, productID string) (bool, []model.WishlistItem, error) {
	present, err := s.wishlists.Contains(ctx, sessionID, productID)
	if err != nil {
		return false, nil, err
	}

	if present {
		items, err := s.Remove(ctx, sessionID, productID)
		return false, items, err
	}
	items, err := s.Add(ctx, sessionID, productID)
	if err != nil {
		return false, nil, err
	}
	return true, items, nil
}
