package service

import (
	"context"
	"errors"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/pkg/upstream"
)

var ErrProductNotFound = errors.New("product not found")

// CartView is the cart plus its derived totals, the shape every cart
// endpoint responds with
type CartView struct {
	Items []model.CartItem `json:"items"`
	Total float64          `json:"total"`
	Count int              `json:"count"`
}

type CartService interface {
	// Get returns the session's cart with derived totals
	Get(ctx context.Context, sessionID string) (*CartView, error)
	// Add resolves the product against the catalog and merges it into the
	// cart; an id already present has its quantity incremented
	Add(ctx context.Context, sessionID, productID string, quantity int, variant string) (*CartView, error)
	// SetQuantity pins a line's quantity; zero or less removes the line
	SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*CartView, error)
	Remove(ctx context.Context, sessionID, productID string) (*CartView, error)
	Clear(ctx context.Context, sessionID string) error
}

type cartService struct {
	carts  *store.CartStore
	client *upstream.Client
}

func NewCartService(carts *store.CartStore, client *upstream.Client) CartService {
	return &cartService{carts: carts, client: client}
}

func (s *cartService) view(ctx context.Context, sessionID string) (*CartView, error) {
	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &CartView{
		Items: items,
		Total: model.CartTotal(items),
		Count: model.CartCount(items),
	}, nil
}

func (s *cartService) Get(ctx context.Context, sessionID string) (*CartView, error) {
	return s.view(ctx, sessionID)
}

func (s *cartService) Add(ctx context.Context, sessionID, productID string, quantity int, variant string) (*CartView, error) {
	product, err := s.client.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	item := model.CartItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Image:    product.Image,
		Quantity: quantity,
		Variant:  variant,
	}
	if _, err := s.carts.Add(ctx, sessionID, item); err != nil {
		return nil, err
	}
	return s.view(ctx, sessionID)
}

func (s *cartService) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*CartView, error) {
	if _, err := s.carts.SetQuantity(ctx, sessionID, productID, quantity); err != nil {
		return nil, err
	}
	return s.view(ctx, sessionID)
}

func (s *cartService) Remove(ctx context.Context, sessionID, productID string) (*CartView, error) {
	if _, err := s.carts.Remove(ctx, sessionID, productID); err != nil {
		return nil, err
	}
	return s.view(ctx, sessionID)
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	return s.carts.Clear(ctx, sessionID)
}
