package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
	"github.com/minhtvo/storefront-gateway/pkg/upstream"
)

var (
	ErrCartEmpty            = errors.New("cart is empty")
	ErrWrongCheckoutStep    = errors.New("operation not valid for current checkout step")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
)

// ShippingValidationError carries the per-field problems of a rejected
// shipping form
type ShippingValidationError struct {
	Fields map[string]string
}

func (e *ShippingValidationError) Error() string {
	return fmt.Sprintf("shipping form invalid: %d missing fields", len(e.Fields))
}

// PaymentLinkError reports an order that was placed upstream but whose
// hosted-payment page could not be opened. The order id lets the shopper
// retry payment from order history.
type PaymentLinkError struct {
	OrderID string
	Err     error
}

func (e *PaymentLinkError) Error() string {
	return fmt.Sprintf("payment link for order %s: %v", e.OrderID, e.Err)
}

func (e *PaymentLinkError) Unwrap() error { return e.Err }

type CheckoutService interface {
	// Start opens the wizard at the shipping step. Requires a signed-in
	// session and a non-empty cart.
	Start(ctx context.Context, sessionID string) (*model.CheckoutState, error)
	// SubmitShipping stores the form and advances to the payment step
	SubmitShipping(ctx context.Context, sessionID string, shipping model.ShippingInfo) (*model.CheckoutState, error)
	// SubmitPayment places the order. COD completes the flow; MoMo and
	// VNPAY hand back a hosted-payment URL to redirect to.
	SubmitPayment(ctx context.Context, sessionID string, method model.PaymentMethod) (*model.CheckoutState, error)
	// State returns the current wizard snapshot, or store.ErrNoCheckout
	State(ctx context.Context, sessionID string) (*model.CheckoutState, error)
	// Cancel abandons an unfinished wizard. The cart is left alone.
	Cancel(ctx context.Context, sessionID string) error
}

type checkoutService struct {
	sessions  *store.SessionStore
	carts     *store.CartStore
	orders    *store.OrderStore
	checkouts *store.CheckoutStore
	client    *upstream.Client
}

func NewCheckoutService(
	sessions *store.SessionStore,
	carts *store.CartStore,
	orders *store.OrderStore,
	checkouts *store.CheckoutStore,
	client *upstream.Client,
) CheckoutService {
	return &checkoutService{
		sessions:  sessions,
		carts:     carts,
		orders:    orders,
		checkouts: checkouts,
		client:    client,
	}
}

func (s *checkoutService) Start(ctx context.Context, sessionID string) (*model.CheckoutState, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.SignedIn() {
		return nil, ErrNotSignedIn
	}

	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	// Restart from the shipping step even if an older unfinished wizard
	// exists; its shipping form is carried over as the prefill.
	var shipping *model.ShippingInfo
	if prev, err := s.checkouts.Get(ctx, sessionID); err == nil {
		shipping = prev.Shipping
	}

	state := &model.CheckoutState{
		Step:      model.StepShipping,
		Shipping:  shipping,
		StartedAt: time.Now(),
	}
	if err := s.checkouts.Put(ctx, sessionID, state); err != nil {
		return nil, err
	}

	logger.Info("Checkout started", map[string]interface{}{
		"session_id": sessionID,
		"user_id":    session.User.ID,
		"cart_items": len(items),
	})
	return state, nil
}

func (s *checkoutService) SubmitShipping(ctx context.Context, sessionID string, shipping model.ShippingInfo) (*model.CheckoutState, error) {
	state, err := s.checkouts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Step != model.StepShipping && state.Step != model.StepPayment {
		return nil, ErrWrongCheckoutStep
	}

	if fields := shipping.MissingFields(); len(fields) > 0 {
		return nil, &ShippingValidationError{Fields: fields}
	}

	state.Shipping = &shipping
	state.Step = model.StepPayment
	if err := s.checkouts.Put(ctx, sessionID, state); err != nil {
		return nil, err
	}

	logger.Info("Shipping info submitted", map[string]interface{}{
		"session_id": sessionID,
	})
	return state, nil
}

func (s *checkoutService) SubmitPayment(ctx context.Context, sessionID string, method model.PaymentMethod) (*model.CheckoutState, error) {
	if !model.ValidPaymentMethod(method) {
		return nil, ErrInvalidPaymentMethod
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.SignedIn() {
		return nil, ErrNotSignedIn
	}

	state, err := s.checkouts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Step != model.StepPayment {
		return nil, ErrWrongCheckoutStep
	}

	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}
	total := model.CartTotal(items)

	order, err := s.client.CreateOrder(ctx, buildOrderRequest(session.User.ID, items, method, state.Shipping))
	if err != nil {
		// Order creation failed outright: nothing placed, cart untouched,
		// the wizard stays on the payment step.
		logger.Error("Order creation failed", err, map[string]interface{}{
			"session_id": sessionID,
			"method":     method,
		})
		return nil, err
	}

	state.Method = method
	state.OrderID = order.ID

	// The order exists upstream now, so the cart empties and the history
	// entry appears before any gateway confirms. An abandoned gateway
	// payment therefore leaves a pending order behind, not a stale cart.
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		logger.Error("Failed to clear cart after order creation", err, map[string]interface{}{
			"session_id": sessionID,
			"order_id":   order.ID,
		})
	}

	switch method {
	case model.MethodCOD:
		if err := s.orders.Append(ctx, sessionID, model.OrderRef{
			ID:       order.ID,
			Total:    total,
			Method:   method,
			Payment:  model.OrderPaymentCOD,
			PlacedAt: time.Now(),
		}); err != nil {
			return nil, err
		}
		state.Step = model.StepPlaced

	case model.MethodMomo, model.MethodVnpay:
		if err := s.orders.Append(ctx, sessionID, model.OrderRef{
			ID:       order.ID,
			Total:    total,
			Method:   method,
			Payment:  model.OrderPaymentPending,
			PlacedAt: time.Now(),
		}); err != nil {
			return nil, err
		}

		payURL, payErr := s.createPayment(ctx, method, order.ID)
		if payErr != nil {
			// The order was placed but no pay page opened. The wizard stays
			// on the payment step with the order id recorded so the shopper
			// can retry from order history.
			logger.Error("Hosted-payment creation failed", payErr, map[string]interface{}{
				"session_id": sessionID,
				"order_id":   order.ID,
				"method":     method,
			})
			if err := s.checkouts.Put(ctx, sessionID, state); err != nil {
				return nil, err
			}
			return nil, &PaymentLinkError{OrderID: order.ID, Err: payErr}
		}
		state.PayURL = payURL
		state.Step = model.StepRedirecting
	}

	if err := s.checkouts.Put(ctx, sessionID, state); err != nil {
		return nil, err
	}

	logger.Info("Payment step completed", map[string]interface{}{
		"session_id": sessionID,
		"order_id":   order.ID,
		"method":     method,
		"step":       state.Step,
		"total":      total,
	})
	return state, nil
}

func (s *checkoutService) createPayment(ctx context.Context, method model.PaymentMethod, orderID string) (string, error) {
	switch method {
	case model.MethodMomo:
		resp, err := s.client.MomoCreatePayment(ctx, orderID)
		if err != nil {
			return "", err
		}
		return resp.PayURL, nil
	case model.MethodVnpay:
		resp, err := s.client.VnpayCreatePayment(ctx, orderID)
		if err != nil {
			return "", err
		}
		return resp.PayURL, nil
	}
	return "", ErrInvalidPaymentMethod
}

func (s *checkoutService) State(ctx context.Context, sessionID string) (*model.CheckoutState, error) {
	return s.checkouts.Get(ctx, sessionID)
}

func (s *checkoutService) Cancel(ctx context.Context, sessionID string) error {
	logger.Info("Checkout cancelled", map[string]interface{}{
		"session_id": sessionID,
	})
	return s.checkouts.Delete(ctx, sessionID)
}

func buildOrderRequest(customerID string, items []model.CartItem, method model.PaymentMethod, shipping *model.ShippingInfo) upstream.CreateOrderRequest {
	orderItems := make([]upstream.OrderItemInput, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, upstream.OrderItemInput{
			ProductID: item.ID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}

	req := upstream.CreateOrderRequest{
		Customer:      customerID,
		Items:         orderItems,
		PaymentMethod: string(method),
	}
	if shipping != nil {
		req.ShippingAddress = shipping.Address
		req.City = shipping.City
		req.Province = shipping.Province
		req.PostalCode = shipping.PostalCode
		req.Phone = shipping.Phone
	}
	return req
}
