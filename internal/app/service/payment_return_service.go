package service

import (
	"context"
	"net/url"
	"regexp"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
	"github.com/minhtvo/storefront-gateway/pkg/upstream"
)

// PaymentOutcome is what the return page renders after a gateway redirect
type PaymentOutcome struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id"` // display id, gateway suffix stripped
	Message string `json:"message,omitempty"`
}

type PaymentReturnService interface {
	// MomoReturn handles the redirect back from MoMo's hosted-payment page
	MomoReturn(ctx context.Context, sessionID string, params url.Values) (*PaymentOutcome, error)
	// VnpayReturn handles the redirect back from VNPAY's hosted-payment page
	VnpayReturn(ctx context.Context, sessionID string, params url.Values) (*PaymentOutcome, error)
}

type paymentReturnService struct {
	orders    *store.OrderStore
	checkouts *store.CheckoutStore
	client    *upstream.Client
}

func NewPaymentReturnService(
	orders *store.OrderStore,
	checkouts *store.CheckoutStore,
	client *upstream.Client,
) PaymentReturnService {
	return &paymentReturnService{
		orders:    orders,
		checkouts: checkouts,
		client:    client,
	}
}

// MoMo appends "_<timestamp>" to the order id it echoes back; the suffix is
// stripped for display and for matching the session's order history.
var txnSuffix = regexp.MustCompile(`_\d+$`)

func stripTxnSuffix(orderID string) string {
	return txnSuffix.ReplaceAllString(orderID, "")
}

func (s *paymentReturnService) MomoReturn(ctx context.Context, sessionID string, params url.Values) (*PaymentOutcome, error) {
	orderID := stripTxnSuffix(params.Get("orderId"))

	// The confirm call forwards every redirect parameter untouched; the
	// commerce API owns signature verification. The redirect only counts as
	// paid when the API accepts it AND MoMo itself reports success.
	_, confirmErr := s.client.MomoConfirmPayment(ctx, params)
	providerOK := params.Get("resultCode") == "0"

	return s.settle(ctx, sessionID, "momo", orderID, confirmErr == nil && providerOK, confirmErr)
}

func (s *paymentReturnService) VnpayReturn(ctx context.Context, sessionID string, params url.Values) (*PaymentOutcome, error) {
	orderID := stripTxnSuffix(params.Get("vnp_TxnRef"))

	_, confirmErr := s.client.VnpayConfirmPayment(ctx, params)
	status := params.Get("vnp_TransactionStatus")
	providerOK := params.Get("vnp_ResponseCode") == "00" && (status == "" || status == "00")

	return s.settle(ctx, sessionID, "vnpay", orderID, confirmErr == nil && providerOK, confirmErr)
}

func (s *paymentReturnService) settle(ctx context.Context, sessionID, gateway, orderID string, success bool, confirmErr error) (*PaymentOutcome, error) {
	fields := map[string]interface{}{
		"session_id": sessionID,
		"gateway":    gateway,
		"order_id":   orderID,
		"success":    success,
	}
	if confirmErr != nil {
		fields["confirm_error"] = confirmErr.Error()
	}

	if !success {
		logger.Warn("Gateway payment not confirmed", fields)
		return &PaymentOutcome{Success: false, OrderID: orderID}, nil
	}

	known, err := s.orders.Contains(ctx, sessionID, orderID)
	if err != nil {
		return nil, err
	}
	if !known {
		// Paid order with no matching history entry: the payment stands
		// upstream, surface the id so the shopper can follow up.
		logger.Warn("Confirmed payment for order missing from session history", fields)
		return &PaymentOutcome{
			Success: true,
			OrderID: orderID,
			Message: "Đơn hàng đã thanh toán nhưng không có trong lịch sử phiên này",
		}, nil
	}

	if err := s.orders.SetPaymentState(ctx, sessionID, orderID, model.OrderPaymentCompleted); err != nil {
		return nil, err
	}

	// Close out the wizard if this redirect belongs to it
	if state, err := s.checkouts.Get(ctx, sessionID); err == nil {
		if state.Step == model.StepRedirecting && state.OrderID == orderID {
			state.Step = model.StepPlaced
			if err := s.checkouts.Put(ctx, sessionID, state); err != nil {
				logger.Error("Failed to close checkout after payment", err, fields)
			}
		}
	}

	logger.Info("Gateway payment confirmed", fields)
	return &PaymentOutcome{Success: true, OrderID: orderID}, nil
}
