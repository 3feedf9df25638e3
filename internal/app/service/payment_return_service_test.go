package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// confirmHandler fakes the payment confirmation endpoints
func confirmHandler(accept bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/order/momo/confirm-payment/", "/order/vnpay/confirm-payment/":
			if !accept {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "signature mismatch"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"message": "confirmed"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func seedPendingOrder(t *testing.T, env *testEnv, sessionID, orderID string) {
	t.Helper()
	require.NoError(t, env.orders.Append(context.Background(), sessionID, model.OrderRef{
		ID:       orderID,
		Total:    400000,
		Method:   model.MethodMomo,
		Payment:  model.OrderPaymentPending,
		PlacedAt: time.Now(),
	}))
}

func TestStripTxnSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"order-77_1699999999", "order-77"},
		{"order-77", "order-77"},
		{"order_abc_123", "order_abc"},
		{"order_abc_x", "order_abc_x"}, // non-numeric suffix kept
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripTxnSuffix(tt.in))
	}
}

func TestPaymentReturn_MomoSuccess(t *testing.T) {
	env := newTestEnv(t, confirmHandler(true))
	svc := NewPaymentReturnService(env.orders, env.checkouts, env.client)
	ctx := context.Background()

	sessionID := env.signedInSession(t)
	seedPendingOrder(t, env, sessionID, "order-77")
	require.NoError(t, env.checkouts.Put(ctx, sessionID, &model.CheckoutState{
		Step:    model.StepRedirecting,
		Method:  model.MethodMomo,
		OrderID: "order-77",
	}))

	params := url.Values{}
	params.Set("orderId", "order-77_1699999999")
	params.Set("resultCode", "0")

	outcome, err := svc.MomoReturn(ctx, sessionID, params)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "order-77", outcome.OrderID)

	refs, err := env.orders.List(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaymentCompleted, refs[0].Payment)

	state, err := env.checkouts.Get(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, model.StepPlaced, state.Step)
}

func TestPaymentReturn_MomoProviderFailure(t *testing.T) {
	env := newTestEnv(t, confirmHandler(true))
	svc := NewPaymentReturnService(env.orders, env.checkouts, env.client)
	ctx := context.Background()

	sessionID := env.signedInSession(t)
	seedPendingOrder(t, env, sessionID, "order-77")

	params := url.Values{}
	params.Set("orderId", "order-77_1699999999")
	params.Set("resultCode", "1006") // user cancelled

	outcome, err := svc.MomoReturn(ctx, sessionID, params)
	require.NoError(t, err)
	assert.False(t, outcome.Success)

	refs, err := env.orders.List(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaymentPending, refs[0].Payment)
}

func TestPaymentReturn_ConfirmRejectionBeatsProviderCode(t *testing.T) {
	env := newTestEnv(t, confirmHandler(false))
	svc := NewPaymentReturnService(env.orders, env.checkouts, env.client)
	ctx := context.Background()

	sessionID := env.signedInSession(t)
	seedPendingOrder(t, env, sessionID, "order-77")

	// MoMo claims success but the commerce API rejects the signature
	params := url.Values{}
	params.Set("orderId", "order-77")
	params.Set("resultCode", "0")

	outcome, err := svc.MomoReturn(ctx, sessionID, params)
	require.NoError(t, err)
	assert.False(t, outcome.Success)

	refs, err := env.orders.List(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaymentPending, refs[0].Payment)
}

func TestPaymentReturn_VnpaySuccessVariants(t *testing.T) {
	tests := []struct {
		name        string
		respCode    string
		txnStatus   string
		wantSuccess bool
	}{
		{"both zero", "00", "00", true},
		{"status omitted", "00", "", true},
		{"bad response code", "24", "00", false},
		{"bad transaction status", "00", "02", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, confirmHandler(true))
			svc := NewPaymentReturnService(env.orders, env.checkouts, env.client)
			ctx := context.Background()

			sessionID := env.signedInSession(t)
			seedPendingOrder(t, env, sessionID, "order-88")

			params := url.Values{}
			params.Set("vnp_TxnRef", "order-88")
			params.Set("vnp_ResponseCode", tt.respCode)
			if tt.txnStatus != "" {
				params.Set("vnp_TransactionStatus", tt.txnStatus)
			}

			outcome, err := svc.VnpayReturn(ctx, sessionID, params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, outcome.Success)
		})
	}
}

func TestPaymentReturn_PaidOrderMissingFromHistory(t *testing.T) {
	env := newTestEnv(t, confirmHandler(true))
	svc := NewPaymentReturnService(env.orders, env.checkouts, env.client)
	ctx := context.Background()

	sessionID := env.signedInSession(t)

	params := url.Values{}
	params.Set("orderId", "stranger-1")
	params.Set("resultCode", "0")

	outcome, err := svc.MomoReturn(ctx, sessionID, params)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "stranger-1", outcome.OrderID)
	assert.NotEmpty(t, outcome.Message)

	refs, err := env.orders.List(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, refs)
}
