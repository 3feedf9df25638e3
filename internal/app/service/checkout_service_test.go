package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validShipping() model.ShippingInfo {
	return model.ShippingInfo{
		Name:       "Trần Minh",
		Email:      "minh@example.com",
		Address:    "12 Lý Thường Kiệt",
		City:       "Hà Nội",
		Province:   "Hà Nội",
		PostalCode: "100000",
		Phone:      "0901234567",
	}
}

// commerceHandler fakes the order and payment endpoints
func commerceHandler(t *testing.T, payURL string, failPayment bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/order/create/":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id": "order-77", "total_price": 400000.0, "status": "pending",
			})
		case "/order/momo/create-payment/", "/order/vnpay/create-payment/":
			if failPayment {
				w.WriteHeader(http.StatusBadGateway)
				json.NewEncoder(w).Encode(map[string]string{"error": "gateway down"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"payUrl": payURL})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newCheckoutService(env *testEnv) CheckoutService {
	return NewCheckoutService(env.sessions, env.carts, env.orders, env.checkouts, env.client)
}

func TestCheckoutService_StartRequiresSignIn(t *testing.T) {
	env := newTestEnv(t, commerceHandler(t, "https://pay.example/x", false))
	svc := newCheckoutService(env)

	sessionID := env.anonymousSession(t)
	env.seedCart(t, sessionID)

	_, err := svc.Start(context.Background(), sessionID)
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestCheckoutService_StartRequiresItems(t *testing.T) {
	env := newTestEnv(t, commerceHandler(t, "https://pay.example/x", false))
	svc := newCheckoutService(env)

	sessionID := env.signedInSession(t)

	_, err := svc.Start(context.Background(), sessionID)
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCheckoutService_StartOpensShippingStep(t *testing.T) {
	env := newTestEnv(t, commerceHandler(t, "https://pay.example/x", false))
	svc := newCheckoutService(env)

	sessionID := env.signedInSession(t)
	env.seedCart(t, sessionID)

	state, err := svc.Start(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, model.StepShipping, state.Step)
	assert.Nil(t, state.Shipping)
}

func TestCheckoutService_SubmitShippingValidatesPresence(t *testing.T) {
	env := newTestEnv(t, commerceHandler(t, "https://pay.example/x", false))
	svc := newCheckoutService(env)
	ctx := context.Background()

	sessionID := env.signedInSession(t)
	env.seedCart(t, sessionID)
	_, err := svc.Start(ctx, sessionID)
	require.NoError(t, err)

	shipping := validShipping()
	shipping.Phone = "   "
	shipping.City = ""

	_, err = svc.SubmitShipping(ctx, sessionID, shipping)
	var vErr *ShippingValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "phone")
	assert.Contains(t, vErr.Fields, "city")
	assert.Len(t, vErr.Fields, 2)

	// The wizard stays on the shipping step
	state, err := svc.State(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, model.StepShipping, state.Step)
}

func TestCheckoutService_SubmitShippingAdvances(t *testing.T) {
	env := newTestEnv(t, commerceHandler(t, "https://pay.example/x", false))
	svc := newCheckoutService(env)
	ctx := context.Background()

	sessionID := env.signedInSession(t)
	env.seedCart(t, sessionID)
	_, err := svc.Start(ctx, sessionID)
	require.NoError(t, err)

	state, err := svc.SubmitShipping(ctx, sessionID, validShipping())
	require.NoError(t, err)
	assert.Equal(t, model.StepPayment, state.Step)
	require.NotNil(t, state.Shipping)
	assert.Equal(t, "Hà Nội", state.Shipping.City)
}

func TestCheckoutService_CODPlacesOrderAndClearsCart(t *testing.T) {
	env := newTestEnv(t, commerceHandler(t, "", false))
	svc := newCheckoutService(env)
	ctx := context.Background()

	sessionID := env.signedInSession(t)
	env.seedCart(t, sessionID)
	_, err := svc.Start(ctx, sessionID)
	require.NoError(t, err)
	_, err = svc.SubmitShipping(ctx, sessionID, validShipping())
	require.NoError(t, err)

	state, err := svc.SubmitPayment(ctx, sessionID, model.MethodCOD)
	require.NoError(t, err)
	assert.Equal(t, model.StepPlaced, state.Step)
	assert.Equal(t, "order-77", state.OrderID)
	assert.Empty(t, state.PayURL)

	items, err := env.carts.Items(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, items)

	refs, err := env.orders.List(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, model.OrderPaymentCOD, refs[0].Payment)
	assert.Equal(t, 400000.0, refs[0].Total)
}

func TestCheckoutService_CODFailureLeavesCartIntact(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	svc := newCheckoutService(env)
	ctx := context.Background()

	sessionID := env.signedInSession(t)
	env.seedCart(t, sessionID)
	_, err := svc.Start(ctx, sessionID)
	require.NoError(t, err)
	_, err = svc.SubmitShipping(ctx, sessionID, validShipping())
	require.NoError(t, err)

	_, err = svc.SubmitPayment(ctx, sessionID, model.MethodCOD)
	require.Error(t, err)

	items, err := env.carts.Items(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	refs, err := env.orders.List(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, refs)

	state, err := svc.State(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, model.StepPayment, state.Step)
}

func TestCheckoutService_GatewayPaymentRedirects(t *testing.T) {
	env := newTestEnv(t, commerceHandler(t, "https://momo.example/pay/abc", false))
	svc := newCheckoutService(env)
	ctx := context.Background()

	sessionID := env.signedInSession(t)
	env.seedCart(t, sessionID)
	_, err := svc.Start(ctx, sessionID)
	require.NoError(t, err)
	_, err = svc.SubmitShipping(ctx, sessionID, validShipping())
	require.NoError(t, err)

	state, err := svc.SubmitPayment(ctx, sessionID, model.MethodMomo)
	require.NoError(t, err)
	assert.Equal(t, model.StepRedirecting, state.Step)
	assert.Equal(t, "https://momo.example/pay/abc", state.PayURL)
	assert.Equal(t, "order-77", state.OrderID)

	// Cart emptied and a pending history entry written before any
	// gateway confirmation
	items, err := env.carts.Items(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, items)

	refs, err := env.orders.List(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, model.OrderPaymentPending, refs[0].Payment)
}

func TestCheckoutService_PayLinkFailureKeepsOrderID(t *testing.T) {
	env := newTestEnv(t, commerceHandler(t, "", true))
	svc := newCheckoutService(env)
	ctx := context.Background()

	sessionID := env.signedInSession(t)
	env.seedCart(t, sessionID)
	_, err := svc.Start(ctx, sessionID)
	require.NoError(t, err)
	_, err = svc.SubmitShipping(ctx, sessionID, validShipping())
	require.NoError(t, err)

	_, err = svc.SubmitPayment(ctx, sessionID, model.MethodVnpay)
	require.Error(t, err)

	// The error names the orphaned order
	var payLinkErr *PaymentLinkError
	require.ErrorAs(t, err, &payLinkErr)
	assert.Equal(t, "order-77", payLinkErr.OrderID)

	// The order exists upstream; the wizard keeps its id and stays on the
	// payment step so the shopper can retry
	state, err := svc.State(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, model.StepPayment, state.Step)
	assert.Equal(t, "order-77", state.OrderID)
	assert.Empty(t, state.PayURL)

	refs, err := env.orders.List(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, model.OrderPaymentPending, refs[0].Payment)
}

func TestCheckoutService_InvalidMethodRejected(t *testing.T) {
	env := newTestEnv(t, commerceHandler(t, "", false))
	svc := newCheckoutService(env)

	_, err := svc.SubmitPayment(context.Background(), "any", model.PaymentMethod("paypal"))
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestCheckoutService_PaymentOutOfOrderRejected(t *testing.T) {
	env := newTestEnv(t, commerceHandler(t, "", false))
	svc := newCheckoutService(env)
	ctx := context.Background()

	sessionID := env.signedInSession(t)
	env.seedCart(t, sessionID)
	_, err := svc.Start(ctx, sessionID)
	require.NoError(t, err)

	// Shipping not submitted yet
	_, err = svc.SubmitPayment(ctx, sessionID, model.MethodCOD)
	assert.ErrorIs(t, err, ErrWrongCheckoutStep)
}

func TestCheckoutService_Cancel(t *testing.T) {
	env := newTestEnv(t, commerceHandler(t, "", false))
	svc := newCheckoutService(env)
	ctx := context.Background()

	sessionID := env.signedInSession(t)
	env.seedCart(t, sessionID)
	_, err := svc.Start(ctx, sessionID)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, sessionID))

	_, err = svc.State(ctx, sessionID)
	assert.ErrorIs(t, err, store.ErrNoCheckout)

	// Cancelling leaves the cart alone
	items, err := env.carts.Items(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
