package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func orderDetailHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/order/o1/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":          "o1",
			"customer":    "cust-1",
			"total_price": 400000.0,
			"status":      "shipping",
		})
	})
}

func seedHistory(t *testing.T, env *testEnv, sessionID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, env.orders.Append(ctx, sessionID, model.OrderRef{
		ID: "o1", Total: 400000, Method: model.MethodCOD,
		Payment: model.OrderPaymentCOD, PlacedAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, env.orders.Append(ctx, sessionID, model.OrderRef{
		ID: "o2", Total: 150000, Method: model.MethodMomo,
		Payment: model.OrderPaymentCompleted, PlacedAt: time.Now(),
	}))
}

func TestOrderService_ListNewestFirst(t *testing.T) {
	env := newTestEnv(t, orderDetailHandler())
	svc := NewOrderService(env.sessions, env.orders, env.client)

	sessionID := env.signedInSession(t)
	seedHistory(t, env, sessionID)

	refs, err := svc.List(context.Background(), sessionID)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "o2", refs[0].ID)
	assert.Equal(t, "o1", refs[1].ID)
}

func TestOrderService_GetOwnOrder(t *testing.T) {
	env := newTestEnv(t, orderDetailHandler())
	svc := NewOrderService(env.sessions, env.orders, env.client)

	sessionID := env.signedInSession(t)
	seedHistory(t, env, sessionID)

	order, err := svc.Get(context.Background(), sessionID, "o1")
	require.NoError(t, err)
	assert.Equal(t, "shipping", order.Status)
}

func TestOrderService_GetForeignOrderHidden(t *testing.T) {
	env := newTestEnv(t, orderDetailHandler())
	svc := NewOrderService(env.sessions, env.orders, env.client)

	// Signed in, but o1 belongs to another session's history
	sessionID := env.signedInSession(t)

	_, err := svc.Get(context.Background(), sessionID, "o1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_AdminSeesAnyOrder(t *testing.T) {
	env := newTestEnv(t, orderDetailHandler())
	svc := NewOrderService(env.sessions, env.orders, env.client)
	ctx := context.Background()

	session, err := env.sessions.Create(ctx)
	require.NoError(t, err)
	_, err = env.sessions.SetUser(ctx, session.ID, &model.User{
		ID: "staff-1", Name: "Quản trị", Email: "admin@example.com", Role: model.RoleAdmin,
	})
	require.NoError(t, err)

	order, err := svc.Get(ctx, session.ID, "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
}

func TestOrderService_GetRequiresSignIn(t *testing.T) {
	env := newTestEnv(t, orderDetailHandler())
	svc := NewOrderService(env.sessions, env.orders, env.client)

	_, err := svc.Get(context.Background(), env.anonymousSession(t), "o1")
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestOrderService_ExportProducesWorkbook(t *testing.T) {
	env := newTestEnv(t, orderDetailHandler())
	svc := NewOrderService(env.sessions, env.orders, env.client)

	sessionID := env.signedInSession(t)
	seedHistory(t, env, sessionID)

	data, err := svc.Export(context.Background(), sessionID)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + two orders
	assert.Equal(t, "Order ID", rows[0][0])
	assert.Equal(t, "o2", rows[1][0]) // newest first
	assert.Equal(t, "o1", rows[2][0])
}
