package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/app/service"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/internal/kv"
	"github.com/minhtvo/storefront-gateway/internal/middleware"
	"github.com/minhtvo/storefront-gateway/pkg/upstream"
	"github.com/minhtvo/storefront-gateway/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderTestApp struct {
	engine   *gin.Engine
	sessions *store.SessionStore
}

func newOrderTestApp(t *testing.T) *orderTestApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	commerce := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/order/o1/" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "not found"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "o1", "customer": "cust-9", "total_price": 250000.0, "status": "shipping",
		})
	}))
	t.Cleanup(commerce.Close)

	client, err := upstream.NewClient(upstream.Config{BaseURL: commerce.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)

	snapshots := kv.NewMemoryStore()
	t.Cleanup(func() { snapshots.Close() })

	sessions := store.NewSessionStore(snapshots, time.Hour)
	orders := store.NewOrderStore(snapshots, time.Hour)

	orderController := NewOrderController(service.NewOrderService(sessions, orders, client))
	sessionMiddleware := middleware.NewSessionMiddleware(testJWTSecret, sessions)

	engine := gin.New()
	api := engine.Group("/api/v1")

	userOrders := api.Group("/orders", sessionMiddleware.Require(), sessionMiddleware.RequireUser())
	{
		userOrders.GET("/:id", orderController.GetOrder)
	}
	admin := api.Group("/admin", sessionMiddleware.Require(), sessionMiddleware.RequireAdmin())
	{
		admin.GET("/orders/:id", orderController.GetOrder)
	}

	return &orderTestApp{engine: engine, sessions: sessions}
}

func (app *orderTestApp) tokenFor(t *testing.T, user *model.User) string {
	t.Helper()
	ctx := context.Background()

	session, err := app.sessions.Create(ctx)
	require.NoError(t, err)
	if user != nil {
		_, err = app.sessions.SetUser(ctx, session.ID, user)
		require.NoError(t, err)
	}

	token, err := util.GenerateSessionToken(session.ID, testJWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func (app *orderTestApp) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	return w
}

func TestOrderRoutes_AnonymousSessionRejected(t *testing.T) {
	app := newOrderTestApp(t)
	token := app.tokenFor(t, nil)

	w := app.get(t, "/api/v1/orders/o1", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderRoutes_CustomerBlockedFromAdminLookup(t *testing.T) {
	app := newOrderTestApp(t)
	token := app.tokenFor(t, &model.User{
		ID: "cust-1", Name: "Trang", Email: "trang@example.com", Role: model.RoleCustomer,
	})

	w := app.get(t, "/api/v1/admin/orders/o1", token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AUTHZ_ADMIN_ONLY", resp["error"])
}

func TestOrderRoutes_AdminLooksUpAnyOrder(t *testing.T) {
	app := newOrderTestApp(t)
	token := app.tokenFor(t, &model.User{
		ID: "staff-1", Name: "Quản trị", Email: "admin@example.com", Role: model.RoleAdmin,
	})

	// o1 is in no session's history; the staff surface still resolves it
	w := app.get(t, "/api/v1/admin/orders/o1", token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Order upstream.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "o1", resp.Order.ID)
	assert.Equal(t, "shipping", resp.Order.Status)
}

func TestOrderRoutes_CustomerCannotReadForeignOrder(t *testing.T) {
	app := newOrderTestApp(t)
	token := app.tokenFor(t, &model.User{
		ID: "cust-1", Name: "Trang", Email: "trang@example.com", Role: model.RoleCustomer,
	})

	w := app.get(t, "/api/v1/orders/o1", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ORDER_NOT_FOUND", resp["error"])
}
