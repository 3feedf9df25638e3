package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/internal/kv"
	"github.com/minhtvo/storefront-gateway/pkg/upstream"
	"github.com/stretchr/testify/require"
)

// testEnv bundles the session-scoped containers around one in-memory
// snapshot store and a fake commerce API
type testEnv struct {
	kv        *kv.MemoryStore
	sessions  *store.SessionStore
	carts     *store.CartStore
	wishlists *store.WishlistStore
	orders    *store.OrderStore
	checkouts *store.CheckoutStore
	chats     *store.ChatStore
	cache     *store.ReviewCache
	client    *upstream.Client
}

func newTestEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := upstream.NewClient(upstream.Config{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)

	mem := kv.NewMemoryStore()
	return &testEnv{
		kv:        mem,
		sessions:  store.NewSessionStore(mem, time.Hour),
		carts:     store.NewCartStore(mem, time.Hour),
		wishlists: store.NewWishlistStore(mem, time.Hour),
		orders:    store.NewOrderStore(mem, time.Hour),
		checkouts: store.NewCheckoutStore(mem, time.Hour),
		chats:     store.NewChatStore(mem, time.Hour, 50),
		cache:     store.NewReviewCache(mem, time.Hour),
		client:    client,
	}
}

// unreachableClient points at a closed server to simulate a dead commerce API
func unreachableClient(t *testing.T) *upstream.Client {
	t.Helper()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client, err := upstream.NewClient(upstream.Config{
		BaseURL: srv.URL,
		Timeout: time.Second,
	})
	require.NoError(t, err)
	return client
}

// signedInSession creates a session with a signed-in customer
func (e *testEnv) signedInSession(t *testing.T) string {
	t.Helper()

	session, err := e.sessions.Create(context.Background())
	require.NoError(t, err)

	_, err = e.sessions.SetUser(context.Background(), session.ID, &model.User{
		ID:    "cust-1",
		Name:  "Trần Minh",
		Email: "minh@example.com",
		Role:  model.RoleCustomer,
	})
	require.NoError(t, err)
	return session.ID
}

// anonymousSession creates a session with no user attached
func (e *testEnv) anonymousSession(t *testing.T) string {
	t.Helper()

	session, err := e.sessions.Create(context.Background())
	require.NoError(t, err)
	return session.ID
}

// seedCart puts one priced line into the session's cart
func (e *testEnv) seedCart(t *testing.T, sessionID string) {
	t.Helper()

	_, err := e.carts.Add(context.Background(), sessionID, model.CartItem{
		ID:       "p1",
		Name:     "Áo sơ mi",
		Price:    200000,
		Quantity: 2,
	})
	require.NoError(t, err)
}
