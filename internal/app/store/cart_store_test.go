package store

import (
	"context"
	"testing"
	"time"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSession = "sess-1"

func setupCartStore(t *testing.T) (*CartStore, *kv.MemoryStore) {
	mem := kv.NewMemoryStore()
	return NewCartStore(mem, time.Hour), mem
}

func testItem(id string, qty int) model.CartItem {
	return model.CartItem{
		ID:       id,
		Name:     "Áo thun " + id,
		Price:    150000,
		Quantity: qty,
	}
}

func TestCartStore_EmptyByDefault(t *testing.T) {
	carts, _ := setupCartStore(t)

	items, err := carts.Items(context.Background(), testSession)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartStore_AddNewItem(t *testing.T) {
	carts, _ := setupCartStore(t)
	ctx := context.Background()

	items, err := carts.Add(ctx, testSession, testItem("p1", 2))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartStore_AddExistingIncrementsQuantity(t *testing.T) {
	carts, _ := setupCartStore(t)
	ctx := context.Background()

	_, err := carts.Add(ctx, testSession, testItem("p1", 2))
	require.NoError(t, err)

	items, err := carts.Add(ctx, testSession, testItem("p1", 3))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartStore_AddNonPositiveQuantityCountsAsOne(t *testing.T) {
	carts, _ := setupCartStore(t)
	ctx := context.Background()

	items, err := carts.Add(ctx, testSession, testItem("p1", 0))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	items, err = carts.Add(ctx, testSession, testItem("p2", -4))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestCartStore_SetQuantity(t *testing.T) {
	carts, _ := setupCartStore(t)
	ctx := context.Background()

	_, err := carts.Add(ctx, testSession, testItem("p1", 1))
	require.NoError(t, err)

	items, err := carts.SetQuantity(ctx, testSession, "p1", 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestCartStore_SetQuantityZeroRemoves(t *testing.T) {
	carts, _ := setupCartStore(t)
	ctx := context.Background()

	_, err := carts.Add(ctx, testSession, testItem("p1", 1))
	require.NoError(t, err)
	_, err = carts.Add(ctx, testSession, testItem("p2", 1))
	require.NoError(t, err)

	items, err := carts.SetQuantity(ctx, testSession, "p1", 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)

	items, err = carts.SetQuantity(ctx, testSession, "p2", -3)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartStore_SetQuantityUnknownIDNoOp(t *testing.T) {
	carts, _ := setupCartStore(t)
	ctx := context.Background()

	_, err := carts.Add(ctx, testSession, testItem("p1", 2))
	require.NoError(t, err)

	items, err := carts.SetQuantity(ctx, testSession, "ghost", 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartStore_Clear(t *testing.T) {
	carts, _ := setupCartStore(t)
	ctx := context.Background()

	_, err := carts.Add(ctx, testSession, testItem("p1", 2))
	require.NoError(t, err)

	require.NoError(t, carts.Clear(ctx, testSession))

	items, err := carts.Items(ctx, testSession)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartStore_CorruptSnapshotFallsBackToEmpty(t *testing.T) {
	carts, mem := setupCartStore(t)
	ctx := context.Background()

	_, err := carts.Add(ctx, testSession, testItem("p1", 2))
	require.NoError(t, err)

	mem.Corrupt("cart:" + testSession)

	items, err := carts.Items(ctx, testSession)
	require.NoError(t, err)
	assert.Empty(t, items)

	// The cart is usable again after the fallback
	items, err = carts.Add(ctx, testSession, testItem("p2", 1))
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartStore_SessionsAreIsolated(t *testing.T) {
	carts, _ := setupCartStore(t)
	ctx := context.Background()

	_, err := carts.Add(ctx, "sess-a", testItem("p1", 1))
	require.NoError(t, err)

	items, err := carts.Items(ctx, "sess-b")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartStore_ListenersNotified(t *testing.T) {
	carts, _ := setupCartStore(t)
	ctx := context.Background()

	var notified []string
	carts.Subscribe(func(sessionID string) {
		notified = append(notified, sessionID)
	})

	_, err := carts.Add(ctx, testSession, testItem("p1", 1))
	require.NoError(t, err)
	_, err = carts.SetQuantity(ctx, testSession, "p1", 3)
	require.NoError(t, err)
	require.NoError(t, carts.Clear(ctx, testSession))

	assert.Equal(t, []string{testSession, testSession, testSession}, notified)
}

func TestCartTotals(t *testing.T) {
	items := []model.CartItem{
		{ID: "p1", Price: 100000, Quantity: 2},
		{ID: "p2", Price: 50000, Quantity: 3},
	}

	assert.Equal(t, 350000.0, model.CartTotal(items))
	assert.Equal(t, 5, model.CartCount(items))
}
