package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	err := store.Set(ctx, "k1", payload{Name: "áo thun", Count: 3}, 0)
	require.NoError(t, err)

	var got payload
	err = store.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.Equal(t, "áo thun", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	var got map[string]string
	err := store.Get(context.Background(), "nope", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", "value", 10*time.Millisecond))

	var got string
	require.NoError(t, store.Get(ctx, "short", &got))

	time.Sleep(20 * time.Millisecond)

	err := store.Get(ctx, "short", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Corrupt(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", []string{"a"}, 0))
	store.Corrupt("k1")

	var got []string
	err := store.Get(ctx, "k1", &got)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", 1, 0))
	require.NoError(t, store.Delete(ctx, "k1"))

	var got int
	assert.ErrorIs(t, store.Get(ctx, "k1", &got), ErrNotFound)

	// Deleting a missing key is a no-op
	assert.NoError(t, store.Delete(ctx, "k1"))
}

func TestMemoryStore_KeysPrefix(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart:a", 1, 0))
	require.NoError(t, store.Set(ctx, "cart:b", 2, 0))
	require.NoError(t, store.Set(ctx, "session:a", 3, 0))

	keys, err := store.Keys(ctx, "cart:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cart:a", "cart:b"}, keys)
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "keep", 1, 0))
	require.NoError(t, store.Set(ctx, "drop", 2, time.Millisecond))

	time.Sleep(5 * time.Millisecond)

	removed, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var got int
	assert.NoError(t, store.Get(ctx, "keep", &got))
	assert.ErrorIs(t, store.Get(ctx, "drop", &got), ErrNotFound)
}
