package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupGormStore(t *testing.T) *GormStore {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	store, err := NewGormStoreWithDB(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestGormStore_SetGet(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	type payload struct {
		ID    string  `json:"id"`
		Price float64 `json:"price"`
	}

	require.NoError(t, store.Set(ctx, "k1", payload{ID: "p1", Price: 250000}, 0))

	var got payload
	require.NoError(t, store.Get(ctx, "k1", &got))
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, 250000.0, got.Price)
}

func TestGormStore_Overwrite(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", "first", 0))
	require.NoError(t, store.Set(ctx, "k1", "second", 0))

	var got string
	require.NoError(t, store.Get(ctx, "k1", &got))
	assert.Equal(t, "second", got)
}

func TestGormStore_GetMissing(t *testing.T) {
	store := setupGormStore(t)

	var got string
	err := store.Get(context.Background(), "nope", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_ExpiredRowReadsAsMissing(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", "value", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got string
	assert.ErrorIs(t, store.Get(ctx, "short", &got), ErrNotFound)
}

func TestGormStore_CorruptValue(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	// Write a row that is not valid JSON for the target type
	require.NoError(t, store.db.Save(&Snapshot{Key: "bad", Value: "{not json"}).Error)

	var got []string
	assert.ErrorIs(t, store.Get(ctx, "bad", &got), ErrCorrupt)
}

func TestGormStore_KeysPrefix(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart:a", 1, 0))
	require.NoError(t, store.Set(ctx, "cart:b", 2, 0))
	require.NoError(t, store.Set(ctx, "orders:a", 3, 0))
	require.NoError(t, store.Set(ctx, "cart:expired", 4, time.Millisecond))

	time.Sleep(5 * time.Millisecond)

	keys, err := store.Keys(ctx, "cart:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cart:a", "cart:b"}, keys)
}

func TestGormStore_Sweep(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "keep", 1, 0))
	require.NoError(t, store.Set(ctx, "drop1", 2, time.Millisecond))
	require.NoError(t, store.Set(ctx, "drop2", 3, time.Millisecond))

	time.Sleep(5 * time.Millisecond)

	removed, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	var got int
	assert.NoError(t, store.Get(ctx, "keep", &got))
}
