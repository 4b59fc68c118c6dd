package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billy-le/love-edith/internal/domain"
)

func setupStorage(t *testing.T) (*CartStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCartStorage(client, time.Hour), mr
}

func sampleItems() []domain.LineItem {
	return []domain.LineItem{
		{
			ProductID: 1,
			VariantID: 11,
			Name:      "Rosa Linen Dress",
			Price:     99900,
			Size:      "M",
			Color:     "Terracotta",
			Qty:       2,
		},
	}
}

func TestCartStorage_SaveAndLoad(t *testing.T) {
	storage, _ := setupStorage(t)
	ctx := context.Background()
	s := storage.ForSession("sess-1")

	require.NoError(t, s.Save(ctx, sampleItems()))

	items, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(11), items[0].VariantID)
	assert.Equal(t, 2, items[0].Qty)
}

func TestCartStorage_KeyLayout(t *testing.T) {
	storage, mr := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.ForSession("sess-1").Save(ctx, sampleItems()))

	// Carts are stored as one JSON array under shopping_cart:<session_id>.
	raw, err := mr.Get("shopping_cart:sess-1")
	require.NoError(t, err)

	var items []domain.LineItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	require.Len(t, items, 1)
}

func TestCartStorage_SessionsAreIsolated(t *testing.T) {
	storage, _ := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.ForSession("sess-1").Save(ctx, sampleItems()))

	items, err := storage.ForSession("sess-2").Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartStorage_LoadMissingKeyReturnsEmpty(t *testing.T) {
	storage, _ := setupStorage(t)

	items, err := storage.ForSession("sess-1").Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCartStorage_LoadCorruptedPayload(t *testing.T) {
	storage, mr := setupStorage(t)

	require.NoError(t, mr.Set("shopping_cart:sess-1", "{not valid json"))

	_, err := storage.ForSession("sess-1").Load(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal cart")
}

func TestCartStorage_SaveNilPersistsEmptyList(t *testing.T) {
	storage, mr := setupStorage(t)
	ctx := context.Background()
	s := storage.ForSession("sess-1")

	require.NoError(t, s.Save(ctx, sampleItems()))
	require.NoError(t, s.Save(ctx, nil))

	raw, err := mr.Get("shopping_cart:sess-1")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", raw)

	items, loadErr := s.Load(ctx)
	require.NoError(t, loadErr)
	assert.Empty(t, items)
}

func TestCartStorage_Clear(t *testing.T) {
	storage, mr := setupStorage(t)
	ctx := context.Background()
	s := storage.ForSession("sess-1")

	require.NoError(t, s.Save(ctx, sampleItems()))
	require.NoError(t, s.Clear(ctx))

	assert.False(t, mr.Exists("shopping_cart:sess-1"))
}

func TestCartStorage_TTLApplied(t *testing.T) {
	storage, mr := setupStorage(t)

	require.NoError(t, storage.ForSession("sess-1").Save(context.Background(), sampleItems()))

	assert.Equal(t, time.Hour, mr.TTL("shopping_cart:sess-1"))
}

func TestCartStorage_ExpiredCartLoadsEmpty(t *testing.T) {
	storage, mr := setupStorage(t)
	ctx := context.Background()
	s := storage.ForSession("sess-1")

	require.NoError(t, s.Save(ctx, sampleItems()))
	mr.FastForward(2 * time.Hour)

	items, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
