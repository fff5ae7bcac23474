package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miraedance/atelier/internal/store"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, store.Products, map[string]any{"name": "Tango Dress", "price": 120.0})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := s.Get(ctx, store.Products, id)
	require.NoError(t, err)
	assert.Equal(t, "Tango Dress", doc.Fields["name"])

	_, err = s.Get(ctx, store.Products, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_CreateHonoursExplicitID(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, store.Customers, map[string]any{"_id": "auth_1", "name": "Kim"})
	require.NoError(t, err)
	assert.Equal(t, "auth_1", id)

	doc, err := s.Get(ctx, store.Customers, "auth_1")
	require.NoError(t, err)
	_, hasRawID := doc.Fields["_id"]
	assert.False(t, hasRawID, "_id must not leak into the field map")

	_, err = s.Create(ctx, store.Customers, map[string]any{"_id": "auth_1"})
	assert.Error(t, err, "duplicate explicit id must be rejected")
}

func TestMemoryStore_UpdateIsPartial(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, store.Orders, map[string]any{
		"status":      "pending",
		"productName": "Tango Dress",
	})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, store.Orders, id, map[string]any{"status": "confirmed"}))

	doc, err := s.Get(ctx, store.Orders, id)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", doc.Fields["status"])
	assert.Equal(t, "Tango Dress", doc.Fields["productName"], "untouched fields must survive a partial update")

	assert.ErrorIs(t, s.Update(ctx, store.Orders, "missing", map[string]any{"x": 1}), store.ErrNotFound)
}

func TestMemoryStore_QueryFiltersAndOrder(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	for _, o := range []map[string]any{
		{"productId": "p1", "createdAt": time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"productId": "p2", "createdAt": time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"productId": "p1", "createdAt": time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	} {
		_, err := s.Create(ctx, store.Orders, o)
		require.NoError(t, err)
	}

	docs, err := s.Query(ctx, store.Orders, []store.Filter{store.Eq("productId", "p1")}, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = s.Query(ctx, store.Orders, nil, &store.OrderBy{Field: "createdAt", Desc: true})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "p1", docs[0].Fields["productId"])
	first := docs[0].Fields["createdAt"].(time.Time)
	last := docs[2].Fields["createdAt"].(time.Time)
	assert.True(t, first.After(last))
}

func TestMemoryStore_DeleteIsIdempotent(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, store.Customers, map[string]any{"name": "Kim"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, store.Customers, id))
	require.NoError(t, s.Delete(ctx, store.Customers, id), "second delete must not error")

	_, err = s.Get(ctx, store.Customers, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_SubscribeSnapshots(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	var snapshots [][]store.Document
	cancel, err := s.Subscribe(store.Orders, []store.Filter{store.Eq("status", "pending")}, nil, func(docs []store.Document) {
		snapshots = append(snapshots, docs)
	})
	require.NoError(t, err)
	defer cancel()

	require.Len(t, snapshots, 1, "initial snapshot fires on subscribe")
	assert.Empty(t, snapshots[0])

	id, err := s.Create(ctx, store.Orders, map[string]any{"status": "pending"})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Len(t, snapshots[1], 1)

	// Moving the order out of the filter yields an empty snapshot.
	require.NoError(t, s.Update(ctx, store.Orders, id, map[string]any{"status": "confirmed"}))
	require.Len(t, snapshots, 3)
	assert.Empty(t, snapshots[2])

	cancel()
	_, err = s.Create(ctx, store.Orders, map[string]any{"status": "pending"})
	require.NoError(t, err)
	assert.Len(t, snapshots, 3, "no deliveries after cancel")
}
