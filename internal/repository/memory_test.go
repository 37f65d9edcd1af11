package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
)

func TestMemoryStore_RecentOrdersMostRecentFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.InsertOrder(ctx, &models.Order{
			ID:        fmt.Sprintf("o-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	orders, err := store.RecentOrders(ctx, 3)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "o-4", orders[0].ID)
	assert.Equal(t, "o-2", orders[2].ID)
}

func TestMemoryStore_EmptyListsAreNotNil(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	contacts, err := store.RecentContacts(ctx, DefaultListLimit)
	require.NoError(t, err)
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)

	tracksuits, err := store.RecentTracksuitOrders(ctx, DefaultListLimit)
	require.NoError(t, err)
	assert.NotNil(t, tracksuits)
}

func TestMemoryStore_DuplicateSubmissionsAreKept(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	c := &models.ContactMessage{ID: "c-1", Name: "A", Email: "a@b.co", Message: "hi"}

	require.NoError(t, store.InsertContact(ctx, c))
	require.NoError(t, store.InsertContact(ctx, c))

	contacts, err := store.RecentContacts(ctx, DefaultListLimit)
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
}

func TestMemoryStore_TracksuitOrderItemsAreCopied(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	o := &models.TracksuitOrder{
		ID:        "t-1",
		CartItems: []models.CartItem{{ItemID: "mens-1", Quantity: 2}},
	}

	require.NoError(t, store.InsertTracksuitOrder(ctx, o))
	o.CartItems[0].Quantity = 99

	orders, err := store.RecentTracksuitOrders(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, orders[0].CartItems[0].Quantity)
}
