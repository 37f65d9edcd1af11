package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
)

func setupPostgresStore(t *testing.T) *PostgresStore {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	store, err := NewPostgresStore(ctx, Credentials{
		Host:     host,
		Port:     port.Int(),
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(ctx) })

	require.NoError(t, store.RunMigrations())
	// second run is a no-op
	require.NoError(t, store.RunMigrations())

	return store
}

func setupMongoStore(t *testing.T) *MongoStore {
	if testing.Short() {
		t.Skip("skipping mongo integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	store := NewMongoStore(db)
	require.NoError(t, store.CreateIndexes(ctx))
	t.Cleanup(func() { store.Close(ctx) })

	return store
}

func TestPostgresStore(t *testing.T) {
	exerciseStore(t, setupPostgresStore(t))
}

func TestMongoStore(t *testing.T) {
	exerciseStore(t, setupMongoStore(t))
}

// exerciseStore runs the same round trip against any Store implementation
func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	t.Run("contacts", func(t *testing.T) {
		older := &models.ContactMessage{ID: uuid.NewString(), Name: "Ann", Email: "ann@example.com", Message: "first", CreatedAt: base}
		newer := &models.ContactMessage{ID: uuid.NewString(), Name: "Bob", Email: "bob@example.com", Phone: "+100", Message: "second", CreatedAt: base.Add(time.Minute)}
		require.NoError(t, store.InsertContact(ctx, older))
		require.NoError(t, store.InsertContact(ctx, newer))

		contacts, err := store.RecentContacts(ctx, DefaultListLimit)
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, newer.ID, contacts[0].ID)
		assert.Equal(t, "+100", contacts[0].Phone)
		assert.Equal(t, "", contacts[1].Phone)
		assert.WithinDuration(t, newer.CreatedAt, contacts[0].CreatedAt, time.Millisecond)

		limited, err := store.RecentContacts(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("orders", func(t *testing.T) {
		o := &models.Order{
			ID:            uuid.NewString(),
			CustomerName:  "Cara",
			CustomerEmail: "cara@example.com",
			ProductName:   "Mens Classic Tracksuit",
			ProductID:     "mens-1",
			Quantity:      2,
			Price:         49.99,
			PaymentStatus: models.PaymentStatusPending,
			CreatedAt:     base,
		}
		require.NoError(t, store.InsertOrder(ctx, o))

		orders, err := store.RecentOrders(ctx, DefaultListLimit)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, o.ID, orders[0].ID)
		assert.Equal(t, 2, orders[0].Quantity)
		assert.InDelta(t, 49.99, orders[0].Price, 0.001)
		assert.Equal(t, "mens-1", orders[0].ProductID)
		assert.Equal(t, "", orders[0].CustomerPhone)
	})

	t.Run("tracksuit orders", func(t *testing.T) {
		o := &models.TracksuitOrder{
			ID:              uuid.NewString(),
			Name:            "Dee",
			Email:           "dee@example.com",
			WhatsApp:        "+4400",
			DeliveryAddress: "1 High St",
			CartItems: []models.CartItem{
				{ItemID: "kids-1", ItemName: "Kids Classic Tracksuit", Category: "kids", Quantity: 3, SelectedSize: "6-7Y", Price: 25},
			},
			TotalPrice:    75,
			TotalQuantity: 3,
			PaymentID:     "PAY-1",
			ReferralCode:  "FRIEND01",
			ReferredBy:    "Eve",
			Status:        models.PaymentStatusPaid,
			CreatedAt:     base,
			UpdatedAt:     base,
		}
		require.NoError(t, store.InsertTracksuitOrder(ctx, o))

		orders, err := store.RecentTracksuitOrders(ctx, DefaultListLimit)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		got := orders[0]
		assert.Equal(t, o.ID, got.ID)
		assert.Equal(t, o.CartItems, got.CartItems)
		assert.InDelta(t, 75, got.TotalPrice, 0.001)
		assert.Equal(t, "Eve", got.ReferredBy)
		assert.Equal(t, models.PaymentStatusPaid, got.Status)
	})
}
