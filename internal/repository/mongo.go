package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
)

const (
	contactsCollection        = "contacts"
	ordersCollection          = "orders"
	tracksuitOrdersCollection = "tracksuit_orders"
)

// ConnectMongoDB connects, pings and returns the named database
func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

// MongoStore persists each record kind in its own collection
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore wraps a connected database
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// CreateIndexes adds the created_at indexes used by the admin listings
func (s *MongoStore) CreateIndexes(ctx context.Context) error {
	for _, name := range []string{contactsCollection, ordersCollection, tracksuitOrdersCollection} {
		_, err := s.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		})
		if err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
	}
	return nil
}

func (s *MongoStore) InsertContact(ctx context.Context, c *models.ContactMessage) error {
	if _, err := s.db.Collection(contactsCollection).InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *MongoStore) InsertOrder(ctx context.Context, o *models.Order) error {
	if _, err := s.db.Collection(ordersCollection).InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *MongoStore) InsertTracksuitOrder(ctx context.Context, o *models.TracksuitOrder) error {
	if _, err := s.db.Collection(tracksuitOrdersCollection).InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert tracksuit order: %w", err)
	}
	return nil
}

func (s *MongoStore) RecentContacts(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	contacts := []models.ContactMessage{}
	if err := s.findRecent(ctx, contactsCollection, limit, &contacts); err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}
	return contacts, nil
}

func (s *MongoStore) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.findRecent(ctx, ordersCollection, limit, &orders); err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	return orders, nil
}

func (s *MongoStore) RecentTracksuitOrders(ctx context.Context, limit int) ([]models.TracksuitOrder, error) {
	orders := []models.TracksuitOrder{}
	if err := s.findRecent(ctx, tracksuitOrdersCollection, limit, &orders); err != nil {
		return nil, fmt.Errorf("find tracksuit orders: %w", err)
	}
	return orders, nil
}

func (s *MongoStore) findRecent(ctx context.Context, collection string, limit int, out any) error {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}
