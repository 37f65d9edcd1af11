package repository

import (
	"context"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
)

// DefaultListLimit caps admin listings
const DefaultListLimit = 100

// Store is the persistence gateway for submitted records.
// Recent* return records most recent first, at most limit of them.
type Store interface {
	InsertContact(ctx context.Context, c *models.ContactMessage) error
	InsertOrder(ctx context.Context, o *models.Order) error
	InsertTracksuitOrder(ctx context.Context, o *models.TracksuitOrder) error

	RecentContacts(ctx context.Context, limit int) ([]models.ContactMessage, error)
	RecentOrders(ctx context.Context, limit int) ([]models.Order, error)
	RecentTracksuitOrders(ctx context.Context, limit int) ([]models.TracksuitOrder, error)

	Close(ctx context.Context) error
}
