package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
)

// MemoryStore keeps records in process memory; used for development and tests
type MemoryStore struct {
	mu              sync.RWMutex
	contacts        []models.ContactMessage
	orders          []models.Order
	tracksuitOrders []models.TracksuitOrder
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) InsertContact(_ context.Context, c *models.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, *c)
	return nil
}

func (s *MemoryStore) InsertOrder(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, *o)
	return nil
}

func (s *MemoryStore) InsertTracksuitOrder(_ context.Context, o *models.TracksuitOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *o
	stored.CartItems = append([]models.CartItem(nil), o.CartItems...)
	s.tracksuitOrders = append(s.tracksuitOrders, stored)
	return nil
}

func (s *MemoryStore) RecentContacts(_ context.Context, limit int) ([]models.ContactMessage, error) {
	s.mu.RLock()
	out := append([]models.ContactMessage(nil), s.contacts...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

func (s *MemoryStore) RecentOrders(_ context.Context, limit int) ([]models.Order, error) {
	s.mu.RLock()
	out := append([]models.Order(nil), s.orders...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

func (s *MemoryStore) RecentTracksuitOrders(_ context.Context, limit int) ([]models.TracksuitOrder, error) {
	s.mu.RLock()
	out := append([]models.TracksuitOrder(nil), s.tracksuitOrders...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

func truncate[T any](records []T, limit int) []T {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	if records == nil {
		return []T{}
	}
	return records
}
