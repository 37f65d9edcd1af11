package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/repository"
)

// submissionReader is the read side of the persistence gateway
type submissionReader interface {
	RecentContacts(ctx context.Context, limit int) ([]models.ContactMessage, error)
	RecentOrders(ctx context.Context, limit int) ([]models.Order, error)
	RecentTracksuitOrders(ctx context.Context, limit int) ([]models.TracksuitOrder, error)
}

// AdminData is the combined dashboard payload
type AdminData struct {
	Contacts  []models.ContactMessage `json:"contacts"`
	Orders    []models.Order          `json:"orders"`
	Timestamp time.Time               `json:"timestamp"`
}

// AdminHandler serves the admin dashboard reads. Routes are expected to sit
// behind middleware.AdminAuth.
type AdminHandler struct {
	store submissionReader
	log   *slog.Logger
	now   func() time.Time
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store submissionReader, log *slog.Logger) *AdminHandler {
	return &AdminHandler{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// Contacts handles GET /api/admin/contacts
func (h *AdminHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.store.RecentContacts(r.Context(), repository.DefaultListLimit)
	if err != nil {
		h.fail(w, "contacts", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(contacts), h.log)
}

// Orders handles GET /api/admin/orders
func (h *AdminHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.RecentOrders(r.Context(), repository.DefaultListLimit)
	if err != nil {
		h.fail(w, "orders", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(orders), h.log)
}

// TracksuitOrders handles GET /api/admin/tracksuit-orders
func (h *AdminHandler) TracksuitOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.RecentTracksuitOrders(r.Context(), repository.DefaultListLimit)
	if err != nil {
		h.fail(w, "tracksuit orders", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(orders), h.log)
}

// Data handles GET /api/admin/data
func (h *AdminHandler) Data(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.store.RecentContacts(r.Context(), repository.DefaultListLimit)
	if err != nil {
		h.fail(w, "contacts", err)
		return
	}
	orders, err := h.store.RecentOrders(r.Context(), repository.DefaultListLimit)
	if err != nil {
		h.fail(w, "orders", err)
		return
	}

	WriteJSON(w, http.StatusOK, AdminData{
		Contacts:  nonNil(contacts),
		Orders:    nonNil(orders),
		Timestamp: h.now().UTC(),
	}, h.log)
}

func (h *AdminHandler) fail(w http.ResponseWriter, what string, err error) {
	h.log.Error("failed to load "+what, "error", err)
	WriteError(w, http.StatusInternalServerError, "Failed to fetch data", h.log)
}

// nonNil makes empty lists encode as [] instead of null
func nonNil[T any](records []T) []T {
	if records == nil {
		return []T{}
	}
	return records
}
