package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

// failureCounter reports how many background notifications failed
type failureCounter interface {
	Failures() int64
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	logger        *slog.Logger
	notifications failureCounter
}

// NewHealthHandler creates a new health handler. notifications may be nil.
func NewHealthHandler(logger *slog.Logger, notifications failureCounter) *HealthHandler {
	return &HealthHandler{
		logger:        logger,
		notifications: notifications,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status               string    `json:"status"`
	Timestamp            time.Time `json:"timestamp"`
	Version              string    `json:"version"`
	NotificationFailures int64     `json:"notificationFailures"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	}
	if h.notifications != nil {
		response.NotificationFailures = h.notifications.Failures()
	}

	WriteJSON(w, http.StatusOK, response, h.logger)
}
