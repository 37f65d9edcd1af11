package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/auth"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/cart"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/notify"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/ratelimit"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/referral"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/repository"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/service"
	"github.com/Lixing-Zhang/tracksuit-store/backend/pkg/logger"
)

type tokenVerifier map[string]string

func (v tokenVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	email, ok := v[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Identity{ID: token, Email: email}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *repository.MemoryStore) {
	t.Helper()

	log := logger.New("error")
	store := repository.NewMemoryStore()
	dispatcher := notify.NewDispatcher(log, 1, 10, time.Second)
	t.Cleanup(func() { _ = dispatcher.Shutdown(context.Background()) })

	deps := service.PipelineDeps{
		Store:      store,
		Notifier:   notify.NewNotifier(notify.NewLogMailer(log), nil, "owner@example.com"),
		Dispatcher: dispatcher,
		Log:        log,
	}
	minimums := cart.NewMinimums(10, 250)
	productRepo := repository.NewInMemoryProductRepository()
	registry := referral.NewRegistry()
	window := func(d time.Duration, n int) ratelimit.Limiter {
		return ratelimit.NewMemoryLimiter(ratelimit.Window{Length: d, Limit: n})
	}

	handler := newRouter(routerDeps{
		log:        log,
		contact:    service.NewContactPipeline(deps, window(time.Minute, 5)),
		order:      service.NewOrderPipeline(deps, window(2*time.Minute, 3), service.NumericDefault),
		tracksuit:  service.NewTracksuitPipeline(deps, window(2*time.Minute, 3), service.TracksuitRules{Minimums: minimums, Referrals: registry}),
		products:   service.NewProductService(productRepo),
		carts:      service.NewCartService(productRepo, minimums),
		referrals:  registry,
		store:      store,
		verifier:   tokenVerifier{"admin-token": "owner@example.com", "user-token": "someone@example.com"},
		adminEmail: "Owner@Example.com",
		dispatcher: dispatcher,
	})
	return handler, store
}

func TestRouter_Preflight(t *testing.T) {
	handler, _ := newTestRouter(t)

	for _, path := range []string{"/api/contact", "/api/orders", "/api/tracksuit-orders"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			req.Header.Set("Origin", "https://shop.example.com")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			req.Header.Set("Access-Control-Request-Headers", "Content-Type")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code >= 300 {
				t.Errorf("expected success status, got %d", w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Errorf("expected Access-Control-Allow-Origin *, got %q", got)
			}
			if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPost) {
				t.Errorf("expected POST to be allowed, got %q", got)
			}
		})
	}
}

func TestRouter_BareOptions(t *testing.T) {
	handler, _ := newTestRouter(t)

	for _, path := range []string{"/api/contact", "/api/orders", "/api/tracksuit-orders"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusNoContent {
				t.Errorf("expected status 204, got %d", w.Code)
			}
			if w.Body.Len() != 0 {
				t.Errorf("expected empty body, got %q", w.Body.String())
			}
		})
	}
}

func TestRouter_ContactThenAdmin(t *testing.T) {
	handler, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/contact",
		strings.NewReader(`{"name":"Ann","email":"ann@example.com","message":"Hello"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{name: "admin", token: "admin-token", expectedStatus: http.StatusOK},
		{name: "other user", token: "user-token", expectedStatus: http.StatusUnauthorized},
		{name: "no token", token: "", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/contacts", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var contacts []map[string]any
			if err := json.NewDecoder(w.Body).Decode(&contacts); err != nil {
				t.Fatalf("failed to decode contacts: %v", err)
			}
			if len(contacts) != 1 || contacts[0]["name"] != "Ann" {
				t.Errorf("unexpected contacts %v", contacts)
			}
		})
	}
}

func TestRouter_GetOnFormEndpoint(t *testing.T) {
	handler, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestRouter_Health(t *testing.T) {
	handler, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}
