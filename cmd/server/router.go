package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/auth"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/handlers"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/middleware"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/notify"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/referral"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/repository"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/service"
)

type routerDeps struct {
	log *slog.Logger

	contact   handlers.Submitter
	order     handlers.Submitter
	tracksuit handlers.Submitter

	products  *service.ProductService
	carts     *service.CartService
	referrals *referral.Registry
	store     repository.Store

	verifier   auth.Verifier
	adminEmail string
	dispatcher *notify.Dispatcher
}

func newRouter(deps routerDeps) http.Handler {
	log := deps.log

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log, deps.dispatcher)
	productHandler := handlers.NewProductHandler(deps.products, log)
	cartHandler := handlers.NewCartHandler(deps.carts, log)
	referralHandler := handlers.NewReferralHandler(deps.referrals, log)
	adminHandler := handlers.NewAdminHandler(deps.store, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Form preflights answer POST, OPTIONS from any origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		// Form submissions; OPTIONS without preflight headers gets 204
		forms := map[string]handlers.Submitter{
			"/contact":          deps.contact,
			"/orders":           deps.order,
			"/tracksuit-orders": deps.tracksuit,
		}
		for path, pipeline := range forms {
			r.Method(http.MethodPost, path, handlers.NewSubmissionHandler(pipeline, log))
			r.Options(path, noContent)
		}

		// Catalog and cart
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{productId}", productHandler.GetProduct)
		r.Post("/cart/quote", cartHandler.Quote)

		r.Get("/referral/{code}", referralHandler.ValidateReferral)

		// Admin dashboard
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(deps.verifier, deps.adminEmail, log))
			r.Get("/contacts", adminHandler.Contacts)
			r.Get("/orders", adminHandler.Orders)
			r.Get("/tracksuit-orders", adminHandler.TracksuitOrders)
			r.Get("/data", adminHandler.Data)
		})
	})

	return r
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
