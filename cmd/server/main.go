package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/auth"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/cart"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/config"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/notify"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/ratelimit"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/referral"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/repository"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/service"
	"github.com/Lixing-Zhang/tracksuit-store/backend/pkg/logger"
)

const notificationTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting tracksuit store api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"store", cfg.Store.Driver,
		"rate_limit_backend", cfg.RateLimit.Backend,
		"log_level", cfg.LogLevel,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Persistence gateway
	store, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	// Rate limiters, one per form endpoint
	limiters, closeLimiters, err := newLimiters(ctx, cfg.RateLimit, log)
	if err != nil {
		log.Error("failed to set up rate limiting", "error", err)
		os.Exit(1)
	}

	// Referral codes
	registry := referral.NewRegistry()
	if len(cfg.Referral.CodeURLs) > 0 {
		log.Info("loading referral codes...")
		if err := registry.LoadFromURLs(ctx, cfg.Referral.CodeURLs); err != nil {
			log.Warn("failed to load referral codes, continuing without them", "error", err)
		} else {
			stats := registry.GetStats()
			log.Info("referral codes loaded",
				"total_sources", stats["total_sources"],
				"total_codes", stats["total_codes"],
			)
		}
	}

	// Notification gateway
	var mailer notify.Mailer
	if cfg.Notify.ResendAPIKey != "" {
		mailer = notify.NewResendMailer(cfg.Notify.ResendAPIKey, cfg.Notify.ResendAPIURL, cfg.Notify.FromEmail, log)
	} else {
		log.Warn("RESEND_API_KEY is not set, emails will only be logged")
		mailer = notify.NewLogMailer(log)
	}

	var publisher notify.Publisher
	var kafkaPublisher *notify.KafkaPublisher
	if len(cfg.Notify.KafkaBrokers) > 0 {
		kafkaPublisher = notify.NewKafkaPublisher(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic)
		publisher = kafkaPublisher
		log.Info("publishing submission events", "brokers", cfg.Notify.KafkaBrokers, "topic", cfg.Notify.KafkaTopic)
	}

	if cfg.Notify.NotifyEmail == "" {
		log.Warn("NOTIFY_EMAIL and ADMIN_EMAIL are not set, admin notifications are disabled")
	}

	dispatcher := notify.NewDispatcher(log, cfg.Notify.Workers, cfg.Notify.QueueSize, notificationTimeout)
	notifier := notify.NewNotifier(mailer, publisher, cfg.Notify.NotifyEmail)

	// Services
	deps := service.PipelineDeps{
		Store:      store,
		Notifier:   notifier,
		Dispatcher: dispatcher,
		Log:        log,
	}
	minimums := cart.NewMinimums(cfg.Checkout.MinOrderQuantity, cfg.Checkout.MinOrderAmount)
	productRepo := repository.NewInMemoryProductRepository()

	handler := newRouter(routerDeps{
		log:        log,
		contact:    service.NewContactPipeline(deps, limiters.contact),
		order:      service.NewOrderPipeline(deps, limiters.order, service.NumericPolicy(cfg.Checkout.NumericPolicy)),
		tracksuit:  service.NewTracksuitPipeline(deps, limiters.tracksuit, service.TracksuitRules{Minimums: minimums, Referrals: registry}),
		products:   service.NewProductService(productRepo),
		carts:      service.NewCartService(productRepo, minimums),
		referrals:  registry,
		store:      store,
		verifier:   auth.NewSupabaseVerifier(cfg.Admin.SupabaseURL, cfg.Admin.SupabaseAnonKey),
		adminEmail: cfg.Admin.Email,
		dispatcher: dispatcher,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stop()

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	exitCode := 0
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		exitCode = 1
	}

	// Drain pending notifications before closing their sinks
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Error("pending notifications were dropped", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("failed to close kafka writer", "error", err)
		}
	}
	closeLimiters()
	if err := store.Close(shutdownCtx); err != nil {
		log.Error("failed to close store", "error", err)
	}

	log.Info("server stopped gracefully", "notification_failures", dispatcher.Failures())
	os.Exit(exitCode)
}

// openStore connects the configured persistence gateway and prepares its schema
func openStore(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (repository.Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch cfg.Driver {
	case "postgres":
		store, err := repository.NewPostgresStore(connectCtx, repository.Credentials{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPassword,
			DBName:   cfg.PostgresDB,
		})
		if err != nil {
			return nil, err
		}
		if err := store.RunMigrations(); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		log.Info("connected to postgres", "host", cfg.PostgresHost, "database", cfg.PostgresDB)
		return store, nil

	case "mongo":
		db, err := repository.ConnectMongoDB(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		store := repository.NewMongoStore(db)
		if err := store.CreateIndexes(connectCtx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		log.Info("connected to mongodb", "database", cfg.MongoDatabase)
		return store, nil

	default:
		log.Warn("using in-memory store, submissions are lost on restart")
		return repository.NewMemoryStore(), nil
	}
}

type endpointLimiters struct {
	contact   ratelimit.Limiter
	order     ratelimit.Limiter
	tracksuit ratelimit.Limiter
}

// newLimiters builds one independent limiter per endpoint. In-memory
// limiters get a background sweeper; Redis limiters share one client.
func newLimiters(ctx context.Context, cfg config.RateLimitConfig, log *slog.Logger) (endpointLimiters, func(), error) {
	windows := map[string]ratelimit.Window{
		"contact":   {Length: cfg.Contact.Window, Limit: cfg.Contact.Limit},
		"order":     {Length: cfg.Order.Window, Limit: cfg.Order.Limit},
		"tracksuit": {Length: cfg.Tracksuit.Window, Limit: cfg.Tracksuit.Limit},
	}

	if cfg.Backend == "redis" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return endpointLimiters{}, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		log.Info("rate limiting through redis", "addr", cfg.RedisAddr)

		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Error("failed to close redis client", "error", err)
			}
		}
		return endpointLimiters{
			contact:   ratelimit.NewRedisLimiter(client, "contact", windows["contact"]),
			order:     ratelimit.NewRedisLimiter(client, "order", windows["order"]),
			tracksuit: ratelimit.NewRedisLimiter(client, "tracksuit", windows["tracksuit"]),
		}, closeFn, nil
	}

	contact := ratelimit.NewMemoryLimiter(windows["contact"])
	order := ratelimit.NewMemoryLimiter(windows["order"])
	tracksuit := ratelimit.NewMemoryLimiter(windows["tracksuit"])
	for _, l := range []*ratelimit.MemoryLimiter{contact, order, tracksuit} {
		go l.RunSweeper(ctx, cfg.SweepInterval)
	}

	return endpointLimiters{contact: contact, order: order, tracksuit: tracksuit}, func() {}, nil
}
