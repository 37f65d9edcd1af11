package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
	Checkout  CheckoutConfig
	Notify    NotifyConfig
	Admin     AdminConfig
	Referral  ReferralConfig
	LogLevel  string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// StoreConfig selects and configures the persistence gateway
type StoreConfig struct {
	Driver string // memory, postgres or mongo

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	MongoURI      string
	MongoDatabase string
}

// EndpointLimit is the fixed window applied to one submission endpoint
type EndpointLimit struct {
	Window time.Duration
	Limit  int
}

type RateLimitConfig struct {
	Backend       string // memory or redis
	RedisAddr     string
	SweepInterval time.Duration

	Contact   EndpointLimit
	Order     EndpointLimit
	Tracksuit EndpointLimit
}

type CheckoutConfig struct {
	MinOrderQuantity int
	MinOrderAmount   float64
	// NumericPolicy, read from ORDER_ZERO_QUANTITY, is "default" or "reject".
	// It covers zero or unreadable order quantities (rewritten to 1) and
	// unreadable prices (rewritten to 0).
	NumericPolicy    string
}

type NotifyConfig struct {
	ResendAPIKey string
	ResendAPIURL string
	FromEmail    string
	NotifyEmail  string
	Workers      int
	QueueSize    int
	KafkaBrokers []string
	KafkaTopic   string
}

type AdminConfig struct {
	Email           string
	SupabaseURL     string
	SupabaseAnonKey string
}

type ReferralConfig struct {
	CodeURLs []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	adminEmail := getEnv("ADMIN_EMAIL", "")

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Store: StoreConfig{
			Driver:           strings.ToLower(getEnv("STORE_DRIVER", "memory")),
			PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
			PostgresPort:     getEnvAsInt("POSTGRES_PORT", 5432),
			PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
			PostgresPassword: getEnv("POSTGRES_PASSWORD", "postgres"),
			PostgresDB:       getEnv("POSTGRES_DB", "storefront"),
			MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDatabase:    getEnv("MONGO_DATABASE", "storefront"),
		},
		RateLimit: RateLimitConfig{
			Backend:       strings.ToLower(getEnv("RATE_LIMIT_BACKEND", "memory")),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			SweepInterval: getEnvAsDuration("RATE_LIMIT_SWEEP_INTERVAL", 5*time.Minute),
			Contact: EndpointLimit{
				Window: getEnvAsDuration("CONTACT_RATE_WINDOW", 60*time.Second),
				Limit:  getEnvAsInt("CONTACT_RATE_LIMIT", 5),
			},
			Order: EndpointLimit{
				Window: getEnvAsDuration("ORDER_RATE_WINDOW", 120*time.Second),
				Limit:  getEnvAsInt("ORDER_RATE_LIMIT", 3),
			},
			Tracksuit: EndpointLimit{
				Window: getEnvAsDuration("TRACKSUIT_RATE_WINDOW", 120*time.Second),
				Limit:  getEnvAsInt("TRACKSUIT_RATE_LIMIT", 3),
			},
		},
		Checkout: CheckoutConfig{
			MinOrderQuantity: getEnvAsInt("MIN_ORDER_QUANTITY", 10),
			MinOrderAmount:   getEnvAsFloat("MIN_ORDER_AMOUNT", 250),
			NumericPolicy:    strings.ToLower(getEnv("ORDER_ZERO_QUANTITY", "default")),
		},
		Notify: NotifyConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			ResendAPIURL: getEnv("RESEND_API_URL", "https://api.resend.com/emails"),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@yourdomain.com"),
			NotifyEmail:  getEnv("NOTIFY_EMAIL", adminEmail),
			Workers:      getEnvAsInt("NOTIFY_WORKERS", 2),
			QueueSize:    getEnvAsInt("NOTIFY_QUEUE_SIZE", 100),
			KafkaBrokers: getEnvAsSlice("KAFKA_BROKERS", nil),
			KafkaTopic:   getEnv("KAFKA_TOPIC", "storefront-events"),
		},
		Admin: AdminConfig{
			Email:           adminEmail,
			SupabaseURL:     strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
			SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", ""),
		},
		Referral: ReferralConfig{
			CodeURLs: getEnvAsSlice("REFERRAL_CODE_URLS", nil),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Driver {
	case "memory", "postgres", "mongo":
	default:
		return fmt.Errorf("invalid STORE_DRIVER: %s (must be memory, postgres, or mongo)", c.Store.Driver)
	}

	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid RATE_LIMIT_BACKEND: %s (must be memory or redis)", c.RateLimit.Backend)
	}

	for name, l := range map[string]EndpointLimit{
		"CONTACT":   c.RateLimit.Contact,
		"ORDER":     c.RateLimit.Order,
		"TRACKSUIT": c.RateLimit.Tracksuit,
	} {
		if l.Window <= 0 || l.Limit <= 0 {
			return fmt.Errorf("%s rate limit window and limit must be positive", name)
		}
	}

	if c.RateLimit.SweepInterval <= 0 {
		return fmt.Errorf("RATE_LIMIT_SWEEP_INTERVAL must be positive")
	}

	if c.Checkout.MinOrderQuantity < 0 || c.Checkout.MinOrderAmount < 0 {
		return fmt.Errorf("minimum order quantity and amount must not be negative")
	}

	if c.Checkout.NumericPolicy != "default" && c.Checkout.NumericPolicy != "reject" {
		return fmt.Errorf("invalid ORDER_ZERO_QUANTITY: %s (must be default or reject)", c.Checkout.NumericPolicy)
	}

	if c.Notify.Workers <= 0 || c.Notify.QueueSize <= 0 {
		return fmt.Errorf("NOTIFY_WORKERS and NOTIFY_QUEUE_SIZE must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
