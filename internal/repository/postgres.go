package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Credentials locate the PostgreSQL database
type Credentials struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// PostgresStore persists submissions in PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens and pings the database
func NewPostgresStore(ctx context.Context, cred Credentials) (*PostgresStore, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	return &PostgresStore{db: db}, nil
}

// RunMigrations applies the embedded schema migrations
func (s *PostgresStore) RunMigrations() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}

	driver, err := postgres.WithInstance(s.db, &postgres.Config{
		MigrationsTable: "storefront_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (s *PostgresStore) InsertContact(ctx context.Context, c *models.ContactMessage) error {
	query := `INSERT INTO contacts (id, name, email, phone_number, message, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, nullString(c.Phone), c.Message, c.CreatedAt); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertOrder(ctx context.Context, o *models.Order) error {
	query := `INSERT INTO orders (id, customer_name, customer_email, customer_phone, product_name,
	                              product_id, quantity, price, payment_status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if _, err := s.db.ExecContext(ctx, query,
		o.ID,
		o.CustomerName,
		o.CustomerEmail,
		nullString(o.CustomerPhone),
		o.ProductName,
		nullString(o.ProductID),
		o.Quantity,
		o.Price,
		o.PaymentStatus,
		o.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertTracksuitOrder(ctx context.Context, o *models.TracksuitOrder) error {
	itemsJSON, err := json.Marshal(o.CartItems)
	if err != nil {
		return fmt.Errorf("failed to marshal cart items: %w", err)
	}

	query := `INSERT INTO tracksuit_orders (id, name, email, whatsapp, delivery_address, cart_items,
	                                        total_price, total_quantity, payment_id, referral_code,
	                                        referred_by, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	if _, err := s.db.ExecContext(ctx, query,
		o.ID,
		o.Name,
		o.Email,
		o.WhatsApp,
		o.DeliveryAddress,
		itemsJSON,
		o.TotalPrice,
		o.TotalQuantity,
		nullString(o.PaymentID),
		nullString(o.ReferralCode),
		nullString(o.ReferredBy),
		o.Status,
		o.CreatedAt,
		o.UpdatedAt); err != nil {
		return fmt.Errorf("insert tracksuit order: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecentContacts(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	query := `SELECT id, name, email, phone_number, message, created_at
	          FROM contacts ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.ContactMessage{}
	for rows.Next() {
		var c models.ContactMessage
		var phone sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &phone, &c.Message, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}
		c.Phone = phone.String
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return contacts, nil
}

func (s *PostgresStore) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	query := `SELECT id, customer_name, customer_email, customer_phone, product_name, product_id,
	                 quantity, price, payment_status, created_at
	          FROM orders ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		var phone, productID sql.NullString
		if err := rows.Scan(
			&o.ID,
			&o.CustomerName,
			&o.CustomerEmail,
			&phone,
			&o.ProductName,
			&productID,
			&o.Quantity,
			&o.Price,
			&o.PaymentStatus,
			&o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		o.CustomerPhone = phone.String
		o.ProductID = productID.String
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}

func (s *PostgresStore) RecentTracksuitOrders(ctx context.Context, limit int) ([]models.TracksuitOrder, error) {
	query := `SELECT id, name, email, whatsapp, delivery_address, cart_items, total_price,
	                 total_quantity, payment_id, referral_code, referred_by, status, created_at, updated_at
	          FROM tracksuit_orders ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query tracksuit orders: %w", err)
	}
	defer rows.Close()

	orders := []models.TracksuitOrder{}
	for rows.Next() {
		var o models.TracksuitOrder
		var itemsJSON []byte
		var paymentID, referralCode, referredBy sql.NullString
		if err := rows.Scan(
			&o.ID,
			&o.Name,
			&o.Email,
			&o.WhatsApp,
			&o.DeliveryAddress,
			&itemsJSON,
			&o.TotalPrice,
			&o.TotalQuantity,
			&paymentID,
			&referralCode,
			&referredBy,
			&o.Status,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tracksuit order row: %w", err)
		}
		if err := json.Unmarshal(itemsJSON, &o.CartItems); err != nil {
			return nil, fmt.Errorf("unmarshal cart items: %w", err)
		}
		o.PaymentID = paymentID.String
		o.ReferralCode = referralCode.String
		o.ReferredBy = referredBy.String
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
