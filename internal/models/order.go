package models

import "time"

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Order is a single-product order submitted through the simple order form
type Order struct {
	ID            string    `json:"id" bson:"_id"`
	CustomerName  string    `json:"customer_name" bson:"customer_name"`
	CustomerEmail string    `json:"customer_email" bson:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty" bson:"customer_phone,omitempty"`
	ProductName   string    `json:"product_name" bson:"product_name"`
	ProductID     string    `json:"product_id,omitempty" bson:"product_id,omitempty"`
	Quantity      int       `json:"quantity" bson:"quantity"`
	Price         float64   `json:"price" bson:"price"`
	PaymentStatus string    `json:"payment_status" bson:"payment_status"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
