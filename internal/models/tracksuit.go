package models

import "time"

// CartItem is one (item, size) line of a shopping cart.
// (ItemID, SelectedSize) is unique within a cart.
type CartItem struct {
	ItemID       string  `json:"itemId" bson:"item_id" validate:"required"`
	ItemName     string  `json:"itemName" bson:"item_name" validate:"required"`
	Category     string  `json:"category" bson:"category"`
	Image        string  `json:"image" bson:"image"`
	Quantity     int     `json:"quantity" bson:"quantity" validate:"gte=1"`
	SelectedSize string  `json:"selectedSize" bson:"selected_size" validate:"required"`
	Price        float64 `json:"price" bson:"price" validate:"gte=0"`
}

// TracksuitOrder is a cart-based order persisted after payment capture
type TracksuitOrder struct {
	ID              string     `json:"id" bson:"_id"`
	Name            string     `json:"name" bson:"name"`
	Email           string     `json:"email" bson:"email"`
	WhatsApp        string     `json:"whatsapp" bson:"whatsapp"`
	DeliveryAddress string     `json:"deliveryAddress" bson:"delivery_address"`
	CartItems       []CartItem `json:"cartItems" bson:"cart_items"`
	TotalPrice      float64    `json:"totalPrice" bson:"total_price"`
	TotalQuantity   int        `json:"totalQuantity" bson:"total_quantity"`
	PaymentID       string     `json:"paymentId,omitempty" bson:"payment_id,omitempty"`
	ReferralCode    string     `json:"referralCode,omitempty" bson:"referral_code,omitempty"`
	ReferredBy      string     `json:"referredBy,omitempty" bson:"referred_by,omitempty"`
	Status          string     `json:"status" bson:"status"`
	CreatedAt       time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" bson:"updated_at"`
}
