package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/cart"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/repository"
)

func TestCartService_Quote(t *testing.T) {
	productRepo := repository.NewInMemoryProductRepository()
	cartService := NewCartService(productRepo, cart.NewMinimums(10, 250))

	tests := []struct {
		name         string
		req          QuoteRequest
		wantErr      error
		wantLines    int
		wantQuantity int
		wantTotal    float64
		wantCheckout bool
	}{
		{
			name:         "single line",
			req:          QuoteRequest{Items: []QuoteLine{{ItemID: "mens-1", Size: "M", Quantity: 2}}},
			wantLines:    1,
			wantQuantity: 2,
			wantTotal:    50,
		},
		{
			name: "repeated lines add up",
			req: QuoteRequest{Items: []QuoteLine{
				{ItemID: "mens-1", Size: "M", Quantity: 2},
				{ItemID: "mens-1", Size: "M", Quantity: 3},
				{ItemID: "mens-1", Size: "L", Quantity: 1},
			}},
			wantLines:    2,
			wantQuantity: 6,
			wantTotal:    150,
		},
		{
			name: "reaches the minimum",
			req: QuoteRequest{Items: []QuoteLine{
				{ItemID: "kids-1", Size: "6-7Y", Quantity: 4},
				{ItemID: "ladies-2", Size: "S", Quantity: 6},
			}},
			wantLines:    2,
			wantQuantity: 10,
			wantTotal:    250,
			wantCheckout: true,
		},
		{
			name:      "zero quantity drops the line",
			req:       QuoteRequest{Items: []QuoteLine{{ItemID: "mens-1", Size: "M", Quantity: 0}}},
			wantLines: 0,
		},
		{
			name:    "empty cart",
			req:     QuoteRequest{},
			wantErr: ErrEmptyCart,
		},
		{
			name:    "unknown product",
			req:     QuoteRequest{Items: []QuoteLine{{ItemID: "hats-1", Size: "M", Quantity: 1}}},
			wantErr: ErrInvalidProduct,
		},
		{
			name:    "adult size on kids product",
			req:     QuoteRequest{Items: []QuoteLine{{ItemID: "kids-1", Size: "XL", Quantity: 1}}},
			wantErr: ErrInvalidSize,
		},
		{
			name:    "negative quantity",
			req:     QuoteRequest{Items: []QuoteLine{{ItemID: "mens-1", Size: "M", Quantity: -1}}},
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "quantity above int32",
			req:     QuoteRequest{Items: []QuoteLine{{ItemID: "mens-1", Size: "M", Quantity: math.MaxInt32 + 1}}},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "repeated huge lines do not wrap",
			req: QuoteRequest{Items: []QuoteLine{
				{ItemID: "mens-1", Size: "M", Quantity: math.MaxInt32},
				{ItemID: "mens-1", Size: "M", Quantity: math.MaxInt32},
			}},
			wantErr: ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := cartService.Quote(context.Background(), tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Quote() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Quote() unexpected error = %v", err)
			}
			if len(quote.CartItems) != tt.wantLines {
				t.Errorf("lines = %d, want %d", len(quote.CartItems), tt.wantLines)
			}
			if quote.TotalQuantity != tt.wantQuantity {
				t.Errorf("total quantity = %d, want %d", quote.TotalQuantity, tt.wantQuantity)
			}
			if quote.TotalPrice != tt.wantTotal {
				t.Errorf("total price = %v, want %v", quote.TotalPrice, tt.wantTotal)
			}
			if quote.CanCheckout != tt.wantCheckout {
				t.Errorf("can checkout = %v, want %v", quote.CanCheckout, tt.wantCheckout)
			}
			if quote.MinOrderQuantity != 10 || quote.MinOrderAmount != 250 {
				t.Errorf("minimums = %d/%v, want 10/250", quote.MinOrderQuantity, quote.MinOrderAmount)
			}
		})
	}
}
