package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/cart"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/repository"
)

var (
	ErrInvalidProduct  = errors.New("invalid product")
	ErrInvalidSize     = errors.New("size is not available for product")
	ErrInvalidQuantity = errors.New("quantity must be between 0 and 2147483647")
	ErrEmptyCart       = errors.New("cart must contain at least one item")
)

// QuoteLine is one requested (item, size, quantity)
type QuoteLine struct {
	ItemID   string `json:"itemId"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// QuoteRequest is the body of a cart quote
type QuoteRequest struct {
	Items []QuoteLine `json:"items"`
}

// Quote is a priced cart with its checkout verdict
type Quote struct {
	CartItems        []models.CartItem `json:"cartItems"`
	TotalPrice       float64           `json:"totalPrice"`
	TotalQuantity    int               `json:"totalQuantity"`
	CanCheckout      bool              `json:"canCheckout"`
	MinOrderQuantity int               `json:"minOrderQuantity"`
	MinOrderAmount   float64           `json:"minOrderAmount"`
}

// CartService prices carts against the catalog
type CartService struct {
	productRepo repository.ProductRepository
	minimums    cart.Minimums
}

// NewCartService creates a new cart service
func NewCartService(productRepo repository.ProductRepository, minimums cart.Minimums) *CartService {
	return &CartService{
		productRepo: productRepo,
		minimums:    minimums,
	}
}

// Quote builds a cart from catalog prices. Repeated lines for the same item
// and size add up; a line whose total quantity is 0 is dropped.
func (s *CartService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	products := make(map[string]models.Product)
	var items []models.CartItem

	for _, line := range req.Items {
		if line.Quantity < 0 || line.Quantity > math.MaxInt32 {
			return nil, ErrInvalidQuantity
		}

		product, ok := products[line.ItemID]
		if !ok {
			p, err := s.productRepo.GetByID(ctx, line.ItemID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return nil, fmt.Errorf("%w: %s", ErrInvalidProduct, line.ItemID)
				}
				return nil, err
			}
			product = *p
			products[line.ItemID] = product
		}

		if !product.HasSize(line.Size) {
			return nil, fmt.Errorf("%w: %s %s", ErrInvalidSize, line.ItemID, line.Size)
		}

		// both terms are capped at MaxInt32, so the sum cannot wrap
		total := quantityOf(items, line.ItemID, line.Size) + line.Quantity
		if total > math.MaxInt32 {
			return nil, ErrInvalidQuantity
		}
		items = cart.Add(items, product, line.Size)
		items = cart.UpdateQuantity(items, line.ItemID, line.Size, total)
	}

	if items == nil {
		items = []models.CartItem{}
	}

	return &Quote{
		CartItems:        items,
		TotalPrice:       cart.TotalPrice(items).Round(2).InexactFloat64(),
		TotalQuantity:    cart.TotalQuantity(items),
		CanCheckout:      s.minimums.CanCheckout(items),
		MinOrderQuantity: s.minimums.Quantity,
		MinOrderAmount:   s.minimums.Amount.InexactFloat64(),
	}, nil
}

func quantityOf(items []models.CartItem, itemID, size string) int {
	for _, it := range items {
		if it.ItemID == itemID && it.SelectedSize == size {
			return it.Quantity
		}
	}
	return 0
}
