// Package cart implements the shopping cart rules: lines are merged by
// (item, size), quantities are set absolutely and checkout is gated on a
// minimum quantity and amount.
//
// All functions are pure: they never modify their input slice and return a
// new cart.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
)

// Add puts one unit of product in the given size into the cart. An existing
// (product, size) line is incremented, otherwise a new line is appended.
func Add(items []models.CartItem, product models.Product, size string) []models.CartItem {
	out := clone(items)
	if i := indexOf(out, product.ID, size); i >= 0 {
		out[i].Quantity++
		return out
	}

	return append(out, models.CartItem{
		ItemID:       product.ID,
		ItemName:     product.Name,
		Category:     product.Category,
		Image:        product.Image,
		Quantity:     1,
		SelectedSize: size,
		Price:        product.Price,
	})
}

// Remove drops the (itemID, size) line. Missing lines are ignored.
func Remove(items []models.CartItem, itemID, size string) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		if it.ItemID == itemID && it.SelectedSize == size {
			continue
		}
		out = append(out, it)
	}
	return out
}

// UpdateQuantity sets the quantity of the (itemID, size) line.
// A quantity of zero or less removes the line.
func UpdateQuantity(items []models.CartItem, itemID, size string, quantity int) []models.CartItem {
	if quantity <= 0 {
		return Remove(items, itemID, size)
	}

	out := clone(items)
	if i := indexOf(out, itemID, size); i >= 0 {
		out[i].Quantity = quantity
	}
	return out
}

// TotalPrice is the sum of price × quantity over all lines
func TotalPrice(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	return total
}

// TotalQuantity is the sum of quantities over all lines
func TotalQuantity(items []models.CartItem) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

// Minimums are the checkout thresholds
type Minimums struct {
	Quantity int
	Amount   decimal.Decimal
}

// NewMinimums builds Minimums from configuration values
func NewMinimums(quantity int, amount float64) Minimums {
	return Minimums{Quantity: quantity, Amount: decimal.NewFromFloat(amount)}
}

// CanCheckout reports whether the cart reaches both minimums
func (m Minimums) CanCheckout(items []models.CartItem) bool {
	return TotalQuantity(items) >= m.Quantity && TotalPrice(items).GreaterThanOrEqual(m.Amount)
}

func indexOf(items []models.CartItem, itemID, size string) int {
	for i, it := range items {
		if it.ItemID == itemID && it.SelectedSize == size {
			return i
		}
	}
	return -1
}

func clone(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items), len(items)+1)
	copy(out, items)
	return out
}
