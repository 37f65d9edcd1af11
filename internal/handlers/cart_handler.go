package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/service"
)

// CartHandler prices carts for the storefront
type CartHandler struct {
	cartService *service.CartService
	log         *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService, log *slog.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		log:         log,
	}
}

// Quote handles POST /api/cart/quote
func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req service.QuoteRequest

	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode cart quote request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	quote, err := h.cartService.Quote(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			WriteError(w, http.StatusBadRequest, "Cart must contain at least one item", h.log)
		case errors.Is(err, service.ErrInvalidQuantity):
			WriteError(w, http.StatusBadRequest, "Quantity must be between 0 and 2147483647", h.log)
		case errors.Is(err, service.ErrInvalidProduct):
			WriteError(w, http.StatusBadRequest, "Invalid product", h.log)
		case errors.Is(err, service.ErrInvalidSize):
			WriteError(w, http.StatusBadRequest, "Size is not available for this product", h.log)
		default:
			h.log.Error("failed to quote cart", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, quote, h.log)
}
