package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/cart"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/ratelimit"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/referral"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/sanitize"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/submission"
)

const (
	MsgCartInvalid        = "Cart items are invalid"
	MsgCartEmpty          = "Cart is empty"
	MsgCartDuplicate      = "Cart contains the same item and size more than once"
	MsgCartTotalsMismatch = "Order totals do not match the cart items"
)

// ReferralLookup resolves referral codes; *referral.Registry satisfies it
type ReferralLookup interface {
	Lookup(code string) (referral.Referral, bool)
}

// TracksuitRules holds the server-side checks for cart orders
type TracksuitRules struct {
	Minimums  cart.Minimums
	Referrals ReferralLookup
}

type tracksuitBody struct {
	CartItems []models.CartItem `json:"cartItems"`
}

// NewTracksuitPipeline builds the cart order pipeline. Totals are recomputed
// from the cart lines and the cart must pass checkout gating.
func NewTracksuitPipeline(deps PipelineDeps, limiter ratelimit.Limiter, rules TracksuitRules) *submission.Pipeline[*models.TracksuitOrder] {
	validate := validator.New()

	cfg := submission.Config[*models.TracksuitOrder]{
		Name:             "tracksuit-order",
		Limiter:          limiter,
		RequiredFields:   []string{"name", "email", "whatsapp", "deliveryAddress"},
		RequiredMessage:  MsgTracksuitRequired,
		EmailField:       "email",
		RateLimitMessage: MsgOrderRateLimited,
		FailureMessage:   MsgTracksuitFailed,
		SuccessMessage:   MsgOrderSubmitted,
		Prepare: func(p submission.Payload) (*models.TracksuitOrder, error) {
			items, err := cartLines(p, validate)
			if err != nil {
				return nil, err
			}

			totalPrice := cart.TotalPrice(items)
			totalQuantity := cart.TotalQuantity(items)
			if err := checkTotals(p, totalPrice, totalQuantity); err != nil {
				return nil, err
			}

			if !rules.Minimums.CanCheckout(items) {
				return nil, submission.Invalid(fmt.Sprintf("Minimum order is %d items and $%s",
					rules.Minimums.Quantity, rules.Minimums.Amount.StringFixed(2)))
			}

			now := deps.now()
			order := &models.TracksuitOrder{
				ID:              newID(),
				Name:            p.String("name"),
				Email:           strings.ToLower(p.String("email")),
				WhatsApp:        p.String("whatsapp"),
				DeliveryAddress: p.String("deliveryAddress"),
				CartItems:       items,
				TotalPrice:      totalPrice.Round(2).InexactFloat64(),
				TotalQuantity:   totalQuantity,
				PaymentID:       p.String("paymentId"),
				ReferralCode:    p.String("referralCode"),
				Status:          models.PaymentStatusPending,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if order.PaymentID != "" {
				order.Status = models.PaymentStatusPaid
			}

			// unknown codes are kept as entered, only known ones get a referrer
			if order.ReferralCode != "" && rules.Referrals != nil {
				if ref, ok := rules.Referrals.Lookup(order.ReferralCode); ok {
					order.ReferralCode = ref.Code
					order.ReferredBy = ref.ReferredBy
				}
			}

			return order, nil
		},
		Persist:    deps.Store.InsertTracksuitOrder,
		ID:         func(o *models.TracksuitOrder) string { return o.ID },
		Dispatcher: deps.Dispatcher,
		Log:        deps.Log,
	}
	if deps.Notifier != nil {
		cfg.Notify = deps.Notifier.TracksuitOrderJobs
	}
	return submission.New(cfg)
}

// cartLines decodes, sanitizes and validates the cart lines of a payload
func cartLines(p submission.Payload, validate *validator.Validate) ([]models.CartItem, error) {
	var body tracksuitBody
	if err := p.Decode(&body); err != nil {
		return nil, submission.Invalid(MsgCartInvalid)
	}
	if len(body.CartItems) == 0 {
		return nil, submission.Invalid(MsgCartEmpty)
	}

	seen := make(map[[2]string]bool, len(body.CartItems))
	items := make([]models.CartItem, 0, len(body.CartItems))

	for _, it := range body.CartItems {
		it.ItemID = sanitize.String(it.ItemID)
		it.ItemName = sanitize.String(it.ItemName)
		it.Category = sanitize.String(it.Category)
		it.Image = sanitize.String(it.Image)
		it.SelectedSize = sanitize.String(it.SelectedSize)

		if err := validate.Struct(it); err != nil {
			return nil, submission.Invalid(MsgCartInvalid)
		}

		key := [2]string{it.ItemID, it.SelectedSize}
		if seen[key] {
			return nil, submission.Invalid(MsgCartDuplicate)
		}
		seen[key] = true

		items = append(items, it)
	}

	return items, nil
}

// checkTotals compares client supplied totals, when present, with the
// recomputed ones
func checkTotals(p submission.Payload, price decimal.Decimal, quantity int) error {
	if v, state := p.Number("totalPrice"); state != sanitize.NumberAbsent {
		if state == sanitize.NumberInvalid || !decimal.NewFromFloat(v).Round(2).Equal(price.Round(2)) {
			return submission.Invalid(MsgCartTotalsMismatch)
		}
	}
	if v, state := p.Number("totalQuantity"); state != sanitize.NumberAbsent {
		if state == sanitize.NumberInvalid || v != float64(quantity) {
			return submission.Invalid(MsgCartTotalsMismatch)
		}
	}
	return nil
}
