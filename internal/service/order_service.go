package service

import (
	"math"
	"strings"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/ratelimit"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/sanitize"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/submission"
)

// orderRules holds the numeric checks of the simple order form
type orderRules struct {
	policy NumericPolicy
}

// NewOrderPipeline builds the simple order form pipeline
func NewOrderPipeline(deps PipelineDeps, limiter ratelimit.Limiter, policy NumericPolicy) *submission.Pipeline[*models.Order] {
	rules := orderRules{policy: policy}

	cfg := submission.Config[*models.Order]{
		Name:             "order",
		Limiter:          limiter,
		RequiredFields:   []string{"customer_name", "customer_email", "product_name"},
		RequiredMessage:  MsgOrderRequired,
		EmailField:       "customer_email",
		RateLimitMessage: MsgOrderRateLimited,
		FailureMessage:   MsgOrderFailed,
		SuccessMessage:   MsgOrderSubmitted,
		Prepare: func(p submission.Payload) (*models.Order, error) {
			qty, err := rules.quantity(p)
			if err != nil {
				return nil, err
			}
			price, err := rules.price(p)
			if err != nil {
				return nil, err
			}

			status := p.String("payment_status")
			if status == "" {
				status = models.PaymentStatusPending
			}

			return &models.Order{
				ID:            newID(),
				CustomerName:  p.String("customer_name"),
				CustomerEmail: strings.ToLower(p.String("customer_email")),
				CustomerPhone: p.String("customer_phone"),
				ProductName:   p.String("product_name"),
				ProductID:     p.String("product_id"),
				Quantity:      qty,
				Price:         price,
				PaymentStatus: status,
				CreatedAt:     deps.now(),
			}, nil
		},
		Persist:    deps.Store.InsertOrder,
		ID:         func(o *models.Order) string { return o.ID },
		Dispatcher: deps.Dispatcher,
		Log:        deps.Log,
	}
	if deps.Notifier != nil {
		cfg.Notify = deps.Notifier.OrderJobs
	}
	return submission.New(cfg)
}

// quantity defaults to 1 when absent. Zero or unreadable values become 1
// under NumericDefault and are rejected under NumericReject.
func (r orderRules) quantity(p submission.Payload) (int, error) {
	q, state := p.Number("quantity")

	switch state {
	case sanitize.NumberAbsent:
		return 1, nil
	case sanitize.NumberInvalid:
		if r.policy == NumericReject {
			return 0, submission.Invalid(MsgOrderQuantityPrice)
		}
		return 1, nil
	}

	if q == 0 {
		if r.policy == NumericReject {
			return 0, submission.Invalid(MsgOrderQuantityPrice)
		}
		return 1, nil
	}
	if q < 0 {
		return 0, submission.Invalid(MsgOrderQuantityPrice)
	}
	if q != math.Trunc(q) || q > math.MaxInt32 {
		return 0, submission.Invalid(MsgOrderWholeQuantity)
	}
	return int(q), nil
}

// price defaults to 0 when absent and must not be negative
func (r orderRules) price(p submission.Payload) (float64, error) {
	v, state := p.Number("price")

	switch state {
	case sanitize.NumberAbsent:
		return 0, nil
	case sanitize.NumberInvalid:
		if r.policy == NumericReject {
			return 0, submission.Invalid(MsgOrderQuantityPrice)
		}
		return 0, nil
	}

	if v < 0 {
		return 0, submission.Invalid(MsgOrderQuantityPrice)
	}
	return v, nil
}
