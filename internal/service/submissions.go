package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/notify"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/ratelimit"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/submission"
)

// Messages returned to form callers
const (
	MsgContactRateLimited = "Too many requests. Please try again later."
	MsgContactRequired    = "Name, email, and message are required"
	MsgContactFailed      = "Failed to send message"
	MsgContactSent        = "Message sent successfully"

	MsgOrderRateLimited   = "Too many orders. Please wait before submitting another."
	MsgOrderRequired      = "Name, email, and product name are required"
	MsgOrderQuantityPrice = "Quantity must be positive and price must be non-negative"
	MsgOrderWholeQuantity = "Quantity must be a whole number"
	MsgOrderFailed        = "Database error while saving order"
	MsgOrderSubmitted     = "Order submitted successfully"

	MsgTracksuitRequired = "Name, email, WhatsApp number, and delivery address are required"
	MsgTracksuitFailed   = "Failed to submit order"
)

// NumericPolicy decides what happens to a simple order whose quantity is
// zero or not a number, or whose price is not a number. Absent fields always
// take their defaults (quantity 1, price 0).
type NumericPolicy string

const (
	// NumericDefault rewrites the quantity to 1 and the price to 0
	NumericDefault NumericPolicy = "default"
	// NumericReject answers both cases with a client input error
	NumericReject NumericPolicy = "reject"
)

// SubmissionStore is the part of the persistence gateway the form pipelines write to
type SubmissionStore interface {
	InsertContact(ctx context.Context, c *models.ContactMessage) error
	InsertOrder(ctx context.Context, o *models.Order) error
	InsertTracksuitOrder(ctx context.Context, o *models.TracksuitOrder) error
}

// PipelineDeps are shared by every form pipeline
type PipelineDeps struct {
	Store      SubmissionStore
	Notifier   *notify.Notifier
	Dispatcher submission.Enqueuer
	Log        *slog.Logger
	// Now defaults to time.Now
	Now func() time.Time
}

func (d PipelineDeps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

// NewContactPipeline builds the contact form pipeline
func NewContactPipeline(deps PipelineDeps, limiter ratelimit.Limiter) *submission.Pipeline[*models.ContactMessage] {
	cfg := submission.Config[*models.ContactMessage]{
		Name:             "contact",
		Limiter:          limiter,
		RequiredFields:   []string{"name", "email", "message"},
		RequiredMessage:  MsgContactRequired,
		EmailField:       "email",
		RateLimitMessage: MsgContactRateLimited,
		FailureMessage:   MsgContactFailed,
		SuccessMessage:   MsgContactSent,
		Prepare: func(p submission.Payload) (*models.ContactMessage, error) {
			return &models.ContactMessage{
				ID:        newID(),
				Name:      p.String("name"),
				Email:     strings.ToLower(p.String("email")),
				Phone:     p.String("phone"),
				Message:   p.String("message"),
				CreatedAt: deps.now(),
			}, nil
		},
		Persist:    deps.Store.InsertContact,
		ID:         func(c *models.ContactMessage) string { return c.ID },
		Dispatcher: deps.Dispatcher,
		Log:        deps.Log,
	}
	if deps.Notifier != nil {
		cfg.Notify = deps.Notifier.ContactJobs
	}
	return submission.New(cfg)
}

func newID() string {
	return uuid.New().String()
}
