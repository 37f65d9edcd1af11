// Package submission runs the shared validate, rate-limit, sanitize, persist
// and notify sequence behind every form endpoint. One Pipeline is built per
// endpoint from a Config.
package submission

import (
	"context"
	"log/slog"
	"mime"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/notify"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/ratelimit"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/sanitize"
)

const (
	MsgContentType  = "Content-Type must be application/json"
	MsgInvalidJSON  = "Invalid JSON in request body"
	MsgInvalidEmail = "Please enter a valid email address"
)

// Enqueuer accepts best-effort jobs; notify.Dispatcher satisfies it
type Enqueuer interface {
	Enqueue(jobs ...notify.Job)
}

// Request is the transport-neutral view of one submission
type Request struct {
	ClientKey   string
	ContentType string
	Body        []byte
}

// Result is returned for a persisted submission
type Result struct {
	ID      string
	Message string
}

// Config parametrizes a Pipeline for one endpoint
type Config[T any] struct {
	Name    string
	Limiter ratelimit.Limiter

	// RequiredFields must be non-empty after sanitizing
	RequiredFields  []string
	RequiredMessage string
	// EmailField, when set, must hold a local@domain.tld address
	EmailField string

	RateLimitMessage string
	FailureMessage   string
	SuccessMessage   string

	// Prepare runs the endpoint specific checks and builds the sanitized
	// record. Returning an *InputError rejects the request.
	Prepare func(p Payload) (T, error)
	Persist func(ctx context.Context, record T) error
	// Notify builds the detached jobs for a persisted record; may be nil
	Notify func(record T) []notify.Job
	ID     func(record T) string

	Dispatcher Enqueuer
	Log        *slog.Logger
}

// Pipeline is a configured submission endpoint
type Pipeline[T any] struct {
	cfg Config[T]
}

// New creates a Pipeline from cfg
func New[T any](cfg Config[T]) *Pipeline[T] {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	cfg.Log = cfg.Log.With("pipeline", cfg.Name)
	return &Pipeline[T]{cfg: cfg}
}

// Name returns the endpoint name
func (p *Pipeline[T]) Name() string {
	return p.cfg.Name
}

// Submit runs one request through the pipeline. The order of checks is fixed:
// rate limit, content type, parse, required fields, email, endpoint checks,
// persist, notify. Errors are *RateLimitError, *InputError or *UpstreamError.
func (p *Pipeline[T]) Submit(ctx context.Context, req Request) (Result, error) {
	if p.cfg.Limiter != nil {
		limited, err := p.cfg.Limiter.IsLimited(ctx, req.ClientKey)
		if err != nil {
			// a broken counter store must not take the forms down
			p.cfg.Log.Error("rate limiter unavailable, allowing request", "error", err)
		} else if limited {
			p.cfg.Log.Warn("rate limit exceeded", "client", req.ClientKey)
			return Result{}, &RateLimitError{Message: p.cfg.RateLimitMessage}
		}
	}

	if !isJSON(req.ContentType) {
		return Result{}, Invalid(MsgContentType)
	}

	payload, err := parsePayload(req.Body)
	if err != nil {
		return Result{}, Invalid(MsgInvalidJSON)
	}

	for _, field := range p.cfg.RequiredFields {
		if payload.String(field) == "" {
			return Result{}, Invalid(p.cfg.RequiredMessage)
		}
	}

	if p.cfg.EmailField != "" && !sanitize.Email(payload.String(p.cfg.EmailField)) {
		return Result{}, Invalid(MsgInvalidEmail)
	}

	record, err := p.cfg.Prepare(payload)
	if err != nil {
		return Result{}, err
	}

	if err := p.cfg.Persist(ctx, record); err != nil {
		p.cfg.Log.Error("failed to persist submission", "error", err)
		return Result{}, &UpstreamError{Message: p.cfg.FailureMessage, Err: err}
	}

	id := p.cfg.ID(record)
	p.cfg.Log.Info("submission persisted", "id", id)

	if p.cfg.Notify != nil && p.cfg.Dispatcher != nil {
		p.cfg.Dispatcher.Enqueue(p.cfg.Notify(record)...)
	}

	return Result{ID: id, Message: p.cfg.SuccessMessage}, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}
