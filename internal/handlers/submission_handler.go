package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/ratelimit"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/submission"
)

// Submitter is one configured form pipeline
type Submitter interface {
	Name() string
	Submit(ctx context.Context, req submission.Request) (submission.Result, error)
}

// SubmissionResponse is returned for an accepted submission
type SubmissionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// SubmissionHandler exposes a form pipeline over HTTP
type SubmissionHandler struct {
	pipeline Submitter
	log      *slog.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(pipeline Submitter, log *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		pipeline: pipeline,
		log:      log.With("endpoint", pipeline.Name()),
	}
}

// ServeHTTP handles POST for the form endpoint:
// - 200: persisted
// - 400: invalid input
// - 429: rate limited
// - 500: persistence failure
func (h *SubmissionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		// oversized and truncated bodies cannot be parsed
		body = nil
	}

	result, err := h.pipeline.Submit(r.Context(), submission.Request{
		ClientKey:   ratelimit.ClientKey(r),
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	if err != nil {
		h.writeSubmissionError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, SubmissionResponse{
		Success: true,
		Message: result.Message,
		ID:      result.ID,
	}, h.log)
}

func (h *SubmissionHandler) writeSubmissionError(w http.ResponseWriter, err error) {
	var (
		inputErr    *submission.InputError
		rateErr     *submission.RateLimitError
		upstreamErr *submission.UpstreamError
	)

	switch {
	case errors.As(err, &rateErr):
		WriteError(w, http.StatusTooManyRequests, rateErr.Message, h.log)
	case errors.As(err, &inputErr):
		WriteError(w, http.StatusBadRequest, inputErr.Message, h.log)
	case errors.As(err, &upstreamErr):
		WriteError(w, http.StatusInternalServerError, upstreamErr.Message, h.log)
	default:
		h.log.Error("unexpected submission error", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
	}
}
