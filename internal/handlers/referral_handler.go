package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/referral"
)

// referralLookup is the read side of the referral registry
type referralLookup interface {
	Lookup(code string) (referral.Referral, bool)
}

// ReferralHandler handles HTTP requests for referral code checks
type ReferralHandler struct {
	registry referralLookup
	log      *slog.Logger
}

// NewReferralHandler creates a new ReferralHandler
func NewReferralHandler(registry referralLookup, log *slog.Logger) *ReferralHandler {
	return &ReferralHandler{
		registry: registry,
		log:      log,
	}
}

// ValidateReferral handles GET /api/referral/{code}
func (h *ReferralHandler) ValidateReferral(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	ref, ok := h.registry.Lookup(code)
	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]interface{}{
			"valid":   false,
			"code":    code,
			"message": "Referral code not found",
		}, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":      true,
		"code":       ref.Code,
		"referredBy": ref.ReferredBy,
	}, h.log)
}
