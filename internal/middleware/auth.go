package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/auth"
)

type contextKey struct{}

var identityKey = contextKey{}

// AdminAuth lets a request through only when its bearer token belongs to
// adminEmail. Every failure gets the same 401 so callers cannot tell a bad
// token from a wrong account.
func AdminAuth(verifier auth.Verifier, adminEmail string, logger *slog.Logger) func(next http.Handler) http.Handler {
	adminEmail = strings.ToLower(strings.TrimSpace(adminEmail))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			if adminEmail == "" {
				logger.Error("admin request rejected: ADMIN_EMAIL is not configured")
				unauthorized(w)
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Warn("admin token verification failed", "error", err)
				unauthorized(w)
				return
			}

			if !strings.EqualFold(identity.Email, adminEmail) {
				logger.Warn("non-admin identity on admin route", "user_id", identity.ID)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the admin identity set by AdminAuth
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*auth.Identity)
	return identity, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
