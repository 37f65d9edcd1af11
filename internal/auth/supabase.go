// Package auth verifies bearer tokens against Supabase Auth.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrNotConfigured = errors.New("identity provider is not configured")
)

// Identity is the user a token belongs to
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Verifier resolves a bearer token to an Identity
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// SupabaseVerifier asks GET {url}/auth/v1/user who owns a token.
// Concurrent checks of the same token share one upstream call.
type SupabaseVerifier struct {
	baseURL string
	anonKey string
	client  *http.Client
	group   singleflight.Group
}

// NewSupabaseVerifier creates a verifier for the project at baseURL
func NewSupabaseVerifier(baseURL, anonKey string) *SupabaseVerifier {
	return &SupabaseVerifier{
		baseURL: baseURL,
		anonKey: anonKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Verify returns the identity behind token, or ErrInvalidToken when the
// provider rejects it
func (v *SupabaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if v.baseURL == "" || v.anonKey == "" {
		return nil, ErrNotConfigured
	}
	if token == "" {
		return nil, ErrInvalidToken
	}

	result, err, _ := v.group.Do(token, func() (interface{}, error) {
		// shared by every waiter, so one caller going away must not cancel it
		return v.fetchUser(context.WithoutCancel(ctx), token)
	})
	if err != nil {
		return nil, err
	}

	identity := *result.(*Identity)
	return &identity, nil
}

func (v *SupabaseVerifier) fetchUser(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.anonKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach identity provider: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, body)
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	if identity.Email == "" {
		return nil, ErrInvalidToken
	}

	return &identity, nil
}
