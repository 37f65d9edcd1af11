// Package ratelimit implements fixed-window request counting per client key.
package ratelimit

import (
	"context"
	"time"
)

// Limiter guards a submission endpoint.
//
// IsLimited counts the call against key's current window and reports whether
// the key has already used up its allowance. A limited call is not counted.
type Limiter interface {
	IsLimited(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// Window is the configuration of one fixed window limiter
type Window struct {
	Length time.Duration
	Limit  int
}
