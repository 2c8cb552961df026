// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"math"
	"time"
)

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// Retrying retries failed calls with exponential backoff: backoffBase,
// then 2x, 4x, and so on.
type Retrying struct {
	Provider   Provider
	MaxRetries int
}

// Generate calls the wrapped provider up to MaxRetries+1 times. A cancelled
// context stops the loop during a backoff wait.
func (r *Retrying) Generate(ctx context.Context, req Request) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		out, err := r.Provider.Generate(ctx, req)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", r.MaxRetries, lastErr)
}

// Name returns the wrapped provider's name.
func (r *Retrying) Name() string {
	return r.Provider.Name()
}

// DefaultModel returns the wrapped provider's default model.
func (r *Retrying) DefaultModel() string { return DefaultModel(r.Provider) }

// Endpoint returns the wrapped provider's endpoint.
func (r *Retrying) Endpoint() string { return Endpoint(r.Provider) }
