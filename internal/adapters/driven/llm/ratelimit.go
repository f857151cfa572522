package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

// Ensure RateLimited implements the interface.
var _ driven.CompletionService = (*RateLimited)(nil)

// RateLimited throttles outbound completion calls with a token bucket.
type RateLimited struct {
	driven.CompletionService
	limiter *rate.Limiter
}

// WithRateLimit wraps svc so that at most requestsPerSecond calls start each second.
// A non-positive rate returns svc unchanged.
func WithRateLimit(svc driven.CompletionService, requestsPerSecond float64) driven.CompletionService {
	if svc == nil || requestsPerSecond <= 0 {
		return svc
	}
	burst := max(int(requestsPerSecond), 1)
	return &RateLimited{
		CompletionService: svc,
		limiter:           rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Complete waits for a token, then delegates.
func (r *RateLimited) Complete(ctx context.Context, prompt string) (any, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return r.CompletionService.Complete(ctx, prompt)
}
