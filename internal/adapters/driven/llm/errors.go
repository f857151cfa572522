// Package llm holds helpers shared by the completion service adapters.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/custodia-labs/docsum/internal/core/domain"
)

// maxErrorBody bounds how much of a failed response body ends up in an error message.
const maxErrorBody = 512

// StatusError classifies a non-200 provider response.
// 401 and 403 are credential failures and are never retried. 429 and 5xx are
// transport failures. Anything else is a request the provider refused.
func StatusError(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}

	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return fmt.Errorf("%s: %w (status %d)", provider, domain.ErrCompletionAuth, status)
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return fmt.Errorf("%s: %w (status %d): %s", provider, domain.ErrCompletionTransport, status, msg)
	default:
		return fmt.Errorf("%s error (status %d): %s", provider, status, msg)
	}
}

// TransportError wraps a failure to reach the provider.
// Context cancellation is returned unchanged so callers stop retrying.
func TransportError(provider string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", provider, domain.ErrCompletionTransport, err)
}

// EmptyError reports a successful response without any text.
func EmptyError(provider string) error {
	return fmt.Errorf("%s: %w", provider, domain.ErrEmptyCompletion)
}
