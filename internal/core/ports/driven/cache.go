package driven

import (
	"context"

	"github.com/custodia-labs/docsum/internal/core/domain"
)

// ExtractionCache maps payload fingerprints to extracted text.
// Entries are immutable once written. Implementations must be safe for concurrent use.
type ExtractionCache interface {
	// Get returns the cached text for a fingerprint.
	// The boolean is false on a miss; a miss is not an error.
	Get(ctx context.Context, fp domain.Fingerprint) (string, bool, error)

	// Put stores text for a fingerprint, replacing any existing entry.
	Put(ctx context.Context, fp domain.Fingerprint, text string) error

	// Len returns the number of cached entries.
	Len(ctx context.Context) (int, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
