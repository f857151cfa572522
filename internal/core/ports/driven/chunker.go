package driven

import (
	"iter"

	"github.com/custodia-labs/docsum/internal/core/domain"
)

// Chunker splits text into ordered, bounded, overlapping chunks.
type Chunker interface {
	// Chunks returns a lazy sequence of chunks. Ranging over it again
	// restarts from the first chunk.
	Chunks(text string) iter.Seq[domain.Chunk]
}
