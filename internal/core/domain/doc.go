// Package domain defines the core entities of the docsum pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Payload: An uploaded document and its declared file type
//   - Fingerprint: The content-addressed cache key of a payload
//   - Extraction: Plain text recovered from a payload
//   - Chunk: A bounded, ordered segment of cleaned text
//   - Summary: The structured output of the map-reduce summariser
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
