// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Turns a payload of one or more file types into plain text
//   - CompletionService: Sends a prompt to a language model
//   - PromptStore: Supplies the map and combine prompt templates
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ExtractionCache: Fingerprint-keyed extraction cache. Without it every request re-extracts.
//   - OCREngine: Text recognition. Without it images fail and scanned PDFs cannot fall back.
//   - Rasteriser: PDF page rendering for the OCR fallback.
//   - Metrics: Pipeline counters. Without it nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or postprocessor package
package driven
