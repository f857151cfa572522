// Package extractors provides implementations of the Extractor interface
// for each supported document format, and the registry that dispatches
// payloads to them by file type.
//
// Extractors are registered with the Registry at startup.
package extractors
