package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures.
// Driving adapters map them to client or server errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedFormat indicates the file extension is not one of the recognised types.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrPayloadTooLarge indicates the upload exceeds the configured size limit.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrEmptyExtraction indicates extraction succeeded but yielded no usable text.
	ErrEmptyExtraction = errors.New("no text found in document")

	// ErrExtractionFailed indicates every extraction strategy for a supported type failed.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrDecode indicates plain text content is not valid UTF-8.
	ErrDecode = errors.New("decode error")

	// ErrOCRUnavailable indicates no OCR engine is configured or installed.
	ErrOCRUnavailable = errors.New("OCR engine unavailable")

	// Summarisation Errors.

	// ErrLLMUnavailable indicates the completion service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrSummarisationFailed indicates the completion service kept failing after retries.
	ErrSummarisationFailed = errors.New("summarisation failed")

	// ErrUnexpectedResponseFormat indicates the completion service returned a shape
	// the pipeline cannot interpret. This is a defect, not a transient failure.
	ErrUnexpectedResponseFormat = errors.New("unexpected response format")

	// Completion Errors.

	// ErrCompletionAuth indicates the completion provider rejected the credentials.
	ErrCompletionAuth = errors.New("completion service rejected credentials")

	// ErrCompletionTransport indicates the completion provider could not be reached
	// or answered with a server-side error.
	ErrCompletionTransport = errors.New("completion service transport error")

	// ErrEmptyCompletion indicates the provider answered successfully but with no text.
	ErrEmptyCompletion = errors.New("completion service returned no text")
)

// ExtractionError reports an exhausted extraction chain.
// It keeps every strategy cause so neither the native nor the OCR failure is lost.
type ExtractionError struct {
	// Type is the payload type that failed.
	Type FileType

	// Native is the cause of the direct extraction failure, if any.
	Native error

	// OCR is the cause of the OCR fallback failure, if any.
	OCR error
}

// Error implements error.
func (e *ExtractionError) Error() string {
	switch {
	case e.Native != nil && e.OCR != nil:
		return fmt.Sprintf("extract %s: native: %v; ocr: %v", e.Type, e.Native, e.OCR)
	case e.OCR != nil:
		return fmt.Sprintf("extract %s: ocr: %v", e.Type, e.OCR)
	case e.Native != nil:
		return fmt.Sprintf("extract %s: %v", e.Type, e.Native)
	default:
		return fmt.Sprintf("extract %s: %v", e.Type, ErrExtractionFailed)
	}
}

// Unwrap exposes ErrExtractionFailed and every recorded cause to errors.Is/As.
func (e *ExtractionError) Unwrap() []error {
	errs := []error{ErrExtractionFailed}
	if e.Native != nil {
		errs = append(errs, e.Native)
	}
	if e.OCR != nil {
		errs = append(errs, e.OCR)
	}
	return errs
}
