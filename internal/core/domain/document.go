package domain

import "time"

// ExtractionMethod records which strategy produced the extracted text.
type ExtractionMethod string

// Extraction methods.
const (
	MethodNative    ExtractionMethod = "native"
	MethodOCR       ExtractionMethod = "ocr"
	MethodDOCX      ExtractionMethod = "docx"
	MethodImageOCR  ExtractionMethod = "image-ocr"
	MethodCSV       ExtractionMethod = "csv"
	MethodPlainText ExtractionMethod = "text"
	MethodCache     ExtractionMethod = "cache"
)

// Extraction is the plain text recovered from a payload.
type Extraction struct {
	// Fingerprint is the cache key of the source payload.
	Fingerprint Fingerprint

	// Type is the payload file type.
	Type FileType

	// Text is the extracted plain text.
	Text string

	// Method is the strategy that produced Text.
	Method ExtractionMethod

	// Pages is the number of pages processed, where meaningful.
	Pages int

	// Cached is true when Text came from the extraction cache.
	Cached bool
}

// Chunk is an ordered, bounded-length segment of cleaned text.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Index is the ordinal position within the text.
	Index int

	// Content is the chunk text, including any overlap prefix.
	Content string

	// Overlap is the number of leading runes copied from the previous chunk.
	Overlap int
}

// SummaryStrategy identifies which branch of the summariser produced a summary.
type SummaryStrategy string

// Summary strategies.
const (
	// StrategyDirect is a single combine call over the chunks.
	StrategyDirect SummaryStrategy = "direct"

	// StrategyMapReduce summarises each chunk, then combines the partial summaries.
	StrategyMapReduce SummaryStrategy = "map_reduce"
)

// Summary is the final structured summary with diagnostics.
type Summary struct {
	// Text is the summary returned by the combine step.
	Text string

	// Strategy is the branch that produced the summary.
	Strategy SummaryStrategy

	// Tokens is the estimated token count of the cleaned input.
	Tokens int

	// ChunksTotal is the number of chunks the cleaned text produced.
	ChunksTotal int

	// ChunksUsed is the number of chunks submitted after the chunk cap.
	ChunksUsed int

	// Truncated is true when the chunk cap dropped content.
	Truncated bool

	// Model is the completion model that wrote the summary.
	Model string
}

// Result is the outcome of one pipeline run.
type Result struct {
	// ID identifies the run in logs and responses.
	ID string

	// Name is the uploaded file name.
	Name string

	// Extraction is the extracted text, kept for diagnostic responses.
	Extraction *Extraction

	// Summary is the final summary.
	Summary *Summary

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}
