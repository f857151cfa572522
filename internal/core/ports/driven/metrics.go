package driven

import "time"

// Metrics records pipeline counters.
type Metrics interface {
	// ObserveCache records an extraction cache lookup.
	ObserveCache(hit bool)

	// ObserveExtraction records one extraction by file type and method.
	ObserveExtraction(fileType, method string, elapsed time.Duration)

	// ObserveCompletion records one completion attempt and its outcome.
	ObserveCompletion(outcome string)

	// ObserveSummary records one finished summary by strategy.
	ObserveSummary(strategy string, truncated bool, elapsed time.Duration)
}
