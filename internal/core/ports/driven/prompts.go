package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error; known names fall back to their defaults.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used by the summariser.
// Both templates expect exactly one %s placeholder for the content.
const (
	// PromptMap summarises a single chunk.
	PromptMap = "map"

	// PromptCombine merges partial summaries, or summarises a short document
	// directly, into a titled, structured summary.
	PromptCombine = "combine"
)
