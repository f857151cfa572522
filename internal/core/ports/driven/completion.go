package driven

import "context"

// CompletionService sends a single prompt to a language model.
//
// Implementations may include:
//   - OpenAI and compatible endpoints (Groq, LM Studio)
//   - Anthropic (Claude)
//   - Ollama (local models)
//
// Complete returns an opaque result. Adapters return *Completion; the
// summariser normalises whatever comes back and rejects shapes it does not
// recognise.
type CompletionService interface {
	// Complete runs one completion at temperature 0.
	Complete(ctx context.Context, prompt string) (any, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// OutputTexter is implemented by completion results that carry generated text.
type OutputTexter interface {
	OutputText() string
}

// Completion is the result returned by completion adapters.
type Completion struct {
	// Text is the generated output.
	Text string

	// Model is the model that produced the output.
	Model string

	// PromptTokens is the provider-reported prompt size, zero when unknown.
	PromptTokens int

	// CompletionTokens is the provider-reported output size, zero when unknown.
	CompletionTokens int
}

// OutputText implements OutputTexter.
func (c *Completion) OutputText() string {
	if c == nil {
		return ""
	}
	return c.Text
}
