package driven

// Tokeniser estimates the model token count of a text.
// The estimate must be deterministic so branch selection is reproducible.
type Tokeniser interface {
	Count(text string) int
}
