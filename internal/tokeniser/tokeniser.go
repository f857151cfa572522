// Package tokeniser counts model tokens.
//
// BPE counts exactly with the embedded cl100k_base vocabulary. Estimator needs
// no vocabulary at all and serves as the fallback.
//
// The estimate averages a character-based count (four runes per token) with a
// word-based count (four tokens per three words), which tracks BPE tokenisers
// closely enough for budget decisions on English prose.
package tokeniser

import (
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

// Ensure Estimator implements the interface.
var _ driven.Tokeniser = Estimator{}

// Estimator is a deterministic, stateless token estimator.
type Estimator struct{}

// New returns an estimator.
func New() Estimator {
	return Estimator{}
}

// Count returns the estimated token count of text.
// Non-blank text always counts as at least one token.
func (Estimator) Count(text string) int {
	return Estimate(text)
}

// Estimate returns the estimated token count of text.
func Estimate(text string) int {
	n := utf8.RuneCountInString(text)
	words := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
		} else if !inWord {
			inWord = true
			words++
		}
	}
	if words == 0 {
		return 0
	}
	charEst := n / 4
	wordEst := words * 4 / 3
	if est := (charEst + wordEst) / 2; est > 0 {
		return est
	}
	return 1
}
