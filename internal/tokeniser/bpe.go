package tokeniser

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/logger"
)

// Ensure BPE implements the interface.
var _ driven.Tokeniser = (*BPE)(nil)

// Encoding is the byte-pair encoding used for token budgets.
const Encoding = "cl100k_base"

// allSpecial lets special-token markers in documents count as tokens;
// tiktoken panics on disallowed specials otherwise.
var allSpecial = []string{"all"}

var setLoader sync.Once

// BPE counts tokens exactly with the cl100k_base vocabulary embedded in the binary.
type BPE struct {
	enc *tiktoken.Tiktoken
}

// NewBPE loads the embedded cl100k_base vocabulary. No network access is needed.
func NewBPE() (*BPE, error) {
	setLoader.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", Encoding, err)
	}
	return &BPE{enc: enc}, nil
}

// Count returns the number of cl100k_base tokens in text.
func (b *BPE) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(b.enc.Encode(text, allSpecial, nil))
}

// Default returns the BPE tokeniser, or the estimator when the vocabulary cannot be loaded.
func Default() driven.Tokeniser {
	bpe, err := NewBPE()
	if err != nil {
		logger.Warn("token counts fall back to estimates: %v", err)
		return New()
	}
	return bpe
}
