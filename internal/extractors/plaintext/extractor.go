// Package plaintext extracts UTF-8 text files.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedTypes returns the file types this extractor handles.
func (e *Extractor) SupportedTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypeTXT}
}

// Extract decodes the payload as UTF-8.
// A leading byte order mark is dropped. Invalid UTF-8 returns domain.ErrDecode.
func (e *Extractor) Extract(_ context.Context, payload *domain.Payload) (*driven.ExtractResult, error) {
	if payload == nil {
		return nil, domain.ErrInvalidInput
	}

	content := bytes.TrimPrefix(payload.Content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8 at byte %d", domain.ErrDecode, payload.Name, invalidOffset(content))
	}

	return &driven.ExtractResult{
		Text:   string(content),
		Method: domain.MethodPlainText,
	}, nil
}

// invalidOffset returns the byte offset of the first invalid sequence.
func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
