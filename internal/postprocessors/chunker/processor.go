// Package chunker splits text into bounded, overlapping chunks.
//
// Splitting is hierarchical: paragraphs first, then lines, sentences, words
// and finally single runes, descending only when a piece is still too long.
// Pieces keep their separators, so chunk bodies concatenate back to the input
// exactly. Every chunk after the first starts with the last Overlap runes of
// its predecessor.
package chunker

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/docsum/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 10000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// separatorLevels lists split points from coarsest to finest.
// Pieces shorter than the body limit are never split further.
var separatorLevels = [][]string{
	{"\n\n"},
	{"\n"},
	{". ", "! ", "? "},
	{" "},
}

// chunkNamespace scopes chunk IDs so identical chunks get identical IDs.
var chunkNamespace = uuid.MustParse("6f1c3a52-8d4e-4b7a-9b1e-2f5d8c0a7e41")

// Processor splits text into chunks of at most chunkSize runes.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the effective chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the effective overlap after clamping.
func (p *Processor) Overlap() int {
	return p.overlap
}

// bodyLimit is the room left for new text once the overlap prefix is in place.
func (p *Processor) bodyLimit() int {
	return p.chunkSize - p.overlap
}

// Chunks returns a lazy sequence of chunks. Each iteration re-splits text from
// the start, so the sequence can be ranged over more than once. Empty text
// yields nothing.
func (p *Processor) Chunks(text string) iter.Seq[domain.Chunk] {
	return func(yield func(domain.Chunk) bool) {
		if text == "" {
			return
		}

		limit := p.bodyLimit()
		index := 0
		prev := ""

		emit := func(body string) bool {
			tail := lastRunes(prev, p.overlap)
			content := tail + body
			c := domain.Chunk{
				ID:      chunkID(index, content),
				Index:   index,
				Content: content,
				Overlap: utf8.RuneCountInString(tail),
			}
			prev = content
			index++
			return yield(c)
		}

		var body strings.Builder
		bodyLen := 0
		ok := walk(text, 0, limit, func(piece string) bool {
			n := utf8.RuneCountInString(piece)
			if bodyLen > 0 && bodyLen+n > limit {
				if !emit(body.String()) {
					return false
				}
				body.Reset()
				bodyLen = 0
			}
			body.WriteString(piece)
			bodyLen += n
			return true
		})
		if ok && bodyLen > 0 {
			emit(body.String())
		}
	}
}

// Split returns all chunks of text in order.
func (p *Processor) Split(text string) []domain.Chunk {
	var chunks []domain.Chunk
	for c := range p.Chunks(text) {
		chunks = append(chunks, c)
	}
	return chunks
}

// walk yields pieces of text no longer than limit runes, in order.
// It returns false if yield asked to stop.
func walk(text string, level, limit int, yield func(string) bool) bool {
	if utf8.RuneCountInString(text) <= limit {
		return yield(text)
	}
	if level == len(separatorLevels) {
		return splitRunes(text, limit, yield)
	}

	parts := splitAfterAny(text, separatorLevels[level])
	if len(parts) == 1 {
		return walk(text, level+1, limit, yield)
	}
	for _, part := range parts {
		if !walk(part, level+1, limit, yield) {
			return false
		}
	}
	return true
}

// splitAfterAny splits text after every occurrence of any separator,
// keeping the separator at the end of its piece.
func splitAfterAny(text string, seps []string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(text); {
		matched := ""
		for _, sep := range seps {
			if strings.HasPrefix(text[i:], sep) {
				matched = sep
				break
			}
		}
		if matched == "" {
			i++
			continue
		}
		i += len(matched)
		parts = append(parts, text[start:i])
		start = i
	}
	if start < len(text) {
		parts = append(parts, text[start:])
	}
	return parts
}

// splitRunes yields consecutive runs of at most limit runes.
func splitRunes(text string, limit int, yield func(string) bool) bool {
	for text != "" {
		end, count := 0, 0
		for end < len(text) && count < limit {
			_, size := utf8.DecodeRuneInString(text[end:])
			end += size
			count++
		}
		if !yield(text[:end]) {
			return false
		}
		text = text[end:]
	}
	return true
}

// lastRunes returns the final n runes of s.
func lastRunes(s string, n int) string {
	if n <= 0 || s == "" {
		return ""
	}
	i := len(s)
	for count := 0; i > 0 && count < n; count++ {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return s[i:]
}

func chunkID(index int, content string) string {
	return uuid.NewSHA1(chunkNamespace, []byte(fmt.Sprintf("%d\x00%s", index, content))).String()
}
